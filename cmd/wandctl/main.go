package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/magick-wand/config"
	"github.com/wippyai/magick-wand/logging"
	"github.com/wippyai/magick-wand/wand"
)

func main() {
	var (
		envFile     = flag.String("env", ".env", "Optional dotenv file loaded before the environment is read")
		input       = flag.String("in", "", "Image file to read (a blank canvas is created when empty)")
		output      = flag.String("out", "", "Image file to write (the result is round-tripped in memory when empty)")
		width       = flag.Uint("width", 320, "Canvas width")
		height      = flag.Uint("height", 80, "Canvas height")
		background  = flag.String("bg", "white", "Canvas color")
		text        = flag.String("text", "", "Text to annotate")
		font        = flag.String("font", "Inconsolata", "Annotation font")
		fill        = flag.String("fill", "black", "Annotation color")
		resize      = flag.String("resize", "", "Resize to WxH")
		filter      = flag.String("filter", "Lanczos", "Resize filter")
		quality     = flag.Uint("quality", 0, "Compression quality for lossy formats (0 keeps the default)")
		fonts       = flag.String("fonts", "", "List fonts matching a pattern and exit")
		interactive = flag.Bool("i", false, "Interactive wand browser")
	)
	flag.Parse()

	if err := loadDotenv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.Logging())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	wand.SetLogger(log)

	env, err := openEnvironment(cfg, log)
	if err != nil {
		log.Error("initialize", zap.String("backend", cfg.Backend), zap.Error(err))
		os.Exit(1)
	}
	defer env.Terminate()

	switch {
	case *fonts != "":
		err = listFonts(os.Stdout, env, *fonts)
	case *interactive:
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: -i needs a terminal")
			os.Exit(1)
		}
		err = runInteractive(env)
	default:
		err = render(os.Stdout, env, renderOptions{
			input:      *input,
			output:     *output,
			width:      *width,
			height:     *height,
			background: *background,
			text:       *text,
			font:       *font,
			fill:       *fill,
			resize:     *resize,
			filter:     *filter,
			quality:    *quality,
		})
	}
	if err != nil {
		log.Error("wandctl failed", zap.Error(err))
		env.Terminate()
		os.Exit(1)
	}
}

// loadDotenv loads path when it exists. A missing file is not an error.
func loadDotenv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func openEnvironment(cfg config.Config, log *zap.Logger) (*wand.Environment, error) {
	lib, err := openBackend(cfg.Backend)
	if err != nil {
		return nil, err
	}
	return wand.Initialize(lib,
		wand.WithLogger(log.Named("wand")),
		wand.WithResourceLimits(resourceLimits(cfg.Limits)))
}

// resourceLimits maps the configured limits, skipping unset ones.
func resourceLimits(l config.Limits) map[wand.ResourceType]uint64 {
	limits := make(map[wand.ResourceType]uint64)
	for rt, v := range map[wand.ResourceType]uint64{
		wand.AreaResource:       l.Area,
		wand.MemoryResource:     l.Memory,
		wand.WidthResource:      l.Width,
		wand.HeightResource:     l.Height,
		wand.ListLengthResource: l.ListLength,
	} {
		if v != 0 {
			limits[rt] = v
		}
	}
	return limits
}

func listFonts(w io.Writer, env *wand.Environment, pattern string) error {
	names, err := env.QueryFonts(pattern)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, strings.Join(names, "\n"))
	return nil
}
