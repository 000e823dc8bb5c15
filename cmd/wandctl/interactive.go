package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/magick-wand/errors"
	"github.com/wippyai/magick-wand/native"
	"github.com/wippyai/magick-wand/registry"
	"github.com/wippyai/magick-wand/wand"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	tableStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#666666"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// eventMsg carries a registry event into the update loop.
type eventMsg registry.Event

// eventPump forwards registry events to the program without blocking the
// goroutine that destroyed or created the wand. Events that do not fit the
// buffer are dropped; the next one delivered triggers a full refresh.
type eventPump struct {
	ch chan registry.Event
}

func (p *eventPump) OnWandEvent(e registry.Event) {
	select {
	case p.ch <- e:
	default:
	}
}

func (p *eventPump) next() tea.Msg {
	return eventMsg(<-p.ch)
}

// browser lists live wands and runs commands against them.
type browser struct {
	err    error
	env    *wand.Environment
	pump   *eventPump
	wands  map[registry.Identity]clonable
	status string
	table  table.Model
	input  textinput.Model
}

// clonable is the part of every wand proxy the browser drives.
type clonable interface {
	ID() registry.Identity
	Destroy() error
	cloneAny() (clonable, error)
}

type pixelItem struct{ *wand.PixelWand }

func (p pixelItem) cloneAny() (clonable, error) {
	c, err := p.Clone()
	if err != nil {
		return nil, err
	}
	return pixelItem{c}, nil
}

type drawingItem struct{ *wand.DrawingWand }

func (d drawingItem) cloneAny() (clonable, error) {
	c, err := d.Clone()
	if err != nil {
		return nil, err
	}
	return drawingItem{c}, nil
}

type magickItem struct{ *wand.MagickWand }

func (m magickItem) cloneAny() (clonable, error) {
	c, err := m.Clone()
	if err != nil {
		return nil, err
	}
	return magickItem{c}, nil
}

func newBrowser(env *wand.Environment) *browser {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 8},
			{Title: "Type", Width: 12},
			{Title: "Handle", Width: 12},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	in := textinput.New()
	in.Placeholder = "pixel red | drawing | magick 64x64 | clone 3 | destroy 3 | destroy magick | destroy all"
	in.Prompt = "> "
	in.Width = 72
	in.Focus()

	b := &browser{
		env:   env,
		pump:  &eventPump{ch: make(chan registry.Event, 64)},
		wands: make(map[registry.Identity]clonable),
		table: t,
		input: in,
	}
	b.refresh()
	return b
}

func (b *browser) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, b.pump.next)
}

func (b *browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return b, tea.Quit
		case "up", "down":
			var cmd tea.Cmd
			b.table, cmd = b.table.Update(msg)
			return b, cmd
		case "enter":
			line := strings.TrimSpace(b.input.Value())
			b.input.SetValue("")
			if line == "q" || line == "quit" {
				return b, tea.Quit
			}
			b.status, b.err = b.exec(line)
			return b, nil
		}

	case eventMsg:
		if msg.Type == registry.EventDestroyed {
			delete(b.wands, msg.ID)
		}
		b.refresh()
		return b, b.pump.next
	}

	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	return b, cmd
}

// exec runs one command line and returns a status message.
func (b *browser) exec(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch fields[0] {
	case "pixel":
		p, err := b.env.NewPixelWand()
		if err != nil {
			return "", err
		}
		b.wands[p.ID()] = pixelItem{p}
		if arg != "" {
			if err := p.SetColor(arg); err != nil {
				return "", err
			}
		}
		return fmt.Sprintf("pixel wand %d", p.ID()), nil

	case "drawing":
		d, err := b.env.NewDrawingWand()
		if err != nil {
			return "", err
		}
		b.wands[d.ID()] = drawingItem{d}
		return fmt.Sprintf("drawing wand %d", d.ID()), nil

	case "magick":
		m, err := b.env.NewMagickWand()
		if err != nil {
			return "", err
		}
		b.wands[m.ID()] = magickItem{m}
		if arg != "" {
			var cols, rows uint
			if _, err := fmt.Sscanf(arg, "%dx%d", &cols, &rows); err != nil {
				return "", fmt.Errorf("size must be WxH: %w", err)
			}
			if err := newCanvas(b.env, m, renderOptions{width: cols, height: rows, background: "white"}); err != nil {
				return "", err
			}
		}
		return fmt.Sprintf("magick wand %d", m.ID()), nil

	case "clone":
		w, err := b.lookup(arg)
		if err != nil {
			return "", err
		}
		c, err := w.cloneAny()
		if err != nil {
			return "", err
		}
		b.wands[c.ID()] = c
		return fmt.Sprintf("cloned %d as %d", w.ID(), c.ID()), nil

	case "destroy":
		return b.destroy(arg)

	case "fonts":
		if arg == "" {
			arg = "*"
		}
		names, err := b.env.QueryFonts(arg)
		if err != nil {
			return "", err
		}
		return strings.Join(names, ", "), nil
	}
	return "", fmt.Errorf("unknown command %q", fields[0])
}

func (b *browser) destroy(arg string) (string, error) {
	switch arg {
	case "all":
		return "destroyed every wand", b.env.DestroyWands()
	case "pixel":
		return "destroyed pixel wands", b.env.DestroyWandType(native.PixelWand)
	case "drawing":
		return "destroyed drawing wands", b.env.DestroyWandType(native.DrawingWand)
	case "magick":
		return "destroyed magick wands", b.env.DestroyWandType(native.MagickWand)
	}
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return "", fmt.Errorf("destroy takes an identity, a wand type or all")
	}
	return fmt.Sprintf("destroyed %d", id), b.env.DestroyWandID(registry.Identity(id))
}

func (b *browser) lookup(arg string) (clonable, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad identity %q", arg)
	}
	w, ok := b.wands[registry.Identity(id)]
	if !ok {
		return nil, errors.NotFound(errors.PhaseCall, "wand", arg)
	}
	return w, nil
}

// refresh rebuilds the table from the registry and forgets wands it no longer
// holds. Events can be dropped or interleave across identities, so the
// registry, not the event stream, is the source of truth.
func (b *browser) refresh() {
	var rows []table.Row
	live := make(map[registry.Identity]bool, len(b.wands))
	b.env.Registry().Each(func(id registry.Identity, t native.WandType, h native.Handle) bool {
		live[id] = true
		rows = append(rows, table.Row{
			strconv.FormatUint(uint64(id), 10),
			t.String(),
			fmt.Sprintf("%#x", uintptr(h)),
		})
		return true
	})
	for id := range b.wands {
		if !live[id] {
			delete(b.wands, id)
		}
	}
	b.table.SetRows(rows)
}

func (b *browser) View() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("Wand Browser"))
	s.WriteString(fmt.Sprintf(" %d live\n\n", len(b.table.Rows())))
	s.WriteString(tableStyle.Render(b.table.View()))
	s.WriteString("\n\n")
	s.WriteString(b.input.View())
	s.WriteString("\n\n")
	if b.err != nil {
		s.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", b.err)))
	} else if b.status != "" {
		s.WriteString(resultStyle.Render(b.status))
	}
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("enter run • ↑/↓ scroll • esc quit"))
	return s.String()
}

func runInteractive(env *wand.Environment) error {
	b := newBrowser(env)
	cancel := env.Registry().Subscribe(b.pump)
	defer cancel()

	_, err := tea.NewProgram(b, tea.WithAltScreen()).Run()
	return err
}
