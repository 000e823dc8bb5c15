// Package config loads wandctl settings from the environment.
package config

import (
	"github.com/caarlos0/env/v11"

	"github.com/wippyai/magick-wand/errors"
	"github.com/wippyai/magick-wand/logging"
)

// Backends.
const (
	BackendSoftware   = "software"
	BackendMagickWand = "magickwand"
)

// Config is the process configuration. Zero limits leave the native default
// in place.
type Config struct {
	Backend string `env:"MAGICKWAND_BACKEND" envDefault:"software"`

	LogLevel      string `env:"MAGICKWAND_LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"MAGICKWAND_LOG_FORMAT" envDefault:"console"`
	LogFile       string `env:"MAGICKWAND_LOG_FILE"`
	LogMaxSizeMB  int    `env:"MAGICKWAND_LOG_MAX_SIZE_MB"`
	LogMaxBackups int    `env:"MAGICKWAND_LOG_MAX_BACKUPS"`
	LogMaxAgeDays int    `env:"MAGICKWAND_LOG_MAX_AGE_DAYS"`
	LogCompress   bool   `env:"MAGICKWAND_LOG_COMPRESS" envDefault:"true"`

	Limits Limits `envPrefix:"MAGICKWAND_LIMIT_"`
}

// Limits are native resource limits.
type Limits struct {
	Area       uint64 `env:"AREA"`
	Memory     uint64 `env:"MEMORY"`
	Width      uint64 `env:"WIDTH"`
	Height     uint64 `env:"HEIGHT"`
	ListLength uint64 `env:"LIST_LENGTH"`
}

// Load parses the environment and validates the backend name.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse environment")
	}
	switch cfg.Backend {
	case BackendSoftware, BackendMagickWand:
	default:
		return Config{}, errors.InvalidEnum(errors.PhaseConfig, cfg.Backend, "backend")
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "MAGICKWAND_LOG_LEVEL")
	}
	return cfg, nil
}

// Logging returns the logger settings.
func (c Config) Logging() logging.Config {
	return logging.Config{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		File:       c.LogFile,
		MaxSizeMB:  c.LogMaxSizeMB,
		MaxBackups: c.LogMaxBackups,
		MaxAgeDays: c.LogMaxAgeDays,
		Compress:   c.LogCompress,
	}
}
