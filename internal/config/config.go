// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kkyr/fig"
)

const (
	configEnv         = "SKYSCORE"
	DefaultTextTpl    = "{{.ClassIcon}} {{.Rating}}"
	DefaultTooltipTpl = "{{loc .EventLabel}}: {{.Phrase}} ({{timeFormat .EventTime \"15:04\"}})\n" +
		"{{loc \"Sky quality\"}}: {{.Rating}}/100 ({{loc .Class}})\n" +
		"{{loc \"Location\"}}: {{.City}}\n" +
		"{{loc \"Cloud cover\"}}: {{printf \"%.0f\" .Stats.CloudCover}}% " +
		"({{loc \"low\"}} {{printf \"%.0f\" .Stats.CloudCoverLow}}%, " +
		"{{loc \"mid\"}} {{printf \"%.0f\" .Stats.CloudCoverMid}}%, " +
		"{{loc \"high\"}} {{printf \"%.0f\" .Stats.CloudCoverHigh}}%)\n" +
		"{{loc \"Visibility\"}}: {{km .Stats.Visibility}} km\n" +
		"{{loc \"Temperature\"}}: {{.Stats.Temperature}}°C\n" +
		"{{loc \"Moon phase\"}}: {{.MoonphaseIcon}} {{loc .Moonphase}}\n" +
		"{{loc \"Updated\"}}: {{localizedTime .UpdatedAt}}"
)

// Config represents the application's configuration structure.
type Config struct {
	Locale   string     `fig:"locale"`
	LogLevel slog.Level `fig:"loglevel" default:"0"`
	// Allowed values: sunrise, sunset, next
	Event string `fig:"event" default:"next"`

	Location struct {
		Latitude  float64 `fig:"latitude"`
		Longitude float64 `fig:"longitude"`
		City      string  `fig:"city"`
	} `fig:"location"`

	Weather struct {
		Provider string `fig:"provider" default:"open-meteo"`
		// Allowed values: 1 to 16
		ForecastDays int `fig:"forecast_days" default:"3"`
		// Allowed values: 0 to 92
		PastDays int           `fig:"past_days" default:"1"`
		Timeout  time.Duration `fig:"timeout" default:"10s"`
	} `fig:"weather"`

	Rating struct {
		// Rate the six band averages instead of every chain sample
		ResampleBands bool `fig:"resample_bands"`
	} `fig:"rating"`

	Intervals struct {
		Update time.Duration `fig:"update" default:"15m"`
	} `fig:"intervals"`

	Storage struct {
		Enabled bool   `fig:"enabled"`
		Path    string `fig:"path"`
	} `fig:"storage"`

	Templates struct {
		Text    string `fig:"text"`
		Tooltip string `fig:"tooltip"`
	} `fig:"templates"`
}

func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read Config: %w", err)
	}
	if err = loadDotEnv(); err != nil {
		return conf, err
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func New() (*Config, error) {
	conf := new(Config)
	if err := loadDotEnv(); err != nil {
		return conf, err
	}
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

// loadDotEnv reads a .env file from the working directory into the environment. Variables that
// are already set win, a missing file is ignored.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Event {
	case "sunrise", "sunset", "next":
	default:
		return fmt.Errorf("invalid event type: %s", c.Event)
	}
	lat, lon := c.Location.Latitude, c.Location.Longitude
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return fmt.Errorf("invalid location: %f,%f", lat, lon)
	}
	if c.Weather.Provider != "open-meteo" {
		return fmt.Errorf("unsupported weather provider: %s", c.Weather.Provider)
	}
	if c.Weather.ForecastDays < 1 || c.Weather.ForecastDays > 16 {
		return fmt.Errorf("invalid forecast days: %d", c.Weather.ForecastDays)
	}
	if c.Weather.PastDays < 0 || c.Weather.PastDays > 92 {
		return fmt.Errorf("invalid past days: %d", c.Weather.PastDays)
	}
	if c.Weather.Timeout <= 0 {
		return fmt.Errorf("invalid weather timeout: %s", c.Weather.Timeout)
	}
	if c.Intervals.Update < time.Minute {
		return fmt.Errorf("update interval must be at least one minute: %s", c.Intervals.Update)
	}
	if c.Templates.Text == "" {
		c.Templates.Text = DefaultTextTpl
	}
	if c.Templates.Tooltip == "" {
		c.Templates.Tooltip = DefaultTooltipTpl
	}
	if c.Storage.Enabled && c.Storage.Path == "" {
		home, _ := os.UserHomeDir()
		c.Storage.Path = filepath.Join(home, ".local", "share", "skyscore", "skyscore.db")
	}

	return nil
}
