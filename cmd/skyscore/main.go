// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package main implements the skyscore command.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jgray-dev/swv3-sub000/internal/config"
	"github.com/jgray-dev/swv3-sub000/internal/i18n"
	"github.com/jgray-dev/swv3-sub000/internal/logger"
	"github.com/jgray-dev/swv3-sub000/internal/service"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGABRT, os.Interrupt)
	defer cancel()

	log := logger.New(slog.LevelError)

	confPath := flag.String("config", "", "path to the config file")
	lat := flag.Float64("lat", math.NaN(), "latitude of the observer, overrides the config")
	lon := flag.Float64("lon", math.NaN(), "longitude of the observer, overrides the config")
	eventType := flag.String("type", "", "sun event to rate: sunrise, sunset or next")
	watch := flag.Bool("watch", false, "keep running and print a fresh result every update interval")
	nearby := flag.Int("nearby", 0, "print the N stored results nearest to the location and exit")
	flag.Parse()

	conf, err := loadConfig(*confPath)
	if err != nil {
		log.Error("failed to load config", logger.Err(err))
		return 1
	}

	if !math.IsNaN(*lat) || !math.IsNaN(*lon) {
		conf.Location.City = ""
	}
	if !math.IsNaN(*lat) {
		conf.Location.Latitude = *lat
	}
	if !math.IsNaN(*lon) {
		conf.Location.Longitude = *lon
	}
	if *eventType != "" {
		conf.Event = *eventType
	}

	log = logger.New(conf.LogLevel)
	t, err := i18n.New(conf.Locale)
	if err != nil {
		log.Error("failed to initialize localizer", logger.Err(err))
		return 1
	}

	serv, err := service.New(conf, log, t)
	if err != nil {
		log.Error("failed to initialize skyscore service", logger.Err(err))
		return 1
	}
	defer func() {
		if err := serv.Close(); err != nil {
			log.Error("failed to close storage", logger.Err(err))
		}
	}()

	req, err := serv.ConfiguredRequest()
	if err != nil {
		log.Error("invalid event type", logger.Err(err))
		return 1
	}

	switch {
	case *nearby > 0:
		uploads, err := serv.Nearby(ctx, req.Latitude, req.Longitude, *nearby)
		if err != nil {
			log.Error("failed to query nearby results", logger.Err(err))
			return 1
		}
		if err = json.NewEncoder(os.Stdout).Encode(uploads); err != nil {
			log.Error("failed to encode nearby results", logger.Err(err))
			return 1
		}
	case *watch:
		log.Info(t.Get("starting skyscore"), slog.String("version", version),
			slog.String("commit", commit), slog.String("date", date))
		if err = serv.Run(ctx); err != nil {
			log.Error("failed to run skyscore service", logger.Err(err))
			return 1
		}
		log.Info(t.Get("shutting down skyscore"))
	default:
		if err = serv.Print(ctx, req); err != nil {
			log.Error("failed to compute sky quality", logger.Err(err))
			return 1
		}
	}
	return 0
}

// loadConfig reads the config file given on the command line, the one in the default location
// or only the environment, in that order.
func loadConfig(confPath string) (*config.Config, error) {
	if confPath != "" {
		return config.NewFromFile(filepath.Dir(confPath), filepath.Base(confPath))
	}
	if path, file := findConfigFile(); path != "" && file != "" {
		return config.NewFromFile(path, file)
	}
	return config.New()
}

func findConfigFile() (string, string) {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return "", ""
	}
	exts := []string{"toml", "yaml", "yml", "json"}
	for _, ext := range exts {
		path := filepath.Join(homedir, ".config", "skyscore", "config."+ext)
		if _, err = os.Stat(path); err == nil {
			return filepath.Dir(path), filepath.Base(path)
		}
	}
	return "", ""
}
