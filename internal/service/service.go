// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/jgray-dev/swv3-sub000/internal/chain"
	"github.com/jgray-dev/swv3-sub000/internal/config"
	"github.com/jgray-dev/swv3-sub000/internal/event"
	"github.com/jgray-dev/swv3-sub000/internal/i18n"
	"github.com/jgray-dev/swv3-sub000/internal/logger"
	"github.com/jgray-dev/swv3-sub000/internal/presenter"
	"github.com/jgray-dev/swv3-sub000/internal/storage"
	"github.com/jgray-dev/swv3-sub000/internal/weather"
)

const (
	ErrorOutputClass = "error"
	updateJobName    = "sky_quality_update_job"
)

var ErrStorageDisabled = errors.New("storage is disabled")

type outputData struct {
	Text    string  `json:"text"`
	Tooltip string  `json:"tooltip"`
	Class   string  `json:"class"`
	Result  *Result `json:"result,omitempty"`
}

type Service struct {
	config    *config.Config
	logger    *logger.Logger
	presenter *presenter.Presenter
	scheduler gocron.Scheduler
	output    io.Writer

	weather weather.Provider
	sun     event.SunTimeProvider
	store   storage.Store
	grid    chain.Grid
	now     func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithWeatherProvider replaces the configured weather provider.
func WithWeatherProvider(provider weather.Provider) Option {
	return func(s *Service) {
		s.weather = provider
	}
}

// WithSunTimeProvider replaces the astronomical sunrise and sunset calculation.
func WithSunTimeProvider(provider event.SunTimeProvider) Option {
	return func(s *Service) {
		s.sun = provider
	}
}

// WithStore sets the store finished results are saved to.
func WithStore(store storage.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithOutput sets the writer the JSON output is printed to. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(s *Service) {
		s.output = w
	}
}

func New(conf *config.Config, log *logger.Logger, localizer *i18n.Localizer, opts ...Option) (*Service, error) {
	if conf == nil {
		return nil, fmt.Errorf("config is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	present, err := presenter.New(conf.Templates.Text, conf.Templates.Tooltip, localizer)
	if err != nil {
		return nil, fmt.Errorf("failed to create presenter: %w", err)
	}

	service := &Service{
		config:    conf,
		logger:    log,
		presenter: present,
		scheduler: scheduler,
		output:    os.Stdout,
		sun:       event.Astronomical{},
		grid:      chain.DefaultGrid,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}

	if service.weather == nil {
		if service.weather, err = service.selectWeatherProvider(); err != nil {
			return nil, fmt.Errorf("failed to create weather provider: %w", err)
		}
	}
	if service.store == nil && conf.Storage.Enabled {
		if service.store, err = storage.NewDatabase(conf.Storage.Path); err != nil {
			return nil, fmt.Errorf("failed to open storage: %w", err)
		}
	}

	return service, nil
}

// Run prints a fresh result for the configured location right away and then once per update
// interval until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	if err := s.createScheduledJob(ctx, s.config.Intervals.Update, s.printResult, updateJobName); err != nil {
		return err
	}
	s.scheduler.Start()
	s.logger.Info("sky quality watch started", slog.Duration("interval", s.config.Intervals.Update))

	<-ctx.Done()
	return s.scheduler.Shutdown()
}

func (s *Service) createScheduledJob(ctx context.Context, interval time.Duration, task func(context.Context),
	jobName string,
) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithContext(ctx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName(jobName),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", jobName, err)
	}
	return nil
}

// ConfiguredRequest returns the request for the location and event filter of the config.
func (s *Service) ConfiguredRequest() (Request, error) {
	filter, err := event.ParseType(s.config.Event)
	if err != nil {
		return Request{}, err
	}
	return Request{
		Latitude:  s.config.Location.Latitude,
		Longitude: s.config.Location.Longitude,
		City:      s.config.Location.City,
		Event:     filter,
	}, nil
}

// Print computes the result for req and writes it as JSON to the output.
func (s *Service) Print(ctx context.Context, req Request) error {
	result, err := s.Compute(ctx, req)
	if err != nil {
		return err
	}
	output, err := s.render(result)
	if err != nil {
		return &PipelineError{Stage: StageRender, Err: err}
	}
	if err = json.NewEncoder(s.output).Encode(output); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

// printResult is the scheduled task of the watch mode. Failures are printed as an error output
// so the consumer always gets a line per run.
func (s *Service) printResult(ctx context.Context) {
	req, err := s.ConfiguredRequest()
	if err == nil {
		err = s.Print(ctx, req)
	}
	if err == nil {
		return
	}

	s.logger.Error("failed to compute sky quality", logger.Err(err))
	output := outputData{
		Text:    "n/a",
		Tooltip: err.Error(),
		Class:   ErrorOutputClass,
	}
	if err = json.NewEncoder(s.output).Encode(output); err != nil {
		s.logger.Error("failed to encode error output", logger.Err(err))
	}
}

func (s *Service) render(result *Result) (outputData, error) {
	ctx := s.presenter.BuildContext(presenter.Input{
		Latitude:  result.Latitude,
		Longitude: result.Longitude,
		City:      result.City,
		Rating:    result.Rating,
		Event:     result.Event,
		Stats:     result.Stats,
	}, result.ComputedAt)
	rendered, err := s.presenter.Render(ctx)
	if err != nil {
		return outputData{}, err
	}
	return outputData{
		Text:    rendered.Text,
		Tooltip: rendered.Tooltip,
		Class:   rendered.Class,
		Result:  result,
	}, nil
}

// Nearby returns the n stored results closest to the coordinate.
func (s *Service) Nearby(ctx context.Context, lat, lon float64, n int) ([]storage.Upload, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}
	uploads, err := s.store.Nearest(ctx, lat, lon, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query nearby results: %w", err)
	}
	return uploads, nil
}

// Close releases the store.
func (s *Service) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}
