// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jgray-dev/swv3-sub000/internal/aggregate"
	"github.com/jgray-dev/swv3-sub000/internal/chain"
	"github.com/jgray-dev/swv3-sub000/internal/event"
	"github.com/jgray-dev/swv3-sub000/internal/forecast"
	"github.com/jgray-dev/swv3-sub000/internal/geo"
	"github.com/jgray-dev/swv3-sub000/internal/logger"
	"github.com/jgray-dev/swv3-sub000/internal/rating"
	"github.com/jgray-dev/swv3-sub000/internal/storage"
	"github.com/jgray-dev/swv3-sub000/internal/weather"
)

// Stage names the pipeline step a PipelineError originated from.
type Stage string

const (
	StageInput       Stage = "input"
	StageEvent       Stage = "event"
	StageChain       Stage = "chain"
	StageFetch       Stage = "fetch"
	StageClassify    Stage = "classify"
	StageInterpolate Stage = "interpolate"
	StageRate        Stage = "rate"
	StageAggregate   Stage = "aggregate"
	StageStore       Stage = "store"
	StageRender      Stage = "render"
)

// PipelineError is the single failure a pipeline run returns.
type PipelineError struct {
	Stage Stage
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s stage failed: %s", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Request describes one sky quality computation.
type Request struct {
	Latitude  float64
	Longitude float64
	City      string
	Event     event.Type
}

// Result is the outcome of a successful pipeline run.
type Result struct {
	Latitude   float64           `json:"latitude"`
	Longitude  float64           `json:"longitude"`
	City       string            `json:"city,omitempty"`
	Rating     int               `json:"rating"`
	Event      event.SunEvent    `json:"event"`
	Relation   event.Relation    `json:"relation"`
	Phrase     string            `json:"phrase"`
	Stats      aggregate.Stats   `json:"stats"`
	Samples    []forecast.Sample `json:"samples"`
	ImageID    string            `json:"image_id,omitempty"`
	ComputedAt time.Time         `json:"computed_at"`
}

// Compute runs the scoring pipeline for req. The weather provider is the only I/O before the
// scoring, the store the only one after it.
func (s *Service) Compute(ctx context.Context, req Request) (*Result, error) {
	if _, err := geo.NewCoordinate(req.Latitude, req.Longitude); err != nil {
		return nil, &PipelineError{Stage: StageInput, Err: err}
	}
	now := s.now()
	log := s.logger.With(slog.Float64("lat", req.Latitude), slog.Float64("lon", req.Longitude))

	sunEvent, err := event.Select(event.Candidates(req.Latitude, req.Longitude, now, s.sun), now.Unix(), req.Event)
	if err != nil {
		return nil, &PipelineError{Stage: StageEvent, Err: err}
	}
	log.Debug("sun event selected", slog.String("type", string(sunEvent.Type)),
		slog.Int64("time", sunEvent.Time))

	points, err := chain.NewWithGrid(req.Latitude, req.Longitude, sunEvent.Type, s.grid)
	if err != nil {
		return nil, &PipelineError{Stage: StageChain, Err: err}
	}

	records, err := s.fetchHourly(ctx, points)
	if err != nil {
		return nil, &PipelineError{Stage: StageFetch, Err: err}
	}
	log.Debug("hourly forecast retrieved", slog.String("provider", s.weather.Name()),
		slog.Int("records", len(records)))

	zoned, err := chain.Classify(records, sunEvent.Type, s.grid)
	if err != nil {
		return nil, &PipelineError{Stage: StageClassify, Err: err}
	}

	samples, err := forecast.InterpolateAll(zoned, sunEvent.Time)
	if err != nil {
		return nil, &PipelineError{Stage: StageInterpolate, Err: err}
	}

	rated := samples
	if s.config.Rating.ResampleBands {
		rated = rating.ResampleBands(samples)
	}
	score, err := rating.Rate(rated)
	if err != nil {
		return nil, &PipelineError{Stage: StageRate, Err: err}
	}
	stats, err := aggregate.Average(samples)
	if err != nil {
		return nil, &PipelineError{Stage: StageAggregate, Err: err}
	}
	log.Debug("sky quality rated", slog.Int("rating", score), slog.Int("samples", len(samples)))

	result := &Result{
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		City:       req.City,
		Rating:     score,
		Event:      sunEvent,
		Relation:   event.Classify(now.Unix(), sunEvent.Time),
		Phrase:     event.Phrase(sunEvent.Type, now.Unix(), sunEvent.Time),
		Stats:      stats,
		Samples:    samples,
		ComputedAt: now,
	}

	if s.store != nil {
		upload, err := s.store.Save(ctx, storage.Upload{
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			Rating:    score,
			City:      req.City,
			Data:      stats,
			Time:      sunEvent.Time,
			Type:      sunEvent.Type,
		})
		if err != nil {
			log.Error("failed to store result", logger.Err(err))
			return nil, &PipelineError{Stage: StageStore, Err: err}
		}
		result.ImageID = upload.ImageID
	}

	return result, nil
}

func (s *Service) fetchHourly(ctx context.Context, points []chain.SamplePoint) ([]weather.Record, error) {
	ctxFetch, cancelFetch := context.WithTimeout(ctx, s.config.Weather.Timeout)
	defer cancelFetch()

	records, err := s.weather.GetHourly(ctxFetch, chain.Coordinates(points))
	if err != nil {
		return nil, fmt.Errorf("failed to get hourly forecast: %w", err)
	}
	return records, nil
}
