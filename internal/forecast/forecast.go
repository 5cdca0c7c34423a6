// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package forecast interpolates hourly forecast series to an exact instant.
package forecast

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/jgray-dev/swv3-sub000/internal/chain"
	"github.com/jgray-dev/swv3-sub000/internal/weather"
)

var (
	ErrMalformedSeries = errors.New("malformed hourly series")
	ErrInterpolation   = errors.New("interpolation failed")
)

// Sample is the forecast of one sample point at the target instant. Weather values are
// rounded to integers, the coordinate keeps full precision.
type Sample struct {
	Latitude            float64    `json:"latitude"`
	Longitude           float64    `json:"longitude"`
	Zone                chain.Zone `json:"zone"`
	DistanceMiles       float64    `json:"distance"`
	Temperature         int        `json:"temperature_2m"`
	CloudCover          int        `json:"cloud_cover"`
	CloudCoverLow       int        `json:"cloud_cover_low"`
	CloudCoverMid       int        `json:"cloud_cover_mid"`
	CloudCoverHigh      int        `json:"cloud_cover_high"`
	Visibility          int        `json:"visibility"`
	FreezingLevelHeight int        `json:"freezing_level_height"`
}

func (s *Sample) set(v weather.Variable, value int) {
	switch v {
	case weather.Temperature:
		s.Temperature = value
	case weather.CloudCover:
		s.CloudCover = value
	case weather.CloudCoverLow:
		s.CloudCoverLow = value
	case weather.CloudCoverMid:
		s.CloudCoverMid = value
	case weather.CloudCoverHigh:
		s.CloudCoverHigh = value
	case weather.Visibility:
		s.Visibility = value
	case weather.FreezingLevelHeight:
		s.FreezingLevelHeight = value
	}
}

// Bracket returns the indices around target in the ascending times so that
// times[lower] <= target < times[upper]. Targets outside the series collapse onto the first or
// last index. times must not be empty.
func Bracket(times []int64, target int64) (lower, upper int) {
	last := len(times) - 1
	if target <= times[0] {
		return 0, 0
	}
	if target >= times[last] {
		return last, last
	}
	upper = sort.Search(len(times), func(i int) bool { return times[i] > target })
	return upper - 1, upper
}

// Weight returns the clamped position of target between the bracket times. A degenerate
// bracket has weight 0.
func Weight(lowerTime, upperTime, target int64) float64 {
	w := float64(target-lowerTime) / float64(upperTime-lowerTime)
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return 0
	}
	return math.Max(0, math.Min(1, w))
}

// Interpolate linearly interpolates every tracked variable of the record's series to target.
func Interpolate(record chain.ZonedRecord, target int64) (Sample, error) {
	series := record.Hourly
	if len(series.Time) == 0 {
		return Sample{}, fmt.Errorf("%w: no timestamps", ErrMalformedSeries)
	}
	for _, v := range weather.Variables {
		values := series.Values(v)
		if values == nil {
			return Sample{}, fmt.Errorf("%w: missing %s", ErrMalformedSeries, v)
		}
		if len(values) != len(series.Time) {
			return Sample{}, fmt.Errorf("%w: %s has %d values for %d timestamps", ErrMalformedSeries, v,
				len(values), len(series.Time))
		}
	}

	lower, upper := Bracket(series.Time, target)
	w := Weight(series.Time[lower], series.Time[upper], target)

	sample := Sample{
		Latitude:      record.Latitude,
		Longitude:     record.Longitude,
		Zone:          record.Zone,
		DistanceMiles: record.DistanceMiles,
	}
	for _, v := range weather.Variables {
		values := series.Values(v)
		lo, hi := values[lower], values[upper]
		if !finite(lo) || !finite(hi) {
			return Sample{}, fmt.Errorf("%w: %s is not numeric at the target bracket", ErrInterpolation, v)
		}
		value := math.Round(lo + (hi-lo)*w)
		if !finite(value) {
			return Sample{}, fmt.Errorf("%w: %s interpolated to %v", ErrInterpolation, v, value)
		}
		sample.set(v, int(value))
	}
	return sample, nil
}

// InterpolateAll interpolates every record to target. All records must succeed, the failures
// of individual records are joined into one error.
func InterpolateAll(records []chain.ZonedRecord, target int64) ([]Sample, error) {
	samples := make([]Sample, 0, len(records))
	var errs []error
	for i, record := range records {
		sample, err := Interpolate(record, target)
		if err != nil {
			errs = append(errs, fmt.Errorf("point %d (%.6f,%.6f): %w", i, record.Latitude, record.Longitude, err))
			continue
		}
		samples = append(samples, sample)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return samples, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
