// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package aggregate reduces the interpolated samples of a request into display statistics.
package aggregate

import (
	"errors"

	"github.com/jgray-dev/swv3-sub000/internal/chain"
	"github.com/jgray-dev/swv3-sub000/internal/forecast"
)

var ErrEmptySampleSet = errors.New("no samples to aggregate")

// Stats holds the cloud cover averaged across all samples. Visibility, temperature, freezing
// level and zone are those of the first sample, the observer location.
type Stats struct {
	CloudCover          float64    `json:"cloud_cover"`
	CloudCoverLow       float64    `json:"cloud_cover_low"`
	CloudCoverMid       float64    `json:"cloud_cover_mid"`
	CloudCoverHigh      float64    `json:"cloud_cover_high"`
	Visibility          int        `json:"visibility"`
	Temperature         int        `json:"temperature_2m"`
	FreezingLevelHeight int        `json:"freezing_level_height"`
	Zone                chain.Zone `json:"zone"`
}

// Average returns the Stats of the samples. The observer values come from samples[0], which is
// the origin for sunset chains but the farthest point for sunrise chains ordered by
// chain.Classify.
func Average(samples []forecast.Sample) (Stats, error) {
	if len(samples) == 0 {
		return Stats{}, ErrEmptySampleSet
	}

	var cc, low, mid, high float64
	for _, s := range samples {
		cc += float64(s.CloudCover)
		low += float64(s.CloudCoverLow)
		mid += float64(s.CloudCoverMid)
		high += float64(s.CloudCoverHigh)
	}
	n := float64(len(samples))
	first := samples[0]

	return Stats{
		CloudCover:          cc / n,
		CloudCoverLow:       low / n,
		CloudCoverMid:       mid / n,
		CloudCoverHigh:      high / n,
		Visibility:          first.Visibility,
		Temperature:         first.Temperature,
		FreezingLevelHeight: first.FreezingLevelHeight,
		Zone:                first.Zone,
	}, nil
}
