// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"context"
	"errors"

	"github.com/jgray-dev/swv3-sub000/internal/geo"
)

var ErrInvalidAPIResponse = errors.New("invalid weather API response")

// Provider is implemented by each weather API backend.
type Provider interface {
	Name() string
	GetHourly(ctx context.Context, coords []geo.Coordinate) ([]Record, error)
}

// Variable names an hourly forecast variable.
type Variable string

const (
	Temperature         Variable = "temperature_2m"
	CloudCover          Variable = "cloud_cover"
	CloudCoverLow       Variable = "cloud_cover_low"
	CloudCoverMid       Variable = "cloud_cover_mid"
	CloudCoverHigh      Variable = "cloud_cover_high"
	Visibility          Variable = "visibility"
	FreezingLevelHeight Variable = "freezing_level_height"
)

// Variables lists every tracked hourly variable in request order.
var Variables = []Variable{
	Temperature, CloudCover, CloudCoverLow, CloudCoverMid, CloudCoverHigh, Visibility,
	FreezingLevelHeight,
}

// HourlySeries holds the hourly forecast of one coordinate. Time is ascending Unix seconds and
// every variable slice runs parallel to it. Visibility is in meters.
type HourlySeries struct {
	Time                []int64   `json:"time"`
	Temperature         []float64 `json:"temperature_2m"`
	CloudCover          []float64 `json:"cloud_cover"`
	CloudCoverLow       []float64 `json:"cloud_cover_low"`
	CloudCoverMid       []float64 `json:"cloud_cover_mid"`
	CloudCoverHigh      []float64 `json:"cloud_cover_high"`
	Visibility          []float64 `json:"visibility"`
	FreezingLevelHeight []float64 `json:"freezing_level_height"`
}

// Values returns the series of the given variable or nil if the variable is unknown or missing.
func (s HourlySeries) Values(v Variable) []float64 {
	switch v {
	case Temperature:
		return s.Temperature
	case CloudCover:
		return s.CloudCover
	case CloudCoverLow:
		return s.CloudCoverLow
	case CloudCoverMid:
		return s.CloudCoverMid
	case CloudCoverHigh:
		return s.CloudCoverHigh
	case Visibility:
		return s.Visibility
	case FreezingLevelHeight:
		return s.FreezingLevelHeight
	default:
		return nil
	}
}

// Record is the hourly forecast for one coordinate as returned by a Provider.
type Record struct {
	Latitude  float64      `json:"latitude"`
	Longitude float64      `json:"longitude"`
	Hourly    HourlySeries `json:"hourly"`
}

func (r Record) Coordinate() geo.Coordinate {
	return geo.Coordinate{Lat: r.Latitude, Lon: r.Longitude}
}
