// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package chain places the sample points toward the sun and maps forecast records back onto
// the distance grid.
package chain

import (
	"errors"
	"fmt"

	"github.com/jgray-dev/swv3-sub000/internal/event"
	"github.com/jgray-dev/swv3-sub000/internal/geo"
)

var ErrEmptyGrid = errors.New("distance grid is empty")

// Zone is the proximity class of a sample point.
type Zone string

const (
	ZoneNear    Zone = "near"
	ZoneHorizon Zone = "horizon"
	ZoneFar     Zone = "far"
)

// GridEntry is the zone and distance assigned to one position of the chain.
type GridEntry struct {
	Zone          Zone
	DistanceMiles float64
}

// Grid is the positional lookup table of zones and distances.
type Grid []GridEntry

// DefaultGrid holds the twelve sampling distances, denser close to the observer.
var DefaultGrid = Grid{
	{ZoneNear, 0}, {ZoneNear, 3},
	{ZoneHorizon, 5}, {ZoneHorizon, 6.5}, {ZoneHorizon, 8}, {ZoneHorizon, 9.5}, {ZoneHorizon, 11},
	{ZoneHorizon, 13},
	{ZoneFar, 15}, {ZoneFar, 18}, {ZoneFar, 21}, {ZoneFar, 24},
}

// Entry returns the grid entry for index i. Indices past the end get the last entry.
func (g Grid) Entry(i int) GridEntry {
	if i >= len(g) {
		i = len(g) - 1
	}
	if i < 0 {
		i = 0
	}
	return g[i]
}

// SamplePoint is a location along the sun's bearing at which the forecast is evaluated.
type SamplePoint struct {
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Zone          Zone    `json:"zone"`
	DistanceMiles float64 `json:"distance"`
}

func (p SamplePoint) Coordinate() geo.Coordinate {
	return geo.Coordinate{Lat: p.Latitude, Lon: p.Longitude}
}

// New returns the sample points of DefaultGrid for the origin and event type.
func New(lat, lon float64, eventType event.Type) ([]SamplePoint, error) {
	return NewWithGrid(lat, lon, eventType, DefaultGrid)
}

// NewWithGrid projects one sample point per grid entry from the origin toward the bearing of the
// event type. Coordinates are rounded to 6 decimal places.
func NewWithGrid(lat, lon float64, eventType event.Type, grid Grid) ([]SamplePoint, error) {
	origin, err := geo.NewCoordinate(lat, lon)
	if err != nil {
		return nil, err
	}
	bearing, err := eventType.Bearing()
	if err != nil {
		return nil, err
	}
	if len(grid) == 0 {
		return nil, ErrEmptyGrid
	}

	points := make([]SamplePoint, len(grid))
	for i, entry := range grid {
		dest := origin.Destination(entry.DistanceMiles*geo.MetersPerMile, bearing).Round6()
		points[i] = SamplePoint{
			Latitude:      dest.Lat,
			Longitude:     dest.Lon,
			Zone:          entry.Zone,
			DistanceMiles: entry.DistanceMiles,
		}
	}
	return points, nil
}

// Coordinates returns the coordinates of the points in order.
func Coordinates(points []SamplePoint) []geo.Coordinate {
	coords := make([]geo.Coordinate, len(points))
	for i, p := range points {
		coords[i] = p.Coordinate()
	}
	return coords
}

// QueryCoordinates formats the points as the comma separated latitude and longitude lists of
// a weather provider query.
func QueryCoordinates(points []SamplePoint) (lats, lons string) {
	return geo.JoinCoordinates(Coordinates(points))
}

func (p SamplePoint) String() string {
	return fmt.Sprintf("%s@%gmi(%.6f,%.6f)", p.Zone, p.DistanceMiles, p.Latitude, p.Longitude)
}
