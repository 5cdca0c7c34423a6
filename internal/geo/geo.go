// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package geo implements the spherical earth math used to place sample points toward the sun.
package geo

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	EarthRadius   = 6371000.0 // meters
	EarthRadiusKm = EarthRadius / 1000
	MetersPerMile = 1609.34
	KmPerMile     = 1.60934
)

var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Coordinate represents a geographic coordinate in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// NewCoordinate returns a validated Coordinate. Latitudes outside [-90,90], longitudes outside
// [-180,180] and NaN values are rejected with ErrInvalidCoordinate.
func NewCoordinate(lat, lon float64) (Coordinate, error) {
	coord := Coordinate{Lat: lat, Lon: lon}
	if !coord.Valid() {
		return Coordinate{}, fmt.Errorf("%w: latitude %v, longitude %v", ErrInvalidCoordinate, lat, lon)
	}
	return coord, nil
}

// Valid checks if the coordinate is valid according to the EPSG logic
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Distance returns the great-circle distance in meters between two coordinates using the
// Haversine formula.
func (c Coordinate) Distance(other Coordinate) float64 {
	dLat := radians(other.Lat - c.Lat)
	dLon := radians(other.Lon - c.Lon)
	lat1 := radians(c.Lat)
	lat2 := radians(other.Lat)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadius * math.Asin(math.Sqrt(math.Min(1, h)))
}

// Destination projects the coordinate along a great circle for the given distance in meters
// and initial bearing in degrees. The resulting longitude is normalized to [-180,180).
func (c Coordinate) Destination(distance, bearing float64) Coordinate {
	delta := distance / EarthRadius
	theta := radians(bearing)
	lat1 := radians(c.Lat)
	lon1 := radians(c.Lon)

	sinLat2 := math.Sin(lat1)*math.Cos(delta) + math.Cos(lat1)*math.Sin(delta)*math.Cos(theta)
	lat2 := math.Asin(math.Max(-1, math.Min(1, sinLat2)))
	lon2 := lon1 + math.Atan2(math.Sin(theta)*math.Sin(delta)*math.Cos(lat1),
		math.Cos(delta)-math.Sin(lat1)*sinLat2)

	lon := math.Mod(degrees(lon2)+540, 360) - 180
	return Coordinate{Lat: degrees(lat2), Lon: lon}
}

// Bearing returns the initial great-circle bearing in degrees [0,360) from c to other.
func (c Coordinate) Bearing(other Coordinate) float64 {
	lat1 := radians(c.Lat)
	lat2 := radians(other.Lat)
	dLon := radians(other.Lon - c.Lon)
	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	return math.Mod(degrees(math.Atan2(y, x))+360, 360)
}

// Round6 returns the coordinate rounded to 6 decimal places.
func (c Coordinate) Round6() Coordinate {
	return Coordinate{Lat: Round(c.Lat, 6), Lon: Round(c.Lon, 6)}
}

// JoinCoordinates formats the coordinates as parallel comma separated latitude and longitude
// lists with 6 decimal places.
func JoinCoordinates(coords []Coordinate) (lats, lons string) {
	latList := make([]string, len(coords))
	lonList := make([]string, len(coords))
	for i, c := range coords {
		latList[i] = fmt.Sprintf("%.6f", c.Lat)
		lonList[i] = fmt.Sprintf("%.6f", c.Lon)
	}
	return strings.Join(latList, ","), strings.Join(lonList, ",")
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }
