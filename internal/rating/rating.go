// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package rating scores how spectacular a sunrise or sunset is expected to be.
package rating

import (
	"errors"
	"fmt"
	"math"

	"github.com/jgray-dev/swv3-sub000/internal/forecast"
	"github.com/jgray-dev/swv3-sub000/internal/geo"
)

const (
	// Cloud layer altitudes in meters.
	LowCloudHeight  = 2000.0
	MidCloudHeight  = 5000.0
	HighCloudHeight = 9000.0

	nearBandMiles    = 20.0
	horizonBandMiles = 60.0
	lightBandMiles   = 40.0

	peakHighCover = 70.0
	peakMidCover  = 40.0

	cloudShare      = 0.6
	visibilityShare = 0.4
	finalShare      = 0.7
	lightShare      = 0.3
	nearLightWeight = 0.3
	farLightWeight  = 0.7
	distanceFalloff = 60.0
	sigmoidSlope    = 0.07
)

var (
	ErrNoSamples    = errors.New("no samples to rate")
	ErrInvalidScore = errors.New("score is not a number")
)

// Bands are the canonical scoring distances in miles.
var Bands = []float64{0, 20, 40, 60, 80, 100}

// Rate returns the sky quality score in [0,100] for the samples. Every sample is scored at its
// own distance.
func Rate(samples []forecast.Sample) (int, error) {
	if len(samples) == 0 {
		return 0, ErrNoSamples
	}

	var weighted, totalWeight float64
	for _, s := range samples {
		w := math.Exp(-s.DistanceMiles / distanceFalloff)
		combined := CloudScore(s)*cloudShare + VisibilityScore(s)*visibilityShare
		weighted += combined * w
		totalWeight += w
	}
	final := weighted / totalWeight
	light := LightScore(samples)

	blended := final*finalShare + light*lightShare
	score := 100 / (1 + math.Exp(-sigmoidSlope*(blended-50)))
	if math.IsNaN(score) {
		return 0, fmt.Errorf("%w: final %v, light %v", ErrInvalidScore, final, light)
	}
	return int(math.Round(clamp(score, 0, 100))), nil
}

// CloudScore rates the cloud layers of a sample for its distance band.
func CloudScore(s forecast.Sample) float64 {
	low := float64(s.CloudCoverLow)
	mid := float64(s.CloudCoverMid)
	high := float64(s.CloudCoverHigh)
	d := s.DistanceMiles

	switch {
	case d <= nearBandMiles:
		lowPenalty := math.Pow(low/100, 2) * 100
		midPenalty := math.Pow(mid/100, 1.5) * 50
		return math.Max(0, 100-lowPenalty-midPenalty)
	case d <= horizonBandMiles:
		lowPenalty := math.Pow(low/100, 2) * 70
		return (highReward(high)*0.6 + midReward(mid)*0.4) * (1 - lowPenalty/100)
	default:
		switch h := ReflectionHeight(d); {
		case h < LowCloudHeight:
			return clamp(100-low, 0, 100)
		case h < MidCloudHeight:
			return math.Min(mid/peakMidCover, 1) * 100
		default:
			return math.Min(high/peakHighCover, 1) * 100
		}
	}
}

// ReflectionHeight returns the cloud height in meters that reflects light toward an observer
// at the given distance.
func ReflectionHeight(distanceMiles float64) float64 {
	dKm := distanceMiles * geo.KmPerMile
	angle := math.Atan2(dKm, geo.EarthRadiusKm)
	return dKm * 1000 * math.Tan(angle)
}

// highReward follows a sine arc over [0,70] and decays linearly from the arc's endpoint
// to 0 at full cover.
func highReward(high float64) float64 {
	if high <= peakHighCover {
		return math.Sin(high/peakHighCover*math.Pi) * 100
	}
	end := math.Sin(math.Pi) * 100
	return math.Max(0, end*(1-(high-peakHighCover)/(100-peakHighCover)))
}

func midReward(mid float64) float64 {
	if mid <= peakMidCover {
		return mid / peakMidCover * 100
	}
	return math.Max(0, 100-(mid-peakMidCover)/(100-peakMidCover)*100)
}

// VisibilityScore rates the visibility of a sample. Visibility is forgiven more the farther
// the sample is away: the forgiveness weight scales the penalty 100-raw, so a clear chain stays
// near the top of the range.
func VisibilityScore(s forecast.Sample) float64 {
	dKm := s.DistanceMiles * geo.KmPerMile
	visKm := float64(s.Visibility) / 1000
	raw := 0.0
	if visKm > 0 {
		raw = math.Exp(-dKm/visKm) * 100
	}
	forgiveness := math.Max(0.3, 1-s.DistanceMiles/100)
	return 100 - (100-raw)*forgiveness
}

// LightScore rewards a clear near field in front of a reflective far field. Each sample is
// paired with its successor, the last one with itself. The result is the weighted mean of the
// pair terms, so a chain inside one band scores its plain term average.
func LightScore(samples []forecast.Sample) float64 {
	var sum, weights float64
	for i, s := range samples {
		next := samples[min(i+1, len(samples)-1)]
		if s.DistanceMiles < lightBandMiles {
			sum += (clearness(s) + clearness(next)) / 2 * nearLightWeight
			weights += nearLightWeight
			continue
		}
		sum += (reflectiveness(s) + reflectiveness(next)) / 2 * farLightWeight
		weights += farLightWeight
	}
	if weights == 0 {
		return 0
	}
	return sum / weights
}

func clearness(s forecast.Sample) float64 {
	return (1 - float64(s.CloudCoverLow)/100) * (1 - float64(s.CloudCoverMid)/100) * 100
}

func reflectiveness(s forecast.Sample) float64 {
	return math.Min(float64(s.CloudCoverHigh), peakHighCover) / peakHighCover * 100
}

// ResampleBands reduces samples onto the canonical Bands. Up to len(Bands) samples are mapped
// positionally, longer lists are split into contiguous groups whose values are averaged. Rate
// does not resample on its own.
func ResampleBands(samples []forecast.Sample) []forecast.Sample {
	n := len(samples)
	if n == 0 {
		return nil
	}
	if n <= len(Bands) {
		out := make([]forecast.Sample, n)
		for i, s := range samples {
			s.DistanceMiles = Bands[i]
			out[i] = s
		}
		return out
	}

	out := make([]forecast.Sample, len(Bands))
	for b := range Bands {
		start := b * n / len(Bands)
		end := (b + 1) * n / len(Bands)
		out[b] = mean(samples[start:end])
		out[b].DistanceMiles = Bands[b]
	}
	return out
}

func mean(group []forecast.Sample) forecast.Sample {
	first := group[0]
	var lat, lon, temp, cc, low, mid, high, vis, fl float64
	for _, s := range group {
		lat += s.Latitude
		lon += s.Longitude
		temp += float64(s.Temperature)
		cc += float64(s.CloudCover)
		low += float64(s.CloudCoverLow)
		mid += float64(s.CloudCoverMid)
		high += float64(s.CloudCoverHigh)
		vis += float64(s.Visibility)
		fl += float64(s.FreezingLevelHeight)
	}
	n := float64(len(group))
	avg := func(v float64) int { return int(math.Round(v / n)) }
	return forecast.Sample{
		Latitude:            lat / n,
		Longitude:           lon / n,
		Zone:                first.Zone,
		Temperature:         avg(temp),
		CloudCover:          avg(cc),
		CloudCoverLow:       avg(low),
		CloudCoverMid:       avg(mid),
		CloudCoverHigh:      avg(high),
		Visibility:          avg(vis),
		FreezingLevelHeight: avg(fl),
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
