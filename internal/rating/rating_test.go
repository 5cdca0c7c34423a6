// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package rating

import (
	"errors"
	"math"
	"testing"

	"github.com/jgray-dev/swv3-sub000/internal/forecast"
	"github.com/jgray-dev/swv3-sub000/internal/geo"
)

var chainDistances = []float64{0, 3, 5, 6.5, 8, 9.5, 11, 13, 15, 18, 21, 24}

func uniform(distances []float64, low, mid, high, visibility int) []forecast.Sample {
	samples := make([]forecast.Sample, len(distances))
	for i, d := range distances {
		samples[i] = forecast.Sample{
			DistanceMiles:  d,
			CloudCoverLow:  low,
			CloudCoverMid:  mid,
			CloudCoverHigh: high,
			Visibility:     visibility,
		}
	}
	return samples
}

func TestRate(t *testing.T) {
	tests := []struct {
		name    string
		samples []forecast.Sample
		want    int
	}{
		{"clear skies along the chain", uniform(chainDistances, 0, 0, 0, 24140), 91},
		{"clear skies with long visibility", uniform(chainDistances, 0, 0, 0, 50000), 93},
		{"low overcast", uniform(chainDistances, 100, 0, 0, 24140), 9},
		{"fully overcast without visibility", uniform(chainDistances, 100, 100, 100, 0), 4},
		{"a single clear sample", uniform([]float64{0}, 0, 0, 0, 24140), 97},
		{"clear skies on the canonical bands", uniform(Bands, 0, 0, 0, 24140), 46},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Rate(tc.samples)
			if err != nil {
				t.Fatalf("failed to rate samples: %s", err)
			}
			if got != tc.want {
				t.Errorf("expected score to be %d, got %d", tc.want, got)
			}
		})
	}
}

func TestRate_bounds(t *testing.T) {
	t.Run("clear skies rate near the ceiling", func(t *testing.T) {
		got, err := Rate(uniform(chainDistances, 0, 0, 0, 24140))
		if err != nil {
			t.Fatalf("failed to rate samples: %s", err)
		}
		if got < 85 {
			t.Errorf("expected clear skies to score at least 85, got %d", got)
		}
	})
	t.Run("scores stay within 0 and 100", func(t *testing.T) {
		for low := 0; low <= 100; low += 25 {
			for high := 0; high <= 100; high += 25 {
				for _, vis := range []int{0, 1000, 24140, 100000} {
					got, err := Rate(uniform(Bands, low, 50, high, vis))
					if err != nil {
						t.Fatalf("failed to rate samples: %s", err)
					}
					if got < 0 || got > 100 {
						t.Errorf("expected score to be within [0,100], got %d", got)
					}
				}
			}
		}
	})
	t.Run("no samples fail", func(t *testing.T) {
		if _, err := Rate(nil); !errors.Is(err, ErrNoSamples) {
			t.Errorf("expected error to be %s, got %v", ErrNoSamples, err)
		}
	})
	t.Run("a NaN distance fails instead of scoring 0", func(t *testing.T) {
		samples := uniform([]float64{0, math.NaN()}, 0, 0, 0, 24140)
		if _, err := Rate(samples); !errors.Is(err, ErrInvalidScore) {
			t.Errorf("expected error to be %s, got %v", ErrInvalidScore, err)
		}
	})
}

func TestCloudScore(t *testing.T) {
	tests := []struct {
		name           string
		distance       float64
		low, mid, high int
		want           float64
	}{
		{"full low cover blocks the near band", 0, 100, 0, 0, 0},
		{"near band penalizes low and mid clouds", 10, 50, 40, 0, 62.3509},
		{"horizon band rewards high and mid clouds", 30, 0, 20, 35, 80},
		{"horizon band decays past the peaks", 50, 50, 70, 80, 16.5},
		{"far band below the low layer uses low clouds", 65, 10, 30, 14, 90},
		{"far band within the mid layer uses mid clouds", 80, 10, 30, 14, 75},
		{"far band above the mid layer uses high clouds", 150, 10, 30, 14, 20},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := forecast.Sample{
				DistanceMiles:  tc.distance,
				CloudCoverLow:  tc.low,
				CloudCoverMid:  tc.mid,
				CloudCoverHigh: tc.high,
			}
			if got := CloudScore(s); math.Abs(got-tc.want) > 0.001 {
				t.Errorf("expected cloud score to be %f, got %f", tc.want, got)
			}
		})
	}
}

func TestReflectionHeight(t *testing.T) {
	tests := []struct {
		distance float64
		want     float64
	}{
		{80, 2602}, {100, 4065}, {150, 9147},
	}
	for _, tc := range tests {
		if got := ReflectionHeight(tc.distance); math.Abs(got-tc.want) > 1 {
			t.Errorf("expected reflection height at %f miles to be %f, got %f", tc.distance, tc.want, got)
		}
	}
}

func TestVisibilityScore(t *testing.T) {
	tests := []struct {
		name       string
		distance   float64
		visibility int
		want       float64
	}{
		{"the observer location is never penalized", 0, 24140, 100},
		{"attenuation over distance", 10, 10000, 28.0018},
		{"no visibility keeps the forgiven share", 10, 0, 10},
		{"forgiveness bottoms out at long range", 200, 1000, 70},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := forecast.Sample{DistanceMiles: tc.distance, Visibility: tc.visibility}
			if got := VisibilityScore(s); math.Abs(got-tc.want) > 0.001 {
				t.Errorf("expected visibility score to be %f, got %f", tc.want, got)
			}
		})
	}
}

func TestVisibilityScore_forgiveness(t *testing.T) {
	t.Run("forgiveness shrinks the penalty, not the score", func(t *testing.T) {
		s := forecast.Sample{DistanceMiles: 24, Visibility: 24140}
		raw := math.Exp(-24*geo.KmPerMile/24.14) * 100
		scaled := raw * 0.76
		got := VisibilityScore(s)
		if math.Abs(got-39.344) > 0.01 {
			t.Errorf("expected visibility score to be 39.344, got %f", got)
		}
		if math.Abs(got-scaled) < 1 {
			t.Errorf("expected visibility score not to be the scaled raw score %f, got %f", scaled, got)
		}
	})
}

func TestLightScore(t *testing.T) {
	t.Run("terms are normalized by their weights", func(t *testing.T) {
		samples := uniform(chainDistances, 0, 0, 0, 24140)
		got := LightScore(samples)
		if got != 100 {
			t.Errorf("expected light score to be 100, got %f", got)
		}
		// dividing the weighted sum by the sample count would cap a clear chain at the weight
		if perSample := 100 * nearLightWeight; math.Abs(got-perSample) < 1 {
			t.Errorf("expected light score not to be %f, got %f", perSample, got)
		}
	})
	t.Run("a reflective far field scores fully", func(t *testing.T) {
		if got := LightScore(uniform([]float64{40, 60, 80}, 0, 0, 70, 0)); got != 100 {
			t.Errorf("expected light score to be 100, got %f", got)
		}
	})
	t.Run("clear near field scores fully", func(t *testing.T) {
		if got := LightScore(uniform([]float64{0, 10}, 0, 0, 0, 0)); got != 100 {
			t.Errorf("expected light score to be 100, got %f", got)
		}
	})
	t.Run("far field rewards high clouds", func(t *testing.T) {
		samples := uniform([]float64{0, 40}, 0, 0, 70, 0)
		samples[0].CloudCoverLow = 100
		// near pair: (0 + 100) / 2 at 0.3, far pair: 100 at 0.7
		want := (50*0.3 + 100*0.7) / (0.3 + 0.7)
		if got := LightScore(samples); math.Abs(got-want) > 1e-9 {
			t.Errorf("expected light score to be %f, got %f", want, got)
		}
	})
}

func TestResampleBands(t *testing.T) {
	t.Run("short lists map positionally", func(t *testing.T) {
		out := ResampleBands(uniform([]float64{0, 3, 5}, 10, 0, 0, 0))
		if len(out) != 3 {
			t.Fatalf("expected 3 samples, got %d", len(out))
		}
		for i, s := range out {
			if s.DistanceMiles != Bands[i] {
				t.Errorf("expected distance of sample %d to be %f, got %f", i, Bands[i], s.DistanceMiles)
			}
		}
	})
	t.Run("the chain is averaged into six bands", func(t *testing.T) {
		samples := uniform(chainDistances, 0, 0, 0, 0)
		for i := range samples {
			samples[i].CloudCoverLow = i * 10
		}
		out := ResampleBands(samples)
		if len(out) != len(Bands) {
			t.Fatalf("expected %d samples, got %d", len(Bands), len(out))
		}
		for b, s := range out {
			want := (2*b*10 + (2*b+1)*10) / 2
			if s.CloudCoverLow != want {
				t.Errorf("expected low cloud cover of band %d to be %d, got %d", b, want, s.CloudCoverLow)
			}
			if s.DistanceMiles != Bands[b] {
				t.Errorf("expected distance of band %d to be %f, got %f", b, Bands[b], s.DistanceMiles)
			}
		}
	})
	t.Run("no samples resample to nothing", func(t *testing.T) {
		if out := ResampleBands(nil); out != nil {
			t.Errorf("expected nil, got %v", out)
		}
	})
}
