// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package aggregate

import (
	"errors"
	"testing"

	"github.com/jgray-dev/swv3-sub000/internal/chain"
	"github.com/jgray-dev/swv3-sub000/internal/forecast"
)

func TestAverage(t *testing.T) {
	t.Run("cloud cover is averaged across samples", func(t *testing.T) {
		stats, err := Average([]forecast.Sample{{CloudCover: 0}, {CloudCover: 100}})
		if err != nil {
			t.Fatalf("failed to average samples: %s", err)
		}
		if stats.CloudCover != 50 {
			t.Errorf("expected cloud cover to be 50, got %f", stats.CloudCover)
		}
	})
	t.Run("layer means keep fractions", func(t *testing.T) {
		stats, err := Average([]forecast.Sample{
			{CloudCoverLow: 10, CloudCoverMid: 0, CloudCoverHigh: 1},
			{CloudCoverLow: 20, CloudCoverMid: 5, CloudCoverHigh: 2},
			{CloudCoverLow: 40, CloudCoverMid: 10, CloudCoverHigh: 2},
		})
		if err != nil {
			t.Fatalf("failed to average samples: %s", err)
		}
		if stats.CloudCoverMid != 5 {
			t.Errorf("expected mid cloud cover to be 5, got %f", stats.CloudCoverMid)
		}
		if want := 70.0 / 3; stats.CloudCoverLow != want {
			t.Errorf("expected low cloud cover to be %f, got %f", want, stats.CloudCoverLow)
		}
		if want := 5.0 / 3; stats.CloudCoverHigh != want {
			t.Errorf("expected high cloud cover to be %f, got %f", want, stats.CloudCoverHigh)
		}
	})
	t.Run("observer values come from the first sample", func(t *testing.T) {
		stats, err := Average([]forecast.Sample{
			{Visibility: 24140, Temperature: 12, FreezingLevelHeight: 3200, Zone: chain.ZoneNear},
			{Visibility: 100, Temperature: -5, FreezingLevelHeight: 900, Zone: chain.ZoneFar},
		})
		if err != nil {
			t.Fatalf("failed to average samples: %s", err)
		}
		if stats.Visibility != 24140 || stats.Temperature != 12 || stats.FreezingLevelHeight != 3200 {
			t.Errorf("expected values of the first sample, got %+v", stats)
		}
		if stats.Zone != chain.ZoneNear {
			t.Errorf("expected zone to be %q, got %q", chain.ZoneNear, stats.Zone)
		}
	})
	t.Run("an empty sample set fails", func(t *testing.T) {
		if _, err := Average(nil); !errors.Is(err, ErrEmptySampleSet) {
			t.Errorf("expected error to be %s, got %v", ErrEmptySampleSet, err)
		}
	})
}
