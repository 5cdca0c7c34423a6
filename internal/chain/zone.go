// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package chain

import (
	"fmt"
	"sort"

	"github.com/jgray-dev/swv3-sub000/internal/event"
	"github.com/jgray-dev/swv3-sub000/internal/geo"
	"github.com/jgray-dev/swv3-sub000/internal/weather"
)

// ZonedRecord is a forecast record placed on the distance grid.
type ZonedRecord struct {
	weather.Record
	Zone          Zone
	DistanceMiles float64
}

// Point returns the record's position as a SamplePoint.
func (r ZonedRecord) Point() SamplePoint {
	return SamplePoint{
		Latitude:      r.Latitude,
		Longitude:     r.Longitude,
		Zone:          r.Zone,
		DistanceMiles: r.DistanceMiles,
	}
}

// Classify orders the records along the sun's path, assigns zone and distance by position and
// drops records whose coordinate was already seen. Sunrise orders by descending longitude,
// sunset by ascending longitude. The input slice is not modified.
//
// For sunrise the chain runs east of the origin, so index 0, zone near at distance 0, is the
// easternmost and farthest point rather than the observer.
func Classify(records []weather.Record, eventType event.Type, grid Grid) ([]ZonedRecord, error) {
	if eventType != event.Sunrise && eventType != event.Sunset {
		return nil, fmt.Errorf("%w: cannot classify records for %q", event.ErrInvalidType, string(eventType))
	}
	if len(grid) == 0 {
		return nil, ErrEmptyGrid
	}

	sorted := make([]weather.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if eventType == event.Sunrise {
			return sorted[i].Longitude > sorted[j].Longitude
		}
		return sorted[i].Longitude < sorted[j].Longitude
	})

	seen := make(map[geo.Coordinate]struct{}, len(sorted))
	zoned := make([]ZonedRecord, 0, len(sorted))
	for i, record := range sorted {
		entry := grid.Entry(i)
		coord := record.Coordinate()
		if _, ok := seen[coord]; ok {
			continue
		}
		seen[coord] = struct{}{}
		zoned = append(zoned, ZonedRecord{Record: record, Zone: entry.Zone, DistanceMiles: entry.DistanceMiles})
	}
	return zoned, nil
}
