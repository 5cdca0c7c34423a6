// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package event selects the sun event that is relevant for a given instant.
package event

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nathan-osman/go-sunrise"
)

const (
	// TrailingWindow is the time in seconds a past event stays selectable.
	TrailingWindow = 90 * 60
	// CurrentThreshold is the time in seconds around an event that counts as "current".
	CurrentThreshold = 500
)

var (
	ErrInvalidType = errors.New("invalid event type")
	ErrNoEvent     = errors.New("no sun event available")
)

// Type identifies a sun event kind. Next is only valid as a selector filter.
type Type string

const (
	Sunrise Type = "sunrise"
	Sunset  Type = "sunset"
	Next    Type = "next"
)

// ParseType parses an event type token.
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case Sunrise, Sunset, Next:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
}

// Bearing returns the compass bearing toward the sun for the event type.
func (t Type) Bearing() (float64, error) {
	switch t {
	case Sunrise:
		return 90, nil
	case Sunset:
		return 270, nil
	default:
		return 0, fmt.Errorf("%w: %q has no bearing", ErrInvalidType, string(t))
	}
}

func (t Type) gerund() string {
	switch t {
	case Sunrise:
		return "sunrising"
	case Sunset:
		return "sunsetting"
	default:
		return string(t)
	}
}

// SunEvent is a sunrise or sunset at a Unix timestamp.
type SunEvent struct {
	Type Type  `json:"type"`
	Time int64 `json:"time"`
}

// SunTimeProvider returns the sunrise and sunset of a calendar day for a coordinate. Zero
// times signal that the sun does not rise or set on that day.
type SunTimeProvider interface {
	SunriseSunset(lat, lon float64, year int, month time.Month, day int) (time.Time, time.Time)
}

// Astronomical is the default SunTimeProvider backed by go-sunrise.
type Astronomical struct{}

func (Astronomical) SunriseSunset(lat, lon float64, year int, month time.Month, day int) (time.Time, time.Time) {
	return sunrise.SunriseSunset(lat, lon, year, month, day)
}

// Candidates returns the sunrises and sunsets of yesterday, today and tomorrow (UTC calendar
// days of now) sorted by time. A nil provider falls back to Astronomical.
func Candidates(lat, lon float64, now time.Time, provider SunTimeProvider) []SunEvent {
	if provider == nil {
		provider = Astronomical{}
	}
	now = now.UTC()
	events := make([]SunEvent, 0, 6)
	for offset := -1; offset <= 1; offset++ {
		day := now.AddDate(0, 0, offset)
		rise, set := provider.SunriseSunset(lat, lon, day.Year(), day.Month(), day.Day())
		if !rise.IsZero() {
			events = append(events, SunEvent{Type: Sunrise, Time: rise.Unix()})
		}
		if !set.IsZero() {
			events = append(events, SunEvent{Type: Sunset, Time: set.Unix()})
		}
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Time < events[j].Time })
	return events
}

// Select picks the relevant event for now out of events. It prefers the most recent event of the
// trailing window, then the nearest upcoming one and finally the last known event. The filter
// restricts the candidates to one Type, Next accepts both.
func Select(events []SunEvent, now int64, filter Type) (SunEvent, error) {
	if filter != Next && filter != Sunrise && filter != Sunset {
		return SunEvent{}, fmt.Errorf("%w: %q", ErrInvalidType, string(filter))
	}
	candidates := make([]SunEvent, 0, len(events))
	for _, ev := range events {
		if filter == Next || ev.Type == filter {
			candidates = append(candidates, ev)
		}
	}
	if len(candidates) == 0 {
		return SunEvent{}, ErrNoEvent
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Time < candidates[j].Time })

	var (
		recent, upcoming       SunEvent
		hasRecent, hasUpcoming bool
	)
	for _, ev := range candidates {
		switch {
		case ev.Time <= now && now-ev.Time <= TrailingWindow:
			recent, hasRecent = ev, true
		case ev.Time > now && !hasUpcoming:
			upcoming, hasUpcoming = ev, true
		}
	}
	switch {
	case hasRecent:
		return recent, nil
	case hasUpcoming:
		return upcoming, nil
	default:
		return candidates[len(candidates)-1], nil
	}
}

// Relation describes where an event lies relative to now.
type Relation string

const (
	Past    Relation = "past"
	Current Relation = "current"
	Future  Relation = "future"
)

// Classify returns the Relation of the event time t to now.
func Classify(now, t int64) Relation {
	diff := t - now
	switch {
	case abs(diff) <= CurrentThreshold:
		return Current
	case diff < 0:
		return Past
	default:
		return Future
	}
}

// Phrase returns a human readable relative time like "sunset in 12 minutes" or
// "sunrise 3 hours ago".
func Phrase(kind Type, now, t int64) string {
	diff := t - now
	past := diff <= 0
	secs := abs(diff)

	if secs < 60 {
		if past {
			return kind.gerund() + " just now"
		}
		return kind.gerund() + " in 1 minute"
	}

	// the unit is chosen after rounding, 59.5 minutes read as an hour
	amount, unit := roundDiv(secs, 60), "minute"
	if amount >= 60 {
		amount, unit = roundDiv(secs, 3600), "hour"
	}
	if amount != 1 {
		unit += "s"
	}
	if past {
		return fmt.Sprintf("%s %d %s ago", kind, amount, unit)
	}
	return fmt.Sprintf("%s in %d %s", kind, amount, unit)
}

func roundDiv(v, d int64) int64 {
	return (v + d/2) / d
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
