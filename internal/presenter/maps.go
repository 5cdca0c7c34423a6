// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"github.com/vorlif/spreak/localize"

	"github.com/jgray-dev/swv3-sub000/internal/event"
)

// Class is the quality class of a rating, also used as output CSS class.
type Class string

const (
	ClassPoor  Class = "poor"
	ClassFair  Class = "fair"
	ClassGood  Class = "good"
	ClassGreat Class = "great"
)

// ClassFor maps a rating to its quality class.
func ClassFor(rating int) Class {
	switch {
	case rating < 35:
		return ClassPoor
	case rating < 60:
		return ClassFair
	case rating < 80:
		return ClassGood
	default:
		return ClassGreat
	}
}

// ClassIcons maps quality classes to emoji.
var ClassIcons = map[Class]string{
	ClassPoor:  "☁️",
	ClassFair:  "⛅",
	ClassGood:  "🌤️",
	ClassGreat: "🌅",
}

// MoonPhaseIcon is a map where moon phase names are keys and their corresponding emoji representations are values.
var MoonPhaseIcon = map[string]string{
	"New Moon":        "🌑",
	"Waxing Crescent": "🌒",
	"First Quarter":   "🌓",
	"Waxing Gibbous":  "🌔",
	"Full Moon":       "🌕",
	"Waning Gibbous":  "🌖",
	"Third Quarter":   "🌗",
	"Waning Crescent": "🌘",
}

var eventLabels = map[event.Type]string{
	event.Sunrise: "Sunrise",
	event.Sunset:  "Sunset",
}

var i18nVars = map[string]localize.MsgID{
	"Sky quality":     "Sky quality",
	"Location":        "Location",
	"Cloud cover":     "Cloud cover",
	"low":             "low",
	"mid":             "mid",
	"high":            "high",
	"Visibility":      "Visibility",
	"Temperature":     "Temperature",
	"Moon phase":      "Moon phase",
	"Updated":         "Updated",
	"Sunrise":         "Sunrise",
	"Sunset":          "Sunset",
	"poor":            "poor",
	"fair":            "fair",
	"good":            "good",
	"great":           "great",
	"New Moon":        "New Moon",
	"Waxing Crescent": "Waxing Crescent",
	"First Quarter":   "First Quarter",
	"Waxing Gibbous":  "Waxing Gibbous",
	"Full Moon":       "Full Moon",
	"Waning Gibbous":  "Waning Gibbous",
	"Third Quarter":   "Third Quarter",
	"Waning Crescent": "Waning Crescent",
}
