// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package presenter renders sky quality results into the text and tooltip output.
package presenter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/vorlif/humanize"
	"github.com/vorlif/humanize/locale/de"
	"github.com/wneessen/go-moonphase"

	"github.com/jgray-dev/swv3-sub000/internal/aggregate"
	"github.com/jgray-dev/swv3-sub000/internal/event"
	"github.com/jgray-dev/swv3-sub000/internal/i18n"
)

// TemplateContext is the data the text and tooltip templates are executed with.
type TemplateContext struct {
	Latitude  float64
	Longitude float64
	City      string

	Rating             int
	Class              Class
	ClassIcon          string
	ClassIconWithSpace string

	EventType  event.Type
	EventLabel string
	EventTime  time.Time
	Relation   event.Relation
	Phrase     string

	Stats aggregate.Stats

	Moonphase              string
	MoonphaseIcon          string
	MoonphaseIconWithSpace string
	UpdatedAt              time.Time
}

// Output is the rendered result.
type Output struct {
	Text    string `json:"text"`
	Tooltip string `json:"tooltip"`
	Class   string `json:"class"`
}

// Input carries the results of one pipeline run.
type Input struct {
	Latitude  float64
	Longitude float64
	City      string
	Rating    int
	Event     event.SunEvent
	Stats     aggregate.Stats
}

type Presenter struct {
	text      *template.Template
	tooltip   *template.Template
	localizer *i18n.Localizer
	humanizer *humanize.Humanizer
}

// New parses the text and tooltip templates.
func New(textTpl, tooltipTpl string, localizer *i18n.Localizer) (*Presenter, error) {
	if localizer == nil {
		return nil, fmt.Errorf("localizer is required")
	}
	collection, err := humanize.New(humanize.WithLocale(de.New()))
	if err != nil {
		return nil, fmt.Errorf("failed to create humanizer: %w", err)
	}
	p := &Presenter{
		localizer: localizer,
		humanizer: collection.CreateHumanizer(localizer.Tag()),
	}

	if p.text, err = template.New("text").Funcs(p.templateFuncMap()).Parse(textTpl); err != nil {
		return nil, fmt.Errorf("failed to parse text template: %w", err)
	}
	if p.tooltip, err = template.New("tooltip").Funcs(p.templateFuncMap()).Parse(tooltipTpl); err != nil {
		return nil, fmt.Errorf("failed to parse tooltip template: %w", err)
	}
	return p, nil
}

// BuildContext derives the template data for the input at the instant now.
func (p *Presenter) BuildContext(in Input, now time.Time) TemplateContext {
	class := ClassFor(in.Rating)
	phase := moonphase.New(now).PhaseName()
	eventTime := time.Unix(in.Event.Time, 0).In(now.Location())

	return TemplateContext{
		Latitude:               in.Latitude,
		Longitude:              in.Longitude,
		City:                   in.City,
		Rating:                 in.Rating,
		Class:                  class,
		ClassIcon:              ClassIcons[class],
		ClassIconWithSpace:     EmojiWithSpace(ClassIcons[class]),
		EventType:              in.Event.Type,
		EventLabel:             eventLabels[in.Event.Type],
		EventTime:              eventTime,
		Relation:               event.Classify(now.Unix(), in.Event.Time),
		Phrase:                 event.Phrase(in.Event.Type, now.Unix(), in.Event.Time),
		Stats:                  in.Stats,
		Moonphase:              phase,
		MoonphaseIcon:          MoonPhaseIcon[phase],
		MoonphaseIconWithSpace: EmojiWithSpace(MoonPhaseIcon[phase]),
		UpdatedAt:              now,
	}
}

// Render executes both templates. The output class is the quality class of the rating.
func (p *Presenter) Render(ctx TemplateContext) (Output, error) {
	text := bytes.NewBuffer(nil)
	if err := p.text.Execute(text, ctx); err != nil {
		return Output{}, fmt.Errorf("failed to render text template: %w", err)
	}
	tooltip := bytes.NewBuffer(nil)
	if err := p.tooltip.Execute(tooltip, ctx); err != nil {
		return Output{}, fmt.Errorf("failed to render tooltip template: %w", err)
	}
	return Output{
		Text:    text.String(),
		Tooltip: tooltip.String(),
		Class:   string(ctx.Class),
	}, nil
}

// EmojiWithSpace pads an emoji to its display width plus one space.
func EmojiWithSpace(emoji string) string {
	if emoji == "" {
		return ""
	}
	width := runewidth.StringWidth(emoji)
	return emoji + strings.Repeat(" ", max(1, 3-width))
}
