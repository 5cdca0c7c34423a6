// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/Xuanwo/go-locale"
	"github.com/vorlif/spreak"
	"golang.org/x/text/language"
)

//go:embed locale/*
var locales embed.FS

// Localizer translates the labels of the rendered output and remembers its language.
type Localizer struct {
	*spreak.Localizer
	tag language.Tag
}

// New returns a Localizer for the given locale. An empty locale is detected from the
// environment, English is used when detection fails.
func New(loc string) (*Localizer, error) {
	tag := ParseTag(loc)
	if loc == "" {
		detected, err := locale.Detect()
		if err != nil {
			detected = language.English
		}
		tag = detected
	}

	localeFS, err := fs.Sub(locales, "locale")
	if err != nil {
		return nil, fmt.Errorf("failed to load locales: %w", err)
	}

	bundle, err := spreak.NewBundle(
		spreak.WithSourceLanguage(language.English),
		spreak.WithFallbackLanguage(language.English),
		spreak.WithDomainFs("", localeFS),
		spreak.WithLanguage(tag),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create i18n bundle: %w", err)
	}
	return &Localizer{Localizer: spreak.NewLocalizer(bundle, tag), tag: tag}, nil
}

// Tag returns the language the Localizer was created for.
func (l *Localizer) Tag() language.Tag {
	return l.tag
}

// ParseTag parses POSIX style locales like "de_DE.UTF-8" as well as BCP 47 tags. Unparsable
// values yield language.Und.
func ParseTag(loc string) language.Tag {
	if idx := strings.IndexAny(loc, ".@"); idx != -1 {
		loc = loc[:idx]
	}
	loc = strings.ReplaceAll(loc, "_", "-")
	tag, err := language.Parse(loc)
	if err != nil {
		return language.Und
	}
	return tag
}
