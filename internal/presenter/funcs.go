// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/vorlif/humanize"
)

func (p *Presenter) templateFuncMap() template.FuncMap {
	return template.FuncMap{
		"timeFormat":    timeFormat,
		"localizedTime": p.localizedTime,
		"floatFormat":   floatFormat,
		"km":            km,
		"loc":           p.loc,
		"lc":            strings.ToLower,
		"uc":            strings.ToUpper,
	}
}

// loc translates known labels and passes everything else through.
func (p *Presenter) loc(val any) string {
	raw := fmt.Sprint(val)
	if msg, ok := i18nVars[raw]; ok {
		return p.localizer.Get(msg)
	}
	return raw
}

func (p *Presenter) localizedTime(val time.Time) string {
	return p.humanizer.FormatTime(val, humanize.TimeFormat)
}

func timeFormat(val time.Time, format string) string {
	return val.Format(format)
}

func floatFormat(val float64, precision int) string {
	return fmt.Sprintf("%.*f", precision, val)
}

// km formats a distance in meters as kilometers with one decimal.
func km(meters int) string {
	return fmt.Sprintf("%.1f", float64(meters)/1000)
}
