// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"
	"strings"

	"github.com/jgray-dev/swv3-sub000/internal/http"
	"github.com/jgray-dev/swv3-sub000/internal/weather"
	openmeteo "github.com/jgray-dev/swv3-sub000/internal/weather/provider/open-meteo"
)

func (s *Service) selectWeatherProvider() (provider weather.Provider, err error) {
	switch strings.ToLower(s.config.Weather.Provider) {
	case "open-meteo":
		provider, err = openmeteo.New(http.New(s.logger), s.logger, openmeteo.Settings{
			ForecastDays: s.config.Weather.ForecastDays,
			PastDays:     s.config.Weather.PastDays,
			Timeout:      s.config.Weather.Timeout,
		})
		if err != nil {
			return provider, fmt.Errorf("failed to create Open-Meteo weather provider: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported weather provider: %s", s.config.Weather.Provider)
	}
	return provider, nil
}
