// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package openmeteo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/jgray-dev/swv3-sub000/internal/geo"
	"github.com/jgray-dev/swv3-sub000/internal/http"
	"github.com/jgray-dev/swv3-sub000/internal/logger"
	"github.com/jgray-dev/swv3-sub000/internal/weather"
)

const (
	name        = "open-meteo"
	apiEndpoint = "https://api.open-meteo.com/v1/forecast"
	apiTimeout  = time.Second * 10

	defaultForecastDays = 3
	defaultPastDays     = 1
	tripAfterFailures   = 3
)

// Settings controls the forecast window and request timeout. Zero values fall back to the
// defaults.
type Settings struct {
	ForecastDays int
	PastDays     int
	Timeout      time.Duration
}

type OpenMeteo struct {
	settings Settings
	log      *logger.Logger
	http     *http.Client
	breaker  *gobreaker.CircuitBreaker[[]weather.Record]
}

type response struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Error     bool    `json:"error"`
	Reason    string  `json:"reason"`
	Hourly    *struct {
		Time                []int64    `json:"time"`
		Temperature         []*float64 `json:"temperature_2m"`
		CloudCover          []*float64 `json:"cloud_cover"`
		CloudCoverLow       []*float64 `json:"cloud_cover_low"`
		CloudCoverMid       []*float64 `json:"cloud_cover_mid"`
		CloudCoverHigh      []*float64 `json:"cloud_cover_high"`
		Visibility          []*float64 `json:"visibility"`
		FreezingLevelHeight []*float64 `json:"freezing_level_height"`
	} `json:"hourly"`
}

func New(http *http.Client, log *logger.Logger, settings Settings) (*OpenMeteo, error) {
	if http == nil {
		return nil, fmt.Errorf("http client is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if settings.ForecastDays <= 0 {
		settings.ForecastDays = defaultForecastDays
	}
	if settings.PastDays < 0 {
		settings.PastDays = defaultPastDays
	}
	if settings.Timeout <= 0 {
		settings.Timeout = apiTimeout
	}

	breaker := gobreaker.NewCircuitBreaker[[]weather.Record](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= tripAfterFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("weather provider circuit breaker changed state", slog.String("provider", name),
				slog.String("from", from.String()), slog.String("to", to.String()))
		},
	})

	return &OpenMeteo{settings: settings, http: http, log: log, breaker: breaker}, nil
}

func (o *OpenMeteo) Name() string {
	return name
}

// GetHourly retrieves the hourly forecast for all coordinates with a single request. The
// records are returned in the order of the API response.
func (o *OpenMeteo) GetHourly(ctx context.Context, coords []geo.Coordinate) ([]weather.Record, error) {
	if len(coords) == 0 {
		return nil, fmt.Errorf("at least one coordinate is required")
	}

	// latitude=52.52,52.6&longitude=13.41,13.5&hourly=cloud_cover,visibility&timeformat=unixtime
	lats, lons := geo.JoinCoordinates(coords)
	variables := make([]string, len(weather.Variables))
	for i, v := range weather.Variables {
		variables[i] = string(v)
	}
	query := url.Values{}
	query.Set("latitude", lats)
	query.Set("longitude", lons)
	query.Set("hourly", strings.Join(variables, ","))
	query.Set("timeformat", "unixtime")
	query.Set("timezone", "GMT")
	query.Set("forecast_days", strconv.Itoa(o.settings.ForecastDays))
	query.Set("past_days", strconv.Itoa(o.settings.PastDays))

	records, err := o.breaker.Execute(func() ([]weather.Record, error) {
		return o.fetch(ctx, query)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("Open-Meteo API temporarily disabled: %w", err)
		}
		return nil, err
	}
	o.log.Debug("retrieved hourly forecast", slog.Int("coordinates", len(coords)),
		slog.Int("records", len(records)))

	return records, nil
}

func (o *OpenMeteo) fetch(ctx context.Context, query url.Values) ([]weather.Record, error) {
	var raw json.RawMessage
	code, err := o.http.GetWithTimeout(ctx, apiEndpoint, &raw, query, nil, o.settings.Timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve weather data from Open-Meteo API: %w", err)
	}
	if code != 200 {
		reason := ""
		var res response
		if json.Unmarshal(raw, &res) == nil && res.Reason != "" {
			reason = ": " + res.Reason
		}
		return nil, fmt.Errorf("Open-Meteo API returned non-positive response code %d%s", code, reason)
	}

	return parse(raw)
}

// parse accepts the array returned for multiple coordinates as well as the single object
// returned for one.
func parse(raw json.RawMessage) ([]weather.Record, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("%w: empty payload", weather.ErrInvalidAPIResponse)
	}

	var responses []response
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &responses); err != nil {
			return nil, fmt.Errorf("%w: %w", weather.ErrInvalidAPIResponse, err)
		}
	} else {
		var res response
		if err := json.Unmarshal(trimmed, &res); err != nil {
			return nil, fmt.Errorf("%w: %w", weather.ErrInvalidAPIResponse, err)
		}
		responses = []response{res}
	}
	if len(responses) == 0 {
		return nil, fmt.Errorf("%w: no forecast records", weather.ErrInvalidAPIResponse)
	}

	records := make([]weather.Record, 0, len(responses))
	for i, res := range responses {
		if res.Error {
			return nil, fmt.Errorf("%w: %s", weather.ErrInvalidAPIResponse, res.Reason)
		}
		if res.Hourly == nil || len(res.Hourly.Time) == 0 {
			return nil, fmt.Errorf("%w: record %d has no hourly data", weather.ErrInvalidAPIResponse, i)
		}
		records = append(records, weather.Record{
			Latitude:  res.Latitude,
			Longitude: res.Longitude,
			Hourly: weather.HourlySeries{
				Time:                res.Hourly.Time,
				Temperature:         floats(res.Hourly.Temperature),
				CloudCover:          floats(res.Hourly.CloudCover),
				CloudCoverLow:       floats(res.Hourly.CloudCoverLow),
				CloudCoverMid:       floats(res.Hourly.CloudCoverMid),
				CloudCoverHigh:      floats(res.Hourly.CloudCoverHigh),
				Visibility:          floats(res.Hourly.Visibility),
				FreezingLevelHeight: floats(res.Hourly.FreezingLevelHeight),
			},
		})
	}

	return records, nil
}

// floats converts API values to a series, null entries become NaN.
func floats(values []*float64) []float64 {
	if values == nil {
		return nil
	}
	series := make([]float64, len(values))
	for i, v := range values {
		if v == nil {
			series[i] = math.NaN()
			continue
		}
		series[i] = *v
	}
	return series
}
