// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package testhelper provides shared helpers for the package tests.
package testhelper

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"testing"
)

const (
	// TestOnlineAPIURL is a reachable endpoint used by tests that need real network I/O.
	TestOnlineAPIURL = "https://api.open-meteo.com/v1/forecast"

	integrationEnv = "PERFORM_INTEGRATION_TESTS"
)

// MockRoundTripper is a http.RoundTripper that hands every request to Fn.
type MockRoundTripper struct {
	Fn func(*http.Request) (*http.Response, error)
}

func (m MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.Fn(req)
}

// PerformIntegrationTests skips the calling test unless integration tests are enabled via the
// PERFORM_INTEGRATION_TESTS environment variable.
func PerformIntegrationTests(t *testing.T) {
	t.Helper()
	if os.Getenv(integrationEnv) == "" {
		t.Skipf("skipping integration test, set %s to enable", integrationEnv)
	}
}

// JSONResponse returns a round-trip function answering every request with the given status code
// and body.
func JSONResponse(code int, body []byte) func(*http.Request) (*http.Response, error) {
	return func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: code,
			Body:       io.NopCloser(bytes.NewReader(body)),
			Header:     http.Header{"Content-Type": []string{"application/json"}},
		}, nil
	}
}
