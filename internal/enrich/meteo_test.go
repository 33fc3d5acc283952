package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMeteoTestServer(t *testing.T, weatherCode int, temperature float64, humidity, usAQI int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/forecast", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"current":{"temperature_2m":%f,"relative_humidity_2m":%d,"weather_code":%d}}`,
			temperature, humidity, weatherCode)
	})
	mux.HandleFunc("/v1/air-quality", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"current":{"us_aqi":%d}}`, usAQI)
	})
	return httptest.NewServer(mux)
}

func TestMeteoClientCurrent(t *testing.T) {
	server := newMeteoTestServer(t, 0, 27.6, 64, 42)
	defer server.Close()

	client := NewMeteoClient(slog.Default(), WithMeteoBaseURLs(server.URL, server.URL))
	snapshot, err := client.Current(context.Background(), 18.52, 73.85)
	require.NoError(t, err)
	require.NotNil(t, snapshot)

	assert.Equal(t, 28, snapshot.Weather.Temp)
	assert.Equal(t, "Clear sky", snapshot.Weather.Condition)
	assert.Equal(t, 64, snapshot.Weather.Humidity)
	assert.Equal(t, 42, snapshot.AQI.AQI)
	assert.Equal(t, "Good", snapshot.AQI.Status)
}

func TestMeteoClientWeatherConditionBuckets(t *testing.T) {
	tests := []struct {
		code      int
		condition string
	}{
		{0, "Clear sky"},
		{2, "Partly cloudy"},
		{45, "Foggy"},
		{53, "Drizzle"},
		{63, "Rain"},
		{73, "Snow"},
		{95, "Thunderstorm"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.condition, weatherCondition(tc.code), "code %d", tc.code)
	}
}

func TestMeteoClientAQIStatusBuckets(t *testing.T) {
	tests := []struct {
		aqi    int
		status string
	}{
		{10, "Good"},
		{50, "Good"},
		{51, "Moderate"},
		{100, "Moderate"},
		{101, "Unhealthy for Sensitive Groups"},
		{150, "Unhealthy for Sensitive Groups"},
		{151, "Unhealthy"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.status, aqiStatus(tc.aqi), "aqi %d", tc.aqi)
	}
}

func TestMeteoClientFailureReturnsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewMeteoClient(slog.Default(), WithMeteoBaseURLs(server.URL, server.URL))
	snapshot, err := client.Current(context.Background(), 18.52, 73.85)

	assert.NoError(t, err, "weather degradation is tolerated, never an error")
	assert.Nil(t, snapshot)
}

func TestMeteoClientZeroAQIFallsBackToFifty(t *testing.T) {
	server := newMeteoTestServer(t, 2, 21.2, 70, 0)
	defer server.Close()

	client := NewMeteoClient(slog.Default(), WithMeteoBaseURLs(server.URL, server.URL))
	snapshot, err := client.Current(context.Background(), 12.97, 77.59)
	require.NoError(t, err)
	require.NotNil(t, snapshot)

	assert.Equal(t, 50, snapshot.AQI.AQI)
	assert.Equal(t, "Good", snapshot.AQI.Status)
}
