package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/theweekendworld-engg/trip-gennie/internal/types"
)

const (
	defaultForecastBaseURL   = "https://api.open-meteo.com"
	defaultAirQualityBaseURL = "https://air-quality-api.open-meteo.com"
)

// WeatherAQI bundles the two Open-Meteo snapshots for one location.
type WeatherAQI struct {
	Weather types.WeatherInfo
	AQI     types.AirQuality
}

// MeteoClient fetches current weather and air quality from the public
// Open-Meteo endpoints. No credential is required.
type MeteoClient struct {
	forecastBaseURL   string
	airQualityBaseURL string
	httpClient        *http.Client
	logger            *slog.Logger
}

// MeteoOption customises a MeteoClient.
type MeteoOption func(*MeteoClient)

// WithMeteoBaseURLs overrides the remote endpoints, used by tests.
func WithMeteoBaseURLs(forecast, airQuality string) MeteoOption {
	return func(c *MeteoClient) {
		c.forecastBaseURL = forecast
		c.airQualityBaseURL = airQuality
	}
}

// NewMeteoClient creates an Open-Meteo client.
func NewMeteoClient(logger *slog.Logger, opts ...MeteoOption) *MeteoClient {
	c := &MeteoClient{
		forecastBaseURL:   defaultForecastBaseURL,
		airQualityBaseURL: defaultAirQualityBaseURL,
		httpClient:        &http.Client{Timeout: 10 * time.Second},
		logger:            logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type forecastResponse struct {
	Current struct {
		Temperature      float64 `json:"temperature_2m"`
		RelativeHumidity int     `json:"relative_humidity_2m"`
		WeatherCode      int     `json:"weather_code"`
	} `json:"current"`
}

type airQualityResponse struct {
	Current struct {
		USAQI float64 `json:"us_aqi"`
	} `json:"current"`
}

// Current returns the live weather and AQI snapshot for a coordinate pair.
// Any fetch or parse failure returns (nil, nil): the data is nice to have and
// its absence must never abort the caller's run.
func (c *MeteoClient) Current(ctx context.Context, lat, lng float64) (*WeatherAQI, error) {
	var forecast forecastResponse
	forecastURL := fmt.Sprintf(
		"%s/v1/forecast?latitude=%f&longitude=%f&current=temperature_2m,relative_humidity_2m,weather_code",
		c.forecastBaseURL, lat, lng)
	if err := c.getJSON(ctx, forecastURL, &forecast); err != nil {
		c.logger.WarnContext(ctx, "failed to fetch weather data", slog.Any("error", err))
		return nil, nil
	}

	var aqi airQualityResponse
	aqiURL := fmt.Sprintf(
		"%s/v1/air-quality?latitude=%f&longitude=%f&current=us_aqi",
		c.airQualityBaseURL, lat, lng)
	if err := c.getJSON(ctx, aqiURL, &aqi); err != nil {
		c.logger.WarnContext(ctx, "failed to fetch air quality data", slog.Any("error", err))
		return nil, nil
	}

	aqiValue := int(aqi.Current.USAQI)
	if aqiValue == 0 {
		aqiValue = 50
	}

	return &WeatherAQI{
		Weather: types.WeatherInfo{
			Temp:      int(math.Round(forecast.Current.Temperature)),
			Condition: weatherCondition(forecast.Current.WeatherCode),
			Humidity:  forecast.Current.RelativeHumidity,
		},
		AQI: types.AirQuality{
			AQI:    aqiValue,
			Status: aqiStatus(aqiValue),
		},
	}, nil
}

func (c *MeteoClient) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// weatherCondition maps a WMO weather code to a coarse label via ascending
// thresholds; the first matching bucket wins.
func weatherCondition(code int) string {
	switch {
	case code == 0:
		return "Clear sky"
	case code < 4:
		return "Partly cloudy"
	case code < 50:
		return "Foggy"
	case code < 60:
		return "Drizzle"
	case code < 70:
		return "Rain"
	case code < 80:
		return "Snow"
	default:
		return "Thunderstorm"
	}
}

// aqiStatus maps a US AQI value to its label via ascending thresholds.
func aqiStatus(aqi int) string {
	switch {
	case aqi <= 50:
		return "Good"
	case aqi <= 100:
		return "Moderate"
	case aqi <= 150:
		return "Unhealthy for Sensitive Groups"
	default:
		return "Unhealthy"
	}
}
