// Package weather talks to the Open-Meteo geocoding and forecast APIs.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/krushiiq/apiserver/config"
	"github.com/krushiiq/apiserver/types"
	"go.uber.org/zap"
)

// ForecastDays is the length of every forecast.
const ForecastDays = 7

const maxResponseBytes = 1 << 20

// Client resolves place names and fetches weather for coordinates.
type Client struct {
	http         *http.Client
	geocodingURL string
	forecastURL  string
	logger       *zap.Logger
}

func NewClient(cfg config.WeatherConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http:         &http.Client{Timeout: timeout},
		geocodingURL: cfg.GeocodingURL,
		forecastURL:  cfg.ForecastURL,
		logger:       logger,
	}
}

type geocodingResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"results"`
}

// ResolveCoordinates looks up the first match for name. Every failure is
// logged and reported as ok == false.
func (c *Client) ResolveCoordinates(ctx context.Context, name string) (lat, lon float64, ok bool) {
	q := url.Values{}
	q.Set("name", name)
	q.Set("count", "1")

	var resp geocodingResponse
	if err := c.getJSON(ctx, c.geocodingURL, q, &resp); err != nil {
		c.logger.Warn("geocoding failed", zap.String("location", name), zap.Error(err))
		return 0, 0, false
	}
	if len(resp.Results) == 0 {
		c.logger.Warn("geocoding returned no results", zap.String("location", name))
		return 0, 0, false
	}
	return resp.Results[0].Latitude, resp.Results[0].Longitude, true
}

type currentResponse struct {
	Current *struct {
		Temperature   *float64 `json:"temperature_2m"`
		Humidity      *float64 `json:"relative_humidity_2m"`
		Precipitation *float64 `json:"precipitation"`
		WeatherCode   *int     `json:"weather_code"`
	} `json:"current"`
}

// Current returns the instantaneous conditions at lat, lon. Humidity and
// rainfall default to 0 when the upstream omits them.
func (c *Client) Current(ctx context.Context, lat, lon float64) (types.CurrentWeather, error) {
	q := coordinates(lat, lon)
	q.Set("current", "temperature_2m,relative_humidity_2m,precipitation,weather_code")

	var resp currentResponse
	if err := c.getJSON(ctx, c.forecastURL, q, &resp); err != nil {
		return types.CurrentWeather{}, err
	}
	if resp.Current == nil || resp.Current.Temperature == nil {
		return types.CurrentWeather{}, errors.New("weather response has no current temperature")
	}

	cur := resp.Current
	code := valueOr(cur.WeatherCode, 0)
	return types.CurrentWeather{
		Temperature: *cur.Temperature,
		Humidity:    valueOr(cur.Humidity, 0),
		Rainfall:    valueOr(cur.Precipitation, 0),
		Description: code,
		Summary:     Describe(code),
	}, nil
}

type forecastResponse struct {
	Daily *struct {
		Time        []string  `json:"time"`
		Temperature []float64 `json:"temperature_2m_max"`
		Rainfall    []float64 `json:"precipitation_sum"`
		Humidity    []float64 `json:"relative_humidity_2m_mean"`
	} `json:"daily"`
}

// Forecast returns one row per day for the next ForecastDays days.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) ([]types.ForecastDay, error) {
	q := coordinates(lat, lon)
	q.Set("daily", "temperature_2m_max,precipitation_sum,relative_humidity_2m_mean")
	q.Set("forecast_days", strconv.Itoa(ForecastDays))
	q.Set("timezone", "auto")

	var resp forecastResponse
	if err := c.getJSON(ctx, c.forecastURL, q, &resp); err != nil {
		return nil, err
	}
	if resp.Daily == nil {
		return nil, errors.New("weather response has no daily forecast")
	}

	daily := resp.Daily
	humidity := daily.Humidity
	if humidity == nil {
		humidity = make([]float64, ForecastDays)
	}

	forecast := make([]types.ForecastDay, 0, len(daily.Time))
	for i, day := range daily.Time {
		forecast = append(forecast, types.ForecastDay{
			Day:         day,
			Temperature: at(daily.Temperature, i),
			Humidity:    at(humidity, i),
			Rainfall:    at(daily.Rainfall, i),
		})
	}
	return forecast, nil
}

func (c *Client) getJSON(ctx context.Context, base string, query url.Values, out any) error {
	u, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s returned %d: %s", u.Host, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", u.Host, err)
	}
	return nil
}

func coordinates(lat, lon float64) url.Values {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	return q
}

func valueOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}

func at(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}
