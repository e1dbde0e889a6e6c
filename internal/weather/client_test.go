package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/krushiiq/apiserver/config"
	"github.com/krushiiq/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.WeatherConfig{
		GeocodingURL: srv.URL + "/v1/search",
		ForecastURL:  srv.URL + "/v1/forecast",
		Timeout:      time.Second,
	}, nil)
}

func TestResolveCoordinates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/search", r.URL.Path)
		assert.Equal(t, "Pune", r.URL.Query().Get("name"))
		assert.Equal(t, "1", r.URL.Query().Get("count"))
		_, _ = w.Write([]byte(`{"results":[{"name":"Pune","latitude":18.52,"longitude":73.85}]}`))
	})

	lat, lon, ok := c.ResolveCoordinates(context.Background(), "Pune")
	require.True(t, ok)
	assert.Equal(t, 18.52, lat)
	assert.Equal(t, 73.85, lon)
}

func TestResolveCoordinatesFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "no results",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"generationtime_ms":0.5}`))
			},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "bad json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"results":`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			_, _, ok := c.ResolveCoordinates(context.Background(), "Nowhere")
			assert.False(t, ok)
		})
	}
}

func TestCurrent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "18.52", q.Get("latitude"))
		assert.Equal(t, "temperature_2m,relative_humidity_2m,precipitation,weather_code", q.Get("current"))
		_, _ = w.Write([]byte(`{"current":{"temperature_2m":29.4,"relative_humidity_2m":61,"precipitation":0.2,"weather_code":61}}`))
	})

	got, err := c.Current(context.Background(), 18.52, 73.85)
	require.NoError(t, err)
	assert.Equal(t, types.CurrentWeather{
		Temperature: 29.4,
		Humidity:    61,
		Rainfall:    0.2,
		Description: 61,
		Summary:     "Slight rain",
	}, got)
}

func TestCurrentDefaultsMissingFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"current":{"temperature_2m":21}}`))
	})

	got, err := c.Current(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 21.0, got.Temperature)
	assert.Zero(t, got.Humidity)
	assert.Zero(t, got.Rainfall)
	assert.Equal(t, "Clear sky", got.Summary)
}

func TestCurrentUpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	_, err := c.Current(context.Background(), 1, 2)
	assert.ErrorContains(t, err, "429")
}

func TestForecast(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.URL.Query().Get("forecast_days"))
		_, _ = w.Write([]byte(`{"daily":{
			"time":["2026-10-19","2026-10-20","2026-10-21"],
			"temperature_2m_max":[30.1,31.2,29.8],
			"precipitation_sum":[0,1.5,4.2],
			"relative_humidity_2m_mean":[55,60,72]}}`))
	})

	got, err := c.Forecast(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, types.ForecastDay{Day: "2026-10-20", Temperature: 31.2, Humidity: 60, Rainfall: 1.5}, got[1])
}

func TestForecastWithoutHumidity(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"daily":{
			"time":["d1","d2","d3","d4","d5","d6","d7"],
			"temperature_2m_max":[1,2,3,4,5,6,7],
			"precipitation_sum":[0,0,0,0,0,0]}}`))
	})

	got, err := c.Forecast(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, got, ForecastDays)
	for _, day := range got {
		assert.Zero(t, day.Humidity)
	}
	assert.Equal(t, 7.0, got[6].Temperature)
	assert.Zero(t, got[6].Rainfall)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "Overcast", Describe(3))
	assert.Equal(t, "Unknown", Describe(42))
}
