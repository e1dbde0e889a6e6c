package services

import (
	"context"

	"github.com/krushiiq/apiserver/types"
)

// WeatherClient resolves places and fetches their weather.
type WeatherClient interface {
	ResolveCoordinates(ctx context.Context, name string) (lat, lon float64, ok bool)
	Current(ctx context.Context, lat, lon float64) (types.CurrentWeather, error)
	Forecast(ctx context.Context, lat, lon float64) ([]types.ForecastDay, error)
}

type WeatherService struct {
	client WeatherClient
}

func NewWeatherService(client WeatherClient) *WeatherService {
	return &WeatherService{client: client}
}

func (s *WeatherService) Current(ctx context.Context, location string) (types.CurrentWeather, error) {
	lat, lon, err := s.resolve(ctx, location)
	if err != nil {
		return types.CurrentWeather{}, err
	}
	current, err := s.client.Current(ctx, lat, lon)
	if err != nil {
		return types.CurrentWeather{}, newError(ErrUpstream, "%s", err.Error())
	}
	return current, nil
}

func (s *WeatherService) Forecast(ctx context.Context, location string) (types.Forecast, error) {
	lat, lon, err := s.resolve(ctx, location)
	if err != nil {
		return types.Forecast{}, err
	}
	days, err := s.client.Forecast(ctx, lat, lon)
	if err != nil {
		return types.Forecast{}, newError(ErrUpstream, "%s", err.Error())
	}
	return types.Forecast{Forecast: days}, nil
}

func (s *WeatherService) resolve(ctx context.Context, location string) (float64, float64, error) {
	lat, lon, ok := s.client.ResolveCoordinates(ctx, location)
	if !ok {
		return 0, 0, Validation("Could not resolve location '%s'", location)
	}
	return lat, lon, nil
}
