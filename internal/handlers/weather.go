package handlers

import (
	"net/http"
	"strings"

	"github.com/krushiiq/apiserver/internal/services"
	"go.uber.org/zap"
)

type WeatherHandler struct {
	weather *services.WeatherService
	logger  *zap.Logger
}

func NewWeatherHandler(weather *services.WeatherService, logger *zap.Logger) *WeatherHandler {
	return &WeatherHandler{weather: weather, logger: logger}
}

func (h *WeatherHandler) Current(w http.ResponseWriter, r *http.Request) {
	location, ok := locationParam(w, r)
	if !ok {
		return
	}

	current, err := h.weather.Current(r.Context(), location)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, current)
}

func (h *WeatherHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	location, ok := locationParam(w, r)
	if !ok {
		return
	}

	forecast, err := h.weather.Forecast(r.Context(), location)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, forecast)
}

func locationParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	location := strings.TrimSpace(r.URL.Query().Get("location"))
	if location == "" {
		writeError(w, http.StatusBadRequest, "Location parameter is required")
		return "", false
	}
	return location, true
}
