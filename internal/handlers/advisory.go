package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/krushiiq/apiserver/internal/advisory"
	"github.com/krushiiq/apiserver/internal/services"
	"go.uber.org/zap"
)

// AdvisoryHandler serves the rule-based advisory and market endpoints.
type AdvisoryHandler struct {
	advisory *services.AdvisoryService
	logger   *zap.Logger
}

func NewAdvisoryHandler(advisory *services.AdvisoryService, logger *zap.Logger) *AdvisoryHandler {
	return &AdvisoryHandler{advisory: advisory, logger: logger}
}

type CropRecommendationRequest struct {
	SoilN    float64 `json:"soil_n"`
	SoilP    float64 `json:"soil_p"`
	SoilK    float64 `json:"soil_k"`
	PH       float64 `json:"ph"`
	Location string  `json:"location"`
	Season   string  `json:"season"`
}

func (h *AdvisoryHandler) RecommendCrop(w http.ResponseWriter, r *http.Request) {
	var req CropRecommendationRequest
	payload := parseRequest(w, r, fieldNames(cropRecommendationBody), &req)
	if payload == nil {
		return
	}

	result, err := h.advisory.RecommendCrop(r.Context(), advisory.SoilSample{
		N:        req.SoilN,
		P:        req.SoilP,
		K:        req.SoilK,
		PH:       req.PH,
		Location: req.Location,
		Season:   req.Season,
	}, payload)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, result)
}

type YieldPredictionRequest struct {
	Crop      string  `json:"crop"`
	AreaAcres float64 `json:"area_acres"`
	Location  string  `json:"location"`
}

func (h *AdvisoryHandler) PredictYield(w http.ResponseWriter, r *http.Request) {
	var req YieldPredictionRequest
	payload := parseRequest(w, r, fieldNames(yieldPredictionBody), &req)
	if payload == nil {
		return
	}

	result, err := h.advisory.PredictYield(r.Context(), req.Crop, req.AreaAcres, req.Location, payload)
	if err != nil {
		// An unsupported crop is a bad request here, not a missing resource.
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, result)
}

type PesticideRecommendationRequest struct {
	Disease   string  `json:"disease"`
	Crop      string  `json:"crop"`
	AreaAcres float64 `json:"area_acres"`
}

func (h *AdvisoryHandler) RecommendPesticide(w http.ResponseWriter, r *http.Request) {
	var req PesticideRecommendationRequest
	payload := parseRequest(w, r, fieldNames(pesticideRecommendationBody), &req)
	if payload == nil {
		return
	}

	result, err := h.advisory.RecommendPesticide(r.Context(), req.Disease, req.Crop, req.AreaAcres, payload)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, result)
}

type DiseaseDetectionRequest struct {
	ImageURL string `json:"image_url"`
	Crop     string `json:"crop"`
}

func (h *AdvisoryHandler) DetectDisease(w http.ResponseWriter, r *http.Request) {
	var req DiseaseDetectionRequest
	payload := parseRequest(w, r, fieldNames(diseaseDetectionBody), &req)
	if payload == nil {
		return
	}

	result, err := h.advisory.DetectDisease(r.Context(), req.ImageURL, req.Crop, payload)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, result)
}

func (h *AdvisoryHandler) MarketPrices(w http.ResponseWriter, r *http.Request) {
	crop := strings.TrimSpace(r.URL.Query().Get("crop"))
	if crop == "" {
		writeError(w, http.StatusBadRequest, "Crop parameter is required")
		return
	}
	writeSuccess(w, http.StatusOK, h.advisory.MarketPrice(crop))
}

type ProfitEstimationRequest struct {
	Crop            string  `json:"crop"`
	EstimatedYield  float64 `json:"estimated_yield"`
	PricePerQuintal float64 `json:"price_per_quintal"`
	CostPerQuintal  float64 `json:"cost_per_quintal"`
}

func (h *AdvisoryHandler) EstimateProfit(w http.ResponseWriter, r *http.Request) {
	var req ProfitEstimationRequest
	if parseRequest(w, r, fieldNames(profitEstimationBody), &req) == nil {
		return
	}
	writeSuccess(w, http.StatusOK, h.advisory.EstimateProfit(req.EstimatedYield, req.PricePerQuintal, req.CostPerQuintal))
}
