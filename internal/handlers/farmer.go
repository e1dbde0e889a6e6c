package handlers

import (
	"net/http"

	"github.com/krushiiq/apiserver/internal/services"
	"github.com/krushiiq/apiserver/types"
	"go.uber.org/zap"
)

// FarmerHandler reads and writes farmer profiles.
type FarmerHandler struct {
	farmers *services.FarmerService
	logger  *zap.Logger
}

func NewFarmerHandler(farmers *services.FarmerService, logger *zap.Logger) *FarmerHandler {
	return &FarmerHandler{farmers: farmers, logger: logger}
}

func (h *FarmerHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "Farmer name is required as a query parameter.")
		return
	}

	profile, err := h.farmers.Get(r.Context(), name)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, profile)
}

type FarmerProfileRequest struct {
	Name      string  `json:"name"`
	Location  string  `json:"location"`
	LandAcres float64 `json:"land_acres"`
	Language  string  `json:"language"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

// SaveProfile creates or replaces the profile named in the body.
func (h *FarmerHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var req FarmerProfileRequest
	if parseRequest(w, r, fieldNames(farmerProfileBody), &req) == nil {
		return
	}

	_, err := h.farmers.Save(r.Context(), types.FarmerProfile{
		Name:      req.Name,
		Location:  req.Location,
		LandAcres: req.LandAcres,
		Language:  req.Language,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, StatusResponse{Status: "profile updated"})
}
