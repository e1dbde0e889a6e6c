package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/krushiiq/apiserver/internal/services"
	"go.uber.org/zap"
)

const (
	maxImageBytes   = 10 << 20
	formFieldImage  = "image"
	multipartMemory = 1 << 20
)

// AIHandler serves the model-backed advisory endpoints.
type AIHandler struct {
	assistant *services.AssistantService
	logger    *zap.Logger
}

func NewAIHandler(assistant *services.AssistantService, logger *zap.Logger) *AIHandler {
	return &AIHandler{assistant: assistant, logger: logger}
}

// requireModel rejects the request before any parsing when no model is
// configured.
func (h *AIHandler) requireModel(w http.ResponseWriter, r *http.Request) bool {
	if err := h.assistant.Available(); err != nil {
		writeServiceError(w, r, h.logger, err)
		return false
	}
	return true
}

type AICropRequest struct {
	Location string `json:"location"`
	Month    string `json:"month"`
}

func (h *AIHandler) RecommendCrop(w http.ResponseWriter, r *http.Request) {
	if !h.requireModel(w, r) {
		return
	}
	var req AICropRequest
	if parseRequest(w, r, fieldNames(aiCropBody), &req) == nil {
		return
	}

	result, err := h.assistant.RecommendCrop(r.Context(), req.Location, req.Month)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, result)
}

type AIPesticideRequest struct {
	Crop    string `json:"crop"`
	Disease string `json:"disease"`
}

func (h *AIHandler) RecommendPesticide(w http.ResponseWriter, r *http.Request) {
	if !h.requireModel(w, r) {
		return
	}
	var req AIPesticideRequest
	if parseRequest(w, r, fieldNames(aiPesticideBody), &req) == nil {
		return
	}

	result, err := h.assistant.RecommendPesticide(r.Context(), req.Crop, req.Disease)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, result)
}

func (h *AIHandler) DetectDisease(w http.ResponseWriter, r *http.Request) {
	if !h.requireModel(w, r) {
		return
	}

	img, message := parseImageUpload(w, r)
	if message != "" {
		writeError(w, http.StatusBadRequest, message)
		return
	}

	result, err := h.assistant.DetectDisease(r.Context(), img)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, result)
}

// parseImageUpload reads the "image" part of a multipart form. It returns
// a client-facing message when the upload is unusable.
func parseImageUpload(w http.ResponseWriter, r *http.Request) (services.Image, string) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return services.Image{}, "Image file is too large."
		}
		return services.Image{}, "Image file is required."
	}

	file, header, err := r.FormFile(formFieldImage)
	if err != nil {
		// A file input submitted without a selection arrives as a plain
		// field with an empty filename.
		if _, ok := r.MultipartForm.Value[formFieldImage]; ok {
			return services.Image{}, "No selected file."
		}
		return services.Image{}, "Image file is required."
	}
	defer file.Close()

	if strings.TrimSpace(header.Filename) == "" {
		return services.Image{}, "No selected file."
	}

	contentType := imageContentType(header.Header.Get("Content-Type"), header.Filename)
	if !strings.HasPrefix(contentType, "image") {
		return services.Image{}, "Invalid file type. Please upload an image."
	}

	data, err := readFileLimited(file, maxImageBytes)
	if err != nil {
		if errors.Is(err, errUploadTooLarge) {
			return services.Image{}, "Image file is too large."
		}
		return services.Image{}, "Failed to read the uploaded file."
	}

	return services.Image{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, ""
}

// imageContentType prefers the declared part type and falls back to the
// file extension when the client sent none or a generic one.
func imageContentType(declared, filename string) string {
	declared = strings.ToLower(strings.TrimSpace(declared))
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); byExt != "" {
		return byExt
	}
	return declared
}

var errUploadTooLarge = errors.New("uploaded file too large")

func readFileLimited(reader io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(reader, limit+1))
	if err != nil {
		return nil, errors.New("failed to read upload")
	}
	if int64(len(data)) > limit {
		return nil, errUploadTooLarge
	}
	return data, nil
}
