package handlers

import "net/http"

type HealthResponse struct {
	Status string `json:"status"`
}

// Health reports that the process is serving requests.
func Health(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// NotFound renders unknown paths as an error envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "resource not found")
}

// MethodNotAllowed renders unsupported methods as an error envelope.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
