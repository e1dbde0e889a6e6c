package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/krushiiq/apiserver/internal/services"
)

const maxJSONBodyBytes = 1 << 20

// Payload is a decoded JSON request body.
type Payload map[string]any

// decodePayload reads the request body as a JSON object. A missing or
// malformed body yields an empty payload so that validation reports every
// field as missing. The only error is a body over maxJSONBodyBytes.
func decodePayload(w http.ResponseWriter, r *http.Request) (Payload, error) {
	if r.Body == nil {
		return Payload{}, nil
	}
	body := http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	defer body.Close()

	var p Payload
	if err := json.NewDecoder(body).Decode(&p); err != nil || p == nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		if _, err := io.Copy(io.Discard, body); errors.As(err, &tooLarge) {
			return nil, err
		}
		return Payload{}, nil
	}
	return p, nil
}

// Validate checks that every required field is present in p. A field set
// to null counts as present. On failure the message lists the missing
// fields in the order given.
func Validate(required []string, p Payload) (bool, string) {
	var missing []string
	for _, field := range required {
		if _, ok := p[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) == 0 {
		return true, ""
	}
	return false, "Missing required fields: " + strings.Join(missing, ", ")
}

// Bind copies p into dst, a pointer to a struct with json tags.
func (p Payload) Bind(dst any) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return services.Validation("Invalid field types: %s", typeErr.Field)
		}
		return fmt.Errorf("bind payload: %w", err)
	}
	return nil
}

// parseRequest decodes, validates and binds a JSON body. On failure it
// writes the error envelope and returns nil.
func parseRequest(w http.ResponseWriter, r *http.Request, required []string, dst any) Payload {
	p, err := decodePayload(w, r)
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "Request body is too large.")
		return nil
	}
	if ok, message := Validate(required, p); !ok {
		writeError(w, http.StatusBadRequest, message)
		return nil
	}
	if err := p.Bind(dst); err != nil {
		var svcErr *services.Error
		if errors.As(err, &svcErr) {
			writeError(w, http.StatusBadRequest, svcErr.Message)
			return nil
		}
		writeError(w, http.StatusBadRequest, "invalid request")
		return nil
	}
	return p
}
