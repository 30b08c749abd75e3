package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/textveil/textveil/pkg/models"
)

// encodeJSON encodes data into JSON and writes it to the response writer.
func encodeJSON(w http.ResponseWriter, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(data)
}

// decodeJSON decodes a JSON request body into the provided data struct.
func decodeJSON(r *http.Request, data interface{}) error {
	return json.NewDecoder(r.Body).Decode(&data)
}

// renderError classifies err into one of the three response tiers and
// writes the error response. Validation failures map to 422, malformed
// requests to 400, everything else to an opaque 500. This is the only
// place a pipeline failure becomes a response; inner layers return
// typed errors and never write to the response writer.
func renderError(w http.ResponseWriter, err error) {
	switch {
	case err.Error() == "http: request body too large":
		renderErrorResponse(w, "request body too large", http.StatusRequestEntityTooLarge)
	case errors.Is(err, models.ErrInvalidParam):
		log.Warnf("request failed with parameter validation error: %s", err)
		renderErrorResponse(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, models.ErrBadRequest):
		log.Warnf("malformed request: %s", err)
		renderErrorResponse(w, err.Error(), http.StatusBadRequest)
	default:
		// Never echo internal failure detail to the caller
		log.Errorf("a fatal error occurred during execution: %s", err)
		renderErrorResponse(w, "Internal server error", http.StatusInternalServerError)
	}
}

func renderErrorResponse(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(models.ErrorResponse{Error: message}); err != nil {
		log.Errorf("error encoding error response: %s", err)
	}
}
