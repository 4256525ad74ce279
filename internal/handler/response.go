package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// apiError is the body shape every non-2xx response carries. Error is a
// stable machine-readable code, Message is for humans.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteJSON encodes data as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already out, so an encode failure cannot be
	// surfaced to the client.
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError responds with the apiError shape.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, apiError{Error: code, Message: message})
}

// ParseJSON decodes a request body into v, rejecting fields the target
// struct does not declare. Content-Type enforcement happens in the
// router middleware, so only the body itself is validated here.
func ParseJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return errors.New("request body is not valid JSON for this endpoint")
	}

	return nil
}
