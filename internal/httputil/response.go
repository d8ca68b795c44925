package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// ErrInvalidBody is returned by DecodeJSON for malformed or unexpected payloads.
var ErrInvalidBody = errors.New("invalid request body")

// ErrBodyTooLarge is returned by DecodeJSON when the body exceeds the request size limit.
var ErrBodyTooLarge = errors.New("request body too large")

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes {"error": message} with the given status code.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// NoContent writes a 204 response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// DecodeJSON decodes a single JSON object from the request body into v.
// Unknown fields and trailing data are rejected.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return ErrBodyTooLarge
		}
		return ErrInvalidBody
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return ErrInvalidBody
	}
	return nil
}

// WriteDecodeError answers a DecodeJSON failure with 413 or 400.
func WriteDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrBodyTooLarge) {
		Error(w, http.StatusRequestEntityTooLarge, ErrBodyTooLarge.Error())
		return
	}
	Error(w, http.StatusBadRequest, ErrInvalidBody.Error())
}
