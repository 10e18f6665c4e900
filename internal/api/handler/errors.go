package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/lfg/internal/api/apierr"
)

const maxBodyBytes = 64 << 10

// WriteError writes err as a JSON error response
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// decodeBody reads a JSON request body into dst. On failure it has already
// written a 400 and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return false
	}
	return true
}
