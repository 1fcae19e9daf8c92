package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"

	"uigen/internal/config"
)

// ParseJSON decodes JSON from the request body into the given destination.
// The body is size-limited to guard against abuse. Unknown fields are
// tolerated; the file-system snapshot is an open-shaped JSON value.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxRequestBodyBytes)

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}
