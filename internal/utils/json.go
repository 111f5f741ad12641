package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// DecodeJSONRequest decodes the request body into dst. Unknown fields are
// tolerated: catalog snapshots arrive with whatever extra fields the client
// copied from the public API.
func DecodeJSONRequest(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}
