package httpresponse

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorResponse is the machine-readable error payload every rejection uses.
// The presentation layer turns it into an alert.
type ErrorResponse struct {
	Error string `json:"error"`
}

const internalErrorJSON = `{"error": "Internal server error"}`

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	jsonByte, err := json.Marshal(body)
	if err != nil {
		WriteInternalErrorResponse(w)
		return
	}
	w.WriteHeader(status)
	_, err = w.Write(jsonByte)
	if err != nil {
		return
	}
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorResponse{Error: msg})
}

func WriteInternalErrorResponse(w http.ResponseWriter) {
	// implementation similar to http.Error, only difference is the Content-type
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = fmt.Fprintln(w, internalErrorJSON)
}
