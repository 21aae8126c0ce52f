// Package httputil centralizes the JSON envelope and domain-error translation
// used by every handler, keeping transport concerns out of the use cases.
package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/smartmeal/pantry-service/pkg/apperr"
)

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError maps the error's code to an HTTP status and emits a JSON error
// envelope. Internal details are not leaked for persistence failures.
func WriteError(w http.ResponseWriter, err error) {
	code := apperr.CodeOf(err)
	message := err.Error()
	if code == apperr.CodePersistence || code == apperr.CodeInternal {
		message = "internal error"
	}
	WriteJSON(w, apperr.ToHTTPStatus(code), map[string]string{
		"error": message,
		"code":  string(code),
	})
}
