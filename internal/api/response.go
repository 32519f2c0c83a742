package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/erazemk/knjiznica/internal/ledger"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("error encoding response: %v", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// ledgerError maps a typed engine error to an HTTP response carrying its
// machine-readable code. Anything else becomes a plain 500.
func ledgerError(w http.ResponseWriter, err error) {
	var lerr *ledger.Error
	if !errors.As(err, &lerr) {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	status := http.StatusInternalServerError
	switch lerr.Kind {
	case ledger.KindNotFound:
		status = http.StatusNotFound
	case ledger.KindConflict:
		status = http.StatusConflict
	case ledger.KindPolicyViolation:
		status = http.StatusUnprocessableEntity
		if lerr.Code == "invalid_argument" {
			status = http.StatusBadRequest
		}
	}

	jsonResponse(w, status, map[string]string{"error": lerr.Message, "code": lerr.Code})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
