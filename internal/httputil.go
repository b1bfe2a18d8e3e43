package internal

import (
	"encoding/json"
	"net/http"
	"strings"
)

// apiError is the wire shape shared by the identity and store
// endpoints: {"error":{"status","name","message"}}.
type apiError struct {
	Status  int    `json:"status"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

type apiErrorBody struct {
	Error apiError `json:"error"`
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	body := apiErrorBody{Error: apiError{
		Status:  statusCode,
		Name:    http.StatusText(statusCode),
		Message: message,
	}}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// writeDBError maps constraint violations to a conflict; everything
// else is a plain store failure. The database message is passed
// through so the client can surface it.
func writeDBError(w http.ResponseWriter, err error) {
	msg := err.Error()
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "unique") || strings.Contains(lower, "foreign key") || strings.Contains(lower, "check constraint") {
		writeError(w, http.StatusConflict, msg)
		return
	}
	writeError(w, http.StatusInternalServerError, msg)
}
