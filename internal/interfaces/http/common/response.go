package common

import (
	"encoding/json"
	"log"
	"net/http"
)

// WriteJSON serializes payload to JSON with status and logs on failure.
func WriteJSON(logger *log.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Printf("JSON エンコードに失敗: %v", err)
	}
}

// WriteError emits the page-level error envelope shared by every admin endpoint.
func WriteError(logger *log.Logger, w http.ResponseWriter, status int, message string) {
	WriteJSON(logger, w, status, map[string]string{"error": message})
}

// WriteFieldConflict emits the 409 envelope mapping a uniqueness violation onto one field.
func WriteFieldConflict(logger *log.Logger, w http.ResponseWriter, field, message string) {
	WriteJSON(logger, w, http.StatusConflict, map[string]string{
		"field":   field,
		"message": message,
	})
}
