package httputil

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope every endpoint writes. Success responses carry
// Data and optionally Message; failures carry Error and optionally Details.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// WriteJSON writes a raw JSON body with the given status code
func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			// Headers already sent, nothing left to do
			return
		}
	}
}

// WriteSuccess writes a 200 success envelope with data
func WriteSuccess(w http.ResponseWriter, data interface{}) {
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

// WriteSuccessMessage writes a 200 success envelope with data and a message
func WriteSuccessMessage(w http.ResponseWriter, data interface{}, message string) {
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: data, Message: message})
}

// WriteCreated writes a 201 success envelope with data and a message
func WriteCreated(w http.ResponseWriter, data interface{}, message string) {
	WriteJSON(w, http.StatusCreated, Response{Success: true, Data: data, Message: message})
}

// WriteError writes a failure envelope with the given status code
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Response{Success: false, Error: message})
}

// WriteErrorDetails writes a failure envelope with field-level details
func WriteErrorDetails(w http.ResponseWriter, status int, message string, details interface{}) {
	WriteJSON(w, status, Response{Success: false, Error: message, Details: details})
}

// Common error response helpers

// WriteBadRequest writes a 400 Bad Request error
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

// WriteUnauthorized writes a 401 Unauthorized error
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message)
}

// WriteForbidden writes a 403 Forbidden error
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message)
}

// WriteNotFound writes a 404 Not Found error
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

// WriteConflict writes a 409 Conflict error
func WriteConflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, message)
}

// WriteInternalError writes a 500 Internal Server Error
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}
