package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/AnshRaj112/codinglearn-backend/internal/models"
	"github.com/AnshRaj112/codinglearn-backend/internal/services"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// UserResponse wraps the caller's own profile.
type UserResponse struct {
	User models.PublicUser `json:"user"`
}

// StatusResponse is returned by health and lead submission.
type StatusResponse struct {
	Status string `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Success: false, Message: message})
}

// writeUser is the only way a user record reaches a client; the credential
// is stripped here.
func writeUser(w http.ResponseWriter, status int, user models.User) {
	writeJSON(w, status, UserResponse{User: services.SanitizeForClient(user)})
}

func writeAuth(w http.ResponseWriter, status int, token string, user models.User) {
	writeJSON(w, status, AuthResponse{Token: token, User: services.SanitizeForClient(user)})
}

// internalError logs the cause and answers with a generic message.
func internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.ErrorContext(r.Context(), msg, "error", err, "method", r.Method, "path", r.URL.Path)
	writeError(w, http.StatusInternalServerError, "An internal error occurred.")
}

// decodeJSON reads at most maxBytes of the body into dst. An empty body
// decodes as {}. It writes the error response itself and returns false on
// failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, dst interface{}) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return true
	}
	if err := json.Unmarshal(body, dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return false
	}
	return true
}

// NotFound answers unmatched routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Resource not found")
}

// MethodNotAllowed answers known paths hit with the wrong verb.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
