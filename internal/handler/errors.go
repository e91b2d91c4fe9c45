package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"tweetbook/internal/models"
)

const (
	MsgUnauthorized         = "Unauthorised access. Please login or signup."
	MsgUserNotExists        = "User doesn't exist"
	MsgPostNotExists        = "Tweet doesn't exist"
	MsgUserAlreadyExists    = "User already exists"
	MsgWrongEmailOrPassword = "Wrong email or password"
	MsgWrongInfo            = "Wrong information provided"
	MsgInternal             = "Something went wrong! Please try again later"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

func writeSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// StatusFor maps an error kind to its HTTP status and client message.
// Anything unrecognised is internal.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized, MsgUnauthorized
	case errors.Is(err, models.ErrUserNotExists):
		return http.StatusNotFound, MsgUserNotExists
	case errors.Is(err, models.ErrPostNotExists):
		return http.StatusNotFound, MsgPostNotExists
	case errors.Is(err, models.ErrUserAlreadyExists):
		return http.StatusConflict, MsgUserAlreadyExists
	case errors.Is(err, models.ErrWrongEmailOrPassword):
		return http.StatusBadRequest, MsgWrongEmailOrPassword
	case errors.Is(err, models.ErrWrongInfo):
		return http.StatusBadRequest, MsgWrongInfo
	default:
		return http.StatusInternalServerError, MsgInternal
	}
}

// WriteServiceError writes err as a JSON error. Internal errors are logged
// and never shown to the client.
func WriteServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := StatusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	WriteError(w, message, status)
}
