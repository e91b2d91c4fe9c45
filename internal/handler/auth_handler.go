package handlers

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"tweetbook/internal/models"
	"tweetbook/internal/service"
)

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=30"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	ProfileImgURL string `json:"profileImgUrl"`
	Token         string `json:"token"`
}

func newAuthResponse(result *service.AuthResult) AuthResponse {
	return AuthResponse{
		ID:            result.Account.UserID,
		Username:      result.Account.Username,
		ProfileImgURL: result.Account.ProfileImgURL,
		Token:         result.Token,
	}
}

// ClientIP is the peer address of the request without its port.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, MsgWrongInfo, http.StatusBadRequest)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, MsgWrongInfo, http.StatusBadRequest)
		return
	}

	result, err := h.AuthService.Signup(r.Context(), models.SignupInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Address:  ClientIP(r),
	})
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}

	writeSuccess(w, newAuthResponse(result), http.StatusOK)
}

func (h *Handlers) Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, MsgWrongEmailOrPassword, http.StatusBadRequest)
		return
	}

	req.Email = strings.TrimSpace(req.Email)

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, MsgWrongEmailOrPassword, http.StatusBadRequest)
		return
	}

	result, err := h.AuthService.Signin(r.Context(), req.Email, req.Password, ClientIP(r))
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}

	writeSuccess(w, newAuthResponse(result), http.StatusOK)
}
