package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"tweetbook/internal/service"
)

type UpdateProfileRequest struct {
	Bio           *string `json:"bio" validate:"omitempty,max=160"`
	ProfileImgURL *string `json:"profileImgUrl" validate:"omitempty,url"`
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	account, err := h.UserService.Profile(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}

	writeSuccess(w, account, http.StatusOK)
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, MsgUnauthorized, http.StatusUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, MsgWrongInfo, http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, MsgWrongInfo, http.StatusBadRequest)
		return
	}

	account, err := h.UserService.UpdateProfile(r.Context(), userID, service.ProfileUpdate{
		Bio:           req.Bio,
		ProfileImgURL: req.ProfileImgURL,
	})
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}

	writeSuccess(w, account, http.StatusOK)
}

func (h *Handlers) UploadProfileImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, MsgUnauthorized, http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize)
	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, fmt.Sprintf("File too large (max %d MB)", h.Cfg.MaxUploadSize/(1024*1024)), http.StatusBadRequest)
		} else {
			WriteError(w, MsgWrongInfo, http.StatusBadRequest)
		}
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		WriteError(w, MsgWrongInfo, http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !allowedImageTypes[header.Header.Get("Content-Type")] {
		WriteError(w, "Unsupported file type. Allowed: JPEG, PNG, GIF, WebP", http.StatusBadRequest)
		return
	}

	account, err := h.UserService.UploadProfileImage(r.Context(), userID, header.Filename, file, header.Size)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}

	writeSuccess(w, account, http.StatusOK)
}

func (h *Handlers) Follow(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, MsgUnauthorized, http.StatusUnauthorized)
		return
	}

	account, err := h.RelationshipService.Follow(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}

	writeSuccess(w, account, http.StatusOK)
}

func (h *Handlers) Unfollow(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, MsgUnauthorized, http.StatusUnauthorized)
		return
	}

	account, err := h.RelationshipService.Unfollow(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}

	writeSuccess(w, account, http.StatusOK)
}

func (h *Handlers) SearchUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.Search(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}

	writeSuccess(w, users, http.StatusOK)
}
