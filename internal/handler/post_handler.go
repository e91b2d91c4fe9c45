package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"tweetbook/internal/repository"
)

const maxPageLimit = 100

type CreatePostRequest struct {
	Text string `json:"text" validate:"required"`
}

// pageFromQuery reads ?page&limit. Without a limit every post is listed.
func pageFromQuery(r *http.Request) (repository.Page, bool) {
	q := r.URL.Query()
	if q.Get("limit") == "" && q.Get("page") == "" {
		return repository.Page{}, true
	}

	limit := 20
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return repository.Page{}, false
		}
		limit = min(n, maxPageLimit)
	}

	page := 1
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return repository.Page{}, false
		}
		page = n
	}

	return repository.Page{Limit: limit, Offset: (page - 1) * limit}, true
}

func (h *Handlers) GetPosts(w http.ResponseWriter, r *http.Request) {
	page, ok := pageFromQuery(r)
	if !ok {
		WriteError(w, MsgWrongInfo, http.StatusBadRequest)
		return
	}

	posts, err := h.PostService.List(r.Context(), page)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}

	writeSuccess(w, posts, http.StatusOK)
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.PostService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}

	writeSuccess(w, post, http.StatusOK)
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, MsgUnauthorized, http.StatusUnauthorized)
		return
	}

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, MsgWrongInfo, http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, MsgWrongInfo, http.StatusBadRequest)
		return
	}

	post, err := h.PostService.Create(r.Context(), userID, req.Text)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}

	writeSuccess(w, post, http.StatusOK)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, MsgUnauthorized, http.StatusUnauthorized)
		return
	}

	if err := h.PostService.Delete(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		WriteServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) LikePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, MsgUnauthorized, http.StatusUnauthorized)
		return
	}

	post, err := h.PostService.Like(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}

	writeSuccess(w, post, http.StatusOK)
}

func (h *Handlers) UnlikePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, MsgUnauthorized, http.StatusUnauthorized)
		return
	}

	post, err := h.PostService.Unlike(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}

	writeSuccess(w, post, http.StatusOK)
}
