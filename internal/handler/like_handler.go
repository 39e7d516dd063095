package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"techradar-api/internal/middleware"
	"techradar-api/internal/model"
	"techradar-api/internal/service"
)

type LikeHandler struct {
	service *service.LikeService
}

func NewLikeHandler(service *service.LikeService) *LikeHandler {
	return &LikeHandler{service: service}
}

func decodeLikeRef(r *http.Request) (model.LikeRef, error) {
	defer r.Body.Close()

	var payload model.LikeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return model.LikeRef{}, fmt.Errorf("%w: invalid JSON body", model.ErrInvalidArgument)
	}

	return service.ParseLikeRef(payload)
}

// callerID is zero when the request carries no verified identity; the
// service rejects that as unauthenticated.
func callerID(r *http.Request) int64 {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return 0
	}
	return claims.UserID
}

func (h *LikeHandler) Count(w http.ResponseWriter, r *http.Request) {
	ref, err := decodeLikeRef(r)
	if err != nil {
		writeError(w, err)
		return
	}

	count, err := h.service.Count(r.Context(), ref)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.LikeCount{Count: count}, nil)
}

func (h *LikeHandler) Status(w http.ResponseWriter, r *http.Request) {
	ref, err := decodeLikeRef(r)
	if err != nil {
		writeError(w, err)
		return
	}

	liked, err := h.service.Status(r.Context(), callerID(r), ref)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.LikeStatus{IsLiked: liked}, nil)
}

func (h *LikeHandler) Add(w http.ResponseWriter, r *http.Request) {
	ref, err := decodeLikeRef(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Add(auditContext(r), callerID(r), ref); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]any{"message": "Like added"}, nil)
}

func (h *LikeHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ref, err := decodeLikeRef(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Remove(auditContext(r), callerID(r), ref); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"message": "Like removed"}, nil)
}
