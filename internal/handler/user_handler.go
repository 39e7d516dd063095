package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"techradar-api/internal/model"
	"techradar-api/internal/service"
)

type UserHandler struct {
	service *service.UserService
}

func NewUserHandler(service *service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.UserList{Users: users}, nil)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := parseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.Get(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user, nil)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateUserRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.Create(auditContext(r), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, user, nil)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := parseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.UpdateUserRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.Update(auditContext(r), userID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user, nil)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := parseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		writeError(w, err)
		return
	}

	actor := actorFromRequest(r)
	if err := h.service.Delete(auditContext(r), actor.UserID, userID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}
