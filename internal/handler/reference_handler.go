package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"techradar-api/internal/model"
	"techradar-api/internal/service"
)

type ReferenceHandler struct {
	service *service.ReferenceService
}

func NewReferenceHandler(service *service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{service: service}
}

func (h *ReferenceHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.Count(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.EntryCount{Count: count}, nil)
}

func (h *ReferenceHandler) ListByEntity(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(chi.URLParam(r, "type"))
	if err != nil {
		writeError(w, err)
		return
	}

	refs, err := h.service.ListByEntity(r.Context(), kind, generatedIDParam(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.ReferenceList{References: refs}, nil)
}

func (h *ReferenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		writeError(w, err)
		return
	}

	ref, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, ref, nil)
}

func (h *ReferenceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateReferenceRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	ref, err := h.service.Create(auditContext(r), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, ref, nil)
}

func (h *ReferenceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Delete(auditContext(r), id); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}
