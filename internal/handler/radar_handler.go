package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"techradar-api/internal/model"
	"techradar-api/internal/service"
	"techradar-api/pkg/apierror"
)

// RadarHandler serves one entry kind. The router mounts one instance for
// technologies and one for trends.
type RadarHandler struct {
	kind  model.EntryKind
	radar *service.RadarService
	likes *service.LikeService
}

func NewRadarHandler(kind model.EntryKind, radar *service.RadarService, likes *service.LikeService) *RadarHandler {
	return &RadarHandler{kind: kind, radar: radar, likes: likes}
}

func generatedIDParam(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "generatedId"))
}

func intParam(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(chi.URLParam(r, name)))
	if err != nil {
		return 0, apierror.New(apierror.CodeInvalidInput, name+" must be an integer", name, http.StatusBadRequest)
	}
	return v, nil
}

func (h *RadarHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	entries, meta, err := h.radar.List(r.Context(), model.EntryQuery{
		Kind:   h.kind,
		Search: strings.TrimSpace(query.Get("search")),
		Page:   parseIntOrDefault(query.Get("page"), 1),
		Limit:  parseIntOrDefault(query.Get("limit"), 0),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.EntryList{Entries: entries}, &meta)
}

func (h *RadarHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.radar.Count(r.Context(), h.kind)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.EntryCount{Count: count}, nil)
}

func (h *RadarHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.radar.Get(r.Context(), h.kind, generatedIDParam(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, entry, nil)
}

func (h *RadarHandler) ListByQuadrant(w http.ResponseWriter, r *http.Request) {
	quadrant, err := intParam(r, "quadrant")
	if err != nil {
		writeError(w, err)
		return
	}

	entries, err := h.radar.ListByQuadrant(r.Context(), h.kind, quadrant)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.EntryList{Entries: entries}, nil)
}

func (h *RadarHandler) ListByRing(w http.ResponseWriter, r *http.Request) {
	ring, err := intParam(r, "ring")
	if err != nil {
		writeError(w, err)
		return
	}

	entries, err := h.radar.ListByRing(r.Context(), h.kind, ring)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.EntryList{Entries: entries}, nil)
}

func (h *RadarHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.EntryRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	entry, err := h.radar.Create(auditContext(r), h.kind, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, entry, nil)
}

func (h *RadarHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload model.EntryRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	entry, err := h.radar.Update(auditContext(r), h.kind, generatedIDParam(r), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, entry, nil)
}

func (h *RadarHandler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	var payload model.StageRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	entry, err := h.radar.UpdateStage(auditContext(r), h.kind, generatedIDParam(r), payload.Stage)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, entry, nil)
}

func (h *RadarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.radar.Delete(auditContext(r), h.kind, generatedIDParam(r)); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}

// likeRef resolves the entry so likes are keyed by its numeric id, with the
// entry kind as the reference type.
func (h *RadarHandler) likeRef(r *http.Request) (model.LikeRef, error) {
	entry, err := h.radar.Get(r.Context(), h.kind, generatedIDParam(r))
	if err != nil {
		return model.LikeRef{}, err
	}

	return model.LikeRef{ID: entry.ID, Type: string(h.kind)}, nil
}

func (h *RadarHandler) LikeCount(w http.ResponseWriter, r *http.Request) {
	ref, err := h.likeRef(r)
	if err != nil {
		writeError(w, err)
		return
	}

	count, err := h.likes.Count(r.Context(), ref)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.LikeCount{Count: count}, nil)
}

func (h *RadarHandler) LikeStatus(w http.ResponseWriter, r *http.Request) {
	ref, err := h.likeRef(r)
	if err != nil {
		writeError(w, err)
		return
	}

	liked, err := h.likes.Status(r.Context(), callerID(r), ref)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.LikeStatus{IsLiked: liked}, nil)
}

func (h *RadarHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	ref, err := h.likeRef(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.likes.Toggle(auditContext(r), callerID(r), ref)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result, nil)
}

func (h *RadarHandler) Config(w http.ResponseWriter, r *http.Request) {
	config, err := h.radar.Config(r.Context(), h.kind)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, config, nil)
}
