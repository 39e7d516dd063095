package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"techradar-api/internal/middleware"
	"techradar-api/internal/model"
	"techradar-api/internal/service"
)

type CommentHandler struct {
	service *service.CommentService
}

func NewCommentHandler(service *service.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

func (h *CommentHandler) Count(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	kind, err := parseKind(query.Get("type"))
	if err != nil {
		writeError(w, err)
		return
	}

	count, err := h.service.Count(r.Context(), kind, strings.TrimSpace(query.Get("generatedId")))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.EntryCount{Count: count}, nil)
}

func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(chi.URLParam(r, "type"))
	if err != nil {
		writeError(w, err)
		return
	}

	query := r.URL.Query()
	comments, meta, err := h.service.List(r.Context(), kind, generatedIDParam(r),
		parseIntOrDefault(query.Get("page"), 1), parseIntOrDefault(query.Get("limit"), 0))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.CommentList{Comments: comments}, &meta)
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(chi.URLParam(r, "type"))
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.CreateCommentRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	claims, _ := middleware.ClaimsFromContext(r.Context())
	comment, err := h.service.Create(auditContext(r), claims, kind, generatedIDParam(r), payload.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, comment, nil)
}
