package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"techradar-api/internal/model"
	"techradar-api/pkg/apierror"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
	// detailed errors carry a caller-facing suffix after the sentinel text.
	detailed bool
}

var errorMappings = []errorMapping{
	{model.ErrStoreUnavailable, http.StatusServiceUnavailable, apierror.CodeServiceUnavailable, "Service temporarily unavailable", false},
	{model.ErrInvalidInput, http.StatusBadRequest, apierror.CodeInvalidInput, "Invalid input", true},
	{model.ErrInvalidArgument, http.StatusBadRequest, apierror.CodeInvalidArgument, "Invalid argument", true},
	{model.ErrInvalidCredentials, http.StatusUnauthorized, apierror.CodeInvalidCredentials, "invalid credentials", false},
	{model.ErrMissingToken, http.StatusUnauthorized, apierror.CodeMissingToken, "Authentication token is required", false},
	{model.ErrTokenExpired, http.StatusUnauthorized, apierror.CodeTokenExpired, "Token has expired", false},
	{model.ErrInvalidToken, http.StatusUnauthorized, apierror.CodeInvalidToken, "Invalid token", false},
	{model.ErrUnauthenticated, http.StatusUnauthorized, apierror.CodeUnauthenticated, "Authentication required", false},
	{model.ErrAccountDisabled, http.StatusForbidden, apierror.CodeAccountDisabled, "Account is disabled", false},
	{model.ErrForbidden, http.StatusForbidden, apierror.CodeForbidden, "Insufficient permissions", true},
	{model.ErrAlreadyLiked, http.StatusBadRequest, apierror.CodeAlreadyLiked, "Reference already liked", false},
	{model.ErrNotLiked, http.StatusBadRequest, apierror.CodeNotLiked, "Reference not liked", false},
	{model.ErrUserNotFound, http.StatusNotFound, apierror.CodeNotFound, "User not found", false},
	{model.ErrEntryNotFound, http.StatusNotFound, apierror.CodeNotFound, "Radar entry not found", false},
	{model.ErrReferenceNotFound, http.StatusNotFound, apierror.CodeNotFound, "Reference not found", false},
	{model.ErrUserAlreadyExists, http.StatusConflict, apierror.CodeConflict, "User already exists", false},
	{model.ErrEntryExists, http.StatusConflict, apierror.CodeConflict, "Radar entry already exists", false},
}

func writeSuccess(w http.ResponseWriter, status int, data any, meta *model.Meta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func writeError(w http.ResponseWriter, err error) {
	status, body := classifyError(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}

func classifyError(err error) (int, *model.APIError) {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatus, &model.APIError{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		}
	}

	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}

		body := &model.APIError{Code: m.code, Message: m.message}
		if m.detailed {
			body.Details = detailAfter(err, m.target)
		}
		if m.status >= http.StatusInternalServerError {
			slog.Error("store unavailable", "error", err.Error())
		}
		return m.status, body
	}

	// Unclassified errors stay server side; the caller gets a generic body.
	slog.Error("unhandled error in writeError", "error", err.Error())
	return http.StatusInternalServerError, &model.APIError{
		Code:    apierror.CodeInternal,
		Message: "Unexpected server error",
	}
}

// detailAfter returns the text following "<sentinel>: " in err, which is
// where services put the offending field.
func detailAfter(err error, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "

	i := strings.Index(msg, prefix)
	if i < 0 {
		return ""
	}

	return msg[i+len(prefix):]
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierror.New(apierror.CodeInvalidInput, "invalid JSON body", "", http.StatusBadRequest)
	}

	return nil
}

func parseIntOrDefault(raw string, fallback int) int {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func parseID(raw string, field string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, apierror.New(apierror.CodeInvalidInput, field+" must be a positive integer", field, http.StatusBadRequest)
	}

	return id, nil
}

func parseKind(raw string) (model.EntryKind, error) {
	kind, ok := model.ParseEntryKind(strings.TrimSpace(raw))
	if !ok {
		return "", apierror.New(apierror.CodeInvalidInput, "type must be technology or trend", "type", http.StatusBadRequest)
	}

	return kind, nil
}
