package handler

import (
	"context"
	"net/http"

	"techradar-api/internal/event"
	"techradar-api/internal/middleware"
	"techradar-api/internal/model"
)

func actorFromRequest(r *http.Request) model.AuditActor {
	actor := model.AuditActor{IP: middleware.ClientIP(r)}

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return actor
	}

	actor.UserID = claims.UserID
	actor.Username = claims.Username
	actor.Role = claims.Role

	return actor
}

// auditContext carries the caller identity into services so the events they
// publish are attributed.
func auditContext(r *http.Request) context.Context {
	return event.WithActor(r.Context(), actorFromRequest(r))
}
