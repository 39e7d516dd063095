package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"techradar-api/internal/event"
	"techradar-api/internal/model"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
	auditWriteTimeout = 5 * time.Second
)

// AuditService persists every domain event published on the bus and serves
// the admin audit log.
type AuditService struct {
	store  AuditStore
	bus    event.Bus
	logger *slog.Logger
}

func NewAuditService(store AuditStore, bus event.Bus, logger *slog.Logger) *AuditService {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuditService{store: store, bus: bus, logger: logger}
}

// Run consumes events until ctx is cancelled. ready, when non-nil, is
// closed once the subscription is registered.
func (s *AuditService) Run(ctx context.Context, ready chan<- struct{}) {
	events, unsubscribe := s.bus.Subscribe()
	defer unsubscribe()
	if ready != nil {
		close(ready)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			s.record(e)
		}
	}
}

func (s *AuditService) record(e event.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
	defer cancel()

	entry := model.AuditEntry{
		Action:   string(e.Type),
		Actor:    e.Actor,
		Resource: e.Resource,
		Payload:  e.Payload,
	}
	if err := s.store.Log(ctx, entry, e.Timestamp); err != nil {
		s.logger.Error("failed to persist audit entry", "event_id", e.ID, "action", e.Type, "error", err)
	}
}

func (s *AuditService) Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error) {
	query.Page, query.Limit = model.ClampPage(query.Page, query.Limit, defaultAuditLimit, maxAuditLimit)

	from, err := parseOptionalAuditTime(query.From)
	if err != nil {
		return nil, model.Meta{}, fmt.Errorf("%w: invalid 'from' datetime format", model.ErrInvalidInput)
	}
	to, err := parseOptionalAuditTime(query.To)
	if err != nil {
		return nil, model.Meta{}, fmt.Errorf("%w: invalid 'to' datetime format", model.ErrInvalidInput)
	}
	if !from.IsZero() {
		query.From = from.Format(time.RFC3339Nano)
	}
	if !to.IsZero() {
		query.To = to.Format(time.RFC3339Nano)
	}

	items, total, err := s.store.Query(ctx, query)
	if err != nil {
		return nil, model.Meta{}, err
	}

	return items, model.NewMeta(query.Page, query.Limit, total), nil
}

func parseOptionalAuditTime(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, nil
	}

	return parseAuditTime(trimmed)
}

func parseAuditTime(raw string) (time.Time, error) {
	if value, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return value.UTC(), nil
	}

	value, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, err
	}

	return value.UTC(), nil
}
