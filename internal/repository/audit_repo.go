package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"techradar-api/internal/model"
)

type AuditRepository struct {
	db DBTX
}

func NewAuditRepository(db DBTX) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Log(ctx context.Context, entry model.AuditEntry, occurredAt time.Time) error {
	var payloadJSON []byte
	if entry.Payload != nil {
		var err error
		payloadJSON, err = json.Marshal(entry.Payload)
		if err != nil {
			return fmt.Errorf("marshal audit payload: %w", err)
		}
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO audit_entries
		 (action, occurred_at, actor_user_id, actor_username, actor_role, resource, payload)
		 VALUES ($1, $2, NULLIF($3::bigint, 0), $4, $5, $6, $7)`,
		entry.Action, occurredAt,
		entry.Actor.UserID, entry.Actor.Username, string(entry.Actor.Role),
		entry.Resource, payloadJSON)
	if err != nil {
		return wrap("log audit entry", err)
	}
	return nil
}

// Query expects query.Page and query.Limit to be clamped by the caller and
// From/To to be valid RFC 3339 timestamps when set.
func (r *AuditRepository) Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, int, error) {
	where := make([]string, 0)
	args := make([]any, 0)
	argIdx := 1

	if action := strings.TrimSpace(query.Action); action != "" {
		where = append(where, fmt.Sprintf("lower(action) = lower($%d)", argIdx))
		args = append(args, action)
		argIdx++
	}
	if query.ActorID > 0 {
		where = append(where, fmt.Sprintf("actor_user_id = $%d", argIdx))
		args = append(args, query.ActorID)
		argIdx++
	}
	if from := strings.TrimSpace(query.From); from != "" {
		where = append(where, fmt.Sprintf("occurred_at >= $%d::timestamptz", argIdx))
		args = append(args, from)
		argIdx++
	}
	if to := strings.TrimSpace(query.To); to != "" {
		where = append(where, fmt.Sprintf("occurred_at <= $%d::timestamptz", argIdx))
		args = append(args, to)
		argIdx++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM audit_entries "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, wrap("count audit entries", err)
	}

	offset := (query.Page - 1) * query.Limit
	dataQuery := fmt.Sprintf(
		`SELECT id, action, occurred_at, COALESCE(actor_user_id, 0), actor_username, actor_role,
		        resource, payload
		 FROM audit_entries %s
		 ORDER BY occurred_at DESC, id DESC
		 LIMIT $%d OFFSET $%d`, whereClause, argIdx, argIdx+1)
	args = append(args, query.Limit, offset)

	rows, err := r.db.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, wrap("query audit entries", err)
	}
	defer rows.Close()

	entries := make([]model.AuditEntry, 0)
	for rows.Next() {
		var e model.AuditEntry
		var occurredAt time.Time
		var role string
		var payloadJSON []byte

		if err := rows.Scan(
			&e.ID, &e.Action, &occurredAt,
			&e.Actor.UserID, &e.Actor.Username, &role,
			&e.Resource, &payloadJSON,
		); err != nil {
			return nil, 0, fmt.Errorf("scan audit entry: %w", err)
		}

		e.Actor.Role = model.Role(role)
		e.OccurredAt = occurredAt.UTC().Format(time.RFC3339Nano)

		if len(payloadJSON) > 0 {
			var payload any
			if jsonErr := json.Unmarshal(payloadJSON, &payload); jsonErr == nil {
				e.Payload = payload
			}
		}

		entries = append(entries, e)
	}

	return entries, total, rows.Err()
}
