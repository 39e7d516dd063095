package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"techradar-api/internal/model"
)

const entryColumns = `id, kind, generated_id, name, abstract, stage, definition_and_scope,
		        relevance_and_impact, segment, maturity, recommended_action, content_source,
		        last_review_date, image_url, ring, quadrant, active, moved, created_at, updated_at`

// RadarRepository stores technologies and trends in one table keyed by
// kind, so queries never interpolate table names.
type RadarRepository struct {
	db DBTX
}

func NewRadarRepository(db DBTX) *RadarRepository {
	return &RadarRepository{db: db}
}

func scanEntry(row pgx.Row) (model.RadarEntry, error) {
	var e model.RadarEntry
	err := row.Scan(&e.ID, &e.Kind, &e.GeneratedID, &e.Name, &e.Abstract, &e.Stage,
		&e.DefinitionAndScope, &e.RelevanceAndImpact, &e.Segment, &e.Maturity,
		&e.RecommendedAction, &e.ContentSource, &e.LastReviewDate, &e.ImageURL,
		&e.Ring, &e.Quadrant, &e.Active, &e.Moved, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func collectEntries(rows pgx.Rows) ([]model.RadarEntry, error) {
	defer rows.Close()

	entries := make([]model.RadarEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan radar entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// likeEscaper makes ILIKE treat wildcard characters in user input as
// literals. Backslash is the default ILIKE escape.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// List returns one page of entries of the given kind and the total number
// of matches. Search matches name or abstract, case-insensitively.
func (r *RadarRepository) List(ctx context.Context, query model.EntryQuery) ([]model.RadarEntry, int, error) {
	where := []string{"kind = $1"}
	args := []any{string(query.Kind)}
	argIdx := 2

	if search := strings.TrimSpace(query.Search); search != "" {
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR abstract ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+likeEscaper.Replace(search)+"%")
		argIdx++
	}
	whereClause := "WHERE " + strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM radar_entries "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, wrap("count radar entries", err)
	}

	offset := (query.Page - 1) * query.Limit
	dataQuery := fmt.Sprintf(
		`SELECT %s FROM radar_entries %s
		 ORDER BY name
		 LIMIT $%d OFFSET $%d`, entryColumns, whereClause, argIdx, argIdx+1)
	args = append(args, query.Limit, offset)

	rows, err := r.db.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, wrap("list radar entries", err)
	}
	entries, err := collectEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *RadarRepository) Count(ctx context.Context, kind model.EntryKind) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM radar_entries WHERE kind = $1`, string(kind)).Scan(&count)
	if err != nil {
		return 0, wrap("count radar entries", err)
	}
	return count, nil
}

func (r *RadarRepository) GetByGeneratedID(ctx context.Context, kind model.EntryKind, generatedID string) (model.RadarEntry, error) {
	e, err := scanEntry(r.db.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM radar_entries WHERE kind = $1 AND generated_id = $2`,
		string(kind), generatedID))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.RadarEntry{}, model.ErrEntryNotFound
	}
	if err != nil {
		return model.RadarEntry{}, wrap("get radar entry", err)
	}
	return e, nil
}

func (r *RadarRepository) ListByQuadrant(ctx context.Context, kind model.EntryKind, quadrant int) ([]model.RadarEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+entryColumns+` FROM radar_entries
		 WHERE kind = $1 AND quadrant = $2
		 ORDER BY ring, name`,
		string(kind), quadrant)
	if err != nil {
		return nil, wrap("list radar entries by quadrant", err)
	}
	return collectEntries(rows)
}

func (r *RadarRepository) ListByRing(ctx context.Context, kind model.EntryKind, ring int) ([]model.RadarEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+entryColumns+` FROM radar_entries
		 WHERE kind = $1 AND ring = $2
		 ORDER BY quadrant, name`,
		string(kind), ring)
	if err != nil {
		return nil, wrap("list radar entries by ring", err)
	}
	return collectEntries(rows)
}

// ListActive feeds the radar config export.
func (r *RadarRepository) ListActive(ctx context.Context, kind model.EntryKind) ([]model.RadarEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+entryColumns+` FROM radar_entries
		 WHERE kind = $1 AND active
		 ORDER BY quadrant, ring, name`,
		string(kind))
	if err != nil {
		return nil, wrap("list active radar entries", err)
	}
	return collectEntries(rows)
}

func (r *RadarRepository) Create(ctx context.Context, e model.RadarEntry) (model.RadarEntry, error) {
	created, err := scanEntry(r.db.QueryRow(ctx,
		`INSERT INTO radar_entries
		 (kind, generated_id, name, abstract, stage, definition_and_scope, relevance_and_impact,
		  segment, maturity, recommended_action, content_source, last_review_date, image_url,
		  ring, quadrant, active, moved, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $18)
		 RETURNING `+entryColumns,
		string(e.Kind), e.GeneratedID, e.Name, e.Abstract, e.Stage, e.DefinitionAndScope,
		e.RelevanceAndImpact, e.Segment, e.Maturity, e.RecommendedAction, e.ContentSource,
		e.LastReviewDate, e.ImageURL, e.Ring, e.Quadrant, e.Active, e.Moved, e.CreatedAt))
	if isUniqueViolation(err) {
		return model.RadarEntry{}, model.ErrEntryExists
	}
	if err != nil {
		return model.RadarEntry{}, wrap("create radar entry", err)
	}
	return created, nil
}

// Update replaces every editable field of the entry addressed by kind and
// generatedID. A changed generated_id that collides returns ErrEntryExists.
func (r *RadarRepository) Update(ctx context.Context, kind model.EntryKind, generatedID string, e model.RadarEntry) (model.RadarEntry, error) {
	updated, err := scanEntry(r.db.QueryRow(ctx,
		`UPDATE radar_entries SET
		    generated_id = $3, name = $4, abstract = $5, stage = $6,
		    definition_and_scope = $7, relevance_and_impact = $8, segment = $9,
		    maturity = $10, recommended_action = $11, content_source = $12,
		    last_review_date = $13, image_url = $14, ring = $15, quadrant = $16,
		    active = $17, moved = $18, updated_at = $19
		 WHERE kind = $1 AND generated_id = $2
		 RETURNING `+entryColumns,
		string(kind), generatedID, e.GeneratedID, e.Name, e.Abstract, e.Stage,
		e.DefinitionAndScope, e.RelevanceAndImpact, e.Segment, e.Maturity,
		e.RecommendedAction, e.ContentSource, e.LastReviewDate, e.ImageURL,
		e.Ring, e.Quadrant, e.Active, e.Moved, e.UpdatedAt))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.RadarEntry{}, model.ErrEntryNotFound
	}
	if isUniqueViolation(err) {
		return model.RadarEntry{}, model.ErrEntryExists
	}
	if err != nil {
		return model.RadarEntry{}, wrap("update radar entry", err)
	}
	return updated, nil
}

func (r *RadarRepository) UpdateStage(ctx context.Context, kind model.EntryKind, generatedID string, stage string, at time.Time) (model.RadarEntry, error) {
	updated, err := scanEntry(r.db.QueryRow(ctx,
		`UPDATE radar_entries SET stage = $3, updated_at = $4
		 WHERE kind = $1 AND generated_id = $2
		 RETURNING `+entryColumns,
		string(kind), generatedID, stage, at))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.RadarEntry{}, model.ErrEntryNotFound
	}
	if err != nil {
		return model.RadarEntry{}, wrap("update radar entry stage", err)
	}
	return updated, nil
}

func (r *RadarRepository) Delete(ctx context.Context, kind model.EntryKind, generatedID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM radar_entries WHERE kind = $1 AND generated_id = $2`,
		string(kind), generatedID)
	if err != nil {
		return wrap("delete radar entry", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrEntryNotFound
	}
	return nil
}

// LatestRadarDate returns the most recent published radar date, or "" when
// none has been recorded. Dates are stored as "2006.01.02" so they sort
// lexically.
func (r *RadarRepository) LatestRadarDate(ctx context.Context) (string, error) {
	var date string
	err := r.db.QueryRow(ctx, `SELECT date FROM radar_dates ORDER BY date DESC LIMIT 1`).Scan(&date)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", wrap("latest radar date", err)
	}
	return date, nil
}
