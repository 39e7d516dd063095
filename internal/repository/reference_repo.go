package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"techradar-api/internal/model"
)

type ReferenceRepository struct {
	db DBTX
}

func NewReferenceRepository(db DBTX) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

func (r *ReferenceRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM entry_references`).Scan(&count); err != nil {
		return 0, wrap("count references", err)
	}
	return count, nil
}

func (r *ReferenceRepository) ListByEntity(ctx context.Context, kind model.EntryKind, generatedID string) ([]model.Reference, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, kind, generated_id, title, url, description, created_at
		 FROM entry_references
		 WHERE kind = $1 AND generated_id = $2
		 ORDER BY id`,
		string(kind), generatedID)
	if err != nil {
		return nil, wrap("list references", err)
	}
	defer rows.Close()

	refs := make([]model.Reference, 0)
	for rows.Next() {
		var ref model.Reference
		if err := rows.Scan(&ref.ID, &ref.Kind, &ref.GeneratedID, &ref.Title, &ref.URL, &ref.Description, &ref.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reference: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (r *ReferenceRepository) Get(ctx context.Context, id int64) (model.Reference, error) {
	var ref model.Reference
	err := r.db.QueryRow(ctx,
		`SELECT id, kind, generated_id, title, url, description, created_at
		 FROM entry_references WHERE id = $1`, id).
		Scan(&ref.ID, &ref.Kind, &ref.GeneratedID, &ref.Title, &ref.URL, &ref.Description, &ref.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Reference{}, model.ErrReferenceNotFound
	}
	if err != nil {
		return model.Reference{}, wrap("get reference", err)
	}
	return ref, nil
}

func (r *ReferenceRepository) Create(ctx context.Context, ref model.Reference) (model.Reference, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO entry_references (kind, generated_id, title, url, description, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		string(ref.Kind), ref.GeneratedID, ref.Title, ref.URL, ref.Description, ref.CreatedAt).Scan(&ref.ID)
	if err != nil {
		return model.Reference{}, wrap("create reference", err)
	}
	return ref, nil
}

func (r *ReferenceRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM entry_references WHERE id = $1`, id)
	if err != nil {
		return wrap("delete reference", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrReferenceNotFound
	}
	return nil
}
