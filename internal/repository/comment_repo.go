package repository

import (
	"context"
	"fmt"

	"techradar-api/internal/model"
)

type CommentRepository struct {
	db DBTX
}

func NewCommentRepository(db DBTX) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Count(ctx context.Context, kind model.EntryKind, generatedID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM comments WHERE kind = $1 AND generated_id = $2`,
		string(kind), generatedID).Scan(&count)
	if err != nil {
		return 0, wrap("count comments", err)
	}
	return count, nil
}

// List returns comments newest first.
func (r *CommentRepository) List(ctx context.Context, kind model.EntryKind, generatedID string, page int, limit int) ([]model.Comment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, kind, generated_id, text, author, COALESCE(author_id, 0), created_at
		 FROM comments
		 WHERE kind = $1 AND generated_id = $2
		 ORDER BY created_at DESC, id DESC
		 LIMIT $3 OFFSET $4`,
		string(kind), generatedID, limit, (page-1)*limit)
	if err != nil {
		return nil, wrap("list comments", err)
	}
	defer rows.Close()

	comments := make([]model.Comment, 0)
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.Kind, &c.GeneratedID, &c.Text, &c.Author, &c.AuthorID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *CommentRepository) Create(ctx context.Context, c model.Comment) (model.Comment, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO comments (kind, generated_id, text, author, author_id, created_at)
		 VALUES ($1, $2, $3, $4, NULLIF($5::bigint, 0), $6)
		 RETURNING id`,
		string(c.Kind), c.GeneratedID, c.Text, c.Author, c.AuthorID, c.CreatedAt).Scan(&c.ID)
	if err != nil {
		return model.Comment{}, wrap("create comment", err)
	}
	return c, nil
}
