package repository

import (
	"context"

	"techradar-api/internal/model"
)

// LikeRepository stores the like relation. The (user_id, reference_id,
// reference_type) primary key is the only guard against duplicate likes;
// Insert relies on it instead of a prior read.
type LikeRepository struct {
	db DBTX
}

func NewLikeRepository(db DBTX) *LikeRepository {
	return &LikeRepository{db: db}
}

func (r *LikeRepository) Count(ctx context.Context, ref model.LikeRef) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM likes WHERE reference_id = $1 AND reference_type = $2`,
		ref.ID, ref.Type).Scan(&count)
	if err != nil {
		return 0, wrap("count likes", err)
	}
	return count, nil
}

func (r *LikeRepository) Exists(ctx context.Context, userID int64, ref model.LikeRef) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(
		    SELECT 1 FROM likes
		    WHERE user_id = $1 AND reference_id = $2 AND reference_type = $3)`,
		userID, ref.ID, ref.Type).Scan(&exists)
	if err != nil {
		return false, wrap("like status", err)
	}
	return exists, nil
}

// Insert returns model.ErrAlreadyLiked when the row already exists,
// including when a concurrent insert for the same triple committed first.
func (r *LikeRepository) Insert(ctx context.Context, like model.Like) error {
	tag, err := r.db.Exec(ctx,
		`INSERT INTO likes (user_id, reference_id, reference_type, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, reference_id, reference_type) DO NOTHING`,
		like.UserID, like.Ref.ID, like.Ref.Type, like.CreatedAt)
	if isUniqueViolation(err) {
		return model.ErrAlreadyLiked
	}
	if err != nil {
		return wrap("insert like", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAlreadyLiked
	}
	return nil
}

// Delete returns model.ErrNotLiked when there was nothing to remove.
func (r *LikeRepository) Delete(ctx context.Context, userID int64, ref model.LikeRef) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM likes
		 WHERE user_id = $1 AND reference_id = $2 AND reference_type = $3`,
		userID, ref.ID, ref.Type)
	if err != nil {
		return wrap("delete like", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotLiked
	}
	return nil
}
