package service

import (
	"context"
	"time"

	"techradar-api/internal/model"
)

// The store interfaces below are satisfied by the Postgres repositories in
// internal/repository and by the in-memory stores in
// internal/repository/memory.

type UserStore interface {
	FindByID(ctx context.Context, id int64) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
	Create(ctx context.Context, u model.User) (model.User, error)
	Update(ctx context.Context, id int64, req model.UpdateUserRequest) (model.User, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]model.User, error)
	Count(ctx context.Context) (int, error)
}

type LikeStore interface {
	Count(ctx context.Context, ref model.LikeRef) (int64, error)
	Exists(ctx context.Context, userID int64, ref model.LikeRef) (bool, error)
	Insert(ctx context.Context, like model.Like) error
	Delete(ctx context.Context, userID int64, ref model.LikeRef) error
}

type RadarStore interface {
	List(ctx context.Context, query model.EntryQuery) ([]model.RadarEntry, int, error)
	Count(ctx context.Context, kind model.EntryKind) (int, error)
	GetByGeneratedID(ctx context.Context, kind model.EntryKind, generatedID string) (model.RadarEntry, error)
	ListByQuadrant(ctx context.Context, kind model.EntryKind, quadrant int) ([]model.RadarEntry, error)
	ListByRing(ctx context.Context, kind model.EntryKind, ring int) ([]model.RadarEntry, error)
	ListActive(ctx context.Context, kind model.EntryKind) ([]model.RadarEntry, error)
	Create(ctx context.Context, e model.RadarEntry) (model.RadarEntry, error)
	Update(ctx context.Context, kind model.EntryKind, generatedID string, e model.RadarEntry) (model.RadarEntry, error)
	UpdateStage(ctx context.Context, kind model.EntryKind, generatedID string, stage string, at time.Time) (model.RadarEntry, error)
	Delete(ctx context.Context, kind model.EntryKind, generatedID string) error
	LatestRadarDate(ctx context.Context) (string, error)
}

type CommentStore interface {
	Count(ctx context.Context, kind model.EntryKind, generatedID string) (int, error)
	List(ctx context.Context, kind model.EntryKind, generatedID string, page int, limit int) ([]model.Comment, error)
	Create(ctx context.Context, c model.Comment) (model.Comment, error)
}

type ReferenceStore interface {
	Count(ctx context.Context) (int, error)
	ListByEntity(ctx context.Context, kind model.EntryKind, generatedID string) ([]model.Reference, error)
	Get(ctx context.Context, id int64) (model.Reference, error)
	Create(ctx context.Context, ref model.Reference) (model.Reference, error)
	Delete(ctx context.Context, id int64) error
}

type AuditStore interface {
	Log(ctx context.Context, entry model.AuditEntry, occurredAt time.Time) error
	Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, int, error)
}
