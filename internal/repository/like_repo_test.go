package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techradar-api/internal/model"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestLikeRepositoryCount(t *testing.T) {
	mock := newMock(t)
	repo := NewLikeRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM likes")).
		WithArgs(int64(42), "technology").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))

	count, err := repo.Count(context.Background(), model.LikeRef{ID: 42, Type: "technology"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestLikeRepositoryInsert(t *testing.T) {
	like := model.Like{UserID: 7, Ref: model.LikeRef{ID: 42, Type: "technology"}, CreatedAt: time.Now()}

	t.Run("inserted", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO likes")).
			WithArgs(int64(7), int64(42), "technology", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, NewLikeRepository(mock).Insert(context.Background(), like))
	})

	t.Run("conflict reports already liked", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO likes")).
			WithArgs(int64(7), int64(42), "technology", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 0))

		err := NewLikeRepository(mock).Insert(context.Background(), like)
		assert.ErrorIs(t, err, model.ErrAlreadyLiked)
	})

	t.Run("unique violation reports already liked", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO likes")).
			WithArgs(int64(7), int64(42), "technology", pgxmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})

		err := NewLikeRepository(mock).Insert(context.Background(), like)
		assert.ErrorIs(t, err, model.ErrAlreadyLiked)
	})

	t.Run("connection failure is unavailable", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO likes")).
			WithArgs(int64(7), int64(42), "technology", pgxmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: "08006"})

		err := NewLikeRepository(mock).Insert(context.Background(), like)
		assert.ErrorIs(t, err, model.ErrStoreUnavailable)
		assert.NotErrorIs(t, err, model.ErrAlreadyLiked)
	})
}

func TestLikeRepositoryDelete(t *testing.T) {
	ref := model.LikeRef{ID: 42, Type: "technology"}

	t.Run("deleted", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM likes")).
			WithArgs(int64(7), int64(42), "technology").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, NewLikeRepository(mock).Delete(context.Background(), 7, ref))
	})

	t.Run("nothing to delete", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM likes")).
			WithArgs(int64(7), int64(42), "technology").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := NewLikeRepository(mock).Delete(context.Background(), 7, ref)
		assert.ErrorIs(t, err, model.ErrNotLiked)
	})
}

func TestLikeRepositoryExists(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(")).
		WithArgs(int64(7), int64(42), "trend").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := NewLikeRepository(mock).Exists(context.Background(), 7, model.LikeRef{ID: 42, Type: "trend"})
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "connection failure", err: &pgconn.PgError{Code: "08006"}, want: true},
		{name: "too many connections", err: &pgconn.PgError{Code: "53300"}, want: true},
		{name: "admin shutdown", err: &pgconn.PgError{Code: "57P01"}, want: true},
		{name: "serialization failure", err: &pgconn.PgError{Code: "40001"}, want: true},
		{name: "unique violation", err: &pgconn.PgError{Code: pgUniqueViolation}, want: false},
		{name: "syntax error", err: &pgconn.PgError{Code: "42601"}, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}
