//go:build integration

package integration

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"techradar-api/internal/database"
	"techradar-api/internal/model"
	"techradar-api/internal/repository"
)

const databaseURLEnv = "TECHRADAR_TEST_DATABASE_URL"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// openDB connects to the test database, applies migrations and empties every
// table. Tests in this package share one database, so they do not run in
// parallel.
func openDB(t *testing.T) *database.DB {
	t.Helper()

	url := os.Getenv(databaseURLEnv)
	if url == "" {
		t.Skipf("%s is not set", databaseURLEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.New(ctx, url, database.PoolOptions{MaxConns: 20, MinConns: 1}, nil)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.Migrate(ctx))

	_, err = db.Pool.Exec(ctx, `TRUNCATE likes, comments, entry_references, audit_entries,
		radar_dates, radar_entries, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return db
}

func seedUsers(t *testing.T, users *repository.UserRepository, n int) []model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password-123"), bcrypt.MinCost)
	require.NoError(t, err)

	out := make([]model.User, 0, n)
	for i := range n {
		name := fmt.Sprintf("user%02d", i)
		u, err := users.Create(context.Background(), model.User{
			Username:     name,
			Email:        name + "@example.com",
			DisplayName:  name,
			PasswordHash: string(hash),
			Role:         model.RoleViewer.String(),
			IsActive:     true,
			CreatedAt:    time.Now().UTC(),
		})
		require.NoError(t, err)
		out = append(out, u)
	}

	return out
}
