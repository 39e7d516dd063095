package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techradar-api/internal/event"
	"techradar-api/internal/model"
	"techradar-api/internal/repository/memory"
)

func newTestLikes() (*LikeService, *memory.LikeStore) {
	store := memory.NewLikeStore()
	return NewLikeService(store, nil, discardLogger()), store
}

func TestLikeService_Validation(t *testing.T) {
	svc, _ := newTestLikes()
	ctx := context.Background()

	bad := []model.LikeRef{
		{ID: 0, Type: "technology"},
		{ID: -4, Type: "technology"},
		{ID: 42, Type: ""},
		{ID: 42, Type: "   "},
	}
	for _, ref := range bad {
		_, err := svc.Count(ctx, ref)
		assert.ErrorIs(t, err, model.ErrInvalidArgument, "count %+v", ref)

		_, err = svc.Status(ctx, 7, ref)
		assert.ErrorIs(t, err, model.ErrInvalidArgument, "status %+v", ref)

		assert.ErrorIs(t, svc.Add(ctx, 7, ref), model.ErrInvalidArgument, "add %+v", ref)
		assert.ErrorIs(t, svc.Remove(ctx, 7, ref), model.ErrInvalidArgument, "remove %+v", ref)
	}

	assert.ErrorIs(t, svc.Add(ctx, 0, model.LikeRef{ID: 42, Type: "technology"}), model.ErrUnauthenticated)
}

func TestLikeService_TypeIsTrimmed(t *testing.T) {
	svc, _ := newTestLikes()
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, 7, model.LikeRef{ID: 42, Type: " technology "}))

	liked, err := svc.Status(ctx, 7, model.LikeRef{ID: 42, Type: "technology"})
	require.NoError(t, err)
	assert.True(t, liked)
}

func TestLikeService_AddRemoveTransitions(t *testing.T) {
	svc, _ := newTestLikes()
	ctx := context.Background()
	ref := model.LikeRef{ID: 42, Type: "technology"}

	// user 7, reference 42
	count, err := svc.Count(ctx, ref)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, svc.Add(ctx, 7, ref))
	assert.ErrorIs(t, svc.Add(ctx, 7, ref), model.ErrAlreadyLiked)

	count, err = svc.Count(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	liked, err := svc.Status(ctx, 7, ref)
	require.NoError(t, err)
	assert.True(t, liked)

	require.NoError(t, svc.Remove(ctx, 7, ref))
	assert.ErrorIs(t, svc.Remove(ctx, 7, ref), model.ErrNotLiked)

	liked, err = svc.Status(ctx, 7, ref)
	require.NoError(t, err)
	assert.False(t, liked)

	count, err = svc.Count(ctx, ref)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestLikeService_AliceAndBob(t *testing.T) {
	svc, _ := newTestLikes()
	ctx := context.Background()
	const alice, bob = int64(1), int64(2)
	tech := model.LikeRef{ID: 5, Type: "technology"}
	trend := model.LikeRef{ID: 5, Type: "trend"}

	require.NoError(t, svc.Add(ctx, alice, tech))
	require.NoError(t, svc.Add(ctx, bob, tech))

	count, err := svc.Count(ctx, tech)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// same id under another type is a different reference
	count, err = svc.Count(ctx, trend)
	require.NoError(t, err)
	assert.Zero(t, count)

	// bob cannot remove alice's like, only his own
	require.NoError(t, svc.Remove(ctx, bob, tech))
	assert.ErrorIs(t, svc.Remove(ctx, bob, tech), model.ErrNotLiked)

	liked, err := svc.Status(ctx, alice, tech)
	require.NoError(t, err)
	assert.True(t, liked)

	count, err = svc.Count(ctx, tech)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestLikeService_ConcurrentAddsLeaveOneLike(t *testing.T) {
	svc, _ := newTestLikes()
	ctx := context.Background()
	ref := model.LikeRef{ID: 42, Type: "technology"}

	const n = 50
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		already   atomic.Int32
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := svc.Add(ctx, 7, ref)
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, model.ErrAlreadyLiked):
				already.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(n-1), already.Load())

	count, err := svc.Count(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestLikeService_KUsersCountK(t *testing.T) {
	svc, _ := newTestLikes()
	ctx := context.Background()
	ref := model.LikeRef{ID: 9, Type: "trend"}

	const k = 12
	var wg sync.WaitGroup
	for user := int64(1); user <= k; user++ {
		wg.Add(1)
		go func(user int64) {
			defer wg.Done()
			assert.NoError(t, svc.Add(ctx, user, ref))
		}(user)
	}
	wg.Wait()

	count, err := svc.Count(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, int64(k), count)
}

func TestLikeService_Toggle(t *testing.T) {
	svc, _ := newTestLikes()
	ctx := context.Background()
	ref := model.LikeRef{ID: 3, Type: "technology"}

	res, err := svc.Toggle(ctx, 7, ref)
	require.NoError(t, err)
	assert.Equal(t, model.LikeStateLiked, res.Status)
	assert.Equal(t, int64(1), res.Count)

	res, err = svc.Toggle(ctx, 8, ref)
	require.NoError(t, err)
	assert.Equal(t, model.LikeStateLiked, res.Status)
	assert.Equal(t, int64(2), res.Count)

	res, err = svc.Toggle(ctx, 7, ref)
	require.NoError(t, err)
	assert.Equal(t, model.LikeStateUnliked, res.Status)
	assert.Equal(t, int64(1), res.Count)
}

// racingStore reports that another request inserted first.
type racingStore struct {
	*memory.LikeStore
}

func (s racingStore) Insert(ctx context.Context, like model.Like) error {
	_ = s.LikeStore.Insert(ctx, like)
	return model.ErrAlreadyLiked
}

func TestLikeService_ToggleLostInsertReportsLiked(t *testing.T) {
	store := racingStore{memory.NewLikeStore()}
	svc := NewLikeService(store, nil, discardLogger())

	res, err := svc.Toggle(context.Background(), 7, model.LikeRef{ID: 3, Type: "technology"})
	require.NoError(t, err)
	assert.Equal(t, model.LikeStateLiked, res.Status)
	assert.Equal(t, int64(1), res.Count)
}

func TestLikeService_StoreErrorsPropagate(t *testing.T) {
	svc, store := newTestLikes()
	store.Err = model.ErrStoreUnavailable

	err := svc.Add(context.Background(), 7, model.LikeRef{ID: 1, Type: "technology"})
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)
}

func TestLikeService_PublishesEvents(t *testing.T) {
	bus := event.NewBus(discardLogger())
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	svc := NewLikeService(memory.NewLikeStore(), bus, discardLogger())
	ctx := event.WithActor(context.Background(), model.AuditActor{Username: "alice", IP: "10.0.0.1"})
	ref := model.LikeRef{ID: 42, Type: "technology"}

	require.NoError(t, svc.Add(ctx, 7, ref))
	require.NoError(t, svc.Remove(ctx, 7, ref))

	added := <-events
	assert.Equal(t, event.TypeLikeAdded, added.Type)
	assert.Equal(t, int64(7), added.Actor.UserID)
	assert.Equal(t, "alice", added.Actor.Username)
	assert.Equal(t, "technology/42", added.Resource)

	removed := <-events
	assert.Equal(t, event.TypeLikeRemoved, removed.Type)
}

func TestParseLikeRef(t *testing.T) {
	str := func(s string) *string { return &s }

	tests := []struct {
		name    string
		req     model.LikeRequest
		want    model.LikeRef
		wantErr bool
	}{
		{name: "number", req: model.LikeRequest{ReferenceID: "42", ReferenceType: str("technology")}, want: model.LikeRef{ID: 42, Type: "technology"}},
		{name: "trimmed type", req: model.LikeRequest{ReferenceID: "42", ReferenceType: str(" trend ")}, want: model.LikeRef{ID: 42, Type: "trend"}},
		{name: "missing type", req: model.LikeRequest{ReferenceID: "42"}, wantErr: true},
		{name: "missing id", req: model.LikeRequest{ReferenceType: str("technology")}, wantErr: true},
		{name: "fractional id", req: model.LikeRequest{ReferenceID: "4.2", ReferenceType: str("technology")}, wantErr: true},
		{name: "zero id", req: model.LikeRequest{ReferenceID: json.Number("0"), ReferenceType: str("technology")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLikeRef(tt.req)
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
