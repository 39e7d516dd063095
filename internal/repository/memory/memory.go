// Package memory holds map-backed stores with the same contracts as the
// Postgres repositories. They back the service and handler tests and can
// be used for local runs without a database.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"techradar-api/internal/model"
)

type likeKey struct {
	userID int64
	ref    model.LikeRef
}

type LikeStore struct {
	mu    sync.Mutex
	likes map[likeKey]time.Time

	// Err, when set, is returned by every call.
	Err error
}

func NewLikeStore() *LikeStore {
	return &LikeStore{likes: make(map[likeKey]time.Time)}
}

func (s *LikeStore) Count(_ context.Context, ref model.LikeRef) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}

	var count int64
	for k := range s.likes {
		if k.ref == ref {
			count++
		}
	}
	return count, nil
}

func (s *LikeStore) Exists(_ context.Context, userID int64, ref model.LikeRef) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}

	_, ok := s.likes[likeKey{userID: userID, ref: ref}]
	return ok, nil
}

func (s *LikeStore) Insert(_ context.Context, like model.Like) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	key := likeKey{userID: like.UserID, ref: like.Ref}
	if _, ok := s.likes[key]; ok {
		return model.ErrAlreadyLiked
	}
	s.likes[key] = like.CreatedAt
	return nil
}

func (s *LikeStore) Delete(_ context.Context, userID int64, ref model.LikeRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	key := likeKey{userID: userID, ref: ref}
	if _, ok := s.likes[key]; !ok {
		return model.ErrNotLiked
	}
	delete(s.likes, key)
	return nil
}

type UserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]model.User

	Err error
}

func NewUserStore(users ...model.User) *UserStore {
	s := &UserStore{users: make(map[int64]model.User)}
	for _, u := range users {
		if u.ID > s.nextID {
			s.nextID = u.ID
		}
		s.users[u.ID] = u
	}
	return s
}

func (s *UserStore) FindByID(_ context.Context, id int64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return model.User{}, s.Err
	}

	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (s *UserStore) FindByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return model.User{}, s.Err
	}

	username = strings.TrimSpace(username)
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *UserStore) TouchLastLogin(_ context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	if u, ok := s.users[id]; ok {
		u.LastLoginAt = &at
		s.users[id] = u
	}
	return nil
}

func (s *UserStore) Create(_ context.Context, u model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return model.User{}, s.Err
	}

	for _, existing := range s.users {
		if strings.EqualFold(existing.Username, u.Username) || strings.EqualFold(existing.Email, u.Email) {
			return model.User{}, model.ErrUserAlreadyExists
		}
	}
	s.nextID++
	u.ID = s.nextID
	u.UpdatedAt = u.CreatedAt
	s.users[u.ID] = u
	return u, nil
}

func (s *UserStore) Update(_ context.Context, id int64, req model.UpdateUserRequest) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return model.User{}, s.Err
	}

	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	if req.Email != nil {
		for _, existing := range s.users {
			if existing.ID != id && strings.EqualFold(existing.Email, *req.Email) {
				return model.User{}, model.ErrUserAlreadyExists
			}
		}
		u.Email = *req.Email
	}
	if req.DisplayName != nil {
		u.DisplayName = *req.DisplayName
	}
	if req.Role != nil {
		u.Role = *req.Role
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	u.UpdatedAt = time.Now().UTC()
	s.users[id] = u
	return u, nil
}

func (s *UserStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	if _, ok := s.users[id]; !ok {
		return model.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *UserStore) List(_ context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	users := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (s *UserStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	return len(s.users), nil
}
