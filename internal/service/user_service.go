package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"techradar-api/internal/event"
	"techradar-api/internal/model"
)

const (
	passwordHashCost  = 12
	minPasswordLength = 8
	maxUsernameLength = 50
)

type UserService struct {
	users    UserStore
	bus      event.Bus
	logger   *slog.Logger
	hashCost int
	now      func() time.Time
}

func NewUserService(users UserStore, bus event.Bus, logger *slog.Logger) *UserService {
	if bus == nil {
		bus = event.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UserService{
		users:    users,
		bus:      bus,
		logger:   logger,
		hashCost: passwordHashCost,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id int64) (model.User, error) {
	if id <= 0 {
		return model.User{}, model.ErrUserNotFound
	}
	return s.users.FindByID(ctx, id)
}

// parseRoleInput accepts an empty role as viewer but rejects names outside
// the known set instead of silently downgrading them.
func parseRoleInput(raw string) (model.Role, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.RoleViewer, nil
	}
	role := model.ParseRole(raw)
	if role.String() != raw {
		return "", fmt.Errorf("%w: role must be %s or %s", model.ErrInvalidInput, model.RoleAdmin, model.RoleViewer)
	}
	return role, nil
}

func validateEmail(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		return "", fmt.Errorf("%w: email is invalid", model.ErrInvalidInput)
	}
	return raw, nil
}

func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) (model.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || len(username) > maxUsernameLength {
		return model.User{}, fmt.Errorf("%w: username must be 1 to %d characters", model.ErrInvalidInput, maxUsernameLength)
	}
	email, err := validateEmail(req.Email)
	if err != nil {
		return model.User{}, err
	}
	if len(req.Password) < minPasswordLength {
		return model.User{}, fmt.Errorf("%w: password must be at least %d characters", model.ErrInvalidInput, minPasswordLength)
	}
	role, err := parseRoleInput(req.Role)
	if err != nil {
		return model.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = username
	}

	created, err := s.users.Create(ctx, model.User{
		Username:     username,
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		Role:         role.String(),
		IsActive:     true,
		CreatedAt:    s.now(),
	})
	if err != nil {
		return model.User{}, err
	}

	s.publish(ctx, event.TypeUserCreated, created)
	return created, nil
}

func (s *UserService) Update(ctx context.Context, id int64, req model.UpdateUserRequest) (model.User, error) {
	if id <= 0 {
		return model.User{}, model.ErrUserNotFound
	}
	if req.Email != nil {
		email, err := validateEmail(*req.Email)
		if err != nil {
			return model.User{}, err
		}
		req.Email = &email
	}
	if req.Role != nil {
		role, err := parseRoleInput(*req.Role)
		if err != nil {
			return model.User{}, err
		}
		normalized := role.String()
		req.Role = &normalized
	}
	if req.DisplayName != nil {
		trimmed := strings.TrimSpace(*req.DisplayName)
		req.DisplayName = &trimmed
	}

	updated, err := s.users.Update(ctx, id, req)
	if err != nil {
		return model.User{}, err
	}

	s.publish(ctx, event.TypeUserUpdated, updated)
	return updated, nil
}

// Delete removes the account id. An admin cannot delete the account they
// are signed in with.
func (s *UserService) Delete(ctx context.Context, actorID int64, id int64) error {
	if id <= 0 {
		return model.ErrUserNotFound
	}
	if id == actorID {
		return fmt.Errorf("%w: cannot delete your own account", model.ErrForbidden)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.bus.Publish(event.New(event.TypeUserDeleted, event.ActorFrom(ctx),
		"users/"+strconv.FormatInt(id, 10), nil))
	return nil
}

// EnsureBootstrapAdmin creates an Admin account when the user table is
// empty. It is a no-op when username is empty or any account exists.
func (s *UserService) EnsureBootstrapAdmin(ctx context.Context, username string, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil
	}

	count, err := s.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}

	created, err := s.users.Create(ctx, model.User{
		Username:     username,
		Email:        username + "@localhost",
		DisplayName:  username,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin.String(),
		IsActive:     true,
		CreatedAt:    s.now(),
	})
	if err != nil {
		return fmt.Errorf("create bootstrap admin: %w", err)
	}

	s.logger.Info("bootstrap admin created", "user_id", created.ID, "username", created.Username)
	return nil
}

func (s *UserService) publish(ctx context.Context, t event.Type, u model.User) {
	s.bus.Publish(event.New(t, event.ActorFrom(ctx), "users/"+strconv.FormatInt(u.ID, 10), map[string]any{
		"username":  u.Username,
		"role":      u.Role,
		"is_active": u.IsActive,
	}))
}
