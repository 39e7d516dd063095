package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"techradar-api/internal/event"
	"techradar-api/internal/model"
)

// LikeService keeps at most one like per (user, reference). The store's
// unique key decides races; the pre-checks in Add and Remove only give the
// common case a cheap answer.
type LikeService struct {
	likes  LikeStore
	bus    event.Bus
	logger *slog.Logger
	now    func() time.Time
}

func NewLikeService(likes LikeStore, bus event.Bus, logger *slog.Logger) *LikeService {
	if bus == nil {
		bus = event.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &LikeService{
		likes:  likes,
		bus:    bus,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ParseLikeRef validates the raw request shape. ReferenceType is trimmed.
func ParseLikeRef(req model.LikeRequest) (model.LikeRef, error) {
	if req.ReferenceType == nil {
		return model.LikeRef{}, fmt.Errorf("%w: referenceType is required", model.ErrInvalidArgument)
	}

	raw := strings.TrimSpace(req.ReferenceID.String())
	if raw == "" {
		return model.LikeRef{}, fmt.Errorf("%w: referenceId is required", model.ErrInvalidArgument)
	}
	id, err := req.ReferenceID.Int64()
	if err != nil {
		return model.LikeRef{}, fmt.Errorf("%w: referenceId must be an integer", model.ErrInvalidArgument)
	}

	return validateRef(model.LikeRef{ID: id, Type: *req.ReferenceType})
}

func validateRef(ref model.LikeRef) (model.LikeRef, error) {
	ref.Type = strings.TrimSpace(ref.Type)
	if ref.Type == "" {
		return model.LikeRef{}, fmt.Errorf("%w: referenceType must not be empty", model.ErrInvalidArgument)
	}
	if ref.ID <= 0 {
		return model.LikeRef{}, fmt.Errorf("%w: referenceId must be a positive integer", model.ErrInvalidArgument)
	}
	return ref, nil
}

func (s *LikeService) Count(ctx context.Context, ref model.LikeRef) (int64, error) {
	ref, err := validateRef(ref)
	if err != nil {
		return 0, err
	}

	return s.likes.Count(ctx, ref)
}

func (s *LikeService) Status(ctx context.Context, userID int64, ref model.LikeRef) (bool, error) {
	ref, err := validateRef(ref)
	if err != nil {
		return false, err
	}
	if userID <= 0 {
		return false, model.ErrUnauthenticated
	}

	return s.likes.Exists(ctx, userID, ref)
}

func (s *LikeService) Add(ctx context.Context, userID int64, ref model.LikeRef) error {
	ref, err := validateRef(ref)
	if err != nil {
		return err
	}
	if userID <= 0 {
		return model.ErrUnauthenticated
	}

	exists, err := s.likes.Exists(ctx, userID, ref)
	if err != nil {
		return err
	}
	if exists {
		return model.ErrAlreadyLiked
	}

	if err := s.likes.Insert(ctx, model.Like{UserID: userID, Ref: ref, CreatedAt: s.now()}); err != nil {
		return err
	}

	s.publish(ctx, event.TypeLikeAdded, userID, ref)
	return nil
}

func (s *LikeService) Remove(ctx context.Context, userID int64, ref model.LikeRef) error {
	ref, err := validateRef(ref)
	if err != nil {
		return err
	}
	if userID <= 0 {
		return model.ErrUnauthenticated
	}

	exists, err := s.likes.Exists(ctx, userID, ref)
	if err != nil {
		return err
	}
	if !exists {
		return model.ErrNotLiked
	}

	if err := s.likes.Delete(ctx, userID, ref); err != nil {
		return err
	}

	s.publish(ctx, event.TypeLikeRemoved, userID, ref)
	return nil
}

// Toggle flips the caller's like and returns the resulting state and count.
// It deletes first; when there was nothing to delete it inserts. An insert
// that loses to a concurrent one still leaves the like in place, so it
// reports liked.
func (s *LikeService) Toggle(ctx context.Context, userID int64, ref model.LikeRef) (model.LikeToggleResult, error) {
	ref, err := validateRef(ref)
	if err != nil {
		return model.LikeToggleResult{}, err
	}
	if userID <= 0 {
		return model.LikeToggleResult{}, model.ErrUnauthenticated
	}

	state := model.LikeStateUnliked
	err = s.likes.Delete(ctx, userID, ref)
	switch {
	case err == nil:
		s.publish(ctx, event.TypeLikeRemoved, userID, ref)
	case errors.Is(err, model.ErrNotLiked):
		state = model.LikeStateLiked
		insertErr := s.likes.Insert(ctx, model.Like{UserID: userID, Ref: ref, CreatedAt: s.now()})
		switch {
		case insertErr == nil:
			s.publish(ctx, event.TypeLikeAdded, userID, ref)
		case errors.Is(insertErr, model.ErrAlreadyLiked):
		default:
			return model.LikeToggleResult{}, insertErr
		}
	default:
		return model.LikeToggleResult{}, err
	}

	count, err := s.likes.Count(ctx, ref)
	if err != nil {
		return model.LikeToggleResult{}, err
	}

	message := "Like removed"
	if state == model.LikeStateLiked {
		message = "Like added"
	}

	return model.LikeToggleResult{Status: state, Count: count, Message: message}, nil
}

func (s *LikeService) publish(ctx context.Context, t event.Type, userID int64, ref model.LikeRef) {
	actor := event.ActorFrom(ctx)
	actor.UserID = userID

	s.bus.Publish(event.New(t, actor, fmt.Sprintf("%s/%d", ref.Type, ref.ID), ref))
	s.logger.Debug("like state changed", "event", t, "user_id", userID,
		"reference_type", ref.Type, "reference_id", ref.ID)
}
