package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"techradar-api/internal/event"
	"techradar-api/internal/model"
	"techradar-api/internal/util"
)

const (
	defaultCommentLimit = 20
	maxCommentLimit     = 100
	maxCommentLength    = 2000
	anonymousAuthor     = "Anonymous"
)

type CommentService struct {
	comments CommentStore
	entries  RadarStore
	bus      event.Bus
	logger   *slog.Logger
	now      func() time.Time
}

func NewCommentService(comments CommentStore, entries RadarStore, bus event.Bus, logger *slog.Logger) *CommentService {
	if bus == nil {
		bus = event.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CommentService{
		comments: comments,
		entries:  entries,
		bus:      bus,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *CommentService) Count(ctx context.Context, kind model.EntryKind, generatedID string) (int, error) {
	return s.comments.Count(ctx, kind, strings.TrimSpace(generatedID))
}

func (s *CommentService) List(ctx context.Context, kind model.EntryKind, generatedID string, page int, limit int) ([]model.Comment, model.Meta, error) {
	generatedID = strings.TrimSpace(generatedID)
	page, limit = model.ClampPage(page, limit, defaultCommentLimit, maxCommentLimit)

	total, err := s.comments.Count(ctx, kind, generatedID)
	if err != nil {
		return nil, model.Meta{}, err
	}

	comments, err := s.comments.List(ctx, kind, generatedID, page, limit)
	if err != nil {
		return nil, model.Meta{}, err
	}

	return comments, model.NewMeta(page, limit, total), nil
}

// authorName picks the display name, then the username, then a fixed
// placeholder.
func authorName(claims *model.AuthClaims) string {
	if claims == nil {
		return anonymousAuthor
	}
	if name := strings.TrimSpace(claims.DisplayName); name != "" {
		return name
	}
	if name := strings.TrimSpace(claims.Username); name != "" {
		return name
	}
	return anonymousAuthor
}

func (s *CommentService) Create(ctx context.Context, claims *model.AuthClaims, kind model.EntryKind, generatedID string, text string) (model.Comment, error) {
	generatedID = strings.TrimSpace(generatedID)
	text = util.CleanText(text)
	if text == "" {
		return model.Comment{}, fmt.Errorf("%w: text is required", model.ErrInvalidInput)
	}
	if utf8.RuneCountInString(text) > maxCommentLength {
		return model.Comment{}, fmt.Errorf("%w: text must be at most %d characters", model.ErrInvalidInput, maxCommentLength)
	}

	if _, err := s.entries.GetByGeneratedID(ctx, kind, generatedID); err != nil {
		return model.Comment{}, err
	}

	c := model.Comment{
		Kind:        kind,
		GeneratedID: generatedID,
		Text:        text,
		Author:      authorName(claims),
		CreatedAt:   s.now(),
	}
	if claims != nil {
		c.AuthorID = claims.UserID
	}

	created, err := s.comments.Create(ctx, c)
	if err != nil {
		return model.Comment{}, err
	}

	s.bus.Publish(event.New(event.TypeCommentCreated, event.ActorFrom(ctx),
		string(kind)+"/"+generatedID, map[string]any{"comment_id": created.ID}))
	s.logger.Debug("comment created", "kind", kind, "generated_id", generatedID, "comment_id", created.ID)
	return created, nil
}
