package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"techradar-api/internal/event"
	"techradar-api/internal/model"
	"techradar-api/internal/util"
)

type ReferenceService struct {
	refs    ReferenceStore
	entries RadarStore
	bus     event.Bus
	now     func() time.Time
}

func NewReferenceService(refs ReferenceStore, entries RadarStore, bus event.Bus) *ReferenceService {
	if bus == nil {
		bus = event.Nop{}
	}

	return &ReferenceService{
		refs:    refs,
		entries: entries,
		bus:     bus,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *ReferenceService) Count(ctx context.Context) (int, error) {
	return s.refs.Count(ctx)
}

func (s *ReferenceService) ListByEntity(ctx context.Context, kind model.EntryKind, generatedID string) ([]model.Reference, error) {
	return s.refs.ListByEntity(ctx, kind, strings.TrimSpace(generatedID))
}

func (s *ReferenceService) Get(ctx context.Context, id int64) (model.Reference, error) {
	if id <= 0 {
		return model.Reference{}, model.ErrReferenceNotFound
	}
	return s.refs.Get(ctx, id)
}

func (s *ReferenceService) Create(ctx context.Context, req model.CreateReferenceRequest) (model.Reference, error) {
	kind, ok := model.ParseEntryKind(strings.TrimSpace(req.Type))
	if !ok {
		return model.Reference{}, fmt.Errorf("%w: type must be technology or trend", model.ErrInvalidInput)
	}
	generatedID := strings.TrimSpace(req.GeneratedID)
	title := util.CleanLine(req.Title)
	if generatedID == "" || title == "" {
		return model.Reference{}, fmt.Errorf("%w: generatedId and title are required", model.ErrInvalidInput)
	}

	rawURL := strings.TrimSpace(req.URL)
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return model.Reference{}, fmt.Errorf("%w: url must be an absolute http(s) URL", model.ErrInvalidInput)
	}

	if _, err := s.entries.GetByGeneratedID(ctx, kind, generatedID); err != nil {
		return model.Reference{}, err
	}

	created, err := s.refs.Create(ctx, model.Reference{
		Kind:        kind,
		GeneratedID: generatedID,
		Title:       title,
		URL:         rawURL,
		Description: util.CleanText(req.Description),
		CreatedAt:   s.now(),
	})
	if err != nil {
		return model.Reference{}, err
	}

	s.bus.Publish(event.New(event.TypeReferenceCreated, event.ActorFrom(ctx),
		"references/"+strconv.FormatInt(created.ID, 10), created))
	return created, nil
}

func (s *ReferenceService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return model.ErrReferenceNotFound
	}
	if err := s.refs.Delete(ctx, id); err != nil {
		return err
	}

	s.bus.Publish(event.New(event.TypeReferenceDeleted, event.ActorFrom(ctx),
		"references/"+strconv.FormatInt(id, 10), nil))
	return nil
}
