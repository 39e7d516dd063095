package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"techradar-api/internal/event"
	"techradar-api/internal/model"
)

const (
	defaultEntryLimit = 10
	maxEntryLimit     = 100
	radarDateLayout   = "2006.01.02"
)

// RadarService manages technologies and trends. Both kinds share one
// store and differ only by model.EntryKind.
type RadarService struct {
	entries RadarStore
	bus     event.Bus
	appURL  string
	logger  *slog.Logger
	now     func() time.Time
}

func NewRadarService(entries RadarStore, bus event.Bus, appURL string, logger *slog.Logger) *RadarService {
	if bus == nil {
		bus = event.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if appURL != "" && !strings.HasSuffix(appURL, "/") {
		appURL += "/"
	}

	return &RadarService{
		entries: entries,
		bus:     bus,
		appURL:  appURL,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *RadarService) link(e model.RadarEntry) string {
	return s.appURL + string(e.Kind) + "/" + e.GeneratedID
}

func (s *RadarService) withLinks(entries []model.RadarEntry) []model.RadarEntry {
	for i := range entries {
		entries[i].Link = s.link(entries[i])
	}
	return entries
}

func (s *RadarService) List(ctx context.Context, query model.EntryQuery) ([]model.RadarEntry, model.Meta, error) {
	query.Page, query.Limit = model.ClampPage(query.Page, query.Limit, defaultEntryLimit, maxEntryLimit)

	entries, total, err := s.entries.List(ctx, query)
	if err != nil {
		return nil, model.Meta{}, err
	}

	return s.withLinks(entries), model.NewMeta(query.Page, query.Limit, total), nil
}

func (s *RadarService) Count(ctx context.Context, kind model.EntryKind) (int, error) {
	return s.entries.Count(ctx, kind)
}

func (s *RadarService) Get(ctx context.Context, kind model.EntryKind, generatedID string) (model.RadarEntry, error) {
	generatedID = strings.TrimSpace(generatedID)
	if generatedID == "" {
		return model.RadarEntry{}, fmt.Errorf("%w: generatedId is required", model.ErrInvalidInput)
	}

	e, err := s.entries.GetByGeneratedID(ctx, kind, generatedID)
	if err != nil {
		return model.RadarEntry{}, err
	}
	e.Link = s.link(e)
	return e, nil
}

func (s *RadarService) ListByQuadrant(ctx context.Context, kind model.EntryKind, quadrant int) ([]model.RadarEntry, error) {
	if quadrant < 0 {
		return nil, fmt.Errorf("%w: quadrant must not be negative", model.ErrInvalidInput)
	}

	entries, err := s.entries.ListByQuadrant(ctx, kind, quadrant)
	if err != nil {
		return nil, err
	}
	return s.withLinks(entries), nil
}

func (s *RadarService) ListByRing(ctx context.Context, kind model.EntryKind, ring int) ([]model.RadarEntry, error) {
	if ring < 0 {
		return nil, fmt.Errorf("%w: ring must not be negative", model.ErrInvalidInput)
	}

	entries, err := s.entries.ListByRing(ctx, kind, ring)
	if err != nil {
		return nil, err
	}
	return s.withLinks(entries), nil
}

func validateEntryRequest(req model.EntryRequest) error {
	if strings.TrimSpace(req.GeneratedID) == "" {
		return fmt.Errorf("%w: generatedId is required", model.ErrInvalidInput)
	}
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", model.ErrInvalidInput)
	}
	if req.Ring < 0 || req.Quadrant < 0 {
		return fmt.Errorf("%w: ring and quadrant must not be negative", model.ErrInvalidInput)
	}
	if req.Stage != "" && !model.IsValidStage(req.Stage) {
		return fmt.Errorf("%w: stage must be one of %s", model.ErrInvalidInput, strings.Join(model.ValidStages, ", "))
	}
	return nil
}

func entryFromRequest(kind model.EntryKind, req model.EntryRequest) model.RadarEntry {
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	return model.RadarEntry{
		Kind:               kind,
		GeneratedID:        strings.TrimSpace(req.GeneratedID),
		Name:               strings.TrimSpace(req.Name),
		Abstract:           req.Abstract,
		Stage:              req.Stage,
		DefinitionAndScope: req.DefinitionAndScope,
		RelevanceAndImpact: req.RelevanceAndImpact,
		Segment:            req.Segment,
		Maturity:           req.Maturity,
		RecommendedAction:  req.RecommendedAction,
		ContentSource:      req.ContentSource,
		LastReviewDate:     req.LastReviewDate,
		ImageURL:           req.ImageURL,
		Ring:               req.Ring,
		Quadrant:           req.Quadrant,
		Active:             active,
		Moved:              req.Moved,
	}
}

func (s *RadarService) Create(ctx context.Context, kind model.EntryKind, req model.EntryRequest) (model.RadarEntry, error) {
	if err := validateEntryRequest(req); err != nil {
		return model.RadarEntry{}, err
	}

	e := entryFromRequest(kind, req)
	e.CreatedAt = s.now()

	created, err := s.entries.Create(ctx, e)
	if err != nil {
		return model.RadarEntry{}, err
	}
	created.Link = s.link(created)

	s.publish(ctx, event.TypeEntryCreated, created)
	return created, nil
}

func (s *RadarService) Update(ctx context.Context, kind model.EntryKind, generatedID string, req model.EntryRequest) (model.RadarEntry, error) {
	if strings.TrimSpace(req.GeneratedID) == "" {
		req.GeneratedID = generatedID
	}
	if err := validateEntryRequest(req); err != nil {
		return model.RadarEntry{}, err
	}

	e := entryFromRequest(kind, req)
	e.UpdatedAt = s.now()

	updated, err := s.entries.Update(ctx, kind, generatedID, e)
	if err != nil {
		return model.RadarEntry{}, err
	}
	updated.Link = s.link(updated)

	s.publish(ctx, event.TypeEntryUpdated, updated)
	return updated, nil
}

func (s *RadarService) UpdateStage(ctx context.Context, kind model.EntryKind, generatedID string, stage string) (model.RadarEntry, error) {
	if !model.IsValidStage(stage) {
		return model.RadarEntry{}, fmt.Errorf("%w: stage must be one of %s", model.ErrInvalidInput, strings.Join(model.ValidStages, ", "))
	}

	updated, err := s.entries.UpdateStage(ctx, kind, generatedID, stage, s.now())
	if err != nil {
		return model.RadarEntry{}, err
	}
	updated.Link = s.link(updated)

	s.publish(ctx, event.TypeEntryUpdated, updated)
	return updated, nil
}

func (s *RadarService) Delete(ctx context.Context, kind model.EntryKind, generatedID string) error {
	if err := s.entries.Delete(ctx, kind, generatedID); err != nil {
		return err
	}

	s.bus.Publish(event.New(event.TypeEntryDeleted, event.ActorFrom(ctx),
		string(kind)+"/"+generatedID, nil))
	return nil
}

// Config exports the active entries in the layout the radar visualisation
// reads. Trends carry no "moved" marker.
func (s *RadarService) Config(ctx context.Context, kind model.EntryKind) (model.RadarConfig, error) {
	date, err := s.entries.LatestRadarDate(ctx)
	if err != nil {
		return model.RadarConfig{}, err
	}
	if date == "" {
		date = s.now().Format(radarDateLayout)
	}

	entries, err := s.entries.ListActive(ctx, kind)
	if err != nil {
		return model.RadarConfig{}, err
	}

	out := make([]model.RadarConfigEntry, 0, len(entries))
	for _, e := range entries {
		ce := model.RadarConfigEntry{
			Quadrant: e.Quadrant,
			Ring:     e.Ring,
			Name:     e.Name,
			Label:    e.Name,
			Active:   e.Active,
			Link:     s.link(e),
		}
		if kind == model.KindTechnology {
			moved := e.Moved
			ce.Moved = &moved
		}
		out = append(out, ce)
	}

	return model.RadarConfig{Date: date, Entries: out}, nil
}

func (s *RadarService) publish(ctx context.Context, t event.Type, e model.RadarEntry) {
	s.bus.Publish(event.New(t, event.ActorFrom(ctx), string(e.Kind)+"/"+e.GeneratedID, map[string]any{
		"id":       e.ID,
		"name":     e.Name,
		"stage":    e.Stage,
		"ring":     e.Ring,
		"quadrant": e.Quadrant,
	}))
	s.logger.Debug("radar entry changed", "event", t, "kind", e.Kind, "generated_id", e.GeneratedID)
}
