package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techradar-api/internal/model"
	"techradar-api/internal/repository/memory"
)

func newTestRadar() (*RadarService, *memory.RadarStore) {
	store := memory.NewRadarStore()
	svc := NewRadarService(store, nil, "https://radar.example.com", discardLogger())
	svc.now = func() time.Time { return testNow }
	return svc, store
}

func seedEntry(t *testing.T, svc *RadarService, kind model.EntryKind, id string, name string, quadrant, ring int) model.RadarEntry {
	t.Helper()
	e, err := svc.Create(context.Background(), kind, model.EntryRequest{
		GeneratedID: id, Name: name, Quadrant: quadrant, Ring: ring, Stage: "Planned",
	})
	require.NoError(t, err)
	return e
}

func TestRadarService_CreateAndGet(t *testing.T) {
	svc, _ := newTestRadar()
	ctx := context.Background()

	created := seedEntry(t, svc, model.KindTechnology, "tech-go", "Go", 0, 1)
	assert.Equal(t, "https://radar.example.com/technology/tech-go", created.Link)
	assert.True(t, created.Active)

	got, err := svc.Get(ctx, model.KindTechnology, "tech-go")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Link, got.Link)

	_, err = svc.Get(ctx, model.KindTrend, "tech-go")
	assert.ErrorIs(t, err, model.ErrEntryNotFound)

	_, err = svc.Create(ctx, model.KindTechnology, model.EntryRequest{GeneratedID: "tech-go", Name: "Go again"})
	assert.ErrorIs(t, err, model.ErrEntryExists)
}

func TestRadarService_CreateValidation(t *testing.T) {
	svc, _ := newTestRadar()
	ctx := context.Background()

	cases := map[string]model.EntryRequest{
		"missing id":    {Name: "Go"},
		"missing name":  {GeneratedID: "tech-go"},
		"negative ring": {GeneratedID: "tech-go", Name: "Go", Ring: -1},
		"unknown stage": {GeneratedID: "tech-go", Name: "Go", Stage: "Someday"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(ctx, model.KindTechnology, req)
			assert.ErrorIs(t, err, model.ErrInvalidInput)
		})
	}
}

func TestRadarService_ListPaginatesAndSearches(t *testing.T) {
	svc, _ := newTestRadar()
	ctx := context.Background()

	for _, name := range []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon"} {
		seedEntry(t, svc, model.KindTrend, "trend-"+name, name, 0, 0)
	}
	seedEntry(t, svc, model.KindTechnology, "tech-alpha", "Alpha Tech", 0, 0)

	entries, meta, err := svc.List(ctx, model.EntryQuery{Kind: model.KindTrend, Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Delta", entries[0].Name)
	assert.Equal(t, model.Meta{Page: 2, Limit: 2, Total: 5, TotalPages: 3}, meta)

	entries, meta, err = svc.List(ctx, model.EntryQuery{Kind: model.KindTrend, Search: "ALP"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Alpha", entries[0].Name)
	assert.Equal(t, defaultEntryLimit, meta.Limit)

	_, meta, err = svc.List(ctx, model.EntryQuery{Kind: model.KindTrend, Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, maxEntryLimit, meta.Limit)

	entries, meta, err = svc.List(ctx, model.EntryQuery{Kind: model.KindTrend, Page: 1 << 62, Limit: 100})
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, math.MaxInt32/100+1, meta.Page)
	assert.GreaterOrEqual(t, (meta.Page-1)*meta.Limit, 0)
	assert.LessOrEqual(t, (meta.Page-1)*meta.Limit, math.MaxInt32)
}

func TestRadarService_QuadrantAndRing(t *testing.T) {
	svc, _ := newTestRadar()
	ctx := context.Background()

	seedEntry(t, svc, model.KindTechnology, "a", "A", 1, 2)
	seedEntry(t, svc, model.KindTechnology, "b", "B", 1, 0)
	seedEntry(t, svc, model.KindTechnology, "c", "C", 2, 0)

	inQuadrant, err := svc.ListByQuadrant(ctx, model.KindTechnology, 1)
	require.NoError(t, err)
	require.Len(t, inQuadrant, 2)
	assert.Equal(t, "B", inQuadrant[0].Name)

	inRing, err := svc.ListByRing(ctx, model.KindTechnology, 0)
	require.NoError(t, err)
	assert.Len(t, inRing, 2)

	_, err = svc.ListByRing(ctx, model.KindTechnology, -1)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestRadarService_UpdateStageAndDelete(t *testing.T) {
	svc, _ := newTestRadar()
	ctx := context.Background()
	seedEntry(t, svc, model.KindTechnology, "tech-go", "Go", 0, 1)

	_, err := svc.UpdateStage(ctx, model.KindTechnology, "tech-go", "Eventually")
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	updated, err := svc.UpdateStage(ctx, model.KindTechnology, "tech-go", "In Place")
	require.NoError(t, err)
	assert.Equal(t, "In Place", updated.Stage)

	updated, err = svc.Update(ctx, model.KindTechnology, "tech-go", model.EntryRequest{Name: "Golang", Ring: 2})
	require.NoError(t, err)
	assert.Equal(t, "Golang", updated.Name)
	assert.Equal(t, "tech-go", updated.GeneratedID)

	require.NoError(t, svc.Delete(ctx, model.KindTechnology, "tech-go"))
	assert.ErrorIs(t, svc.Delete(ctx, model.KindTechnology, "tech-go"), model.ErrEntryNotFound)
}

func TestRadarService_Config(t *testing.T) {
	svc, store := newTestRadar()
	ctx := context.Background()
	inactive := false

	seedEntry(t, svc, model.KindTechnology, "tech-go", "Go", 0, 1)
	_, err := svc.Create(ctx, model.KindTechnology, model.EntryRequest{GeneratedID: "tech-old", Name: "Old", Active: &inactive})
	require.NoError(t, err)
	seedEntry(t, svc, model.KindTrend, "trend-ai", "AI", 3, 0)

	cfg, err := svc.Config(ctx, model.KindTechnology)
	require.NoError(t, err)
	assert.Equal(t, "2026.03.01", cfg.Date)
	require.Len(t, cfg.Entries, 1)
	assert.Equal(t, "Go", cfg.Entries[0].Label)
	require.NotNil(t, cfg.Entries[0].Moved)
	assert.Equal(t, "https://radar.example.com/technology/tech-go", cfg.Entries[0].Link)

	store.AddRadarDate("2025.11.02")
	store.AddRadarDate("2026.01.15")

	cfg, err = svc.Config(ctx, model.KindTrend)
	require.NoError(t, err)
	assert.Equal(t, "2026.01.15", cfg.Date)
	require.Len(t, cfg.Entries, 1)
	assert.Nil(t, cfg.Entries[0].Moved)
}
