package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"techradar-api/internal/model"
)

type RadarStore struct {
	mu      sync.Mutex
	nextID  int64
	entries []model.RadarEntry
	dates   []string
}

func NewRadarStore() *RadarStore {
	return &RadarStore{}
}

// AddRadarDate records a published radar date in "2006.01.02" form.
func (s *RadarStore) AddRadarDate(date string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dates = append(s.dates, date)
}

func (s *RadarStore) find(kind model.EntryKind, generatedID string) int {
	for i, e := range s.entries {
		if e.Kind == kind && e.GeneratedID == generatedID {
			return i
		}
	}
	return -1
}

func (s *RadarStore) filter(keep func(model.RadarEntry) bool, less func(a, b model.RadarEntry) bool) []model.RadarEntry {
	out := make([]model.RadarEntry, 0)
	for _, e := range s.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func byName(a, b model.RadarEntry) bool { return a.Name < b.Name }

func (s *RadarStore) List(_ context.Context, query model.EntryQuery) ([]model.RadarEntry, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	search := strings.ToLower(strings.TrimSpace(query.Search))
	matches := s.filter(func(e model.RadarEntry) bool {
		if e.Kind != query.Kind {
			return false
		}
		if search == "" {
			return true
		}
		return strings.Contains(strings.ToLower(e.Name), search) ||
			strings.Contains(strings.ToLower(e.Abstract), search)
	}, byName)

	total := len(matches)
	start := min((query.Page-1)*query.Limit, total)
	end := min(start+query.Limit, total)
	return matches[start:end], total, nil
}

func (s *RadarStore) Count(_ context.Context, kind model.EntryKind) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, e := range s.entries {
		if e.Kind == kind {
			count++
		}
	}
	return count, nil
}

func (s *RadarStore) GetByGeneratedID(_ context.Context, kind model.EntryKind, generatedID string) (model.RadarEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(kind, generatedID)
	if i < 0 {
		return model.RadarEntry{}, model.ErrEntryNotFound
	}
	return s.entries[i], nil
}

func (s *RadarStore) ListByQuadrant(_ context.Context, kind model.EntryKind, quadrant int) ([]model.RadarEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filter(func(e model.RadarEntry) bool {
		return e.Kind == kind && e.Quadrant == quadrant
	}, func(a, b model.RadarEntry) bool {
		if a.Ring != b.Ring {
			return a.Ring < b.Ring
		}
		return a.Name < b.Name
	}), nil
}

func (s *RadarStore) ListByRing(_ context.Context, kind model.EntryKind, ring int) ([]model.RadarEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filter(func(e model.RadarEntry) bool {
		return e.Kind == kind && e.Ring == ring
	}, func(a, b model.RadarEntry) bool {
		if a.Quadrant != b.Quadrant {
			return a.Quadrant < b.Quadrant
		}
		return a.Name < b.Name
	}), nil
}

func (s *RadarStore) ListActive(_ context.Context, kind model.EntryKind) ([]model.RadarEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filter(func(e model.RadarEntry) bool {
		return e.Kind == kind && e.Active
	}, func(a, b model.RadarEntry) bool {
		if a.Quadrant != b.Quadrant {
			return a.Quadrant < b.Quadrant
		}
		if a.Ring != b.Ring {
			return a.Ring < b.Ring
		}
		return a.Name < b.Name
	}), nil
}

func (s *RadarStore) Create(_ context.Context, e model.RadarEntry) (model.RadarEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.find(e.Kind, e.GeneratedID) >= 0 {
		return model.RadarEntry{}, model.ErrEntryExists
	}
	s.nextID++
	e.ID = s.nextID
	e.UpdatedAt = e.CreatedAt
	s.entries = append(s.entries, e)
	return e, nil
}

func (s *RadarStore) Update(_ context.Context, kind model.EntryKind, generatedID string, e model.RadarEntry) (model.RadarEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(kind, generatedID)
	if i < 0 {
		return model.RadarEntry{}, model.ErrEntryNotFound
	}
	if e.GeneratedID != generatedID && s.find(kind, e.GeneratedID) >= 0 {
		return model.RadarEntry{}, model.ErrEntryExists
	}

	current := s.entries[i]
	e.ID = current.ID
	e.Kind = current.Kind
	e.CreatedAt = current.CreatedAt
	s.entries[i] = e
	return e, nil
}

func (s *RadarStore) UpdateStage(_ context.Context, kind model.EntryKind, generatedID string, stage string, at time.Time) (model.RadarEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(kind, generatedID)
	if i < 0 {
		return model.RadarEntry{}, model.ErrEntryNotFound
	}
	s.entries[i].Stage = stage
	s.entries[i].UpdatedAt = at
	return s.entries[i], nil
}

func (s *RadarStore) Delete(_ context.Context, kind model.EntryKind, generatedID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(kind, generatedID)
	if i < 0 {
		return model.ErrEntryNotFound
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	return nil
}

func (s *RadarStore) LatestRadarDate(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	latest := ""
	for _, d := range s.dates {
		if d > latest {
			latest = d
		}
	}
	return latest, nil
}
