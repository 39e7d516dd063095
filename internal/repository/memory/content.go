package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"techradar-api/internal/model"
)

type CommentStore struct {
	mu       sync.Mutex
	nextID   int64
	comments []model.Comment
}

func NewCommentStore() *CommentStore {
	return &CommentStore{}
}

func (s *CommentStore) matching(kind model.EntryKind, generatedID string) []model.Comment {
	out := make([]model.Comment, 0)
	for _, c := range s.comments {
		if c.Kind == kind && c.GeneratedID == generatedID {
			out = append(out, c)
		}
	}
	return out
}

func (s *CommentStore) Count(_ context.Context, kind model.EntryKind, generatedID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.matching(kind, generatedID)), nil
}

func (s *CommentStore) List(_ context.Context, kind model.EntryKind, generatedID string, page int, limit int) ([]model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.matching(kind, generatedID)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})

	start := min((page-1)*limit, len(out))
	end := min(start+limit, len(out))
	return out[start:end], nil
}

func (s *CommentStore) Create(_ context.Context, c model.Comment) (model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	c.ID = s.nextID
	s.comments = append(s.comments, c)
	return c, nil
}

type ReferenceStore struct {
	mu     sync.Mutex
	nextID int64
	refs   []model.Reference
}

func NewReferenceStore() *ReferenceStore {
	return &ReferenceStore{}
}

func (s *ReferenceStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.refs), nil
}

func (s *ReferenceStore) ListByEntity(_ context.Context, kind model.EntryKind, generatedID string) ([]model.Reference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Reference, 0)
	for _, r := range s.refs {
		if r.Kind == kind && r.GeneratedID == generatedID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *ReferenceStore) Get(_ context.Context, id int64) (model.Reference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.refs {
		if r.ID == id {
			return r, nil
		}
	}
	return model.Reference{}, model.ErrReferenceNotFound
}

func (s *ReferenceStore) Create(_ context.Context, ref model.Reference) (model.Reference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	ref.ID = s.nextID
	s.refs = append(s.refs, ref)
	return ref, nil
}

func (s *ReferenceStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.refs {
		if r.ID == id {
			s.refs = append(s.refs[:i], s.refs[i+1:]...)
			return nil
		}
	}
	return model.ErrReferenceNotFound
}

type auditRecord struct {
	entry model.AuditEntry
	at    time.Time
}

type AuditStore struct {
	mu      sync.Mutex
	nextID  int64
	records []auditRecord
}

func NewAuditStore() *AuditStore {
	return &AuditStore{}
}

func (s *AuditStore) Log(_ context.Context, entry model.AuditEntry, occurredAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	entry.ID = s.nextID
	entry.OccurredAt = occurredAt.UTC().Format(time.RFC3339Nano)
	s.records = append(s.records, auditRecord{entry: entry, at: occurredAt.UTC()})
	return nil
}

func (s *AuditStore) Query(_ context.Context, query model.AuditQuery) ([]model.AuditEntry, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var from, to time.Time
	if raw := strings.TrimSpace(query.From); raw != "" {
		from, _ = time.Parse(time.RFC3339Nano, raw)
	}
	if raw := strings.TrimSpace(query.To); raw != "" {
		to, _ = time.Parse(time.RFC3339Nano, raw)
	}
	action := strings.TrimSpace(query.Action)

	matches := make([]auditRecord, 0)
	for _, r := range s.records {
		if action != "" && !strings.EqualFold(r.entry.Action, action) {
			continue
		}
		if query.ActorID > 0 && r.entry.Actor.UserID != query.ActorID {
			continue
		}
		if !from.IsZero() && r.at.Before(from) {
			continue
		}
		if !to.IsZero() && r.at.After(to) {
			continue
		}
		matches = append(matches, r)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if !matches[i].at.Equal(matches[j].at) {
			return matches[i].at.After(matches[j].at)
		}
		return matches[i].entry.ID > matches[j].entry.ID
	})

	total := len(matches)
	start := min((query.Page-1)*query.Limit, total)
	end := min(start+query.Limit, total)

	items := make([]model.AuditEntry, 0, end-start)
	for _, r := range matches[start:end] {
		items = append(items, r.entry)
	}
	return items, total, nil
}

// Len reports how many entries have been logged.
func (s *AuditStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
