package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/caption-queue/internal/models"
)

type memoryStore struct {
	mu    sync.RWMutex
	items map[string]models.Submission
}

// NewMemory returns a Store kept entirely in process memory.
func NewMemory() Store {
	return &memoryStore{items: make(map[string]models.Submission)}
}

func (m *memoryStore) Create(ctx context.Context, sub models.Submission) (models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if _, exists := m.items[sub.ID]; exists {
		return models.Submission{}, fmt.Errorf("create submission %s: already exists", sub.ID)
	}
	sub = assignRecordIDs(sub)
	m.items[sub.ID] = sub.Clone()
	return sub, nil
}

func (m *memoryStore) Get(ctx context.Context, id string) (models.Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sub, ok := m.items[id]
	if !ok {
		return models.Submission{}, fmt.Errorf("get submission %s: %w", id, models.ErrNotFound)
	}
	return sub.Clone(), nil
}

func (m *memoryStore) Update(ctx context.Context, sub models.Submission) (models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.items[sub.ID]
	if !ok {
		return models.Submission{}, fmt.Errorf("update submission %s: %w", sub.ID, models.ErrNotFound)
	}

	next := stored.Clone()
	next.Transcript = sub.Transcript
	next.Tone = sub.Tone
	next.Caption = sub.Caption
	next.Status = sub.Status
	next.UpdatedAt = sub.UpdatedAt
	for _, p := range sub.Posts {
		if p.ID == "" {
			p.ID = uuid.NewString()
			p.SubmissionID = sub.ID
			next.Posts = append(next.Posts, p)
		}
	}
	for _, n := range sub.Notifications {
		if n.ID == "" {
			n.ID = uuid.NewString()
			n.SubmissionID = sub.ID
			next.Notifications = append(next.Notifications, n)
		}
	}

	m.items[sub.ID] = next
	return next.Clone(), nil
}

func (m *memoryStore) List(ctx context.Context, f models.Filter) ([]models.Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Submission, 0, len(m.items))
	for _, sub := range m.items {
		if f.Match(sub) {
			out = append(out, sub.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memoryStore) Close() error {
	return nil
}

func assignRecordIDs(sub models.Submission) models.Submission {
	sub = sub.Clone()
	for i := range sub.Posts {
		if sub.Posts[i].ID == "" {
			sub.Posts[i].ID = uuid.NewString()
		}
		sub.Posts[i].SubmissionID = sub.ID
	}
	for i := range sub.Notifications {
		if sub.Notifications[i].ID == "" {
			sub.Notifications[i].ID = uuid.NewString()
		}
		sub.Notifications[i].SubmissionID = sub.ID
	}
	return sub
}
