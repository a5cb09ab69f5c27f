package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zx06/jsend/internal/errors"
)

type Memory struct {
	mu    sync.RWMutex
	posts map[string]Post
	order []string
	now   func() time.Time
}

func NewMemory() *Memory {
	return &Memory{posts: map[string]Post{}, now: time.Now}
}

func (m *Memory) List(ctx context.Context) ([]Post, *errors.XError) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Post, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.posts[id])
	}
	return out, nil
}

func (m *Memory) Create(ctx context.Context, in NewPost) (Post, *errors.XError) {
	p := Post{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Body:      in.Body,
		CreatedAt: m.now().UTC(),
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts[p.ID] = p
	m.order = append(m.order, p.ID)
	return p, nil
}

func (m *Memory) Get(ctx context.Context, id string) (Post, bool, *errors.XError) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.posts[id]
	return p, ok, nil
}

func (m *Memory) Delete(ctx context.Context, id string) (bool, *errors.XError) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return false, nil
	}
	delete(m.posts, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (m *Memory) Close() error { return nil }
