package service

import (
	"cmp"
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/habibulloh333/project-uas-prod/internal/domain/model"
	"github.com/habibulloh333/project-uas-prod/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr[T any](v T) *T { return &v }

// memStore — in-memory ProductStore с семантикой repository.ProductRepository.
type memStore[K cmp.Ordered, R any] struct {
	mu      sync.Mutex
	rows    map[K]R
	keyOf   func(*R) K
	nextKey func() K
	listErr error
}

func newMemStore[K cmp.Ordered, R any](keyOf func(*R) K) *memStore[K, R] {
	return &memStore[K, R]{rows: map[K]R{}, keyOf: keyOf}
}

func (m *memStore[K, R]) List(context.Context) ([]*R, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	keys := make([]K, 0, len(m.rows))
	for k := range m.rows {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]*R, 0, len(keys))
	for _, k := range keys {
		r := m.rows[k]
		out = append(out, &r)
	}
	return out, nil
}

func (m *memStore[K, R]) Get(_ context.Context, key K) (*R, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (m *memStore[K, R]) Create(_ context.Context, rec *R) (*R, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nextKey != nil {
		setKey(rec, m.nextKey())
	}
	k := m.keyOf(rec)
	if _, ok := m.rows[k]; ok {
		return nil, repository.ErrConflict
	}
	m.rows[k] = *rec
	saved := *rec
	return &saved, nil
}

func (m *memStore[K, R]) Modify(_ context.Context, key K, fn func(*R) error) (*R, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if err := fn(&r); err != nil {
		return nil, err
	}
	m.rows[key] = r
	return &r, nil
}

func (m *memStore[K, R]) Delete(_ context.Context, key K) (*R, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(m.rows, key)
	return &r, nil
}

func (m *memStore[K, R]) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows), nil
}

// setKey проставляет сгенерированный ключ записям Vendor C.
func setKey[K any, R any](rec *R, key K) {
	if p, ok := any(rec).(*model.VendorCProduct); ok {
		if id, ok := any(key).(int64); ok {
			p.ID = id
		}
	}
}

func newVendorCStore() *memStore[int64, model.VendorCProduct] {
	s := newMemStore(VendorCSpec.KeyOf)
	var seq int64
	s.nextKey = func() int64 { seq++; return seq }
	return s
}

// memUsers — in-memory UserStore.
type memUsers struct {
	mu    sync.Mutex
	users map[string]*model.User
	seq   int64
}

func newMemUsers() *memUsers { return &memUsers{users: map[string]*model.User{}} }

func (m *memUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Username]; ok {
		return repository.ErrConflict
	}
	m.seq++
	u.ID = m.seq
	c := *u
	m.users[u.Username] = &c
	return nil
}

// recordingPublisher запоминает опубликованные события.
type recordingPublisher struct {
	mu     sync.Mutex
	events []ProductEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev ProductEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

// countingInvalidator считает сбросы.
type countingInvalidator struct {
	mu sync.Mutex
	n  int
}

func (c *countingInvalidator) Invalidate() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}
