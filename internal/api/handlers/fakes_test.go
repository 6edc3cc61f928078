package handlers

import (
	"cmp"
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/habibulloh333/project-uas-prod/internal/domain/model"
	"github.com/habibulloh333/project-uas-prod/internal/repository"
)

// testLogger создаёт logger для тестов.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore — in-memory хранилище товаров с семантикой репозитория.
type memStore[K cmp.Ordered, R any] struct {
	mu      sync.Mutex
	rows    map[K]R
	keyOf   func(*R) K
	assign  func(*R)
	failAll error
}

func newMemStore[K cmp.Ordered, R any](keyOf func(*R) K) *memStore[K, R] {
	return &memStore[K, R]{rows: map[K]R{}, keyOf: keyOf}
}

func (m *memStore[K, R]) List(context.Context) ([]*R, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
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
	if m.assign != nil {
		m.assign(rec)
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
	if m.failAll != nil {
		return 0, m.failAll
	}
	return len(m.rows), nil
}

func newVendorCStore() *memStore[int64, model.VendorCProduct] {
	s := newMemStore(func(p *model.VendorCProduct) int64 { return p.ID })
	var seq int64
	s.assign = func(p *model.VendorCProduct) {
		seq++
		p.ID = seq
	}
	return s
}

// memUsers — in-memory хранилище пользователей.
type memUsers struct {
	mu    sync.Mutex
	users map[string]model.User
	seq   int64
}

func newMemUsers() *memUsers { return &memUsers{users: map[string]model.User{}} }

func (m *memUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Username]; ok {
		return repository.ErrConflict
	}
	m.seq++
	u.ID = m.seq
	m.users[u.Username] = *u
	return nil
}

var errStoreDown = errors.New("соединение с БД потеряно")

// staticChecker — ReadinessChecker с фиксированным ответом.
type staticChecker struct{ status, message string }

func (c staticChecker) CheckReady() (string, string) { return c.status, c.message }
