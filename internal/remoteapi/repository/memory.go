package repository

import (
	"context"
	"sync"

	"github.com/aDevMister/my-assesment/internal/models"
	"github.com/samber/lo"
)

// MemoryRepo keeps users in a slice. Used for development and tests.
type MemoryRepo struct {
	mu     sync.RWMutex
	users  []models.User
	nextID int
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{users: []models.User{}, nextID: 1}
}

func (m *MemoryRepo) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = m.nextID
	m.nextID++
	m.users = append(m.users, *u)
	return nil
}

func (m *MemoryRepo) Get(_ context.Context, id int) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := lo.Find(m.users, func(u models.User) bool { return u.ID == id }); ok {
		return u, nil
	}
	return models.User{}, ErrNotFound
}

func (m *MemoryRepo) List(_ context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.User, len(m.users))
	copy(out, m.users)
	return out, nil
}

func (m *MemoryRepo) Replace(_ context.Context, u models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, idx, ok := lo.FindIndexOf(m.users, func(x models.User) bool { return x.ID == u.ID })
	if !ok {
		return ErrNotFound
	}
	m.users[idx] = u
	return nil
}

func (m *MemoryRepo) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.users)
	m.users = lo.Reject(m.users, func(u models.User, _ int) bool { return u.ID == id })
	if len(m.users) == n {
		return ErrNotFound
	}
	return nil
}

func (m *MemoryRepo) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users), nil
}
