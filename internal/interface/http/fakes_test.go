package handlers_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Maniblazestarboy/api-linkado/internal/domain/entity"
	repo "github.com/Maniblazestarboy/api-linkado/internal/domain/repository"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type memUsers struct {
	mu   sync.Mutex
	byID map[string]entity.User
}

func (m *memUsers) FindByEmail(_ context.Context, email string, includeHash bool) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if strings.EqualFold(u.Email, email) {
			if !includeHash {
				u.PasswordHash = ""
			}
			return &u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memUsers) FindByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	u.PasswordHash = ""
	return &u, nil
}

func (m *memUsers) Save(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, other := range m.byID {
		if id != u.ID && strings.EqualFold(other.Email, u.Email) {
			return repo.ErrDuplicate
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	} else if old, ok := m.byID[u.ID]; ok && u.PasswordHash == "" {
		u.PasswordHash = old.PasswordHash
	}
	m.byID[u.ID] = *u
	return nil
}

type memSubmissions struct {
	mu    sync.Mutex
	items map[string]entity.Submission
}

func (m *memSubmissions) Create(_ context.Context, s *entity.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = uuid.NewString()
	s.CreatedAt = time.Now().Add(time.Duration(len(m.items)) * time.Millisecond)
	s.UpdatedAt = s.CreatedAt
	m.items[s.ID] = *s
	return nil
}

func (m *memSubmissions) List(context.Context) ([]*entity.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.Submission, 0, len(m.items))
	for _, s := range m.items {
		s := s
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memSubmissions) GetByID(_ context.Context, id string) (*entity.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.items[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &s, nil
}

func (m *memSubmissions) UpdateStatus(_ context.Context, id string, status entity.SubmissionStatus) (*entity.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.items[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	s.Status = status
	m.items[id] = s
	return &s, nil
}
