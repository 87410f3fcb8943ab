package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Maniblazestarboy/api-linkado/internal/domain/entity"
	repo "github.com/Maniblazestarboy/api-linkado/internal/domain/repository"
)

// clock is a settable time source shared by the service and the token codec.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock(t time.Time) *clock { return &clock{t: t} }

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

// memUsers mirrors the postgres store: hashes are only returned on request
// and an empty hash on update keeps the stored one.
type memUsers struct {
	mu    sync.Mutex
	byID  map[string]entity.User
	err   error
	saves int
}

func newMemUsers() *memUsers { return &memUsers{byID: map[string]entity.User{}} }

func (m *memUsers) FindByEmail(_ context.Context, email string, includeHash bool) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.byID {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
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
	if m.err != nil {
		return nil, m.err
	}
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
	if m.err != nil {
		return m.err
	}
	for id, other := range m.byID {
		if id != u.ID && strings.EqualFold(other.Email, u.Email) {
			return repo.ErrDuplicate
		}
	}
	m.saves++
	if u.ID == "" {
		u.ID = uuid.NewString()
		u.CreatedAt = time.Now()
	} else if old, ok := m.byID[u.ID]; ok && u.PasswordHash == "" {
		u.PasswordHash = old.PasswordHash
	} else if !ok {
		return repo.ErrNotFound
	}
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) delete(id string) {
	m.mu.Lock()
	delete(m.byID, id)
	m.mu.Unlock()
}

type memSubmissions struct {
	mu    sync.Mutex
	items map[string]entity.Submission
	lists int
	err   error
}

func newMemSubmissions() *memSubmissions {
	return &memSubmissions{items: map[string]entity.Submission{}}
}

func (m *memSubmissions) Create(_ context.Context, s *entity.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	s.ID = uuid.NewString()
	s.CreatedAt = time.Now().Add(time.Duration(len(m.items)) * time.Millisecond)
	s.UpdatedAt = s.CreatedAt
	m.items[s.ID] = *s
	return nil
}

func (m *memSubmissions) List(context.Context) ([]*entity.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
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

type memFiles struct {
	saved map[string][]byte
	err   error
}

func (f *memFiles) Save(_ context.Context, name, _ string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if f.saved == nil {
		f.saved = map[string][]byte{}
	}
	f.saved[name] = b
	return name, nil
}

type memIndex struct {
	docs map[string]entity.Submission
	err  error
}

func (x *memIndex) Index(_ context.Context, s *entity.Submission) error {
	if x.err != nil {
		return x.err
	}
	if x.docs == nil {
		x.docs = map[string]entity.Submission{}
	}
	x.docs[s.ID] = *s
	return nil
}

func (x *memIndex) Search(_ context.Context, q string, size int) ([]*entity.Submission, error) {
	if x.err != nil {
		return nil, x.err
	}
	var out []*entity.Submission
	for _, d := range x.docs {
		if strings.Contains(strings.ToLower(d.Name), strings.ToLower(q)) && len(out) < size {
			d := d
			out = append(out, &d)
		}
	}
	return out, nil
}

type memPublisher struct {
	bodies []any
	err    error
}

func (p *memPublisher) PublishJSON(_ context.Context, body any) error {
	if p.err != nil {
		return p.err
	}
	p.bodies = append(p.bodies, body)
	return nil
}

var errBackend = errors.New("backend down")

func fmtID(i int) string { return fmt.Sprintf("%08d-0000-4000-8000-000000000000", i) }
