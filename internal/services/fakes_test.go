package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/valeri-app/valeri/internal/models"
	"github.com/valeri-app/valeri/internal/utils"
)

// fakeProfileRepo is an in-memory ProfileRepository with per-call failure
// switches and write counters.
type fakeProfileRepo struct {
	mu       sync.Mutex
	rows     map[string]models.Profile
	getErr   error
	createEr error
	updateEr error
	deleteEr error
	creates  int
	deletes  int
	onCreate func(f *fakeProfileRepo) // runs before the insert, for race simulation
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{rows: map[string]models.Profile{}}
}

func (f *fakeProfileRepo) GetByUserID(_ context.Context, userID string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.rows[userID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (f *fakeProfileRepo) CreateIfAbsent(_ context.Context, p *models.Profile) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.onCreate != nil {
		f.onCreate(f)
	}
	if f.createEr != nil {
		return false, f.createEr
	}
	if _, ok := f.rows[p.UserID]; ok {
		return false, nil
	}
	f.rows[p.UserID] = *p
	return true, nil
}

func (f *fakeProfileRepo) UpdateFields(_ context.Context, userID string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateEr != nil {
		return f.updateEr
	}
	p, ok := f.rows[userID]
	if !ok {
		return utils.ErrNotFound
	}
	if v, ok := fields["full_name"]; ok {
		if s, ok := v.(string); ok {
			p.FullName = &s
		}
	}
	f.rows[userID] = p
	return nil
}

func (f *fakeProfileRepo) ListOrderedByEmail(_ context.Context) ([]models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	out := make([]models.Profile, 0, len(f.rows))
	for _, p := range f.rows {
		out = append(out, p)
	}
	// insertion order does not matter to callers under test
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Email < out[i].Email {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (f *fakeProfileRepo) Delete(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	if f.deleteEr != nil {
		return f.deleteEr
	}
	delete(f.rows, userID)
	return nil
}

// allowList satisfies RolePolicy for tests.
type allowList []string

func (a allowList) IsAdminEmail(email string) bool {
	for _, e := range a {
		if e == email {
			return true
		}
	}
	return false
}

// fakeAuthProvider records admin deletions and fails on demand.
type fakeAuthProvider struct {
	deleteErr error
	deleted   []string
}

func (f *fakeAuthProvider) SignUp(context.Context, string, string, string, map[string]any) (*models.User, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAuthProvider) SignInWithPassword(context.Context, string, string, string) (*models.Session, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAuthProvider) GetUser(context.Context, string) (*models.User, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAuthProvider) SignOut(context.Context, string) error { return nil }

func (f *fakeAuthProvider) ResetPasswordForEmail(context.Context, string, string, string) error {
	return nil
}

func (f *fakeAuthProvider) UpdatePassword(context.Context, string, string) error { return nil }

func (f *fakeAuthProvider) AdminDeleteUser(_ context.Context, userID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, userID)
	return nil
}

// fakeAuditRepo collects entries in memory.
type fakeAuditRepo struct {
	entries []models.AuditEntry
}

func (f *fakeAuditRepo) Insert(_ context.Context, e *models.AuditEntry) error {
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeAuditRepo) ListRecent(_ context.Context, limit int64) ([]models.AuditEntry, error) {
	if limit > 0 && int64(len(f.entries)) > limit {
		return f.entries[:limit], nil
	}
	return f.entries, nil
}

// fakeCache is a map-backed cache.Cache.
type fakeCache struct {
	mu   sync.Mutex
	vals map[string]any
	dels []string
}

func newFakeCache() *fakeCache { return &fakeCache{vals: map[string]any{}} }

func (f *fakeCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.vals[key]
	if !ok {
		return false, nil
	}
	if s, ok2 := v.(string); ok2 {
		if p, ok3 := dst.(*string); ok3 {
			*p = s
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.vals[key] = val
	return nil
}

func (f *fakeCache) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.vals, k)
		f.dels = append(f.dels, k)
	}
	return nil
}
