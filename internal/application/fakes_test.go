package application

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/oksasatya/go-appointment-scheduler/internal/domain/entity"
	repo "github.com/oksasatya/go-appointment-scheduler/internal/domain/repository"
)

type fakeUserRepo struct {
	users  map[int64]*entity.User
	nextID int64

	createFn    func(ctx context.Context, u *entity.User) error
	getByIDErr  error
	setAvatarFn func(ctx context.Context, userID, fileID int64) error
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[int64]*entity.User{}, nextID: 100}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, u *entity.User) error {
	if r.createFn != nil {
		return r.createFn(ctx, u)
	}
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	if r.getByIDErr != nil {
		return nil, r.getByIDErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *fakeUserRepo) FindProvider(ctx context.Context, id int64) (*entity.User, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.Provider {
		return nil, repo.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) ListProviders(_ context.Context) ([]entity.User, error) {
	var out []entity.User
	for _, u := range r.users {
		if u.Provider {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) SetAvatar(ctx context.Context, userID, fileID int64) error {
	if r.setAvatarFn != nil {
		return r.setAvatarFn(ctx, userID, fileID)
	}
	u, ok := r.users[userID]
	if !ok {
		return repo.ErrNotFound
	}
	u.AvatarID = &fileID
	return nil
}

// memAppointments enforces the same active-slot uniqueness as the database index.
type memAppointments struct {
	mu     sync.Mutex
	rows   []entity.Appointment
	nextID int64

	existsErr error
	createErr error
	views     []entity.AppointmentView

	existsCalls         int
	gotLimit, gotOffset int
}

func (m *memAppointments) ExistsActive(_ context.Context, providerID int64, slot time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.existsCalls++
	if m.existsErr != nil {
		return false, m.existsErr
	}
	for _, a := range m.rows {
		if a.ProviderID == providerID && a.Date.Equal(slot) && a.Active() {
			return true, nil
		}
	}
	return false, nil
}

func (m *memAppointments) Create(_ context.Context, a *entity.Appointment) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ProviderID == a.ProviderID && r.Date.Equal(a.Date) && r.Active() {
			return repo.ErrConflict
		}
	}
	m.nextID++
	a.ID = m.nextID
	m.rows = append(m.rows, *a)
	return nil
}

func (m *memAppointments) ListActiveByUser(_ context.Context, _ int64, limit, offset int) ([]entity.AppointmentView, error) {
	m.gotLimit, m.gotOffset = limit, offset
	return m.views, nil
}

type fakeNotifier struct {
	calls int
	err   error
}

func (n *fakeNotifier) AppointmentCreated(context.Context, *entity.Appointment, *entity.User) error {
	n.calls++
	return n.err
}

type fakeLocker struct {
	busy     bool
	err      error
	keys     []string
	released int
}

func (l *fakeLocker) TryLock(_ context.Context, key string, _ time.Duration) (func(context.Context) error, bool, error) {
	l.keys = append(l.keys, key)
	if l.err != nil {
		return nil, false, l.err
	}
	if l.busy {
		return nil, false, nil
	}
	return func(context.Context) error { l.released++; return nil }, true, nil
}

type fakeNotifications struct {
	created []*entity.Notification
	err     error
}

func (f *fakeNotifications) Create(_ context.Context, n *entity.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, n)
	return nil
}

type fakePublisher struct {
	jobs []any
	err  error
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, body)
	return nil
}

type fakeFiles struct {
	created []*entity.File
}

func (f *fakeFiles) Create(_ context.Context, file *entity.File) error {
	file.ID = int64(len(f.created) + 1)
	f.created = append(f.created, file)
	return nil
}

type fakeUploader struct {
	path, contentType string
	body              string
	err               error
}

func (u *fakeUploader) Upload(_ context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	b, _ := io.ReadAll(r)
	u.path, u.contentType, u.body = objectPath, contentType, string(b)
	return "https://storage.example/" + objectPath, nil
}

type fixedFormatter string

func (f fixedFormatter) Format(time.Time) string { return string(f) }

type fakeProviderCache struct{ invalidated int }

func (c *fakeProviderCache) Invalidate(context.Context) { c.invalidated++ }
