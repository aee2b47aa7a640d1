package reservation

import (
	"context"
	"errors"
	"sync"
	"time"

	professionalRepo "reserva/database/repository/professional"
	reservationRepo "reserva/database/repository/reservation"
	tenantRepo "reserva/database/repository/tenant"
	"reserva/models"

	"go.uber.org/zap"
)

// In-memory fakes of the repository interfaces. The lock fake gives real
// mutual exclusion semantics (insert-if-absent), so the concurrency tests
// exercise the same protocol the Mongo implementations run.

type fakeTenantRepo struct {
	mu      sync.Mutex
	tenants map[string]models.Tenant
}

func (f *fakeTenantRepo) GetByID(ctx context.Context, id string) (*models.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tenants[id]
	if !ok {
		return nil, tenantRepo.ErrNotFound
	}
	return &t, nil
}

func (f *fakeTenantRepo) GetByBillingCustomerID(ctx context.Context, customerID string) (*models.Tenant, error) {
	return nil, tenantRepo.ErrNotFound
}

func (f *fakeTenantRepo) UpdateSubscriptionStatus(ctx context.Context, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tenants[id]
	if !ok {
		return tenantRepo.ErrNotFound
	}
	t.SubscriptionStatus = status
	f.tenants[id] = t
	return nil
}

func (f *fakeTenantRepo) EnsureIndexes() error { return nil }

type fakeProfessionalRepo struct {
	mu            sync.Mutex
	professionals map[string]models.Professional
}

func (f *fakeProfessionalRepo) GetByID(ctx context.Context, id string) (*models.Professional, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.professionals[id]
	if !ok {
		return nil, professionalRepo.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProfessionalRepo) EnsureIndexes() error { return nil }

type fakeServiceRepo struct {
	mu       sync.Mutex
	services map[string]models.Service
}

func (f *fakeServiceRepo) GetActiveByIDs(ctx context.Context, tenantID string, ids []string) ([]models.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Service
	seen := make(map[string]bool)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		svc, ok := f.services[id]
		if ok && svc.Active && svc.TenantID == tenantID {
			out = append(out, svc)
		}
	}
	return out, nil
}

func (f *fakeServiceRepo) EnsureIndexes() error { return nil }

type fakeBlockRepo struct {
	mu      sync.Mutex
	blocked map[string]bool // tenantID + "/" + clientID
}

func (f *fakeBlockRepo) Exists(ctx context.Context, tenantID, clientID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.blocked[tenantID+"/"+clientID], nil
}

func (f *fakeBlockRepo) EnsureIndexes() error { return nil }

type fakeReservationRepo struct {
	mu         sync.Mutex
	txMu       sync.Mutex
	rows       []models.Reservation
	failInsert error
}

func (f *fakeReservationRepo) InsertSet(ctx context.Context, rows []models.Reservation) error {
	if f.failInsert != nil {
		return f.failInsert
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, rows...)
	return nil
}

func (f *fakeReservationRepo) GetDayWindow(ctx context.Context, professionalID string, dayStart, dayEnd time.Time) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reservation
	for _, r := range f.rows {
		if r.ProfessionalID != professionalID || r.Status == models.StatusCanceled {
			continue
		}
		if r.Start.Before(dayEnd) && r.End.After(dayStart) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) GetSet(ctx context.Context, tenantID, setID string) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reservation
	for _, r := range f.rows {
		if r.TenantID == tenantID && r.SetID == setID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) UpdateSetStatus(ctx context.Context, tenantID, setID string, from []string, to string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	eligible := make(map[string]bool, len(from))
	for _, s := range from {
		eligible[s] = true
	}
	var changed int64
	for i := range f.rows {
		r := &f.rows[i]
		if r.TenantID == tenantID && r.SetID == setID && eligible[r.Status] {
			r.Status = to
			changed++
		}
	}
	return changed, nil
}

func (f *fakeReservationRepo) ListUpcoming(ctx context.Context, tenantID string, from time.Time, limit int64) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reservation
	for _, r := range f.rows {
		if r.TenantID == tenantID && r.Status != models.StatusCanceled && !r.Start.Before(from) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) CompleteDue(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var changed int64
	for i := range f.rows {
		r := &f.rows[i]
		if r.Status == models.StatusConfirmed && !r.End.After(now) {
			r.Status = models.StatusCompleted
			changed++
		}
	}
	return changed, nil
}

// ExecuteTransaction runs fn with snapshot rollback so a failed transaction
// never leaves a partial set behind.
func (f *fakeReservationRepo) ExecuteTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.txMu.Lock()
	defer f.txMu.Unlock()
	f.mu.Lock()
	snapshot := append([]models.Reservation(nil), f.rows...)
	f.mu.Unlock()
	if err := fn(ctx); err != nil {
		f.mu.Lock()
		f.rows = snapshot
		f.mu.Unlock()
		return err
	}
	return nil
}

func (f *fakeReservationRepo) EnsureIndexes() error { return nil }

func (f *fakeReservationRepo) countSet(setID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.rows {
		if r.SetID == setID {
			n++
		}
	}
	return n
}

func (f *fakeReservationRepo) all() []models.Reservation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Reservation(nil), f.rows...)
}

type fakeLockRepo struct {
	mu   sync.Mutex
	held map[string]string // professionalID -> owner
}

func (f *fakeLockRepo) Acquire(ctx context.Context, professionalID, owner string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.held[professionalID]; ok {
		return reservationRepo.ErrLockHeld
	}
	f.held[professionalID] = owner
	return nil
}

func (f *fakeLockRepo) Release(ctx context.Context, professionalID, owner string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.held[professionalID] == owner {
		delete(f.held, professionalID)
	}
	return nil
}

func (f *fakeLockRepo) EnsureIndexes() error { return nil }

type fakeCache struct {
	mu            sync.Mutex
	days          map[string][]models.Reservation
	upcoming      map[string][]models.Reservation
	invalidations int
}

func cacheKey(tenantID, professionalID, date string) string {
	return tenantID + "/" + professionalID + "/" + date
}

func (f *fakeCache) GetDay(ctx context.Context, tenantID, professionalID, date string) ([]models.Reservation, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows, ok := f.days[cacheKey(tenantID, professionalID, date)]
	return rows, ok
}

func (f *fakeCache) SetDay(ctx context.Context, tenantID, professionalID, date string, rows []models.Reservation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.days[cacheKey(tenantID, professionalID, date)] = rows
}

func (f *fakeCache) GetUpcoming(ctx context.Context, tenantID string) ([]models.Reservation, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows, ok := f.upcoming[tenantID]
	return rows, ok
}

func (f *fakeCache) SetUpcoming(ctx context.Context, tenantID string, rows []models.Reservation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upcoming[tenantID] = rows
}

func (f *fakeCache) Invalidate(ctx context.Context, tenantID, professionalID string, day time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.days, cacheKey(tenantID, professionalID, day.UTC().Format("2006-01-02")))
	delete(f.upcoming, tenantID)
	f.invalidations++
}

type fakeEvents struct {
	mu     sync.Mutex
	events []models.ReservationEvent
}

func (f *fakeEvents) Publish(ctx context.Context, event models.ReservationEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

type fakeCompletions struct {
	mu        sync.Mutex
	scheduled []string
}

func (f *fakeCompletions) ScheduleCompletion(tenantID, setID string, runAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduled = append(f.scheduled, setID)
	return nil
}

// testFixture bundles an engine and its fakes, pre-seeded with one healthy
// tenant, one active professional, and two active services.
type testFixture struct {
	engine        *DefaultEngine
	tenants       *fakeTenantRepo
	professionals *fakeProfessionalRepo
	services      *fakeServiceRepo
	blocks        *fakeBlockRepo
	reservations  *fakeReservationRepo
	locks         *fakeLockRepo
	cache         *fakeCache
	events        *fakeEvents
	completions   *fakeCompletions
}

func newTestFixture() *testFixture {
	f := &testFixture{
		tenants: &fakeTenantRepo{tenants: map[string]models.Tenant{
			"t1": {ID: "t1", Name: "Salon One", SubscriptionStatus: models.SubscriptionActive},
		}},
		professionals: &fakeProfessionalRepo{professionals: map[string]models.Professional{
			"p1": {ID: "p1", TenantID: "t1", Active: true},
			"p2": {ID: "p2", TenantID: "t1", Active: true},
		}},
		services: &fakeServiceRepo{services: map[string]models.Service{
			"s45": {ID: "s45", TenantID: "t1", Active: true, DurationMinutes: 45},
			"s30": {ID: "s30", TenantID: "t1", Active: true, DurationMinutes: 30},
		}},
		blocks:       &fakeBlockRepo{blocked: map[string]bool{}},
		reservations: &fakeReservationRepo{},
		locks:        &fakeLockRepo{held: map[string]string{}},
		cache: &fakeCache{
			days:     map[string][]models.Reservation{},
			upcoming: map[string][]models.Reservation{},
		},
		events:       &fakeEvents{},
		completions:  &fakeCompletions{},
	}
	f.engine = &DefaultEngine{
		Tenants:       f.tenants,
		Professionals: f.professionals,
		Services:      f.services,
		Blocks:        f.blocks,
		Reservations:  f.reservations,
		Locks:         f.locks,
		Cache:         f.cache,
		Events:        f.events,
		Completions:   f.completions,
		Logger:        zap.NewNop(),
		Timeout:       2 * time.Second,
		LockRetry:     time.Millisecond,
		LockTTL:       30 * time.Second,
	}
	return f
}

func mustBeCode(err error, code string) error {
	if err == nil {
		return errors.New("expected an error, got nil")
	}
	if got := CodeOf(err); got != code {
		return errors.New("expected code " + code + ", got " + got + " (" + err.Error() + ")")
	}
	return nil
}
