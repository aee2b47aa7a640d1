package reservation

import (
	"context"
	"time"

	blockRepo "reserva/database/repository/block"
	professionalRepo "reserva/database/repository/professional"
	reservationRepo "reserva/database/repository/reservation"
	serviceRepo "reserva/database/repository/service"
	tenantRepo "reserva/database/repository/tenant"
	"reserva/models"

	"go.uber.org/zap"
)

// Engine is the reservation engine's caller-facing contract. Reserve is the
// operation with real correctness risk; the rest are the cancellation and
// read flows around it.
type Engine interface {
	Reserve(ctx context.Context, req models.ReserveRequest) (*models.ReservationSet, error)
	Cancel(ctx context.Context, tenantID, setID string) error
	RequestCancellation(ctx context.Context, tenantID, setID string) error
	ResolveCancellation(ctx context.Context, tenantID, setID string, approve bool) error
	ListDay(ctx context.Context, tenantID, professionalID string, day time.Time) ([]models.Reservation, error)
	ListUpcoming(ctx context.Context, tenantID string, limit int64) ([]models.Reservation, error)
}

// EventPublisher hands reservation lifecycle events to downstream
// collaborators. Publishing is fire-and-forget from the engine's point of
// view; a failed publish never fails the reservation.
type EventPublisher interface {
	Publish(ctx context.Context, event models.ReservationEvent) error
}

// ViewCache backs the advisory availability and upcoming-bookings read
// views. Reads may be stale; the coordinator's re-check under lock is what
// guarantees correctness.
type ViewCache interface {
	GetDay(ctx context.Context, tenantID, professionalID, date string) ([]models.Reservation, bool)
	SetDay(ctx context.Context, tenantID, professionalID, date string, rows []models.Reservation)
	GetUpcoming(ctx context.Context, tenantID string) ([]models.Reservation, bool)
	SetUpcoming(ctx context.Context, tenantID string, rows []models.Reservation)
	Invalidate(ctx context.Context, tenantID, professionalID string, day time.Time)
}

// CompletionScheduler enqueues the deferred CONFIRMED -> COMPLETED
// transition for a reservation set once its end time passes.
type CompletionScheduler interface {
	ScheduleCompletion(tenantID, setID string, runAt time.Time) error
}

// DefaultEngine implements Engine against the Mongo-backed repositories.
// The composition root owns every handle wired in here.
type DefaultEngine struct {
	Tenants       tenantRepo.TenantRepository
	Professionals professionalRepo.ProfessionalRepository
	Services      serviceRepo.ServiceRepository
	Blocks        blockRepo.BlockRepository
	Reservations  reservationRepo.ReservationRepository
	Locks         reservationRepo.LockRepository
	Cache         ViewCache
	Events        EventPublisher
	Completions   CompletionScheduler
	Logger        *zap.Logger

	// Timeout bounds one whole reserve attempt; LockRetry is the pause
	// between advisory lock attempts; LockTTL is the crash-safety expiry
	// on lock documents.
	Timeout   time.Duration
	LockRetry time.Duration
	LockTTL   time.Duration
}
