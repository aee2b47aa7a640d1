package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"reserva/config"
	reservationRepo "reserva/database/repository/reservation"
	"reserva/services/reservation"

	"github.com/hibiken/asynq"
)

const (
	TypeReservationComplete = "reservation:complete"
	TypeReservationSweep    = "reservation:sweep"
)

// CompletionPayload identifies the reservation set a completion task settles.
type CompletionPayload struct {
	TenantID string `json:"tenant_id"`
	SetID    string `json:"set_id"`
}

// AsynqCompletionScheduler enqueues the deferred CONFIRMED -> COMPLETED
// transition for a set, timed to fire at its end.
type AsynqCompletionScheduler struct {
	Client *asynq.Client
}

// NewAsynqCompletionScheduler creates a scheduler over the queue Redis.
func NewAsynqCompletionScheduler() *AsynqCompletionScheduler {
	client := asynq.NewClient(queueRedisOpts())
	return &AsynqCompletionScheduler{Client: client}
}

func (s *AsynqCompletionScheduler) ScheduleCompletion(tenantID, setID string, runAt time.Time) error {
	payload, err := json.Marshal(CompletionPayload{TenantID: tenantID, SetID: setID})
	if err != nil {
		return fmt.Errorf("failed to encode completion payload: %w", err)
	}
	task := asynq.NewTask(TypeReservationComplete, payload)
	if _, err := s.Client.Enqueue(task, asynq.ProcessAt(runAt), asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("failed to enqueue completion task: %w", err)
	}
	return nil
}

// InitCompletionWorker runs the async worker and the periodic sweep in the
// background. The per-set task handles the common case; the sweep catches
// sets whose task was lost while the worker was down.
func InitCompletionWorker(engine *reservation.DefaultEngine, reservations reservationRepo.ReservationRepository) {
	srv := asynq.NewServer(
		queueRedisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReservationComplete, handleCompletionTask(engine))
	mux.HandleFunc(TypeReservationSweep, handleSweepTask(reservations))

	go func() {
		log.Println("[CompletionWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[CompletionWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[CompletionWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()

	go runSweepScheduler()
}

func handleCompletionTask(engine *reservation.DefaultEngine) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p CompletionPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[CompletionWorker] invalid payload: %v", err)
			return err
		}
		if err := engine.CompleteSet(ctx, p.TenantID, p.SetID); err != nil {
			log.Printf("[CompletionWorker] failed to complete set %s: %v", p.SetID, err)
			return err
		}
		return nil
	}
}

func handleSweepTask(reservations reservationRepo.ReservationRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		changed, err := reservations.CompleteDue(ctx, time.Now().UTC())
		if err != nil {
			log.Printf("[CompletionWorker] sweep failed: %v", err)
			return err
		}
		if changed > 0 {
			log.Printf("[CompletionWorker] sweep completed %d overdue reservations", changed)
		}
		return nil
	}
}

// runSweepScheduler registers the periodic sweep with asynq's scheduler.
func runSweepScheduler() {
	scheduler := asynq.NewScheduler(queueRedisOpts(), nil)
	task := asynq.NewTask(TypeReservationSweep, nil)
	if _, err := scheduler.Register("@every 5m", task); err != nil {
		log.Printf("[CompletionWorker] failed to register sweep schedule: %v", err)
		return
	}
	if err := scheduler.Run(); err != nil {
		log.Printf("[CompletionWorker] sweep scheduler stopped: %v", err)
	}
}

func queueRedisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}
