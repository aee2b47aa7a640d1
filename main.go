// File: reserva/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reserva/config"
	"reserva/cron"
	"reserva/database"
	blockRepo "reserva/database/repository/block"
	professionalRepo "reserva/database/repository/professional"
	reservationRepo "reserva/database/repository/reservation"
	serviceRepo "reserva/database/repository/service"
	tenantRepo "reserva/database/repository/tenant"
	"reserva/handlers"
	"reserva/middleware"
	"reserva/routes"
	"reserva/services/events"
	"reserva/services/reservation"
	"reserva/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	db := database.DB()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	tenants := tenantRepo.NewMongoTenantRepo(db)
	professionals := professionalRepo.NewMongoProfessionalRepo(db)
	services := serviceRepo.NewMongoServiceRepo(db)
	blocks := blockRepo.NewMongoBlockRepo(db)
	reservations := reservationRepo.NewMongoReservationRepo(db)
	locks := reservationRepo.NewMongoLockRepo(db)

	ensureIndexes(logger.Sugar(), tenants, professionals, services, blocks, reservations, locks)

	publisher, err := events.NewKafkaPublisher(config.AppConfig.KafkaBrokers, config.AppConfig.KafkaTopic)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize kafka publisher: %v", err)
	}
	defer publisher.Close()

	completions := cron.NewAsynqCompletionScheduler()

	// The reservation engine, with every store handle wired in explicitly.
	engine := &reservation.DefaultEngine{
		Tenants:       tenants,
		Professionals: professionals,
		Services:      services,
		Blocks:        blocks,
		Reservations:  reservations,
		Locks:         locks,
		Cache:         reservation.NewRedisViewCache(utils.GetCacheClient(), logger),
		Events:        publisher,
		Completions:   completions,
		Logger:        logger,
		Timeout:       config.ReserveTimeout(),
		LockRetry:     config.LockRetryInterval(),
		LockTTL:       config.LockTTL(),
	}

	cron.InitCompletionWorker(engine, reservations)
	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

	// Assemble the handler bundle and register routes.
	handlerBundle := &routes.HandlerBundle{
		Reservation: handlers.NewReservationHandler(engine, logger),
		Auth:        handlers.NewAuthHandler(tenants),
		Billing:     handlers.NewBillingHandler(tenants, logger),
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

type indexed interface {
	EnsureIndexes() error
}

func ensureIndexes(log interface{ Warnf(string, ...interface{}) }, repos ...indexed) {
	for _, repo := range repos {
		if err := repo.EnsureIndexes(); err != nil {
			log.Warnf("main: failed to ensure indexes: %v", err)
		}
	}
}
