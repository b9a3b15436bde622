package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/IagoLeal1/GestaoLibelle-sub000/internal/config"
	"github.com/IagoLeal1/GestaoLibelle-sub000/internal/handler"
	appointmentHandler "github.com/IagoLeal1/GestaoLibelle-sub000/internal/handler/appointment"
	roomHandler "github.com/IagoLeal1/GestaoLibelle-sub000/internal/handler/room"
	"github.com/IagoLeal1/GestaoLibelle-sub000/internal/middleware"
	"github.com/IagoLeal1/GestaoLibelle-sub000/internal/repository/postgres"
	"github.com/IagoLeal1/GestaoLibelle-sub000/internal/router"
	appointmentService "github.com/IagoLeal1/GestaoLibelle-sub000/internal/service/appointment"
	financeService "github.com/IagoLeal1/GestaoLibelle-sub000/internal/service/finance"
	occupancyService "github.com/IagoLeal1/GestaoLibelle-sub000/internal/service/occupancy"
	"github.com/IagoLeal1/GestaoLibelle-sub000/pkg/logger"
	"github.com/IagoLeal1/GestaoLibelle-sub000/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	loc, err := cfg.Clinic.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid clinic timezone")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	appLogger := logger.NewLogger(nil)
	appMetrics := metrics.NewMetrics("gestao", "scheduling")

	// Repositories
	appointmentRepo := postgres.NewAppointmentRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	professionalRepo := postgres.NewProfessionalRepository(db)
	roomRepo := postgres.NewRoomRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Services
	financeSvc := financeService.NewService(transactionRepo, appLogger, appMetrics)
	appointmentSvc := appointmentService.NewService(
		appointmentRepo,
		patientRepo,
		professionalRepo,
		financeSvc,
		outboxRepo,
		appLogger,
		appMetrics,
		loc,
	)
	occupancySvc := occupancyService.NewService(roomRepo, appointmentRepo, appLogger, appMetrics, loc)

	// Handlers
	h := handler.NewHandler()
	appointmentH := appointmentHandler.NewHandler(appointmentSvc, loc)
	roomH := roomHandler.NewHandler(occupancySvc, loc)

	r := router.NewRouter(appointmentH, roomH, h, router.Config{
		RateLimitRPS:   float64(cfg.Server.RateLimitRPS),
		RateLimitBurst: cfg.Server.RateLimitBurst,
		Timeout:        time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		CORSConfig:     middleware.DefaultCORSConfig(),
		MetricsPrefix:  "gestao",
	})
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
