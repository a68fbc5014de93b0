package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"staybook/internal/infra/broker/kafka"
	"staybook/internal/infra/config"
	ginserver "staybook/internal/infra/http/gin"
	"staybook/internal/infra/obs"
	"staybook/internal/repo"
	"staybook/internal/seed"
	"staybook/internal/store"
	"staybook/internal/store/memory"
	"staybook/internal/store/mongostore"
	"staybook/internal/store/redisstore"
	"staybook/internal/store/remote"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		obs.NewLogger("dev").Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	backend, check, err := buildBackend(ctx, cfg)
	if err != nil {
		logger.Error("store backend init failed", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	logger.Info("store backend ready", "backend", cfg.StoreBackend)

	seeded := store.NewSeeder(backend)
	if cfg.SeedData {
		if err := seed.Register(seeded); err != nil {
			logger.Error("seed registration failed", "error", err)
			os.Exit(1)
		}
	}

	listings := repo.NewListings(seeded)
	reservations := repo.NewReservations(seeded, listings)
	reservations.Logger = logger

	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, nil)
		if err != nil {
			logger.Error("kafka producer init failed", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		reservations.Events = publisher
		logger.Info("reservation events enabled", "topic", cfg.KafkaTopic)
	}

	health := obs.Health{Backend: string(cfg.StoreBackend), Check: check}
	server := ginserver.NewServer(cfg, logger, health, ginserver.Handlers{
		Listing:      ginserver.ListingHandler{Listings: listings},
		Reservation:  ginserver.ReservationHandler{Reservations: reservations, Listings: listings},
		Availability: ginserver.AvailabilityHandler{Listings: listings, Reservations: reservations},
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

// buildBackend picks the persistence medium. Everything above the
// store contract is identical regardless of which branch runs; the
// returned check feeds the readiness probe.
func buildBackend(ctx context.Context, cfg config.Config) (store.Store, func(context.Context) error, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return memory.New(), nil, nil
	case config.BackendMongo:
		s, err := mongostore.Connect(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		return s, pingCheck(s.Ping), nil
	case config.BackendRedis:
		s, err := redisstore.Connect(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return s, pingCheck(s.Ping), nil
	case config.BackendRemote:
		return remote.New(cfg.RemoteAPIURL, &http.Client{Timeout: 10 * time.Second}), nil, nil
	}
	return nil, nil, errors.New("unknown store backend")
}

func pingCheck(ping func(context.Context) error) func(context.Context) error {
	return func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return ping(pingCtx)
	}
}
