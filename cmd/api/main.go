package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"example.com/activities/internal/api"
	"example.com/activities/internal/auth"
	"example.com/activities/internal/config"
	"example.com/activities/internal/domain"
	"example.com/activities/internal/registry"
	registrypg "example.com/activities/internal/registry/postgres"
	"example.com/activities/internal/stream"
	httptransport "example.com/activities/internal/transport/http"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, cleanup, err := buildRegistry(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialise registry: %v", err)
	}
	defer cleanup()

	var publisher domain.RosterPublisher = stream.Nop{}
	var streamPublisher *stream.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		writer := stream.NewKafkaWriter(cfg.KafkaBrokers, cfg.RosterTopic)
		defer writer.Close()

		streamPublisher = stream.NewPublisher(writer, cfg.PublisherBuffer)
		go streamPublisher.Start(ctx)
		publisher = streamPublisher
	}

	service := domain.NewService(store, publisher)

	handler := api.NewHandler(service, cfg.StaticDir)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	// Simple CORS middleware for the local portal frontend
	cors := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSOrigin)
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	// Basic request logger
	logger := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Printf("%s %s", r.Method, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}

	// Only the admin surface requires a bearer token; the documented public
	// endpoints stay open.
	adminOnly := func(r *http.Request) bool {
		return !strings.HasPrefix(r.URL.Path, "/admin/")
	}
	authMiddleware := auth.NewMiddleware(auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}, adminOnly)

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, authMiddleware.Wrap(logger(cors(mux))))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("activities-service listening on %s", cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	if streamPublisher != nil {
		streamPublisher.Wait()
	}
}

// buildRegistry selects the durable Postgres store when POSTGRES_URL is set
// and the in-memory seed registry otherwise.
func buildRegistry(ctx context.Context, cfg config.Config) (domain.Registry, func(), error) {
	if cfg.PostgresURL == "" {
		return registry.NewInMemoryRegistry(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		return nil, nil, err
	}
	if err := registrypg.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return registrypg.NewRepository(pool), pool.Close, nil
}
