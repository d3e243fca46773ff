package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/twmb/franz-go/pkg/kgo"

	"persona/internal/people/events"
	peoplehandler "persona/internal/people/handler"
	"persona/internal/people/links"
	peoplemetrics "persona/internal/people/metrics"
	"persona/internal/people/ports"
	peopleservice "persona/internal/people/service"
	"persona/internal/platform/config"
	"persona/internal/platform/httpserver"
	"persona/internal/platform/logger"
	httpmetrics "persona/internal/platform/metrics"
	redisclient "persona/internal/platform/redis"
	"persona/internal/readcache"
	refhandler "persona/internal/reference/handler"
	refservice "persona/internal/reference/service"
	"persona/internal/storage/memory"
	"persona/internal/storage/postgres"
	httptransport "persona/internal/transport/http"
	"persona/pkg/platform/circuit"
)

const shutdownTimeout = 10 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type storage struct {
	tx         peopleservice.StoreTx
	reads      peopleservice.Stores
	references refservice.Store
	users      ports.UserLinker
	close      func() error
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	health := map[string]httptransport.HealthCheck{}

	store, err := openStorage(ctx, cfg, log, health)
	if err != nil {
		return err
	}
	defer func() { _ = store.close() }()

	resolver := refservice.New(store.references,
		refservice.WithLogger(log),
		refservice.WithTTL(cfg.ReferenceCacheTTL),
	)

	var backend readcache.Backend = readcache.NewMemory()
	rc, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rc != nil {
		defer func() { _ = rc.Close() }()
		breaker := circuit.New("readcache-redis",
			circuit.WithFailureThreshold(cfg.Redis.BreakerFailures),
			circuit.WithSuccessThreshold(cfg.Redis.BreakerSuccesses),
		)
		backend = readcache.NewGuarded(readcache.NewRedis(rc.Client), breaker, log)
		health["redis"] = rc.Health
	}
	cache := readcache.New(backend,
		readcache.WithLogger(log),
		readcache.WithMetrics(readcache.NewMetrics(reg)),
	)

	registry := links.NewRegistry()
	registry.Register(links.TypeUser, links.UserLoader(store.users))

	opts := []peopleservice.Option{
		peopleservice.WithLogger(log),
		peopleservice.WithMetrics(peoplemetrics.New(reg)),
		peopleservice.WithCache(cache),
		peopleservice.WithCardTypes(cfg.CardIdentityTypes),
		peopleservice.WithFamilyIndexTTL(cfg.FamilyIndexTTL),
		peopleservice.WithLinks(registry),
		peopleservice.WithHookTimeout(cfg.HookTimeout),
	}
	if len(cfg.Kafka.Brokers) > 0 {
		client, err := kgo.NewClient(
			kgo.SeedBrokers(cfg.Kafka.Brokers...),
			kgo.DefaultProduceTopic(cfg.Kafka.Topic),
			kgo.ProducerBatchCompression(kgo.SnappyCompression()),
			kgo.RecordDeliveryTimeout(cfg.Kafka.DeliveryTimeout),
		)
		if err != nil {
			return fmt.Errorf("create kafka client: %w", err)
		}
		defer client.Close()

		publisher, err := events.New(client, cfg.Kafka.Topic, events.WithLogger(log))
		if err != nil {
			return err
		}
		opts = append(opts,
			peopleservice.WithHook(peopleservice.EntityPeople, publisher.Publish),
			peopleservice.WithHook(peopleservice.EntityFamilyRelationship, publisher.Publish),
		)
		health["kafka"] = client.Ping
	}

	people, err := peopleservice.New(store.tx, store.reads, resolver, opts...)
	if err != nil {
		return fmt.Errorf("create people service: %w", err)
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:   log,
		Metrics:  httpmetrics.New(reg),
		Gatherer: reg,
		Health:   health,
		Handlers: []httptransport.Registrar{
			peoplehandler.New(people, log),
			refhandler.New(resolver, log),
		},
	})
	srv := httpserver.New(cfg.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting persona", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// openStorage selects PostgreSQL when DATABASE_URL is set and the in-memory
// store otherwise.
func openStorage(ctx context.Context, cfg config.Config, log *slog.Logger, health map[string]httptransport.HealthCheck) (*storage, error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, using in-memory storage")
		db := memory.NewDatabase()
		return &storage{
			tx:         peopleservice.NewInMemoryTx(db, cfg.TxTimeout),
			reads:      peopleservice.InMemoryStores(db),
			references: memory.NewReferenceStore(db),
			users:      memory.NewUserDirectory(db),
			close:      func() error { return nil },
		}, nil
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	health["database"] = db.PingContext

	return &storage{
		tx:         newPeoplePostgresTx(db, cfg.TxTimeout),
		reads:      postgresStores(db),
		references: postgres.NewReferenceStore(db),
		users:      postgres.NewUserDirectory(db),
		close:      db.Close,
	}, nil
}
