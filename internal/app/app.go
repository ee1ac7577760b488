package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/tournament-desk/internal/config"
	"github.com/riskibarqy/tournament-desk/internal/domain/tournament"
	cacherepo "github.com/riskibarqy/tournament-desk/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/tournament-desk/internal/infrastructure/repository/csvfile"
	"github.com/riskibarqy/tournament-desk/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/tournament-desk/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/tournament-desk/internal/infrastructure/repository/resilient"
	"github.com/riskibarqy/tournament-desk/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/tournament-desk/internal/platform/cache"
	"github.com/riskibarqy/tournament-desk/internal/platform/logging"
	"github.com/riskibarqy/tournament-desk/internal/platform/resilience"
	"github.com/riskibarqy/tournament-desk/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const dbPingTimeout = 5 * time.Second

// Runtime is the assembled service with the resources it owns.
type Runtime struct {
	Service *usecase.TournamentService
	Store   tournament.Store
	closers []func() error
}

// Close releases backend resources. Safe to call on a nil Runtime.
func (r *Runtime) Close() error {
	if r == nil {
		return nil
	}
	var firstErr error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.closers = nil
	return firstErr
}

// NewRuntime builds the configured store, makes sure its backing table exists
// and wires the tournament service on top of it.
func NewRuntime(ctx context.Context, cfg config.Config, clock clockwork.Clock, logger *logging.Logger) (*Runtime, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = logging.Default()
	}

	rules := tournament.DefaultRules()
	rt := &Runtime{}

	store, err := rt.buildStore(ctx, cfg, rules, clock, logger)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	if err := store.EnsureInitialized(ctx); err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("initialize %s store: %w", cfg.StoreBackend, err)
	}

	rt.Store = store
	rt.Service = usecase.NewTournamentService(store, rules, clock, logger.Named("usecase"))

	logger.Info("tournament store ready",
		"backend", cfg.StoreBackend,
		"cache_enabled", cfg.CacheEnabled,
	)

	return rt, nil
}

func (r *Runtime) buildStore(
	ctx context.Context,
	cfg config.Config,
	rules tournament.Rules,
	clock clockwork.Clock,
	logger *logging.Logger,
) (tournament.Store, error) {
	var store tournament.Store

	switch cfg.StoreBackend {
	case config.StoreBackendCSV:
		csvStore := csvfile.NewStore(cfg.StoreCSVPath, clock, logger)
		logger.Info("using csv team store", "path", csvStore.Path())
		store = csvStore
	case config.StoreBackendMemory:
		seed := tournament.Table{}
		if cfg.StoreSeedDemo {
			seed = memory.SeedTable(rules, clock.Now())
		}
		store = memory.NewStore(seed)
	case config.StoreBackendPostgres:
		db, err := openDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		r.closers = append(r.closers, db.Close)

		store = postgres.NewTeamRecordStore(db)
		if cfg.DBCircuit.Enabled {
			store = resilient.NewStore(store, resilience.NewCircuitBreaker(cfg.DBCircuit, clock))
		}
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}

	if cfg.CacheEnabled {
		store = cacherepo.NewTeamTableStore(store, basecache.NewStore(cfg.CacheTTL, clock))
	}

	return store, nil
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres",
		NormalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBName(DBNameFromURL(cfg.DBURL)),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

func NewHTTPServer(cfg config.Config, service *usecase.TournamentService, logger *logging.Logger) (*http.Server, error) {
	if service == nil {
		return nil, fmt.Errorf("tournament service cannot be nil")
	}

	handler := httpapi.NewHandler(service, logger.Named("httpapi"))
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
