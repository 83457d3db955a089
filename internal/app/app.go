package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sourcegraph/conc/pool"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/fieldpass/fantasy-corps/internal/config"
	"github.com/fieldpass/fantasy-corps/internal/domain/auction"
	"github.com/fieldpass/fantasy-corps/internal/domain/corps"
	"github.com/fieldpass/fantasy-corps/internal/domain/profile"
	"github.com/fieldpass/fantasy-corps/internal/domain/roster"
	"github.com/fieldpass/fantasy-corps/internal/domain/staff"
	"github.com/fieldpass/fantasy-corps/internal/infrastructure/account/corpsauth"
	"github.com/fieldpass/fantasy-corps/internal/infrastructure/catalogfeed"
	cacherepo "github.com/fieldpass/fantasy-corps/internal/infrastructure/repository/cache"
	"github.com/fieldpass/fantasy-corps/internal/infrastructure/repository/memory"
	"github.com/fieldpass/fantasy-corps/internal/infrastructure/repository/postgres"
	"github.com/fieldpass/fantasy-corps/internal/interfaces/httpapi"
	"github.com/fieldpass/fantasy-corps/internal/platform/cache"
	idgen "github.com/fieldpass/fantasy-corps/internal/platform/id"
	"github.com/fieldpass/fantasy-corps/internal/platform/logging"
	"github.com/fieldpass/fantasy-corps/internal/platform/resilience"
	"github.com/fieldpass/fantasy-corps/internal/usecase"
)

// App wires repositories, services and the HTTP surface together and owns
// their lifecycle.
type App struct {
	Server *http.Server

	cfg         config.Config
	logger      *slog.Logger
	db          *sqlx.DB
	corpsRepo   corps.Repository
	marketplace *usecase.MarketplaceService
	sweep       *usecase.SweepService
}

func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		db          *sqlx.DB
		corpsRepo   corps.Repository
		claimRepo   roster.ClaimRepository
		profileRepo profile.Repository
		ledger      staff.Ledger
		auctionRepo auction.Repository
	)

	if strings.TrimSpace(cfg.DBURL) != "" {
		var err error
		db, err = openDB(cfg)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		corpsRepo = postgres.NewCorpsRepository(db)
		claimRepo = postgres.NewLineupClaimRepository(db)
		profileRepo = postgres.NewProfileRepository(db)
		ledger = postgres.NewStaffLedger(db)
		auctionRepo = postgres.NewAuctionRepository(db)
	} else {
		logger.Warn("DB_URL is empty, using seeded in-memory repositories")
		corpsRepo = memory.NewCorpsRepository(memory.SeedCorps())
		claimRepo = memory.NewLineupClaimRepository()
		profileRepo = memory.NewProfileRepository(memory.SeedProfiles())
		ledger = memory.NewStaffLedger()
		auctionRepo = memory.NewAuctionRepository()
	}

	if cfg.CacheEnabled {
		corpsRepo = cacherepo.NewCorpsRepository(corpsRepo, cache.NewStore(cfg.CacheTTL))
	}

	schedule := memory.NewSeasonSchedule(cfg.SeasonPeriod, cfg.SeasonWeeksRemaining)

	var catalog staff.CatalogSource
	if cfg.StaffFeedEnabled {
		catalog = catalogfeed.NewClient(catalogfeed.ClientConfig{
			BaseURL:    cfg.StaffFeedBaseURL,
			Token:      cfg.StaffFeedToken,
			Timeout:    cfg.StaffFeedTimeout,
			MaxRetries: cfg.StaffFeedMaxRetries,
			Logger:     logging.Default(),
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.StaffFeedCircuitEnabled,
				FailureThreshold: cfg.StaffFeedCircuitFailureCount,
				OpenTimeout:      cfg.StaffFeedCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.StaffFeedCircuitHalfOpenMax,
			},
		})
	} else {
		catalog = memory.NewStaffDirectory(memory.SeedStaffCards())
	}

	lineupSvc := usecase.NewLineupService(corpsRepo, claimRepo, schedule, cfg.TradeLimit)
	unlockSvc := usecase.NewUnlockService(profileRepo, schedule, logger)
	marketplaceSvc := usecase.NewMarketplaceService(
		catalog,
		ledger,
		profileRepo,
		auctionRepo,
		cache.NewStore(cfg.CacheTTL),
		logger,
	)
	auctionSvc := usecase.NewAuctionService(
		auctionRepo,
		ledger,
		profileRepo,
		marketplaceSvc,
		idgen.NewUUIDGenerator(),
		usecase.AuctionDurations{Min: cfg.AuctionMinDuration, Max: cfg.AuctionMaxDuration},
		logger,
	)
	sweepSvc := usecase.NewSweepService(auctionRepo, auctionSvc, cfg.SweepWorkers, logger)

	verifier := corpsauth.NewClient(corpsauth.ClientConfig{
		HTTPClient:     &http.Client{Timeout: cfg.CorpsAuthTimeout},
		BaseURL:        cfg.CorpsAuthBaseURL,
		IntrospectPath: cfg.CorpsAuthIntrospectPath,
		AdminKey:       cfg.CorpsAuthAdminKey,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.CorpsAuthCircuitEnabled,
			FailureThreshold: cfg.CorpsAuthCircuitFailureCount,
			OpenTimeout:      cfg.CorpsAuthCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.CorpsAuthCircuitHalfOpenMax,
		},
		Logger: logger,
	})

	handler := httpapi.NewHandler(lineupSvc, unlockSvc, marketplaceSvc, auctionSvc, sweepSvc, logger)
	router := httpapi.NewRouter(
		handler,
		verifier,
		logger,
		cfg.SwaggerEnabled,
		cfg.CORSAllowedOrigins,
		cfg.InternalJobToken,
	)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		Server:      server,
		cfg:         cfg,
		logger:      logger,
		db:          db,
		corpsRepo:   corpsRepo,
		marketplace: marketplaceSvc,
		sweep:       sweepSvc,
	}, nil
}

// Start warms hot read paths and launches the auction sweep loop. The sweep
// loop stops when ctx is cancelled.
func (a *App) Start(ctx context.Context) {
	a.warmUp(ctx)

	if a.cfg.SweepEnabled {
		go a.sweep.Run(ctx, a.cfg.SweepInterval)
	}
}

// Shutdown stops the HTTP server and closes the database pool.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Server.Shutdown(ctx)
	if a.db != nil {
		if cerr := a.db.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// warmUp primes the corps catalog cache and the staff marketplace cache so
// the first requests after boot do not all miss at once. Failures are logged
// and tolerated; the caches fill lazily on first use instead.
func (a *App) warmUp(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	p := pool.New().WithContext(ctx)
	if a.db != nil {
		p.Go(func(ctx context.Context) error {
			return a.db.PingContext(ctx)
		})
	}
	p.Go(func(ctx context.Context) error {
		_, err := a.corpsRepo.List(ctx)
		return err
	})
	p.Go(func(ctx context.Context) error {
		_, err := a.marketplace.Catalog(ctx, false)
		return err
	})

	if err := p.Wait(); err != nil {
		a.logger.WarnContext(ctx, "warm-up incomplete", slog.Any("error", err))
	}
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Connect("postgres", cfg.DBURL,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
