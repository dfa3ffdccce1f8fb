// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.
package bootstrap

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	works "bibliotheque/contexts/catalogue-moderation/work-service"
	worksconverter "bibliotheque/contexts/catalogue-moderation/work-service/adapters/converter"
	worksmemory "bibliotheque/contexts/catalogue-moderation/work-service/adapters/memory"
	workspostgres "bibliotheque/contexts/catalogue-moderation/work-service/adapters/postgres"
	worksports "bibliotheque/contexts/catalogue-moderation/work-service/ports"
	identity "bibliotheque/contexts/identity-access/identity-service"
	identitymemory "bibliotheque/contexts/identity-access/identity-service/adapters/memory"
	"bibliotheque/contexts/identity-access/identity-service/adapters/password"
	identitypostgres "bibliotheque/contexts/identity-access/identity-service/adapters/postgres"
	"bibliotheque/contexts/identity-access/identity-service/adapters/token"
	identityports "bibliotheque/contexts/identity-access/identity-service/ports"
	promotions "bibliotheque/contexts/identity-access/promotion-service"
	promotionsmemory "bibliotheque/contexts/identity-access/promotion-service/adapters/memory"
	promotionspostgres "bibliotheque/contexts/identity-access/promotion-service/adapters/postgres"
	loans "bibliotheque/contexts/lending/loan-service"
	loansmemory "bibliotheque/contexts/lending/loan-service/adapters/memory"
	loanspostgres "bibliotheque/contexts/lending/loan-service/adapters/postgres"
	loanentities "bibliotheque/contexts/lending/loan-service/domain/entities"
	loanports "bibliotheque/contexts/lending/loan-service/ports"
	"bibliotheque/internal/platform/config"
	"bibliotheque/internal/platform/db"
	"bibliotheque/internal/platform/httpserver"
	"bibliotheque/internal/platform/messaging"
	"bibliotheque/internal/platform/metrics"
	"bibliotheque/internal/platform/realtime"
	"bibliotheque/internal/platform/tracing"
)

// Runtime holds the wiring shared by the api and worker processes.
type Runtime struct {
	Config   config.Config
	Logger   *slog.Logger
	Modules  httpserver.Modules
	Bus      *messaging.Bus
	Metrics  *metrics.Metrics
	Database *db.Database
	Worker   Worker

	shutdownTracing tracing.Shutdown
}

// Build wires every module against the configured storage. The memory
// driver keeps all state in process; sqlite and postgres share one gorm
// handle so promotion approval and the role grant commit together.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Runtime, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("service", cfg.Service.Name)

	shutdownTracing, err := tracing.Setup(ctx, tracing.Options{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Service.Name,
		Exporter:     cfg.Tracing.Exporter,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRatio:  cfg.Tracing.SampleRatio,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}

	rt := &Runtime{
		Config:          cfg,
		Logger:          logger,
		Bus:             messaging.NewBus(logger),
		shutdownTracing: shutdownTracing,
	}
	if cfg.Metrics.Enabled {
		rt.Metrics = metrics.New()
	}

	secret, err := resolveTokenSecret(cfg, logger)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	issuer, err := token.NewJWTIssuer(secret, cfg.Auth.TokenIssuer, cfg.Auth.TokenTTL)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	conv, err := buildConverter(cfg.Converter, logger)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	shared := sharedDeps{
		tokens: issuer,
		hasher: password.BcryptHasher{Cost: cfg.Auth.BcryptCost},
		conv:   conv,
		policy: policyFromConfig(cfg.Loans),
	}
	if rt.Metrics != nil {
		shared.reporter = sweepReporter{metrics: rt.Metrics}
	}

	if cfg.Database.Driver == config.DatabaseMemory {
		rt.wireMemory(shared)
	} else if err := rt.wireSQL(shared); err != nil {
		_ = rt.Close()
		return nil, err
	}

	if err := rt.seedLibrarian(ctx); err != nil {
		_ = rt.Close()
		return nil, err
	}
	return rt, nil
}

type sharedDeps struct {
	tokens   identityports.TokenIssuer
	hasher   identityports.PasswordHasher
	conv     worksports.Converter
	policy   loanentities.Policy
	reporter loanports.SweepReporter
}

func (rt *Runtime) wireMemory(shared sharedDeps) {
	logger := rt.Logger

	identityStore := identitymemory.NewStore()
	identityModule := identity.NewModule(identity.Dependencies{
		Repository:  identityStore,
		Hasher:      shared.hasher,
		Tokens:      shared.tokens,
		Clock:       identityStore,
		IDGenerator: identityStore,
		Logger:      logger,
	})
	identityModule.Store = identityStore

	worksStore := worksmemory.NewStore(nil)
	worksModule := works.NewModule(works.Dependencies{
		Repository:  worksStore,
		Outbox:      worksStore,
		Documents:   worksStore,
		Converter:   shared.conv,
		Publisher:   rt.Bus,
		Clock:       worksStore,
		IDGenerator: worksStore,
		Logger:      logger,
	})
	worksModule.Store = worksStore

	loansStore := loansmemory.NewStore()
	loansModule := loans.NewModule(loans.Dependencies{
		Repository:  loansStore,
		Outbox:      loansStore,
		Works:       workCatalog{works: worksStore},
		Publisher:   rt.Bus,
		Reporter:    shared.reporter,
		Policy:      shared.policy,
		Clock:       loansStore,
		IDGenerator: loansStore,
		Logger:      logger,
	})
	loansModule.Store = loansStore

	promotionsStore := promotionsmemory.NewStore()
	promotionsModule := promotions.NewModule(promotions.Dependencies{
		Repository:  promotionsStore,
		Outbox:      promotionsStore,
		Transactor:  promotionsStore,
		Roles:       librarianGranter{grant: identityModule.GrantRole},
		Publisher:   rt.Bus,
		Clock:       promotionsStore,
		IDGenerator: promotionsStore,
		Logger:      logger,
	})
	promotionsModule.Store = promotionsStore

	rt.assemble(identityModule, worksModule, loansModule, promotionsModule)
}

func (rt *Runtime) wireSQL(shared sharedDeps) error {
	cfg := rt.Config.Database
	database, err := db.Connect(db.Options{
		Driver:          cfg.Driver,
		DSN:             cfg.DSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		Tracing:         rt.Config.Tracing.Enabled,
	})
	if err != nil {
		return err
	}
	rt.Database = database
	if cfg.AutoMigrate {
		if err := migrate(database); err != nil {
			return err
		}
	}

	logger := rt.Logger
	identityRepo := identitypostgres.NewRepository(database.DB, logger)
	identityModule := identity.NewModule(identity.Dependencies{
		Repository:  identityRepo,
		Hasher:      shared.hasher,
		Tokens:      shared.tokens,
		Clock:       identitypostgres.SystemClock{},
		IDGenerator: identitypostgres.UUIDGenerator{},
		Logger:      logger,
	})

	worksRepo := workspostgres.NewRepository(database.DB, logger)
	worksModule := works.NewModule(works.Dependencies{
		Repository:  worksRepo,
		Outbox:      worksRepo,
		Documents:   worksRepo,
		Converter:   shared.conv,
		Publisher:   rt.Bus,
		Clock:       workspostgres.SystemClock{},
		IDGenerator: workspostgres.UUIDGenerator{},
		Logger:      logger,
	})

	loansRepo := loanspostgres.NewRepository(database.DB, logger)
	loansModule := loans.NewModule(loans.Dependencies{
		Repository:  loansRepo,
		Outbox:      loansRepo,
		Works:       workCatalog{works: worksRepo},
		Publisher:   rt.Bus,
		Reporter:    shared.reporter,
		Policy:      shared.policy,
		Clock:       loanspostgres.SystemClock{},
		IDGenerator: loanspostgres.UUIDGenerator{},
		Logger:      logger,
	})

	promotionsRepo := promotionspostgres.NewRepository(database.DB, logger)
	promotionsModule := promotions.NewModule(promotions.Dependencies{
		Repository:  promotionsRepo,
		Outbox:      promotionsRepo,
		Transactor:  database,
		Roles:       librarianGranter{grant: identityModule.GrantRole},
		Publisher:   rt.Bus,
		Clock:       promotionspostgres.SystemClock{},
		IDGenerator: promotionspostgres.UUIDGenerator{},
		Logger:      logger,
	})

	rt.assemble(identityModule, worksModule, loansModule, promotionsModule)
	return nil
}

func (rt *Runtime) assemble(identityModule identity.Module, worksModule works.Module, loansModule loans.Module, promotionsModule promotions.Module) {
	batch := rt.Config.Worker.OutboxBatchSize
	worksModule.OutboxRelay.BatchSize = batch
	loansModule.OutboxRelay.BatchSize = batch
	promotionsModule.OutboxRelay.BatchSize = batch

	rt.Modules = httpserver.Modules{
		Identity:   identityModule,
		Works:      worksModule,
		Loans:      loansModule,
		Promotions: promotionsModule,
	}
	rt.Worker = Worker{
		Relays: []Relay{
			worksModule.OutboxRelay,
			loansModule.OutboxRelay,
			promotionsModule.OutboxRelay,
		},
		Sweep:         loansModule.ExpirySweep,
		PollInterval:  rt.Config.Worker.PollInterval,
		SweepInterval: rt.Config.Worker.SweepInterval,
		Logger:        rt.Logger,
	}
}

func migrate(database *db.Database) error {
	models := make([]any, 0, 16)
	models = append(models, identitypostgres.Models()...)
	models = append(models, workspostgres.Models()...)
	models = append(models, loanspostgres.Models()...)
	models = append(models, promotionspostgres.Models()...)
	if err := database.DB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

func (rt *Runtime) seedLibrarian(ctx context.Context) error {
	email := strings.TrimSpace(rt.Config.Auth.LibrarianEmail)
	if email == "" {
		return nil
	}
	user, err := rt.Modules.Identity.EnsureLibrarian.Execute(ctx, email, rt.Config.Auth.LibrarianPassword)
	if err != nil {
		return fmt.Errorf("seed librarian: %w", err)
	}
	rt.Logger.Info("librarian account ensured",
		"event", "bootstrap_librarian_seeded",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"user_id", user.UserID,
	)
	return nil
}

// Close releases the database and flushes pending spans.
func (rt *Runtime) Close() error {
	var errs []error
	if rt.Database != nil {
		errs = append(errs, rt.Database.Close())
	}
	if rt.shutdownTracing != nil {
		errs = append(errs, rt.shutdownTracing(context.Background()))
	}
	return errors.Join(errs...)
}

// resolveTokenSecret mints a process-local secret for the memory driver
// when none is configured. Tokens then die with the process, as does every
// account they refer to.
func resolveTokenSecret(cfg config.Config, logger *slog.Logger) (string, error) {
	if secret := strings.TrimSpace(cfg.Auth.TokenSecret); secret != "" {
		return secret, nil
	}
	if cfg.Database.Driver != config.DatabaseMemory {
		return "", errors.New("auth token secret is required outside the memory driver")
	}
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate token secret: %w", err)
	}
	logger.Warn("using an ephemeral token secret",
		"event", "bootstrap_ephemeral_secret",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return hex.EncodeToString(raw), nil
}

func buildConverter(cfg config.ConverterConfig, logger *slog.Logger) (worksports.Converter, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, nil
	}
	conv, err := worksconverter.NewHTTPConverter(worksconverter.Options{
		BaseURL:  cfg.URL,
		Timeout:  cfg.Timeout,
		RetryMax: cfg.RetryMax,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}
	return conv, nil
}

func policyFromConfig(cfg config.LoansConfig) loanentities.Policy {
	return loanentities.Policy{
		DefaultDurationDays:    cfg.DefaultDurationDays,
		DefaultExtensionDays:   cfg.DefaultExtensionDays,
		MaxDurationDays:        cfg.MaxDurationDays,
		DueSoonWindow:          cfg.DueSoonWindow,
		MaxConcurrentLoans:     cfg.MaxConcurrentLoans,
		MaxRenewals:            cfg.MaxRenewals,
		AllowLibrarianOverride: cfg.AllowLibrarianOverride,
	}
}

// EventSinks subscribes the realtime hub and the metrics counters to every
// relayed event until ctx is cancelled.
func (rt *Runtime) EventSinks(ctx context.Context, hub *realtime.Hub) error {
	if hub != nil {
		if err := rt.Bus.Subscribe(ctx, messaging.AllTopics, "realtime-hub", hub.Deliver); err != nil {
			return err
		}
	}
	if rt.Metrics != nil {
		if err := rt.Bus.Subscribe(ctx, messaging.AllTopics, "metrics", rt.Metrics.ObserveEvent); err != nil {
			return err
		}
	}
	return nil
}
