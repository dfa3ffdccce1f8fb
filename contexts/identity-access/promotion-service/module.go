package promotions

import (
	"log/slog"

	httpadapter "bibliotheque/contexts/identity-access/promotion-service/adapters/http"
	"bibliotheque/contexts/identity-access/promotion-service/adapters/memory"
	"bibliotheque/contexts/identity-access/promotion-service/application/commands"
	"bibliotheque/contexts/identity-access/promotion-service/application/queries"
	"bibliotheque/contexts/identity-access/promotion-service/application/workers"
	"bibliotheque/contexts/identity-access/promotion-service/ports"
)

// Module is the promotion-service composition root exposed to runtime wiring.
type Module struct {
	Handler     httpadapter.Handler
	OutboxRelay workers.OutboxRelay
	Store       *memory.Store
}

// Dependencies captures the runtime ports. Transactor must cover both the
// promotion repository and the store behind Roles for approval to be atomic.
type Dependencies struct {
	Repository  ports.Repository
	Outbox      ports.OutboxRepository
	Transactor  ports.Transactor
	Roles       ports.RoleGranter
	Publisher   ports.EventPublisher
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			Submit: commands.SubmitRequestUseCase{
				Repository:  deps.Repository,
				Clock:       deps.Clock,
				IDGenerator: deps.IDGenerator,
				Logger:      deps.Logger,
			},
			Cancel: commands.CancelRequestUseCase{
				Repository:  deps.Repository,
				Clock:       deps.Clock,
				IDGenerator: deps.IDGenerator,
				Logger:      deps.Logger,
			},
			Decide: commands.DecideRequestUseCase{
				Repository:  deps.Repository,
				Transactor:  deps.Transactor,
				Roles:       deps.Roles,
				Clock:       deps.Clock,
				IDGenerator: deps.IDGenerator,
				Logger:      deps.Logger,
			},
			Queries: queries.QueryUseCase{
				Repository: deps.Repository,
				Logger:     deps.Logger,
			},
			Clock:  deps.Clock,
			Logger: deps.Logger,
		},
		OutboxRelay: workers.OutboxRelay{
			Outbox:    deps.Outbox,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			Logger:    deps.Logger,
		},
	}
}

// NewInMemoryModule builds a development/testing module with in-memory
// adapters. The store doubles as transactor; an approval stays staged until
// the grant succeeds.
func NewInMemoryModule(roles ports.RoleGranter, clock ports.Clock, logger *slog.Logger) Module {
	store := memory.NewStore()
	if clock == nil {
		clock = store
	}
	module := NewModule(Dependencies{
		Repository:  store,
		Outbox:      store,
		Transactor:  store,
		Roles:       roles,
		Clock:       clock,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
