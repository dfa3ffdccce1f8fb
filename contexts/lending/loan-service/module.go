package loans

import (
	"log/slog"

	httpadapter "bibliotheque/contexts/lending/loan-service/adapters/http"
	"bibliotheque/contexts/lending/loan-service/adapters/memory"
	"bibliotheque/contexts/lending/loan-service/application/commands"
	"bibliotheque/contexts/lending/loan-service/application/queries"
	"bibliotheque/contexts/lending/loan-service/application/workers"
	"bibliotheque/contexts/lending/loan-service/domain/entities"
	"bibliotheque/contexts/lending/loan-service/ports"
)

// Module is the loan-service composition root exposed to runtime wiring.
type Module struct {
	Handler     httpadapter.Handler
	OutboxRelay workers.OutboxRelay
	ExpirySweep workers.ExpirySweep
	Store       *memory.Store
}

type Dependencies struct {
	Repository  ports.Repository
	Outbox      ports.OutboxRepository
	Works       ports.WorkCatalog
	Publisher   ports.EventPublisher
	Reporter    ports.SweepReporter
	Policy      entities.Policy
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	policy := deps.Policy.Normalize()
	return Module{
		Handler: httpadapter.Handler{
			Borrow: commands.BorrowLoanUseCase{
				Repository:  deps.Repository,
				Works:       deps.Works,
				Policy:      policy,
				Clock:       deps.Clock,
				IDGenerator: deps.IDGenerator,
				Logger:      deps.Logger,
			},
			Renew: commands.RenewLoanUseCase{
				Repository:  deps.Repository,
				Policy:      policy,
				Clock:       deps.Clock,
				IDGenerator: deps.IDGenerator,
				Logger:      deps.Logger,
			},
			Return: commands.ReturnLoanUseCase{
				Repository:  deps.Repository,
				Clock:       deps.Clock,
				IDGenerator: deps.IDGenerator,
				Logger:      deps.Logger,
			},
			Queries: queries.QueryUseCase{
				Repository: deps.Repository,
				Policy:     policy,
				Clock:      deps.Clock,
				Logger:     deps.Logger,
			},
			Policy: policy,
			Clock:  deps.Clock,
			Logger: deps.Logger,
		},
		OutboxRelay: workers.OutboxRelay{
			Outbox:    deps.Outbox,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			Logger:    deps.Logger,
		},
		ExpirySweep: workers.ExpirySweep{
			Repository: deps.Repository,
			Policy:     policy,
			Clock:      deps.Clock,
			Reporter:   deps.Reporter,
			Logger:     deps.Logger,
		},
	}
}

// NewInMemoryModule builds a development/testing module with in-memory
// adapters. clock may be nil to use wall time.
func NewInMemoryModule(works ports.WorkCatalog, policy entities.Policy, clock ports.Clock, logger *slog.Logger) Module {
	store := memory.NewStore()
	if clock == nil {
		clock = store
	}
	module := NewModule(Dependencies{
		Repository:  store,
		Outbox:      store,
		Works:       works,
		Policy:      policy,
		Clock:       clock,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
