package works

import (
	"log/slog"

	"bibliotheque/contexts/catalogue-moderation/work-service/adapters/converter"
	httpadapter "bibliotheque/contexts/catalogue-moderation/work-service/adapters/http"
	"bibliotheque/contexts/catalogue-moderation/work-service/adapters/memory"
	"bibliotheque/contexts/catalogue-moderation/work-service/application/commands"
	"bibliotheque/contexts/catalogue-moderation/work-service/application/queries"
	"bibliotheque/contexts/catalogue-moderation/work-service/application/workers"
	"bibliotheque/contexts/catalogue-moderation/work-service/domain/entities"
	"bibliotheque/contexts/catalogue-moderation/work-service/ports"
)

// Module is the work-service composition root exposed to runtime wiring.
type Module struct {
	Handler     httpadapter.Handler
	Queries     queries.QueryUseCase
	OutboxRelay workers.OutboxRelay
	Store       *memory.Store
}

type Dependencies struct {
	Repository  ports.Repository
	Outbox      ports.OutboxRepository
	Documents   ports.DocumentStore
	Converter   ports.Converter
	Publisher   ports.EventPublisher
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	if deps.Converter == nil {
		deps.Converter = converter.Unavailable{}
	}
	queryUseCase := queries.QueryUseCase{
		Repository: deps.Repository,
		Logger:     deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			SubmitWork: commands.SubmitWorkUseCase{
				Repository:  deps.Repository,
				Converter:   deps.Converter,
				Documents:   deps.Documents,
				Clock:       deps.Clock,
				IDGenerator: deps.IDGenerator,
				Logger:      deps.Logger,
			},
			Moderate: commands.ModerateWorkUseCase{
				Repository:  deps.Repository,
				Clock:       deps.Clock,
				IDGenerator: deps.IDGenerator,
				Logger:      deps.Logger,
			},
			Reconvert: commands.ReconvertWorkUseCase{
				Repository:  deps.Repository,
				Converter:   deps.Converter,
				Documents:   deps.Documents,
				Clock:       deps.Clock,
				IDGenerator: deps.IDGenerator,
				Logger:      deps.Logger,
			},
			Queries: queryUseCase,
			Clock:   deps.Clock,
			Logger:  deps.Logger,
		},
		Queries: queryUseCase,
		OutboxRelay: workers.OutboxRelay{
			Outbox:    deps.Outbox,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			Logger:    deps.Logger,
		},
	}
}

// NewInMemoryModule builds a development/testing module with in-memory adapters.
func NewInMemoryModule(seed []entities.Work, conv ports.Converter, publisher ports.EventPublisher, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Repository:  store,
		Outbox:      store,
		Documents:   store,
		Converter:   conv,
		Publisher:   publisher,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
