package identity

import (
	"log/slog"

	httpadapter "bibliotheque/contexts/identity-access/identity-service/adapters/http"
	"bibliotheque/contexts/identity-access/identity-service/adapters/memory"
	"bibliotheque/contexts/identity-access/identity-service/application/commands"
	"bibliotheque/contexts/identity-access/identity-service/application/queries"
	"bibliotheque/contexts/identity-access/identity-service/ports"
)

// Module is the identity-service composition root exposed to runtime wiring.
type Module struct {
	Handler         httpadapter.Handler
	GrantRole       commands.GrantRoleUseCase
	EnsureLibrarian commands.EnsureLibrarianUseCase
	Store           *memory.Store
}

// Dependencies captures all runtime ports required by NewModule.
type Dependencies struct {
	Repository  ports.Repository
	Hasher      ports.PasswordHasher
	Tokens      ports.TokenIssuer
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	register := commands.RegisterUserUseCase{
		Repository:  deps.Repository,
		Hasher:      deps.Hasher,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	grantRole := commands.GrantRoleUseCase{
		Repository: deps.Repository,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	handler := httpadapter.Handler{
		Register: register,
		Login: commands.LoginUseCase{
			Repository: deps.Repository,
			Hasher:     deps.Hasher,
			Tokens:     deps.Tokens,
			Clock:      deps.Clock,
			Logger:     deps.Logger,
		},
		Refresh: commands.RefreshTokenUseCase{
			Repository: deps.Repository,
			Tokens:     deps.Tokens,
			Clock:      deps.Clock,
			Logger:     deps.Logger,
		},
		GrantRole: grantRole,
		ResolveCaller: queries.ResolveCallerUseCase{
			Repository: deps.Repository,
			Tokens:     deps.Tokens,
			Clock:      deps.Clock,
			Logger:     deps.Logger,
		},
		ListRoles: queries.ListUserRolesUseCase{Repository: deps.Repository},
		Logger:    deps.Logger,
	}
	return Module{
		Handler:   handler,
		GrantRole: grantRole,
		EnsureLibrarian: commands.EnsureLibrarianUseCase{
			Register: register,
			Grant:    grantRole,
		},
	}
}

// NewInMemoryModule builds a development/testing module with in-memory adapters.
func NewInMemoryModule(tokens ports.TokenIssuer, hasher ports.PasswordHasher, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:  store,
		Hasher:      hasher,
		Tokens:      tokens,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
