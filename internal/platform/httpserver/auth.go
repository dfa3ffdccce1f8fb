package httpserver

import (
	"context"
	"net/http"
	"strings"

	"bibliotheque/contexts/identity-access/identity-service/domain/entities"
	"bibliotheque/kernel/workflow"
)

type callerKey struct{}

type authedHandler func(w http.ResponseWriter, r *http.Request, actor workflow.Actor)

// authenticated resolves the bearer token through the identity module.
// Browsers cannot set headers on websocket upgrades, so the token may also
// arrive as the access_token query parameter on GET requests.
func (s *Server) authenticated(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "Authorization bearer token is required")
			return
		}
		caller, err := s.identity.Handler.ResolveCallerHandler(r.Context(), token)
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), callerKey{}, caller)
		next(w, r.WithContext(ctx), caller.Actor())
	}
}

func callerFrom(ctx context.Context) (entities.Caller, bool) {
	caller, ok := ctx.Value(callerKey{}).(entities.Caller)
	return caller, ok
}

func bearerToken(r *http.Request) string {
	parts := strings.SplitN(strings.TrimSpace(r.Header.Get("Authorization")), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	if r.Method == http.MethodGet {
		return strings.TrimSpace(r.URL.Query().Get("access_token"))
	}
	return ""
}
