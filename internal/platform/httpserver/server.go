package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	works "bibliotheque/contexts/catalogue-moderation/work-service"
	identity "bibliotheque/contexts/identity-access/identity-service"
	promotions "bibliotheque/contexts/identity-access/promotion-service"
	loans "bibliotheque/contexts/lending/loan-service"
	"bibliotheque/internal/platform/metrics"
	"bibliotheque/internal/platform/realtime"

	"github.com/go-playground/validator/v10"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "bibliotheque/internal/platform/httpserver/docs"
)

// Modules groups the context modules served over HTTP.
type Modules struct {
	Identity   identity.Module
	Works      works.Module
	Loans      loans.Module
	Promotions promotions.Module
}

type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
	MetricsPath     string
	// Hub and Metrics are optional; their routes are only mounted when set.
	Hub     *realtime.Hub
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

type Server struct {
	mux      *http.ServeMux
	handler  http.Handler
	logger   *slog.Logger
	validate *validator.Validate
	opts     Options

	identity   identity.Module
	works      works.Module
	loans      loans.Module
	promotions promotions.Module
}

func New(modules Modules, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 25 << 20
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}

	s := &Server{
		mux:        http.NewServeMux(),
		logger:     opts.Logger,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		opts:       opts,
		identity:   modules.Identity,
		works:      modules.Works,
		loans:      modules.Loans,
		promotions: modules.Promotions,
	}
	s.registerRoutes()

	var handler http.Handler = s.mux
	if opts.Metrics != nil {
		handler = opts.Metrics.Middleware(handler)
	}
	handler = withRequestID(handler)
	s.handler = otelhttp.NewHandler(handler, "bibliotheque.http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
	return s
}

// Handler is the fully wrapped handler, exposed for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: s.opts.ReadTimeout,
	}
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.opts.Addr,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	s.logger.Info("http server stopping",
		"event", "http_server_stopping",
		"module", "internal/platform/httpserver",
		"layer", "platform",
	)
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.opts.Metrics != nil {
		s.mux.Handle("GET "+s.opts.MetricsPath, s.opts.Metrics.Handler())
	}
	if s.opts.Hub != nil {
		s.mux.HandleFunc("GET /ws/evenements", s.authenticated(s.handleEventStream))
	}

	s.mux.HandleFunc("POST /auth/inscription", s.handleRegister)
	s.mux.HandleFunc("POST /auth/connexion", s.handleLogin)
	s.mux.HandleFunc("POST /auth/refresh", s.handleRefresh)
	s.mux.HandleFunc("GET /auth/moi", s.authenticated(s.handleMe))
	s.mux.HandleFunc("GET /utilisateurs/{id}/roles", s.authenticated(s.handleListUserRoles))
	s.mux.HandleFunc("POST /utilisateurs/{id}/roles", s.authenticated(s.handleGrantRole))

	s.mux.HandleFunc("POST /oeuvres/depot-md", s.authenticated(s.handleSubmitWork))
	s.mux.HandleFunc("POST /oeuvres/depot-pdf", s.authenticated(s.handleSubmitDocument))
	s.mux.HandleFunc("GET /oeuvres", s.authenticated(s.handleListWorks))
	s.mux.HandleFunc("GET /oeuvres/mes-oeuvres", s.authenticated(s.handleMyWorks))
	s.mux.HandleFunc("GET /oeuvres/{id}", s.authenticated(s.handleGetWork))
	s.mux.HandleFunc("POST /oeuvres/{id}/traiter", s.authenticated(s.handleStartReview))
	s.mux.HandleFunc("POST /oeuvres/{id}/valider", s.authenticated(s.handleValidateWork))
	s.mux.HandleFunc("POST /oeuvres/{id}/rejeter", s.authenticated(s.handleRejectWork))
	s.mux.HandleFunc("POST /oeuvres/{id}/reconvertir", s.authenticated(s.handleReconvertWork))
	s.mux.HandleFunc("POST /oeuvres/{id}/classifier", s.authenticated(s.handleClassifyWork))
	s.mux.HandleFunc("GET /oeuvres/categorie/{category}", s.authenticated(s.handleWorksByCategory))
	s.mux.HandleFunc("GET /categories", s.handleCategories)
	s.mux.HandleFunc("GET /catalogue/statistiques", s.handleCatalogueStatistics)
	s.mux.HandleFunc("GET /catalogue/{destination}", s.handleCatalogue)

	s.mux.HandleFunc("POST /emprunts/emprunter", s.authenticated(s.handleBorrow))
	s.mux.HandleFunc("GET /emprunts/mes-emprunts", s.authenticated(s.handleMyLoans))
	s.mux.HandleFunc("GET /emprunts/{id}", s.authenticated(s.handleGetLoan))
	s.mux.HandleFunc("POST /emprunts/{id}/retourner", s.authenticated(s.handleReturn))
	s.mux.HandleFunc("POST /emprunts/{id}/renouveler", s.authenticated(s.handleRenew))

	s.mux.HandleFunc("POST /demandes/soumettre", s.authenticated(s.handleSubmitRequest))
	s.mux.HandleFunc("GET /demandes/mes-demandes", s.authenticated(s.handleMyRequests))
	s.mux.HandleFunc("GET /demandes/en-attente", s.authenticated(s.handlePendingRequests))
	s.mux.HandleFunc("GET /demandes/historique", s.authenticated(s.handleRequestHistory))
	s.mux.HandleFunc("GET /demandes/statistiques", s.authenticated(s.handleRequestStatistics))
	s.mux.HandleFunc("GET /demandes/{id}", s.authenticated(s.handleGetRequest))
	s.mux.HandleFunc("POST /demandes/{id}/approuver", s.authenticated(s.handleApproveRequest))
	s.mux.HandleFunc("POST /demandes/{id}/refuser", s.authenticated(s.handleRefuseRequest))
	s.mux.HandleFunc("POST /demandes/{id}/annuler", s.authenticated(s.handleCancelRequest))

	s.mux.HandleFunc("GET /audit/{kind}/{id}", s.authenticated(s.handleAuditTrail))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
