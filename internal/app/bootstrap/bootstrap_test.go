package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	contractsv1 "bibliotheque/contracts/gen/events/v1"
	"bibliotheque/internal/platform/config"
	"bibliotheque/internal/platform/messaging"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	librarianEmail    = "lib@bibliotheque.test"
	librarianPassword = "librarian-pass"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Auth.BcryptCost = bcrypt.MinCost
	cfg.Auth.LibrarianEmail = librarianEmail
	cfg.Auth.LibrarianPassword = librarianPassword
	cfg.Metrics.Enabled = true
	return cfg
}

func sqliteConfig() config.Config {
	cfg := testConfig()
	cfg.Database.Driver = config.DatabaseSQLite
	cfg.Database.DSN = "file::memory:"
	cfg.Database.MaxOpenConns = 1
	cfg.Auth.TokenSecret = "sqlite-test-secret-0123456789"
	return cfg
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type client struct {
	t       *testing.T
	handler http.Handler
}

func (c client) call(method string, path string, bearer string, body any, out any) int {
	c.t.Helper()
	var payload []byte
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		payload = raw
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rr := httptest.NewRecorder()
	c.handler.ServeHTTP(rr, req)
	if out != nil && rr.Code < 300 {
		require.NoError(c.t, json.Unmarshal(rr.Body.Bytes(), out), rr.Body.String())
	}
	return rr.Code
}

func (c client) login(email string, secret string) string {
	c.t.Helper()
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.Equal(c.t, http.StatusOK, c.call(http.MethodPost, "/auth/connexion", "", map[string]string{
		"email":    email,
		"password": secret,
	}, &resp))
	return resp.AccessToken
}

func (c client) register(email string) string {
	c.t.Helper()
	require.Equal(c.t, http.StatusCreated, c.call(http.MethodPost, "/auth/inscription", "", map[string]string{
		"email":    email,
		"password": "correct-horse",
	}, nil))
	return c.login(email, "correct-horse")
}

func buildClient(t *testing.T, cfg config.Config) (*APIApp, client) {
	t.Helper()
	app, err := BuildAPI(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app, client{t: t, handler: app.Handler()}
}

func TestOnlyValidatedWorksCanBeBorrowed(t *testing.T) {
	_, c := buildClient(t, testConfig())
	alice := c.register("alice@bibliotheque.test")
	librarian := c.login(librarianEmail, librarianPassword)

	var submitted struct {
		Work struct {
			WorkID string `json:"work_id"`
		} `json:"work"`
	}
	require.Equal(t, http.StatusCreated, c.call(http.MethodPost, "/oeuvres/depot-md", alice, map[string]string{
		"title":   "Notre-Dame de Paris",
		"content": "# Livre premier",
	}, &submitted))
	workID := submitted.Work.WorkID

	borrow := map[string]string{"work_id": workID}
	require.Equal(t, http.StatusConflict, c.call(http.MethodPost, "/emprunts/emprunter", alice, borrow, nil))
	require.Equal(t, http.StatusNotFound, c.call(http.MethodPost, "/emprunts/emprunter", alice, map[string]string{"work_id": "missing"}, nil))

	require.Equal(t, http.StatusOK, c.call(http.MethodPost, "/oeuvres/"+workID+"/traiter", librarian, nil, nil))
	require.Equal(t, http.StatusOK, c.call(http.MethodPost, "/oeuvres/"+workID+"/valider", librarian, map[string]string{
		"destination": "fond_commun",
	}, nil))

	var loan struct {
		Loan struct {
			WorkTitle string `json:"work_title"`
			Status    string `json:"status"`
		} `json:"loan"`
	}
	require.Equal(t, http.StatusCreated, c.call(http.MethodPost, "/emprunts/emprunter", alice, borrow, &loan))
	require.Equal(t, "Notre-Dame de Paris", loan.Loan.WorkTitle)
	require.Equal(t, "on_time", loan.Loan.Status)
}

func TestRelayedEventsReachSubscribers(t *testing.T) {
	app, c := buildClient(t, testConfig())
	rt := app.Runtime()
	alice := c.register("alice@bibliotheque.test")

	ctx, cancel := context.WithCancel(context.Background())
	received := make(chan contractsv1.Envelope, 8)
	require.NoError(t, rt.Bus.Subscribe(ctx, messaging.AllTopics, "test", func(_ context.Context, event contractsv1.Envelope) error {
		received <- event
		return nil
	}))
	t.Cleanup(func() {
		cancel()
		rt.Bus.Wait()
	})

	require.Equal(t, http.StatusCreated, c.call(http.MethodPost, "/demandes/soumettre", alice, map[string]string{
		"motivation": "Je range déjà les rayons.",
	}, nil))
	rt.Worker.RelayOnce(ctx)

	select {
	case event := <-received:
		require.Equal(t, "promotion.submitted", event.EventType)
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for relayed event")
	}

	rt.Worker.RelayOnce(ctx)
	select {
	case event := <-received:
		t.Fatalf("expected the outbox to be drained, got %s again", event.EventType)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestApprovalGrantsLibrarianOnSQLite(t *testing.T) {
	_, c := buildClient(t, sqliteConfig())
	alice := c.register("alice@bibliotheque.test")
	librarian := c.login(librarianEmail, librarianPassword)

	var created struct {
		Request struct {
			RequestID string `json:"request_id"`
		} `json:"request"`
	}
	require.Equal(t, http.StatusCreated, c.call(http.MethodPost, "/demandes/soumettre", alice, map[string]string{
		"motivation": "Je range déjà les rayons.",
	}, &created))
	require.Equal(t, http.StatusOK, c.call(http.MethodPost, "/demandes/"+created.Request.RequestID+"/approuver", librarian, nil, nil))

	var me struct {
		Roles []string `json:"roles"`
	}
	require.Equal(t, http.StatusOK, c.call(http.MethodGet, "/auth/moi", alice, nil, &me))
	require.ElementsMatch(t, []string{"member", "librarian"}, me.Roles)

	var audit struct {
		Items []struct {
			Action string `json:"action"`
		} `json:"items"`
	}
	require.Equal(t, http.StatusOK, c.call(http.MethodGet, "/audit/promotion_request/"+created.Request.RequestID, librarian, nil, &audit))
	require.Len(t, audit.Items, 2)
}

func TestStandaloneWorkerNeedsSharedDatabase(t *testing.T) {
	_, err := BuildWorker(context.Background(), testConfig(), quietLogger())
	require.Error(t, err)

	worker, err := BuildWorker(context.Background(), sqliteConfig(), quietLogger())
	require.NoError(t, err)
	require.Len(t, worker.runtime.Worker.Relays, 3)
	require.NoError(t, worker.Close())
}

func TestSQLDriverRequiresTokenSecret(t *testing.T) {
	cfg := sqliteConfig()
	cfg.Auth.TokenSecret = ""
	_, err := Build(context.Background(), cfg, quietLogger())
	require.Error(t, err)
}

func TestNormalizeAddr(t *testing.T) {
	require.Equal(t, ":8080", normalizeAddr(""))
	require.Equal(t, ":9000", normalizeAddr("9000"))
	require.Equal(t, "127.0.0.1:9000", normalizeAddr("127.0.0.1:9000"))
}
