package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	contractsv1 "bibliotheque/contracts/gen/events/v1"
	"bibliotheque/kernel/workflow"

	"github.com/gorilla/websocket"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func loanEvent(t *testing.T, id string, borrowerID string) contractsv1.Envelope {
	t.Helper()
	event, err := contractsv1.NewEnvelope(id, "loan.borrowed", "loan-service", "loan_id", id, time.Now(), map[string]string{
		"loan_id":     id,
		"borrower_id": borrowerID,
	})
	if err != nil {
		t.Fatalf("envelope: %v", err)
	}
	return event
}

func dial(t *testing.T, server *httptest.Server, userID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?user=" + userID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) contractsv1.Envelope {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event contractsv1.Envelope
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("read: %v", err)
	}
	return event
}

func TestHubFiltersEventsByAudience(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	running := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(running)
	}()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := workflow.Actor{ID: r.URL.Query().Get("user"), Roles: []workflow.Role{workflow.RoleMember}}
		if actor.ID == "lib-1" {
			actor.Roles = append(actor.Roles, workflow.RoleLibrarian)
		}
		hub.ServeWS(w, r, actor)
	}))

	librarian := dial(t, server, "lib-1")
	alice := dial(t, server, "alice")

	// Registration happens asynchronously after the handshake.
	time.Sleep(50 * time.Millisecond)

	if err := hub.Deliver(ctx, loanEvent(t, "l-bob", "bob")); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if err := hub.Deliver(ctx, loanEvent(t, "l-alice", "alice")); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	if got := readEvent(t, librarian); got.EventID != "l-bob" {
		t.Fatalf("expected librarian to see bob's loan first, got %s", got.EventID)
	}
	if got := readEvent(t, librarian); got.EventID != "l-alice" {
		t.Fatalf("expected librarian to see alice's loan, got %s", got.EventID)
	}
	if got := readEvent(t, alice); got.EventID != "l-alice" {
		t.Fatalf("expected alice to only see her own loan, got %s", got.EventID)
	}

	_ = librarian.Close()
	_ = alice.Close()
	cancel()
	<-running
	server.Close()
}

func TestDeliverAfterShutdownDoesNotBlock(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	running := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(running)
	}()
	cancel()
	<-running

	for i := 0; i < sendBuffer+1; i++ {
		if err := hub.Deliver(context.Background(), loanEvent(t, "l-1", "alice")); err != nil {
			t.Fatalf("deliver: %v", err)
		}
	}
}
