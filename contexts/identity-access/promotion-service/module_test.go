package promotions_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	promotions "bibliotheque/contexts/identity-access/promotion-service"
	"bibliotheque/contexts/identity-access/promotion-service/application/commands"
	"bibliotheque/contexts/identity-access/promotion-service/domain/entities"
	domainerrors "bibliotheque/contexts/identity-access/promotion-service/domain/errors"
	"bibliotheque/contexts/identity-access/promotion-service/ports"
	httptransport "bibliotheque/contexts/identity-access/promotion-service/transport/http"
	"bibliotheque/kernel/workflow"
)

var (
	alice     = workflow.Actor{ID: "alice", Roles: []workflow.Role{workflow.RoleMember}}
	bob       = workflow.Actor{ID: "bob", Roles: []workflow.Role{workflow.RoleMember}}
	librarian = workflow.Actor{ID: "lib-1", Roles: []workflow.Role{workflow.RoleMember, workflow.RoleLibrarian}}
)

type fakeGranter struct {
	mu      sync.Mutex
	err     error
	granted map[string]string
}

func (g *fakeGranter) GrantLibrarian(_ context.Context, userID string, grantedBy string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	if g.granted == nil {
		g.granted = make(map[string]string)
	}
	g.granted[userID] = grantedBy
	return nil
}

// hookGranter runs hook in place of the identity provider.
type hookGranter struct {
	calls atomic.Int32
	hook  func() error
}

func (g *hookGranter) GrantLibrarian(context.Context, string, string) error {
	g.calls.Add(1)
	return g.hook()
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestModule() (promotions.Module, *fakeGranter, *fakeClock) {
	granter := &fakeGranter{}
	clock := &fakeClock{now: time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)}
	return promotions.NewInMemoryModule(granter, clock, nil), granter, clock
}

func TestPromotionScenario(t *testing.T) {
	module, _, _ := newTestModule()
	ctx := context.Background()

	_, err := module.Handler.SubmitHandler(ctx, alice, httptransport.SubmitRequestRequest{Motivation: "short"})
	if !errors.Is(err, workflow.ErrValidation) {
		t.Fatalf("expected validation error for 5 characters, got %v", err)
	}

	created, err := module.Handler.SubmitHandler(ctx, alice, httptransport.SubmitRequestRequest{Motivation: "0123456789"})
	if err != nil {
		t.Fatalf("submit with 10 characters: %v", err)
	}
	if created.Request.State != string(entities.StatePending) {
		t.Fatalf("expected pending, got %s", created.Request.State)
	}

	_, err = module.Handler.SubmitHandler(ctx, alice, httptransport.SubmitRequestRequest{Motivation: "encore une demande"})
	if !errors.Is(err, workflow.ErrConflict) {
		t.Fatalf("expected conflict for a second pending request, got %v", err)
	}

	_, err = module.Handler.RefuseHandler(ctx, librarian, created.Request.RequestID, httptransport.RefuseRequestRequest{Motif: "ok"})
	if !errors.Is(err, workflow.ErrValidation) {
		t.Fatalf("expected validation error for 2 character motif, got %v", err)
	}
}

func TestMotivationCountsTrimmedRunes(t *testing.T) {
	module, _, _ := newTestModule()
	_, err := module.Handler.SubmitHandler(context.Background(), alice, httptransport.SubmitRequestRequest{Motivation: "   éèàùç    "})
	if !errors.Is(err, domainerrors.ErrMotivationTooShort) {
		t.Fatalf("expected too short after trimming, got %v", err)
	}
	if _, err := module.Handler.SubmitHandler(context.Background(), alice, httptransport.SubmitRequestRequest{Motivation: "éèàùçéèàùç"}); err != nil {
		t.Fatalf("expected ten accented runes to pass, got %v", err)
	}
}

func TestLibrarianCannotRequestPromotion(t *testing.T) {
	module, _, _ := newTestModule()
	_, err := module.Handler.SubmitHandler(context.Background(), librarian, httptransport.SubmitRequestRequest{Motivation: "je suis déjà là"})
	if !errors.Is(err, domainerrors.ErrAlreadyLibrarian) || !errors.Is(err, workflow.ErrPreconditionFailed) {
		t.Fatalf("expected already librarian, got %v", err)
	}
}

func TestApproveGrantsLibrarianRole(t *testing.T) {
	module, granter, clock := newTestModule()
	ctx := context.Background()
	created, err := module.Handler.SubmitHandler(ctx, alice, httptransport.SubmitRequestRequest{Motivation: "j'aime cataloguer"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := module.Handler.ApproveHandler(ctx, bob, created.Request.RequestID); !errors.Is(err, workflow.ErrForbidden) {
		t.Fatalf("expected member approval to be forbidden, got %v", err)
	}

	clock.Advance(36 * time.Hour)
	approved, err := module.Handler.ApproveHandler(ctx, librarian, created.Request.RequestID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Request.State != string(entities.StateApproved) || approved.Request.DecidedBy != librarian.ID {
		t.Fatalf("unexpected approved request %+v", approved.Request)
	}
	if granter.granted["alice"] != librarian.ID {
		t.Fatalf("expected librarian role granted to alice, got %v", granter.granted)
	}

	if _, err := module.Handler.CancelHandler(ctx, alice, created.Request.RequestID); !errors.Is(err, workflow.ErrInvalidTransition) {
		t.Fatalf("expected approved request to be final, got %v", err)
	}

	stats, err := module.Handler.StatisticsHandler(ctx, librarian)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.Total != 1 || stats.Approved != 1 || stats.MeanDelayDays != 1.5 {
		t.Fatalf("unexpected statistics %+v", stats)
	}
}

func TestGrantFailureLeavesRequestPending(t *testing.T) {
	module, granter, _ := newTestModule()
	ctx := context.Background()
	created, err := module.Handler.SubmitHandler(ctx, alice, httptransport.SubmitRequestRequest{Motivation: "j'aime cataloguer"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	before, err := module.Store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list outbox: %v", err)
	}

	granter.err = errors.New("identity store unavailable")
	_, err = module.Handler.ApproveHandler(ctx, librarian, created.Request.RequestID)
	if !errors.Is(err, domainerrors.ErrRoleGrantFailed) {
		t.Fatalf("expected grant failure, got %v", err)
	}

	stored, err := module.Store.GetRequest(ctx, created.Request.RequestID)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	if stored.State != entities.StatePending || stored.Version != 1 || stored.DecidedAt != nil {
		t.Fatalf("expected untouched pending request, got %+v", stored)
	}
	trail, err := module.Store.ListAudit(ctx, created.Request.RequestID)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if len(trail) != 1 {
		t.Fatalf("expected only the submission audit record, got %d", len(trail))
	}
	after, err := module.Store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list outbox: %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("expected no approval event, got %d pending events", len(after))
	}

	granter.err = nil
	if _, err := module.Handler.ApproveHandler(ctx, librarian, created.Request.RequestID); err != nil {
		t.Fatalf("approve after recovery: %v", err)
	}
}

func TestClassifiedGrantErrorPassesThrough(t *testing.T) {
	module, granter, _ := newTestModule()
	ctx := context.Background()
	created, err := module.Handler.SubmitHandler(ctx, alice, httptransport.SubmitRequestRequest{Motivation: "j'aime cataloguer"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	granter.err = workflow.ErrNotFound
	_, err = module.Handler.ApproveHandler(ctx, librarian, created.Request.RequestID)
	if !errors.Is(err, workflow.ErrNotFound) || errors.Is(err, domainerrors.ErrRoleGrantFailed) {
		t.Fatalf("expected not found to pass through, got %v", err)
	}
}

func TestOnlyRequesterCancels(t *testing.T) {
	module, _, _ := newTestModule()
	ctx := context.Background()
	created, err := module.Handler.SubmitHandler(ctx, alice, httptransport.SubmitRequestRequest{Motivation: "j'aime cataloguer"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := module.Handler.CancelHandler(ctx, bob, created.Request.RequestID); !errors.Is(err, workflow.ErrForbidden) {
		t.Fatalf("expected forbidden cancel, got %v", err)
	}
	cancelled, err := module.Handler.CancelHandler(ctx, alice, created.Request.RequestID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Request.State != string(entities.StateCancelled) {
		t.Fatalf("expected cancelled, got %s", cancelled.Request.State)
	}
	if _, err := module.Handler.CancelHandler(ctx, alice, created.Request.RequestID); !errors.Is(err, workflow.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}

	if _, err := module.Handler.SubmitHandler(ctx, alice, httptransport.SubmitRequestRequest{Motivation: "deuxième essai sérieux"}); err != nil {
		t.Fatalf("expected a new request after cancel, got %v", err)
	}
}

func TestQueueHistoryAndVisibility(t *testing.T) {
	module, _, clock := newTestModule()
	ctx := context.Background()

	first, err := module.Handler.SubmitHandler(ctx, alice, httptransport.SubmitRequestRequest{Motivation: "j'aime cataloguer"})
	if err != nil {
		t.Fatalf("submit alice: %v", err)
	}
	clock.Advance(time.Hour)
	second, err := module.Handler.SubmitHandler(ctx, bob, httptransport.SubmitRequestRequest{Motivation: "je range les rayons"})
	if err != nil {
		t.Fatalf("submit bob: %v", err)
	}

	pending, err := module.Handler.PendingHandler(ctx, librarian)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending.Items) != 2 || pending.Items[0].RequestID != first.Request.RequestID {
		t.Fatalf("expected oldest first, got %+v", pending.Items)
	}
	if _, err := module.Handler.PendingHandler(ctx, alice); !errors.Is(err, workflow.ErrForbidden) {
		t.Fatalf("expected forbidden queue for member, got %v", err)
	}

	clock.Advance(time.Hour)
	if _, err := module.Handler.RefuseHandler(ctx, librarian, first.Request.RequestID, httptransport.RefuseRequestRequest{Motif: "pas encore"}); err != nil {
		t.Fatalf("refuse: %v", err)
	}
	clock.Advance(time.Hour)
	if _, err := module.Handler.ApproveHandler(ctx, librarian, second.Request.RequestID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	history, err := module.Handler.HistoryHandler(ctx, librarian, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history.Items) != 2 || history.Items[0].RequestID != second.Request.RequestID {
		t.Fatalf("expected most recent decision first, got %+v", history.Items)
	}
	if history.Items[1].RefusalMotif != "pas encore" {
		t.Fatalf("expected refusal motif, got %q", history.Items[1].RefusalMotif)
	}

	if _, err := module.Handler.GetRequestHandler(ctx, bob, first.Request.RequestID); !errors.Is(err, workflow.ErrNotFound) {
		t.Fatalf("expected foreign request to look missing, got %v", err)
	}
	mine, err := module.Handler.MyRequestsHandler(ctx, alice)
	if err != nil {
		t.Fatalf("my requests: %v", err)
	}
	if len(mine.Items) != 1 || mine.Items[0].State != string(entities.StateRefused) {
		t.Fatalf("unexpected requests for alice %+v", mine.Items)
	}

	trail, err := module.Handler.AuditTrailHandler(ctx, librarian, second.Request.RequestID)
	if err != nil {
		t.Fatalf("audit trail: %v", err)
	}
	if len(trail.Items) != 2 || trail.Items[1].Action != string(entities.ActionApprove) {
		t.Fatalf("unexpected audit trail %+v", trail.Items)
	}
}

func TestApprovalStaysInvisibleUntilGrantSucceeds(t *testing.T) {
	granter := &hookGranter{}
	clock := &fakeClock{now: time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)}
	module := promotions.NewInMemoryModule(granter, clock, nil)
	ctx := context.Background()
	created, err := module.Handler.SubmitHandler(ctx, alice, httptransport.SubmitRequestRequest{Motivation: "j'aime cataloguer"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	requestID := created.Request.RequestID

	granter.hook = func() error {
		stored, err := module.Store.GetRequest(ctx, requestID)
		if err != nil || stored.State != entities.StatePending {
			t.Errorf("expected request to read as pending during the grant, got %s (%v)", stored.State, err)
		}
		pending, err := module.Store.ListPendingOutbox(ctx, 10)
		if err != nil {
			t.Errorf("list outbox: %v", err)
		}
		for _, message := range pending {
			if message.EventType == commands.EventPromotionApproved {
				t.Errorf("approval event readable by the relay before commit")
			}
		}
		if _, err := module.Handler.SubmitHandler(ctx, alice, httptransport.SubmitRequestRequest{Motivation: "une seconde demande"}); !errors.Is(err, workflow.ErrConflict) {
			t.Errorf("expected second submission to conflict during the grant, got %v", err)
		}
		if _, err := module.Handler.CancelHandler(ctx, alice, requestID); !errors.Is(err, workflow.ErrConflict) {
			t.Errorf("expected cancel to conflict with the open approval, got %v", err)
		}
		return errors.New("identity store unavailable")
	}
	if _, err := module.Handler.ApproveHandler(ctx, librarian, requestID); !errors.Is(err, domainerrors.ErrRoleGrantFailed) {
		t.Fatalf("expected grant failure, got %v", err)
	}

	mine, err := module.Handler.MyRequestsHandler(ctx, alice)
	if err != nil {
		t.Fatalf("my requests: %v", err)
	}
	if len(mine.Items) != 1 || mine.Items[0].State != string(entities.StatePending) {
		t.Fatalf("expected exactly one pending request, got %+v", mine.Items)
	}

	granter.hook = func() error { return nil }
	if _, err := module.Handler.ApproveHandler(ctx, librarian, requestID); err != nil {
		t.Fatalf("approve after the failed unit: %v", err)
	}
}

func TestConcurrentApprovalsHaveOneWinner(t *testing.T) {
	const approvers = 8

	release := make(chan struct{})
	var once sync.Once
	releaseGrant := func() { once.Do(func() { close(release) }) }
	t.Cleanup(releaseGrant)

	granter := &hookGranter{hook: func() error {
		<-release
		return nil
	}}
	clock := &fakeClock{now: time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)}
	module := promotions.NewInMemoryModule(granter, clock, nil)
	ctx := context.Background()
	created, err := module.Handler.SubmitHandler(ctx, alice, httptransport.SubmitRequestRequest{Motivation: "j'aime cataloguer"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	requestID := created.Request.RequestID

	results := make(chan error, approvers)
	for i := 0; i < approvers; i++ {
		actor := workflow.Actor{
			ID:    fmt.Sprintf("lib-%d", i),
			Roles: []workflow.Role{workflow.RoleMember, workflow.RoleLibrarian},
		}
		go func() {
			_, err := module.Handler.ApproveHandler(ctx, actor, requestID)
			results <- err
		}()
	}

	// The winner holds its claim inside the grant, so every other approver
	// returns first.
	for i := 0; i < approvers-1; i++ {
		select {
		case err := <-results:
			if !errors.Is(err, workflow.ErrConflict) {
				t.Fatalf("expected conflict for a losing approver, got %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for losing approvers")
		}
	}
	releaseGrant()
	select {
	case err := <-results:
		if err != nil {
			t.Fatalf("expected the winning approval to commit, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for the winning approver")
	}

	if calls := granter.calls.Load(); calls != 1 {
		t.Fatalf("expected exactly one grant, got %d", calls)
	}
	trail, err := module.Store.ListAudit(ctx, requestID)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	approvals := 0
	for _, record := range trail {
		if record.Action == entities.ActionApprove {
			approvals++
		}
	}
	if approvals != 1 {
		t.Fatalf("expected one approve audit record, got %d", approvals)
	}
	pending, err := module.Store.ListPendingOutbox(ctx, 100)
	if err != nil {
		t.Fatalf("list outbox: %v", err)
	}
	events := 0
	for _, message := range pending {
		if message.EventType == commands.EventPromotionApproved {
			events++
		}
	}
	if events != 1 {
		t.Fatalf("expected one approval event, got %d", events)
	}
}

var (
	_ ports.RoleGranter = (*fakeGranter)(nil)
	_ ports.RoleGranter = (*hookGranter)(nil)
)
