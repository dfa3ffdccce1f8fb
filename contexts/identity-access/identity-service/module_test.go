package identity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	identity "bibliotheque/contexts/identity-access/identity-service"
	"bibliotheque/contexts/identity-access/identity-service/adapters/password"
	"bibliotheque/contexts/identity-access/identity-service/adapters/token"
	"bibliotheque/contexts/identity-access/identity-service/application/commands"
	domainerrors "bibliotheque/contexts/identity-access/identity-service/domain/errors"
	httptransport "bibliotheque/contexts/identity-access/identity-service/transport/http"
	"bibliotheque/kernel/workflow"

	"golang.org/x/crypto/bcrypt"
)

func newTestModule(t *testing.T) identity.Module {
	t.Helper()
	issuer, err := token.NewJWTIssuer("identity-test-secret", "bibliotheque", time.Hour)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	return identity.NewInMemoryModule(issuer, password.BcryptHasher{Cost: bcrypt.MinCost}, nil)
}

func registerAndLogin(t *testing.T, module identity.Module, email string) (string, string) {
	t.Helper()
	registered, err := module.Handler.RegisterHandler(context.Background(), httptransport.RegisterRequest{
		Email:    email,
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	login, err := module.Handler.LoginHandler(context.Background(), httptransport.LoginRequest{
		Email:    email,
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	return registered.User.UserID, login.AccessToken
}

func TestRegisterLoginAndResolveCaller(t *testing.T) {
	module := newTestModule(t)
	userID, accessToken := registerAndLogin(t, module, "Ada@Example.org")

	caller, err := module.Handler.ResolveCallerHandler(context.Background(), accessToken)
	if err != nil {
		t.Fatalf("resolve caller: %v", err)
	}
	if caller.UserID != userID || caller.Email != "ada@example.org" {
		t.Fatalf("unexpected caller %+v", caller)
	}
	if len(caller.Roles) != 1 || caller.Roles[0] != workflow.RoleMember {
		t.Fatalf("expected member role only, got %v", caller.Roles)
	}
}

func TestRegisterRejectsDuplicateEmailAndWeakPassword(t *testing.T) {
	module := newTestModule(t)
	registerAndLogin(t, module, "ada@example.org")

	_, err := module.Handler.RegisterHandler(context.Background(), httptransport.RegisterRequest{
		Email:    "ADA@example.org",
		Password: "another password",
	})
	if !errors.Is(err, domainerrors.ErrEmailTaken) || !errors.Is(err, workflow.ErrConflict) {
		t.Fatalf("expected email conflict, got %v", err)
	}

	_, err = module.Handler.RegisterHandler(context.Background(), httptransport.RegisterRequest{
		Email:    "bob@example.org",
		Password: "short",
	})
	if !errors.Is(err, workflow.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	module := newTestModule(t)
	registerAndLogin(t, module, "ada@example.org")

	_, err := module.Handler.LoginHandler(context.Background(), httptransport.LoginRequest{
		Email:    "ada@example.org",
		Password: "wrong password",
	})
	if !errors.Is(err, workflow.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	_, err = module.Handler.LoginHandler(context.Background(), httptransport.LoginRequest{
		Email:    "nobody@example.org",
		Password: "whatever1",
	})
	if !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got %v", err)
	}
}

func TestResolveCallerRejectsInvalidToken(t *testing.T) {
	module := newTestModule(t)
	for _, raw := range []string{"", "garbage"} {
		if _, err := module.Handler.ResolveCallerHandler(context.Background(), raw); !errors.Is(err, workflow.ErrUnauthorized) {
			t.Fatalf("expected unauthorized for %q, got %v", raw, err)
		}
	}
}

func TestGrantRoleIsIdempotentAndVisibleOnNextResolve(t *testing.T) {
	module := newTestModule(t)
	librarian, err := module.EnsureLibrarian.Execute(context.Background(), "lib@example.org", "librarian-pass")
	if err != nil {
		t.Fatalf("seed librarian: %v", err)
	}
	memberID, memberToken := registerAndLogin(t, module, "member@example.org")

	first, err := module.Handler.GrantRoleHandler(context.Background(), librarian.UserID, memberID, httptransport.GrantRoleRequest{Role: "librarian"})
	if err != nil {
		t.Fatalf("grant role: %v", err)
	}
	if !first.Created {
		t.Fatalf("expected first grant to create an assignment")
	}
	second, err := module.Handler.GrantRoleHandler(context.Background(), librarian.UserID, memberID, httptransport.GrantRoleRequest{Role: "librarian"})
	if err != nil {
		t.Fatalf("repeat grant: %v", err)
	}
	if second.Created {
		t.Fatalf("expected repeat grant to be a no-op")
	}

	caller, err := module.Handler.ResolveCallerHandler(context.Background(), memberToken)
	if err != nil {
		t.Fatalf("resolve caller: %v", err)
	}
	if !caller.Actor().IsLibrarian() {
		t.Fatalf("expected librarian role from store, got %v", caller.Roles)
	}
}

func TestGrantRoleRequiresLibrarianGrantor(t *testing.T) {
	module := newTestModule(t)
	memberID, _ := registerAndLogin(t, module, "member@example.org")
	otherID, _ := registerAndLogin(t, module, "other@example.org")

	_, err := module.Handler.GrantRoleHandler(context.Background(), otherID, memberID, httptransport.GrantRoleRequest{Role: "librarian"})
	if !errors.Is(err, workflow.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	_, err = module.GrantRole.Execute(context.Background(), commands.GrantRoleCommand{
		UserID:    memberID,
		Role:      "archivist",
		GrantedBy: commands.SystemActor,
	})
	if !errors.Is(err, domainerrors.ErrInvalidRole) {
		t.Fatalf("expected invalid role, got %v", err)
	}
}

func TestEnsureLibrarianIsRepeatable(t *testing.T) {
	module := newTestModule(t)
	first, err := module.EnsureLibrarian.Execute(context.Background(), "lib@example.org", "librarian-pass")
	if err != nil {
		t.Fatalf("first seed: %v", err)
	}
	second, err := module.EnsureLibrarian.Execute(context.Background(), "LIB@example.org", "librarian-pass")
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if first.UserID != second.UserID {
		t.Fatalf("expected the same account, got %s and %s", first.UserID, second.UserID)
	}
	roles, err := module.Handler.ListUserRolesHandler(context.Background(), first.UserID)
	if err != nil {
		t.Fatalf("list roles: %v", err)
	}
	if len(roles.Roles) != 2 {
		t.Fatalf("expected member and librarian assignments, got %+v", roles.Roles)
	}
}

func TestRefreshIssuesTokenForExistingUser(t *testing.T) {
	module := newTestModule(t)
	userID, accessToken := registerAndLogin(t, module, "refresh@example.org")

	refreshed, err := module.Handler.RefreshHandler(context.Background(), accessToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.AccessToken == "" || refreshed.User.UserID != userID || refreshed.TokenType != "Bearer" {
		t.Fatalf("unexpected refresh response %+v", refreshed)
	}
	caller, err := module.Handler.ResolveCallerHandler(context.Background(), refreshed.AccessToken)
	if err != nil || caller.UserID != userID {
		t.Fatalf("expected refreshed token to resolve to %s, got %+v (%v)", userID, caller, err)
	}

	for _, bad := range []string{"", "not-a-token"} {
		if _, err := module.Handler.RefreshHandler(context.Background(), bad); !errors.Is(err, domainerrors.ErrInvalidToken) {
			t.Fatalf("expected invalid token for %q, got %v", bad, err)
		}
	}
}
