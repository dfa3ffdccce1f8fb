package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	works "bibliotheque/contexts/catalogue-moderation/work-service"
	workshttp "bibliotheque/contexts/catalogue-moderation/work-service/transport/http"
	identity "bibliotheque/contexts/identity-access/identity-service"
	"bibliotheque/contexts/identity-access/identity-service/adapters/password"
	"bibliotheque/contexts/identity-access/identity-service/adapters/token"
	identitycommands "bibliotheque/contexts/identity-access/identity-service/application/commands"
	identityhttp "bibliotheque/contexts/identity-access/identity-service/transport/http"
	promotions "bibliotheque/contexts/identity-access/promotion-service"
	promotionshttp "bibliotheque/contexts/identity-access/promotion-service/transport/http"
	loans "bibliotheque/contexts/lending/loan-service"
	loanentities "bibliotheque/contexts/lending/loan-service/domain/entities"
	loanports "bibliotheque/contexts/lending/loan-service/ports"
	"bibliotheque/kernel/workflow"

	"golang.org/x/crypto/bcrypt"
)

type stubCatalog struct{}

func (stubCatalog) GetWork(_ context.Context, workID string) (loanports.WorkSnapshot, error) {
	if workID != "w-1" {
		return loanports.WorkSnapshot{}, workflow.ErrNotFound
	}
	return loanports.WorkSnapshot{WorkID: workID, Title: "Les Misérables", Lendable: true}, nil
}

type identityGranter struct {
	grant identitycommands.GrantRoleUseCase
}

func (g identityGranter) GrantLibrarian(ctx context.Context, userID string, grantedBy string) error {
	_, err := g.grant.Execute(ctx, identitycommands.GrantRoleCommand{
		UserID:    userID,
		Role:      string(workflow.RoleLibrarian),
		GrantedBy: grantedBy,
	})
	return err
}

type testServer struct {
	*Server
	identity identity.Module
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	issuer, err := token.NewJWTIssuer("test-secret-with-enough-bytes", "bibliotheque-test", time.Hour)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}
	identityModule := identity.NewInMemoryModule(issuer, password.BcryptHasher{Cost: bcrypt.MinCost}, nil)
	server := New(Modules{
		Identity:   identityModule,
		Works:      works.NewInMemoryModule(nil, nil, nil, nil),
		Loans:      loans.NewInMemoryModule(stubCatalog{}, loanentities.DefaultPolicy(), nil, nil),
		Promotions: promotions.NewInMemoryModule(identityGranter{grant: identityModule.GrantRole}, nil, nil),
	}, Options{})
	return testServer{Server: server, identity: identityModule}
}

func (s testServer) do(t *testing.T, method string, path string, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func (s testServer) member(t *testing.T, email string) string {
	t.Helper()
	rr := s.do(t, http.MethodPost, "/auth/inscription", "", identityhttp.RegisterRequest{Email: email, Password: "correct-horse"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 on register, got %d body=%s", rr.Code, rr.Body.String())
	}
	return s.login(t, email, "correct-horse")
}

func (s testServer) librarian(t *testing.T) string {
	t.Helper()
	if _, err := s.identity.EnsureLibrarian.Execute(context.Background(), "lib@bibliotheque.test", "librarian-pass"); err != nil {
		t.Fatalf("ensure librarian: %v", err)
	}
	return s.login(t, "lib@bibliotheque.test", "librarian-pass")
}

func (s testServer) login(t *testing.T, email string, secret string) string {
	t.Helper()
	rr := s.do(t, http.MethodPost, "/auth/connexion", "", identityhttp.LoginRequest{Email: email, Password: secret})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 on login, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp identityhttp.LoginResponse
	decodeBody(t, rr, &resp)
	return resp.AccessToken
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, want int, code string) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("expected %d, got %d body=%s", want, rr.Code, rr.Body.String())
	}
	if code == "" {
		return
	}
	var resp ErrorResponse
	decodeBody(t, rr, &resp)
	if resp.Code != code {
		t.Fatalf("expected error code %q, got %q", code, resp.Code)
	}
}

func TestProtectedRoutesRequireBearerToken(t *testing.T) {
	server := newTestServer(t)
	rr := server.do(t, http.MethodPost, "/oeuvres/depot-md", "", workshttp.SubmitWorkRequest{Title: "Les Misérables"})
	expectStatus(t, rr, http.StatusUnauthorized, "unauthorized")

	rr = server.do(t, http.MethodGet, "/emprunts/mes-emprunts", "not-a-jwt", nil)
	expectStatus(t, rr, http.StatusUnauthorized, "unauthorized")
}

func TestRequestIDIsEchoed(t *testing.T) {
	server := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "req-42")
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || rr.Header().Get("X-Request-Id") != "req-42" {
		t.Fatalf("expected healthz with echoed request id, got %d %q", rr.Code, rr.Header().Get("X-Request-Id"))
	}
}

func TestMeDescribesCaller(t *testing.T) {
	server := newTestServer(t)
	memberToken := server.member(t, "alice@bibliotheque.test")

	rr := server.do(t, http.MethodGet, "/auth/moi", memberToken, nil)
	expectStatus(t, rr, http.StatusOK, "")
	var me identityhttp.CallerResponse
	decodeBody(t, rr, &me)
	if me.Email != "alice@bibliotheque.test" || len(me.Roles) != 1 || me.Roles[0] != string(workflow.RoleMember) {
		t.Fatalf("unexpected caller %+v", me)
	}
}

func TestWorkModerationStatusCodes(t *testing.T) {
	server := newTestServer(t)
	memberToken := server.member(t, "alice@bibliotheque.test")
	librarianToken := server.librarian(t)

	rr := server.do(t, http.MethodPost, "/oeuvres/depot-md", memberToken, map[string]string{"content": "# Tome I"})
	expectStatus(t, rr, http.StatusUnprocessableEntity, "validation_error")

	rr = server.do(t, http.MethodPost, "/oeuvres/depot-md", memberToken, workshttp.SubmitWorkRequest{
		Title:   "Les Misérables",
		Author:  "Victor Hugo",
		Content: "# Tome I",
	})
	expectStatus(t, rr, http.StatusCreated, "")
	var created workshttp.WorkResponse
	decodeBody(t, rr, &created)
	base := "/oeuvres/" + created.Work.WorkID

	expectStatus(t, server.do(t, http.MethodPost, base+"/traiter", memberToken, nil), http.StatusForbidden, "forbidden")
	expectStatus(t, server.do(t, http.MethodPost, base+"/traiter", librarianToken, nil), http.StatusOK, "")
	expectStatus(t, server.do(t, http.MethodPost, base+"/traiter", librarianToken, nil), http.StatusConflict, "conflict")
	expectStatus(t, server.do(t, http.MethodPost, base+"/valider", librarianToken, workshttp.ValidateWorkRequest{Destination: "grenier"}),
		http.StatusUnprocessableEntity, "validation_error")
	expectStatus(t, server.do(t, http.MethodPost, base+"/valider", librarianToken, workshttp.ValidateWorkRequest{Destination: "fond_commun"}),
		http.StatusOK, "")
	expectStatus(t, server.do(t, http.MethodPost, base+"/rejeter", librarianToken, workshttp.RejectWorkRequest{Motif: "trop tard"}),
		http.StatusConflict, "invalid_transition")

	rr = server.do(t, http.MethodGet, "/catalogue/fond_commun", "", nil)
	expectStatus(t, rr, http.StatusOK, "")
	var catalogue workshttp.ListWorksResponse
	decodeBody(t, rr, &catalogue)
	if len(catalogue.Items) != 1 || catalogue.Items[0].WorkID != created.Work.WorkID {
		t.Fatalf("expected validated work in catalogue, got %+v", catalogue.Items)
	}

	expectStatus(t, server.do(t, http.MethodGet, "/oeuvres/missing", librarianToken, nil), http.StatusNotFound, "not_found")
	expectStatus(t, server.do(t, http.MethodGet, "/audit/work/"+created.Work.WorkID, librarianToken, nil), http.StatusOK, "")
	expectStatus(t, server.do(t, http.MethodGet, "/audit/manuscript/"+created.Work.WorkID, librarianToken, nil), http.StatusNotFound, "not_found")
}

func TestClassificationAndStatisticsRoutes(t *testing.T) {
	server := newTestServer(t)
	memberToken := server.member(t, "alice@bibliotheque.test")
	librarianToken := server.librarian(t)

	rr := server.do(t, http.MethodPost, "/oeuvres/depot-md", memberToken, workshttp.SubmitWorkRequest{
		Title:   "Le Petit Prince",
		Author:  "Antoine de Saint-Exupéry",
		Content: "# Chapitre I",
	})
	expectStatus(t, rr, http.StatusCreated, "")
	var created workshttp.WorkResponse
	decodeBody(t, rr, &created)
	base := "/oeuvres/" + created.Work.WorkID

	classify := workshttp.ClassifyWorkRequest{Categories: []string{"livre_jeunesse"}}
	expectStatus(t, server.do(t, http.MethodPost, base+"/classifier", memberToken, classify), http.StatusForbidden, "forbidden")
	expectStatus(t, server.do(t, http.MethodPost, base+"/classifier", librarianToken, workshttp.ClassifyWorkRequest{Categories: []string{"POESIE"}}),
		http.StatusUnprocessableEntity, "validation_error")
	rr = server.do(t, http.MethodPost, base+"/classifier", librarianToken, classify)
	expectStatus(t, rr, http.StatusOK, "")
	var classified workshttp.WorkResponse
	decodeBody(t, rr, &classified)
	if len(classified.Work.Categories) != 1 || classified.Work.Categories[0] != "LIVRE_JEUNESSE" {
		t.Fatalf("expected normalized category, got %+v", classified.Work.Categories)
	}

	expectStatus(t, server.do(t, http.MethodGet, "/oeuvres/categorie/LIVRE_JEUNESSE", "", nil), http.StatusUnauthorized, "unauthorized")
	rr = server.do(t, http.MethodGet, "/oeuvres/categorie/LIVRE_JEUNESSE", librarianToken, nil)
	expectStatus(t, rr, http.StatusOK, "")
	var listed workshttp.ListWorksResponse
	decodeBody(t, rr, &listed)
	if len(listed.Items) != 1 || listed.Items[0].WorkID != created.Work.WorkID {
		t.Fatalf("expected classified work for librarian, got %+v", listed.Items)
	}
	rr = server.do(t, http.MethodGet, "/oeuvres/categorie/LIVRE_JEUNESSE", memberToken, nil)
	expectStatus(t, rr, http.StatusOK, "")
	decodeBody(t, rr, &listed)
	if len(listed.Items) != 0 {
		t.Fatalf("members only see validated works, got %+v", listed.Items)
	}
	expectStatus(t, server.do(t, http.MethodGet, "/oeuvres/categorie/POESIE", memberToken, nil), http.StatusUnprocessableEntity, "validation_error")

	rr = server.do(t, http.MethodGet, "/categories", "", nil)
	expectStatus(t, rr, http.StatusOK, "")
	var categories workshttp.CategoriesResponse
	decodeBody(t, rr, &categories)
	if len(categories.Items) != 16 || len(categories.ByFamily["VIDEO"]) != 4 {
		t.Fatalf("unexpected categories: %+v", categories)
	}

	rr = server.do(t, http.MethodGet, "/catalogue/statistiques", "", nil)
	expectStatus(t, rr, http.StatusOK, "")
	var stats workshttp.CatalogueStatisticsResponse
	decodeBody(t, rr, &stats)
	if stats.Total != 1 || stats.ByState["submitted"] != 1 || stats.ByState["validated"] != 0 {
		t.Fatalf("unexpected statistics: %+v", stats)
	}
}

func TestRefreshRequiresValidToken(t *testing.T) {
	server := newTestServer(t)
	memberToken := server.member(t, "alice@bibliotheque.test")

	expectStatus(t, server.do(t, http.MethodPost, "/auth/refresh", "", nil), http.StatusUnauthorized, "unauthorized")
	expectStatus(t, server.do(t, http.MethodPost, "/auth/refresh", "not-a-jwt", nil), http.StatusUnauthorized, "unauthorized")

	rr := server.do(t, http.MethodPost, "/auth/refresh", memberToken, nil)
	expectStatus(t, rr, http.StatusOK, "")
	var refreshed identityhttp.LoginResponse
	decodeBody(t, rr, &refreshed)
	if refreshed.AccessToken == "" {
		t.Fatal("expected a fresh access token")
	}
	expectStatus(t, server.do(t, http.MethodGet, "/auth/moi", refreshed.AccessToken, nil), http.StatusOK, "")
}

func TestPdfIntakeWithoutConverterIsBadGateway(t *testing.T) {
	server := newTestServer(t)
	memberToken := server.member(t, "alice@bibliotheque.test")
	rr := server.do(t, http.MethodPost, "/oeuvres/depot-pdf", memberToken, workshttp.SubmitDocumentRequest{
		Title:    "Les Misérables",
		Document: []byte("%PDF-1.7"),
	})
	expectStatus(t, rr, http.StatusBadGateway, "conversion_failed")
}

func TestLoanStatusCodes(t *testing.T) {
	server := newTestServer(t)
	alice := server.member(t, "alice@bibliotheque.test")
	bob := server.member(t, "bob@bibliotheque.test")

	expectStatus(t, server.do(t, http.MethodPost, "/emprunts/emprunter", alice, map[string]any{"work_id": "w-1", "duration_days": -3}),
		http.StatusUnprocessableEntity, "validation_error")
	expectStatus(t, server.do(t, http.MethodPost, "/emprunts/emprunter", alice, map[string]any{"work_id": "w-404"}),
		http.StatusNotFound, "not_found")

	rr := server.do(t, http.MethodPost, "/emprunts/emprunter", alice, map[string]any{"work_id": "w-1"})
	expectStatus(t, rr, http.StatusCreated, "")
	var loan struct {
		Loan struct {
			LoanID        string `json:"loan_id"`
			DaysRemaining int    `json:"days_remaining"`
		} `json:"loan"`
	}
	decodeBody(t, rr, &loan)
	if loan.Loan.DaysRemaining != 14 {
		t.Fatalf("expected 14 days remaining, got %d", loan.Loan.DaysRemaining)
	}

	expectStatus(t, server.do(t, http.MethodPost, "/emprunts/emprunter", alice, map[string]any{"work_id": "w-1"}),
		http.StatusConflict, "conflict")
	expectStatus(t, server.do(t, http.MethodPost, "/emprunts/"+loan.Loan.LoanID+"/retourner", bob, nil),
		http.StatusForbidden, "forbidden")
	expectStatus(t, server.do(t, http.MethodPost, "/emprunts/"+loan.Loan.LoanID+"/renouveler", alice, nil),
		http.StatusOK, "")
	expectStatus(t, server.do(t, http.MethodPost, "/emprunts/"+loan.Loan.LoanID+"/retourner", alice, nil),
		http.StatusOK, "")
	expectStatus(t, server.do(t, http.MethodPost, "/emprunts/"+loan.Loan.LoanID+"/retourner", alice, nil),
		http.StatusConflict, "conflict")
}

func TestPromotionScenarioOverHTTP(t *testing.T) {
	server := newTestServer(t)
	alice := server.member(t, "alice@bibliotheque.test")
	librarianToken := server.librarian(t)

	expectStatus(t, server.do(t, http.MethodPost, "/demandes/soumettre", alice, promotionshttp.SubmitRequestRequest{Motivation: "short"}),
		http.StatusUnprocessableEntity, "validation_error")

	rr := server.do(t, http.MethodPost, "/demandes/soumettre", alice, promotionshttp.SubmitRequestRequest{Motivation: "0123456789"})
	expectStatus(t, rr, http.StatusCreated, "")
	var created promotionshttp.PromotionRequestResponse
	decodeBody(t, rr, &created)

	expectStatus(t, server.do(t, http.MethodPost, "/demandes/soumettre", alice, promotionshttp.SubmitRequestRequest{Motivation: "encore une fois"}),
		http.StatusConflict, "conflict")
	base := "/demandes/" + created.Request.RequestID
	expectStatus(t, server.do(t, http.MethodPost, base+"/refuser", librarianToken, promotionshttp.RefuseRequestRequest{Motif: "ok"}),
		http.StatusUnprocessableEntity, "validation_error")
	expectStatus(t, server.do(t, http.MethodPost, base+"/approuver", alice, nil), http.StatusForbidden, "forbidden")
	expectStatus(t, server.do(t, http.MethodGet, "/demandes/historique?limit=abc", librarianToken, nil), http.StatusBadRequest, "invalid_limit")

	expectStatus(t, server.do(t, http.MethodPost, base+"/approuver", librarianToken, nil), http.StatusOK, "")

	rr = server.do(t, http.MethodGet, "/auth/moi", alice, nil)
	expectStatus(t, rr, http.StatusOK, "")
	var me identityhttp.CallerResponse
	decodeBody(t, rr, &me)
	if !strings.Contains(strings.Join(me.Roles, ","), string(workflow.RoleLibrarian)) {
		t.Fatalf("expected approval to grant the librarian role, got %v", me.Roles)
	}
	expectStatus(t, server.do(t, http.MethodGet, "/demandes/statistiques", alice, nil), http.StatusOK, "")
}

func TestMalformedBodies(t *testing.T) {
	server := newTestServer(t)
	alice := server.member(t, "alice@bibliotheque.test")

	req := httptest.NewRequest(http.MethodPost, "/demandes/soumettre", strings.NewReader("{"))
	req.Header.Set("Authorization", "Bearer "+alice)
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	expectStatus(t, rr, http.StatusBadRequest, "invalid_json")

	expectStatus(t, server.do(t, http.MethodPost, "/demandes/soumettre", alice, map[string]string{"motivation": "0123456789", "extra": "x"}),
		http.StatusBadRequest, "invalid_json")
}

func TestSwaggerDocIsServed(t *testing.T) {
	server := newTestServer(t)
	rr := server.do(t, http.MethodGet, "/swagger/doc.json", "", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "/emprunts/emprunter") {
		t.Fatalf("expected swagger document, got %d", rr.Code)
	}
}
