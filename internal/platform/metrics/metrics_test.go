package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	contractsv1 "bibliotheque/contracts/gen/events/v1"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareLabelsByPattern(t *testing.T) {
	m := New()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /emprunts/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	handler := m.Middleware(mux)

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/emprunts/"+id, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	require.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET /emprunts/{id}", "404")))
}

func TestLoanStatusesAndEvents(t *testing.T) {
	m := New()
	m.SetLoanStatuses(map[string]int{"on_time": 3, "overdue": 1})
	m.SetLoanStatuses(map[string]int{"overdue": 2})

	require.Equal(t, 2.0, testutil.ToFloat64(m.loanStatus.WithLabelValues("overdue")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.sweeps))

	require.NoError(t, m.ObserveEvent(context.Background(), contractsv1.Envelope{EventType: "loan.borrowed"}))
	require.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues("loan.borrowed")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), `bibliotheque_open_loans{status="overdue"} 2`))
	require.False(t, strings.Contains(string(body), `status="on_time"`))
}
