package converter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bibliotheque/contexts/catalogue-moderation/work-service/ports"
	"bibliotheque/kernel/workflow"
)

func TestHTTPConverterSendsDocumentAndOptions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/convert" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.URL.Query().Get("lang") != "fra" || r.URL.Query().Get("dpi") != "300" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.NewEncoder(w).Encode(map[string]string{"markdown": "# " + string(body)})
	}))
	defer server.Close()

	converter, err := NewHTTPConverter(Options{BaseURL: server.URL, Timeout: time.Second})
	if err != nil {
		t.Fatalf("new converter: %v", err)
	}
	markdown, err := converter.Convert(context.Background(), []byte("scan"), ports.ConversionOptions{DPI: 300, Language: "fra"})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if markdown != "# scan" {
		t.Fatalf("unexpected markdown %q", markdown)
	}
}

func TestHTTPConverterMapsFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	converter, err := NewHTTPConverter(Options{BaseURL: server.URL, Timeout: time.Second})
	if err != nil {
		t.Fatalf("new converter: %v", err)
	}
	_, err = converter.Convert(context.Background(), []byte("scan"), ports.ConversionOptions{})
	if !errors.Is(err, workflow.ErrConversionFailed) {
		t.Fatalf("expected conversion failure, got %v", err)
	}

	if _, err := (Unavailable{}).Convert(context.Background(), nil, ports.ConversionOptions{}); !errors.Is(err, workflow.ErrConversionFailed) {
		t.Fatalf("expected unavailable converter to fail, got %v", err)
	}
}

func TestNewHTTPConverterRejectsBadURL(t *testing.T) {
	if _, err := NewHTTPConverter(Options{BaseURL: "not a url"}); err == nil {
		t.Fatalf("expected url validation error")
	}
}
