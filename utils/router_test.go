package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthRoute(t *testing.T) {
	router := NewRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != `{"status":"ok"}` {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestWithCORSAnswersPreflight(t *testing.T) {
	handler := WithCORS(NewRouter(), []string{"http://localhost:4200"})

	req := httptest.NewRequest(http.MethodOptions, "/health", nil)
	req.Header.Set("Origin", "http://localhost:4200")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:4200" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no CORS header for unknown origin, got %q", got)
	}
}

func TestRequireAPIKey(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	tests := []struct {
		name   string
		key    string
		header map[string]string
		method string
		want   int
	}{
		{name: "disabled", key: "", method: http.MethodGet, want: http.StatusNoContent},
		{name: "missing", key: "k", method: http.MethodGet, want: http.StatusUnauthorized},
		{name: "bearer", key: "k", method: http.MethodGet, header: map[string]string{"Authorization": "Bearer k"}, want: http.StatusNoContent},
		{name: "header", key: "k", method: http.MethodPost, header: map[string]string{"X-API-Key": "k"}, want: http.StatusNoContent},
		{name: "wrong", key: "k", method: http.MethodGet, header: map[string]string{"X-API-Key": "nope"}, want: http.StatusUnauthorized},
		{name: "preflight", key: "k", method: http.MethodOptions, want: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/todos", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			RequireAPIKey(tt.key)(ok).ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestGenerateAPIKey(t *testing.T) {
	a, err := GenerateAPIKey()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := GenerateAPIKey()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(a) != 43 || a == b {
		t.Fatalf("unexpected keys %q %q", a, b)
	}
}
