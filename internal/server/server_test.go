package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthCheck(t *testing.T) {
	srv := New(Config{Port: 0}, nil)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := New(Config{Port: 0, AllowAll: true}, nil)

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestSiteMountedAtBasePath(t *testing.T) {
	srv := New(Config{BasePath: "/arcade/"}, nil)
	srv.Site().Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("catalog"))
	})
	srv.Handle("/ws/capslock", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/arcade/", nil))
	if w.Code != http.StatusOK || w.Body.String() != "catalog" {
		t.Errorf("expected catalog under base path, got %d %q", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/arcade/ws/capslock", nil))
	if w.Code != http.StatusTeapot {
		t.Errorf("expected direct handler, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected health check outside the base path, got %d", w.Code)
	}
}

func TestSiteAtRoot(t *testing.T) {
	srv := New(Config{}, nil)
	if srv.BasePath() != "/" {
		t.Fatalf("expected default base path /, got %q", srv.BasePath())
	}
	srv.Site().Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("catalog"))
	})

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	if w.Body.String() != "catalog" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}
