package check

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ziadkadry99/arcade/internal/catalog"
	"github.com/ziadkadry99/arcade/internal/embed"
)

func TestFrameable(t *testing.T) {
	tests := []struct {
		name   string
		header http.Header
		want   bool
	}{
		{"no headers", http.Header{}, true},
		{"xfo deny", http.Header{"X-Frame-Options": {"DENY"}}, false},
		{"xfo sameorigin", http.Header{"X-Frame-Options": {"sameorigin"}}, false},
		{"csp none", http.Header{"Content-Security-Policy": {"default-src *; frame-ancestors 'none'"}}, false},
		{"csp self", http.Header{"Content-Security-Policy": {"frame-ancestors 'self'"}}, false},
		{"csp wildcard", http.Header{"Content-Security-Policy": {"frame-ancestors *"}}, true},
		{"csp host", http.Header{"Content-Security-Policy": {"frame-ancestors 'self' https://arcade.example"}}, true},
		{"csp without frame-ancestors", http.Header{"Content-Security-Policy": {"script-src 'self'"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := Frameable(tt.header)
			if got != tt.want {
				t.Errorf("Frameable = %v (%q), want %v", got, reason, tt.want)
			}
			if !got && reason == "" {
				t.Error("expected a reason for a refusal")
			}
		})
	}
}

func TestTargets(t *testing.T) {
	routes := []embed.Route{
		{Path: "/Car", Title: "Car", EmbedURL: "https://games.example/car/"},
		{Path: "/Local", EmbedURL: "/local/maze/"},
	}
	games := []catalog.Game{
		{Title: "Car again", URL: "https://games.example/car/"},
		{Title: "Chess", URL: "https://chess.example/"},
		{Title: "In site", URL: "/Car"},
	}

	got := Targets(routes, games)
	want := []Target{
		{Kind: KindRoute, Name: "Car", URL: "https://games.example/car/"},
		{Kind: KindGame, Name: "Chess", URL: "https://chess.example/"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Targets mismatch (-want +got):\n%s", diff)
	}
}

func TestRunnerProbes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/open", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><head><title>  Open\n Game </title></head></html>"))
	})
	mux.HandleFunc("/denied", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<title>Denied</title>"))
	})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	targets := []Target{
		{Kind: KindGame, Name: "open", URL: srv.URL + "/open"},
		{Kind: KindGame, Name: "denied", URL: srv.URL + "/denied"},
		{Kind: KindGame, Name: "gone", URL: srv.URL + "/gone"},
		{Kind: KindGame, Name: "bad", URL: "http://127.0.0.1:1/unreachable"},
	}

	results, err := NewRunner(WithConcurrency(2), WithHTTPClient(srv.Client())).Run(t.Context(), targets)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != len(targets) {
		t.Fatalf("expected %d results, got %d", len(targets), len(results))
	}

	if r := results[0]; !r.OK() || r.Title != "Open Game" {
		t.Errorf("open: unexpected result %+v", r)
	}
	if r := results[1]; r.OK() || r.Frameable || r.Reason != "X-Frame-Options: DENY" || r.Title != "Denied" {
		t.Errorf("denied: unexpected result %+v", r)
	}
	if r := results[2]; r.OK() || r.Status != http.StatusNotFound {
		t.Errorf("gone: unexpected result %+v", r)
	}
	if r := results[3]; r.Err == nil {
		t.Errorf("bad: expected an error, got %+v", r)
	}
	for i, r := range results {
		if r.Target != targets[i] {
			t.Errorf("result %d out of order: %+v", i, r.Target)
		}
	}
}

func TestRunnerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := NewRunner().Run(ctx, []Target{{URL: "http://127.0.0.1:1/"}})
	if err == nil {
		t.Error("expected cancellation error")
	}
}
