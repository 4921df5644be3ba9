package activity

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/arcade/internal/db"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestLogAndGetByID(t *testing.T) {
	store := setupStore(t)
	ctx := t.Context()

	entry := Entry{
		ID:         "test-1",
		Action:     ActionPlay,
		GameID:     "car",
		GameURL:    "/SuperCarDriving",
		RequestID:  "req-1",
		RemoteAddr: "10.0.0.1",
	}
	if err := store.Log(ctx, entry); err != nil {
		t.Fatalf("Log: %v", err)
	}

	got, err := store.GetByID(ctx, "test-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Action != ActionPlay {
		t.Errorf("Action = %q, want %q", got.Action, ActionPlay)
	}
	if got.GameURL != "/SuperCarDriving" {
		t.Errorf("GameURL = %q", got.GameURL)
	}
	if got.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}

	if _, err := store.GetByID(ctx, "missing"); err == nil {
		t.Error("expected error for missing entry")
	}
}

func TestLogGeneratesUUIDAndRejectsUnknownAction(t *testing.T) {
	store := setupStore(t)
	ctx := t.Context()

	if err := store.Log(ctx, Entry{Action: ActionSearch, Query: "puzzle"}); err != nil {
		t.Fatalf("Log: %v", err)
	}
	entries, err := store.Query(ctx, QueryFilter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(entries) != 1 || len(entries[0].ID) != 36 {
		t.Fatalf("expected one entry with a UUID, got %+v", entries)
	}

	if err := store.Log(ctx, Entry{Action: "dance"}); err == nil {
		t.Error("expected error for unknown action")
	}
}

func TestQueryFilters(t *testing.T) {
	store := setupStore(t)
	ctx := t.Context()

	old := time.Now().Add(-48 * time.Hour)
	seed := []Entry{
		{Action: ActionPlay, GameID: "a", Timestamp: old},
		{Action: ActionPlay, GameID: "b"},
		{Action: ActionRandom, GameID: "a"},
		{Action: ActionTab, Category: "math"},
		{Action: ActionSearch, Query: "puz"},
	}
	for _, e := range seed {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	plays, err := store.Query(ctx, QueryFilter{Action: ActionPlay})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(plays) != 2 {
		t.Errorf("expected 2 plays, got %d", len(plays))
	}

	forA, _ := store.Query(ctx, QueryFilter{GameID: "a"})
	if len(forA) != 2 {
		t.Errorf("expected 2 entries for game a, got %d", len(forA))
	}

	since := time.Now().Add(-time.Hour)
	recent, _ := store.Query(ctx, QueryFilter{Since: &since})
	if len(recent) != 4 {
		t.Errorf("expected 4 recent entries, got %d", len(recent))
	}

	page, _ := store.Query(ctx, QueryFilter{Limit: 2, Offset: 1})
	if len(page) != 2 {
		t.Errorf("expected page of 2, got %d", len(page))
	}
	tail, _ := store.Query(ctx, QueryFilter{Offset: 3})
	if len(tail) != 2 {
		t.Errorf("expected 2 entries after offset 3, got %d", len(tail))
	}

	counts, err := store.CountByGame(ctx, 0)
	if err != nil {
		t.Fatalf("CountByGame: %v", err)
	}
	if len(counts) != 2 || counts[0].GameID != "a" || counts[0].Count != 2 {
		t.Errorf("unexpected counts %+v", counts)
	}

	n, err := store.DeleteBefore(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteBefore: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deleted row, got %d", n)
	}
}

func TestRoutes(t *testing.T) {
	store := setupStore(t)
	ctx := t.Context()
	store.Log(ctx, Entry{ID: "e1", Action: ActionPlay, GameID: "a"})
	store.Log(ctx, Entry{ID: "e2", Action: ActionTab, Category: "fun"})

	r := chi.NewRouter()
	RegisterRoutes(r, store)

	req := httptest.NewRequest(http.MethodGet, "/api/activity/?action=play", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var entries []Entry
	if err := json.NewDecoder(w.Body).Decode(&entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "e1" {
		t.Errorf("unexpected entries %+v", entries)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/activity/?action=bogus", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown action, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/activity/e2", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/activity/nope", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/activity/top", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var counts []GameCount
	if err := json.NewDecoder(w.Body).Decode(&counts); err != nil {
		t.Fatalf("decode top: %v", err)
	}
	if len(counts) != 1 || counts[0].GameID != "a" {
		t.Errorf("unexpected top %+v", counts)
	}
}
