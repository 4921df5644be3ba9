package portal

import (
	"encoding/json"
	"net/http"

	"github.com/ziadkadry99/arcade/internal/catalog"
	"github.com/ziadkadry99/arcade/internal/manifest"
)

// gamesResponse is the JSON response for /api/games.
type gamesResponse struct {
	ActiveCategory catalog.Category `json:"active_category"`
	Search         string           `json:"search,omitempty"`
	Games          []catalog.Game   `json:"games"`
}

// suggestion is one entry of the search bar popup.
type suggestion struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
	Image string `json:"image"`
	URL   string `json:"url"`
}

// handleManifest re-serves the manifest so the browser always sees the
// latest list.
func (p *Portal) handleManifest(w http.ResponseWriter, r *http.Request) {
	data, err := p.source.Raw(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": manifest.Message(err)})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (p *Portal) handleGames(w http.ResponseWriter, r *http.Request) {
	state := catalog.FromURL(r.URL.Query())

	games, err := p.source.Load(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": manifest.Message(err)})
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, gamesResponse{
		ActiveCategory: state.ActiveCategory,
		Search:         state.SearchQuery,
		Games:          state.Visible(games),
	})
}

func (p *Portal) handleSuggest(w http.ResponseWriter, r *http.Request) {
	games, err := p.source.Load(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": manifest.Message(err)})
		return
	}

	matches := catalog.Suggest(games, r.URL.Query().Get("q"), catalog.DefaultMinChars, catalog.DefaultMaxVisible)
	out := make([]suggestion, 0, len(matches))
	for _, g := range matches {
		out = append(out, suggestion{ID: g.ID, Title: g.Title, Image: g.Image, URL: p.href(g.URL)})
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
