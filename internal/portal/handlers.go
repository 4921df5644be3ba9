package portal

import (
	"bytes"
	"context"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ziadkadry99/arcade/internal/activity"
	"github.com/ziadkadry99/arcade/internal/catalog"
	"github.com/ziadkadry99/arcade/internal/embed"
	"github.com/ziadkadry99/arcade/internal/manifest"
)

func (p *Portal) handleIndex(w http.ResponseWriter, r *http.Request) {
	state := catalog.FromURL(r.URL.Query())

	view := indexView{
		Page:  p.page(state.InputValue),
		Tabs:  p.tabs(state),
		Tip:   Tip,
		Query: state.SearchQuery,
	}

	games, err := p.source.Load(r.Context())
	if err != nil {
		// No stale cards next to an error: the grid is replaced entirely.
		view.Error = manifest.Message(err)
	} else {
		view.Games = p.cards(state.Visible(games), games)
		view.Empty = len(view.Games) == 0
	}

	p.render(w, http.StatusOK, "index", view)
}

// handleSearch commits the search field. A blank submission clears the
// query and returns to the unfiltered catalog.
func (p *Portal) handleSearch(w http.ResponseWriter, r *http.Request) {
	state := catalog.NewState().Type(r.URL.Query().Get("q")).Submit()
	if state.Searching() {
		p.record(r, activity.Entry{Action: activity.ActionSearch, Query: state.SearchQuery})
	}
	http.Redirect(w, r, state.Path(p.opts.BasePath), http.StatusSeeOther)
}

// handleTab handles a category click. Filter tabs clear the search; the
// random tab launches a game picked from the full list instead.
func (p *Portal) handleTab(w http.ResponseWriter, r *http.Request) {
	current := catalog.FromURL(r.URL.Query())
	id := catalog.Category(strings.ToLower(chi.URLParam(r, "id")))

	next, cmd := current.SelectTab(id)
	if cmd != catalog.CommandRandom {
		if next != current {
			p.record(r, activity.Entry{Action: activity.ActionTab, Category: string(next.ActiveCategory)})
		}
		http.Redirect(w, r, next.Path(p.opts.BasePath), http.StatusSeeOther)
		return
	}

	games, err := p.source.Load(r.Context())
	if err != nil {
		p.logger.Warn("random pick: manifest unavailable", zap.Error(err))
		http.Redirect(w, r, current.Path(p.opts.BasePath), http.StatusSeeOther)
		return
	}
	game, ok := p.pick(games)
	if !ok || game.URL == "" {
		http.Redirect(w, r, current.Path(p.opts.BasePath), http.StatusSeeOther)
		return
	}

	target := p.href(game.URL)
	p.record(r, activity.Entry{Action: activity.ActionRandom, GameID: game.ID, GameURL: target})
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// handlePlay navigates to a record's url.
func (p *Portal) handlePlay(w http.ResponseWriter, r *http.Request) {
	games, err := p.source.Load(r.Context())
	if err != nil {
		p.renderError(w, http.StatusBadGateway, manifest.Message(err))
		return
	}

	game, ok := catalog.FindByID(games, chi.URLParam(r, "id"))
	if !ok || strings.TrimSpace(game.URL) == "" {
		p.handleNotFound(w, r)
		return
	}

	target := p.href(game.URL)
	p.record(r, activity.Entry{Action: activity.ActionPlay, GameID: game.ID, GameURL: target})
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// handleEmbed renders the host page for one game route. If the embedded
// page refuses to be framed the frame stays blank; nothing detects it.
func (p *Portal) handleEmbed(route embed.Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		title := route.Title
		if title == "" {
			title = strings.TrimPrefix(route.Path, "/")
		}
		view := embedView{
			Page:        p.page(""),
			Title:       title,
			Src:         p.href(route.EmbedURL),
			Allow:       p.opts.Frame.AllowAttr(),
			FullScreen:  p.opts.Frame.AllowFullScreen,
			Loading:     p.opts.Frame.Loading,
			FrameHeight: template.CSS(p.opts.Frame.HeightExpr()),
		}
		p.render(w, http.StatusOK, "embed", view)
	}
}

func (p *Portal) handleNotFound(w http.ResponseWriter, r *http.Request) {
	view := notFoundView{Page: p.page(""), Path: r.URL.Path}
	p.render(w, http.StatusNotFound, "notfound", view)
}

func (p *Portal) renderError(w http.ResponseWriter, status int, msg string) {
	view := notFoundView{Page: p.page(""), Error: msg}
	p.render(w, status, "notfound", view)
}

// render executes a page template into a buffer so a template failure
// never leaves a half-written page.
func (p *Portal) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		p.logger.Error("rendering page", zap.String("template", name), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (p *Portal) record(r *http.Request, entry activity.Entry) {
	if p.opts.Recorder == nil {
		return
	}
	entry.RequestID = middleware.GetReqID(r.Context())
	entry.RemoteAddr = r.RemoteAddr
	// Record even when the client has already gone away.
	ctx := context.WithoutCancel(r.Context())
	if err := p.opts.Recorder.Log(ctx, entry); err != nil {
		p.logger.Warn("recording activity", zap.String("action", string(entry.Action)), zap.Error(err))
	}
}
