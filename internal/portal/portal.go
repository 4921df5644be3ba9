// Package portal serves the catalog page, the per-game host pages and the
// small JSON API the search bar uses.
package portal

import (
	"context"
	"html/template"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"github.com/ziadkadry99/arcade/internal/activity"
	"github.com/ziadkadry99/arcade/internal/catalog"
	"github.com/ziadkadry99/arcade/internal/embed"
)

// Tip is shown under the category bar.
const Tip = "Tip: Press 'Caps Lock' to hide the screen (works only when clicked out of game)"

// GameSource provides the manifest. Implementations must not cache: every
// page load sees the latest list.
type GameSource interface {
	Load(ctx context.Context) ([]catalog.Game, error)
	Raw(ctx context.Context) ([]byte, error)
}

// Options configures a Portal.
type Options struct {
	SiteName string
	Logo     string
	// BasePath is the mount point, with leading and trailing slash.
	BasePath string
	Routes   []embed.Route
	Frame    embed.Frame
	// LocalDir, when set, is served under /local/.
	LocalDir     string
	LocalInclude []string
	LocalExclude []string
	// Recorder receives interaction events; nil disables recording.
	Recorder activity.Recorder
	Logger   *zap.Logger
	// Rand drives the random tab; nil uses a randomly seeded source.
	Rand *rand.Rand
}

// Portal renders the catalog and launches games.
type Portal struct {
	opts   Options
	source GameSource
	logger *zap.Logger
	md     goldmark.Markdown
	tmpl   *template.Template

	rndMu sync.Mutex
	rnd   *rand.Rand
}

// New creates a Portal reading games from source.
func New(source GameSource, opts Options) (*Portal, error) {
	if opts.BasePath == "" {
		opts.BasePath = "/"
	}
	if opts.SiteName == "" {
		opts.SiteName = "Arcade"
	}
	if opts.Frame.Loading == "" {
		opts.Frame = embed.DefaultFrame()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	rnd := opts.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	return &Portal{
		opts:   opts,
		source: source,
		logger: logger,
		md:     newMarkdown(),
		tmpl:   tmpl,
		rnd:    rnd,
	}, nil
}

// RegisterRoutes mounts the portal onto r. Paths are relative to the
// base path the router is mounted at.
func (p *Portal) RegisterRoutes(r chi.Router) {
	r.Get("/", p.handleIndex)
	r.Get("/search", p.handleSearch)
	r.Get("/tab/{id}", p.handleTab)
	r.Get("/play/{id}", p.handlePlay)

	r.Get("/games.json", p.handleManifest)
	r.Get("/api/games", p.handleGames)
	r.Get("/api/suggest", p.handleSuggest)

	r.Handle("/static/*", http.StripPrefix(strings.TrimSuffix(p.opts.BasePath, "/")+"/static/", staticHandler()))

	for _, route := range p.opts.Routes {
		r.Get(route.Path, p.handleEmbed(route))
	}

	if p.opts.LocalDir != "" {
		r.Handle("/local/*", http.StripPrefix(strings.TrimSuffix(p.opts.BasePath, "/")+"/local/",
			newLocalHandler(p.opts.LocalDir, p.opts.LocalInclude, p.opts.LocalExclude)))
	}

	r.NotFound(p.handleNotFound)
}

// href resolves a manifest url or in-site path against the base path.
// Absolute http(s) addresses are returned unchanged.
func (p *Portal) href(target string) string {
	lower := strings.ToLower(target)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(target, "//") {
		return target
	}
	return p.opts.BasePath + strings.TrimPrefix(target, "/")
}

func (p *Portal) pick(games []catalog.Game) (catalog.Game, bool) {
	p.rndMu.Lock()
	defer p.rndMu.Unlock()
	return catalog.Pick(games, p.rnd)
}
