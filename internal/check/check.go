// Package check probes game pages to find the ones that refuse to be
// embedded. The portal itself never detects a refused frame; this is the
// offline diagnostic for it.
package check

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/arcade/internal/catalog"
	"github.com/ziadkadry99/arcade/internal/embed"
	"github.com/ziadkadry99/arcade/internal/progress"
)

// Kind tells where a target came from.
type Kind string

const (
	KindRoute Kind = "route"
	KindGame  Kind = "game"
)

// Target is one page to probe.
type Target struct {
	Kind Kind
	Name string
	URL  string
}

// Result is the outcome of probing one target.
type Result struct {
	Target    Target
	Status    int
	Title     string
	Frameable bool
	// Reason explains a refusal, e.g. "X-Frame-Options: DENY".
	Reason  string
	Err     error
	Elapsed time.Duration
}

// OK reports whether the page loaded and may be framed.
func (r Result) OK() bool {
	return r.Err == nil && r.Status >= 200 && r.Status < 300 && r.Frameable
}

// Targets collects the embed URLs of routes and the external urls of
// games. Local pages are served by this site and skipped. Each URL is
// probed once.
func Targets(routes []embed.Route, games []catalog.Game) []Target {
	seen := make(map[string]bool)
	var out []Target
	add := func(t Target) {
		if seen[t.URL] {
			return
		}
		seen[t.URL] = true
		out = append(out, t)
	}
	for _, r := range routes {
		if r.IsLocal() || !isHTTP(r.EmbedURL) {
			continue
		}
		name := r.Title
		if name == "" {
			name = r.Path
		}
		add(Target{Kind: KindRoute, Name: name, URL: r.EmbedURL})
	}
	for _, g := range games {
		if !g.IsExternal() {
			continue
		}
		add(Target{Kind: KindGame, Name: g.Title, URL: g.URL})
	}
	return out
}

// Runner probes targets concurrently.
type Runner struct {
	client      *http.Client
	concurrency int
	logger      *zap.Logger
	reporter    progress.Reporter
}

// Option configures a Runner.
type Option func(*Runner)

// WithHTTPClient sets the client used for probes.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Runner) { r.client = c }
}

// WithConcurrency bounds the number of probes in flight.
func WithConcurrency(n int) Option {
	return func(r *Runner) { r.concurrency = n }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithReporter sets the progress reporter.
func WithReporter(rep progress.Reporter) Option {
	return func(r *Runner) { r.reporter = rep }
}

// NewRunner creates a Runner with a 10 second per-probe timeout and four
// probes in flight.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		client:      &http.Client{Timeout: 10 * time.Second},
		concurrency: 4,
		logger:      zap.NewNop(),
		reporter:    progress.Nop{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.concurrency < 1 {
		r.concurrency = 1
	}
	return r
}

// Run probes every target and returns results in target order. A probe
// failure is recorded in its Result; only context cancellation stops the
// run early.
func (r *Runner) Run(ctx context.Context, targets []Target) ([]Result, error) {
	results := make([]Result, len(targets))

	r.reporter.Start(len(targets))
	defer r.reporter.Finish()

	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, t := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.probe(gctx, t)

			mu.Lock()
			done++
			r.reporter.Update(done, t.URL)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

func (r *Runner) probe(ctx context.Context, t Target) (res Result) {
	start := time.Now()
	res.Target = t
	defer func() { res.Elapsed = time.Since(start) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.URL, nil)
	if err != nil {
		res.Err = fmt.Errorf("building request: %w", err)
		return res
	}
	req.Header.Set("Accept", "text/html")
	req.Header.Set("Sec-Fetch-Dest", "iframe")

	resp, err := r.client.Do(req)
	if err != nil {
		res.Err = fmt.Errorf("fetching %s: %w", t.URL, err)
		r.logger.Debug("probe failed", zap.String("url", t.URL), zap.Error(err))
		return res
	}
	defer resp.Body.Close()

	res.Status = resp.StatusCode
	res.Frameable, res.Reason = Frameable(resp.Header)

	if strings.Contains(resp.Header.Get("Content-Type"), "html") {
		res.Title = pageTitle(io.LimitReader(resp.Body, 1<<20))
	}
	r.logger.Debug("probed",
		zap.String("url", t.URL),
		zap.Int("status", res.Status),
		zap.Bool("frameable", res.Frameable),
	)
	return res
}

// Frameable inspects response headers for framing refusals. Only
// cross-origin embedding matters here, so SAMEORIGIN and 'self' refuse
// too.
func Frameable(h http.Header) (bool, string) {
	if xfo := strings.TrimSpace(h.Get("X-Frame-Options")); xfo != "" {
		switch strings.ToUpper(xfo) {
		case "DENY", "SAMEORIGIN":
			return false, "X-Frame-Options: " + xfo
		}
	}
	for _, csp := range h.Values("Content-Security-Policy") {
		for _, directive := range strings.Split(csp, ";") {
			fields := strings.Fields(strings.TrimSpace(directive))
			if len(fields) == 0 || !strings.EqualFold(fields[0], "frame-ancestors") {
				continue
			}
			if frameAncestorsRefuse(fields[1:]) {
				return false, "CSP " + strings.Join(fields, " ")
			}
		}
	}
	return true, ""
}

func frameAncestorsRefuse(sources []string) bool {
	if len(sources) == 0 {
		return true
	}
	for _, s := range sources {
		switch strings.ToLower(s) {
		case "'none'", "'self'":
			continue
		default:
			// Any wildcard or host source may admit the portal.
			return false
		}
	}
	return true
}

func pageTitle(body io.Reader) string {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
}

func isHTTP(u string) bool {
	l := strings.ToLower(u)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}
