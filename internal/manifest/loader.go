package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/arcade/internal/catalog"
)

// FileName is the canonical manifest name.
const FileName = "games.json"

// maxBody bounds how much of the manifest is read.
const maxBody = 8 << 20

// NormalizePath rewrites any case variant of the games.json name
// (for example games.JSON) to the canonical spelling.
func NormalizePath(p string) string {
	dir, base := path.Split(p)
	if strings.EqualFold(base, FileName) && base != FileName {
		return dir + FileName
	}
	return p
}

// IsRemote reports whether source is fetched over HTTP.
func IsRemote(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Loader reads the game manifest. Every call performs a fresh read; there
// is no cache and no retry.
type Loader struct {
	source string
	client *http.Client
	logger *zap.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient sets the client used for remote sources.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) { l.client = c }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a Loader for a file path or http(s) URL.
func NewLoader(source string, opts ...Option) *Loader {
	l := &Loader{
		source: NormalizePath(source),
		client: &http.Client{Timeout: 15 * time.Second},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Source returns the normalized manifest location.
func (l *Loader) Source() string { return l.source }

// Load fetches and decodes the manifest. If ctx is cancelled before the
// fetch resolves, the result is discarded and ctx.Err() is returned.
func (l *Loader) Load(ctx context.Context) ([]catalog.Game, error) {
	data, err := l.Raw(ctx)
	if err != nil {
		return nil, err
	}
	games, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.logger.Debug("manifest loaded", zap.String("source", l.source), zap.Int("games", len(games)))
	return games, nil
}

// Raw returns the manifest bytes after the status and content type checks.
func (l *Loader) Raw(ctx context.Context) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if IsRemote(l.source) {
		data, err = l.fetch(ctx)
	} else {
		data, err = l.read()
	}
	if err != nil {
		l.logger.Warn("manifest load failed", zap.String("source", l.source), zap.Error(err))
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return data, nil
}

func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
	if err != nil {
		return nil, fmt.Errorf("building manifest request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := l.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("fetching %s: %w", l.source, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", l.source, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Name: path.Base(l.source), Code: resp.StatusCode, Snippet: snippet(body, 100)}
	}
	ct := resp.Header.Get("Content-Type")
	if !strings.Contains(ct, "application/json") {
		return nil, &ContentTypeError{Got: ct, Snippet: snippet(body, 120)}
	}
	return body, nil
}

func (l *Loader) read() ([]byte, error) {
	f, err := os.Open(l.source)
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBody))
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return data, nil
}

// Decode parses a manifest body. The top level must be a JSON array;
// individual records are decoded leniently.
func Decode(data []byte) ([]catalog.Game, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &DecodeError{Err: fmt.Errorf("expected a JSON array")}
	}
	var games []catalog.Game
	if err := json.Unmarshal(trimmed, &games); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if games == nil {
		games = []catalog.Game{}
	}
	return games, nil
}

func snippet(body []byte, n int) string {
	r := []rune(string(body))
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}
