// Package embed describes the per-game host pages: a persistent header
// above an iframe that fills the rest of the viewport.
package embed

import (
	"fmt"
	"strconv"
	"strings"
)

// Defaults for the frame area.
const (
	DefaultGapRem           = 0.75
	DefaultFallbackHeaderPx = 64
	// HeaderVar is the CSS custom property the page script keeps in sync
	// with the measured header height.
	HeaderVar = "--header-h"
)

// DefaultAllow is the permissions list most hosted games need.
var DefaultAllow = []string{
	"fullscreen *",
	"gamepad *",
	"autoplay",
	"clipboard-read",
	"clipboard-write",
}

// Route maps an in-site path to an embedded game page.
type Route struct {
	Path     string `yaml:"path" koanf:"path"`
	Title    string `yaml:"title" koanf:"title"`
	EmbedURL string `yaml:"embed_url" koanf:"embed_url"`
}

// Validate checks that the route can be mounted.
func (r Route) Validate() error {
	if !strings.HasPrefix(r.Path, "/") {
		return fmt.Errorf("route path %q must start with /", r.Path)
	}
	if r.Path == "/" {
		return fmt.Errorf("route path / is reserved for the catalog")
	}
	if strings.TrimSpace(r.EmbedURL) == "" {
		return fmt.Errorf("route %s has no embed_url", r.Path)
	}
	return nil
}

// IsLocal reports whether the embedded page is served by this site.
func (r Route) IsLocal() bool {
	return strings.HasPrefix(r.EmbedURL, "/")
}

// Frame holds the iframe settings shared by every host page.
type Frame struct {
	Allow            []string
	AllowFullScreen  bool
	Loading          string
	GapRem           float64
	FallbackHeaderPx int
}

// DefaultFrame returns the standard frame settings.
func DefaultFrame() Frame {
	return Frame{
		Allow:            DefaultAllow,
		AllowFullScreen:  true,
		Loading:          "eager",
		GapRem:           DefaultGapRem,
		FallbackHeaderPx: DefaultFallbackHeaderPx,
	}
}

// HeightExpr returns the CSS height of the game area: the small viewport
// height minus the measured header and a gap. svh keeps the value stable
// while mobile browser chrome shows and hides.
func (f Frame) HeightExpr() string {
	gap := f.GapRem
	if gap < 0 {
		gap = 0
	}
	fallback := f.FallbackHeaderPx
	if fallback <= 0 {
		fallback = DefaultFallbackHeaderPx
	}
	return fmt.Sprintf("calc(100svh - var(%s, %dpx) - %srem)",
		HeaderVar, fallback, strconv.FormatFloat(gap, 'f', -1, 64))
}

// AllowAttr renders the iframe allow attribute.
func (f Frame) AllowAttr() string {
	return strings.Join(f.Allow, "; ")
}
