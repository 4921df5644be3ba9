package portal

import (
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// localHandler serves self-hosted game files. Only paths matching an
// include pattern and no exclude pattern are visible; directory listings
// are never served.
type localHandler struct {
	files   http.Handler
	include []string
	exclude []string
}

func newLocalHandler(dir string, include, exclude []string) http.Handler {
	return &localHandler{
		files:   http.FileServer(noListingFS{http.Dir(dir)}),
		include: include,
		exclude: exclude,
	}
}

func (h *localHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	target := rel
	if strings.HasSuffix(r.URL.Path, "/") {
		target = path.Join(rel, "index.html")
	}
	if rel == "" || !h.allowed(target) {
		http.NotFound(w, r)
		return
	}
	h.files.ServeHTTP(w, r)
}

func (h *localHandler) allowed(rel string) bool {
	return matchesInclude(rel, h.include) && !matchesExclude(rel, h.exclude)
}

// matchesInclude returns true if rel matches any include pattern. If
// patterns is empty, everything is included.
func matchesInclude(rel string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	return matchesAny(rel, patterns)
}

// matchesExclude returns true if rel matches any exclude pattern.
func matchesExclude(rel string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	return matchesAny(rel, patterns)
}

// matchesAny checks rel, and its base name, against doublestar patterns.
func matchesAny(rel string, patterns []string) bool {
	base := path.Base(rel)
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}

// noListingFS hides directories that have no index.html.
type noListingFS struct {
	fs http.FileSystem
}

func (n noListingFS) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if st.IsDir() {
		idx, err := n.fs.Open(path.Join(name, "index.html"))
		if err != nil {
			f.Close()
			return nil, os.ErrNotExist
		}
		idx.Close()
	}
	return f, nil
}
