package manifest

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/arcade/internal/catalog"
)

// Issue is a problem found in a decoded manifest. None of them stop the
// portal from serving; they explain odd catalog behaviour.
type Issue struct {
	Index int    `json:"index"`
	ID    string `json:"id,omitempty"`
	Msg   string `json:"message"`
}

func (i Issue) String() string {
	if i.ID != "" {
		return fmt.Sprintf("#%d (%s): %s", i.Index, i.ID, i.Msg)
	}
	return fmt.Sprintf("#%d: %s", i.Index, i.Msg)
}

// Lint reports records with a missing id, title or url, an unknown
// category, and ids used more than once.
func Lint(games []catalog.Game) []Issue {
	var issues []Issue
	first := make(map[string]int)
	for i, g := range games {
		add := func(msg string) {
			issues = append(issues, Issue{Index: i, ID: g.ID, Msg: msg})
		}
		if strings.TrimSpace(g.ID) == "" {
			add("missing id; the card links to its url directly")
		} else if j, ok := first[g.ID]; ok {
			add(fmt.Sprintf("duplicate id, first used by #%d", j))
		} else {
			first[g.ID] = i
		}
		if strings.TrimSpace(g.Title) == "" {
			add("missing title")
		}
		if strings.TrimSpace(g.URL) == "" {
			add("missing url; the game cannot be launched")
		}
		switch {
		case g.Category == "":
			add("missing category; only the All tab shows it")
		case !g.Category.Known():
			add(fmt.Sprintf("unknown category %q; only the All tab shows it", g.Category))
		}
	}
	return issues
}
