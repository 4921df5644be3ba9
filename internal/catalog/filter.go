package catalog

import (
	"math/rand/v2"
	"strings"
)

// Suggestion defaults match the search bar popup.
const (
	DefaultMinChars   = 1
	DefaultMaxVisible = 8
)

// Filter returns the visible subset of games. A non-empty query matches
// titles or descriptions by case-insensitive prefix and ignores the
// category; otherwise records are kept by category, or all of them for
// the "all" tab. Manifest order is preserved and games is not modified.
func Filter(games []Game, activeCategory Category, searchQuery string) []Game {
	q := normalizeQuery(searchQuery)
	out := make([]Game, 0, len(games))
	for _, g := range games {
		if q != "" {
			if hasPrefixFold(g.Title, q) || hasPrefixFold(g.Description, q) {
				out = append(out, g)
			}
			continue
		}
		if activeCategory == CategoryAll || g.Category == activeCategory {
			out = append(out, g)
		}
	}
	return out
}

// Suggest returns up to maxVisible games whose title starts with text.
// Nothing is suggested until text reaches minChars after trimming.
func Suggest(games []Game, text string, minChars, maxVisible int) []Game {
	if minChars <= 0 {
		minChars = DefaultMinChars
	}
	if maxVisible <= 0 {
		maxVisible = DefaultMaxVisible
	}
	q := normalizeQuery(text)
	if len([]rune(q)) < minChars {
		return nil
	}

	var out []Game
	for _, g := range games {
		if !hasPrefixFold(g.Title, q) {
			continue
		}
		out = append(out, g)
		if len(out) == maxVisible {
			break
		}
	}
	return out
}

// Pick chooses one game uniformly at random. It reports false for an
// empty list. A nil rnd uses the package-level generator.
func Pick(games []Game, rnd *rand.Rand) (Game, bool) {
	if len(games) == 0 {
		return Game{}, false
	}
	var i int
	if rnd != nil {
		i = rnd.IntN(len(games))
	} else {
		i = rand.IntN(len(games))
	}
	return games[i], true
}

// FindByID returns the first record with the given id.
func FindByID(games []Game, id string) (Game, bool) {
	for _, g := range games {
		if g.ID == id {
			return g, true
		}
	}
	return Game{}, false
}

// Duplicates lists ids that occur more than once, in first-seen order.
func Duplicates(games []Game) []string {
	seen := make(map[string]int, len(games))
	var dups []string
	for _, g := range games {
		seen[g.ID]++
		if seen[g.ID] == 2 {
			dups = append(dups, g.ID)
		}
	}
	return dups
}

func normalizeQuery(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// hasPrefixFold reports whether lower(s) starts with the already
// lower-cased prefix.
func hasPrefixFold(s, lowerPrefix string) bool {
	return strings.HasPrefix(strings.ToLower(s), lowerPrefix)
}
