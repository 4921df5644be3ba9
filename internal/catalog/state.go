package catalog

import (
	"net/url"
	"strings"
)

// URL query parameters owned by the catalog page.
const (
	ParamSearch   = "search"
	ParamCategory = "category"
)

// Command is a side effect requested by a state transition.
type Command int

const (
	CommandNone Command = iota
	// CommandRandom asks the caller to launch a randomly picked game.
	CommandRandom
)

// State is the catalog page's UI state. InputValue is what the search
// field shows; SearchQuery is the last submitted text and is what filters.
// A non-empty SearchQuery always pairs with the "all" tab.
type State struct {
	ActiveCategory Category
	InputValue     string
	SearchQuery    string
}

// NewState returns the initial state: the "all" tab and no query.
func NewState() State {
	return State{ActiveCategory: CategoryAll}
}

// FromURL derives the initial state from the page URL so shared links
// reproduce the filtered view. The search parameter wins over category.
func FromURL(v url.Values) State {
	s := NewState()
	q := strings.TrimSpace(v.Get(ParamSearch))
	if q != "" {
		s.InputValue = q
		s.SearchQuery = q
		return s
	}
	if c := Category(strings.ToLower(strings.TrimSpace(v.Get(ParamCategory)))); c.IsFilter() {
		s.ActiveCategory = c
	}
	return s
}

// Type records a keystroke. The grid does not change.
func (s State) Type(text string) State {
	s = s.normalized()
	s.InputValue = text
	return s
}

// Submit commits the typed text. An empty submission clears the query and
// the grid falls back to the category view of the "all" tab.
func (s State) Submit() State {
	s = s.normalized()
	s.SearchQuery = strings.TrimSpace(s.InputValue)
	s.ActiveCategory = CategoryAll
	return s
}

// SelectTab handles a click on a category tab. Filter tabs clear both
// search values. The random tab leaves the state untouched and returns
// CommandRandom instead. Unknown ids are ignored.
func (s State) SelectTab(id Category) (State, Command) {
	s = s.normalized()
	if id == CategoryRandom {
		return s, CommandRandom
	}
	if !id.IsFilter() {
		return s, CommandNone
	}
	s.ActiveCategory = id
	s.InputValue = ""
	s.SearchQuery = ""
	return s, CommandNone
}

// Searching reports whether a submitted query is filtering the grid.
func (s State) Searching() bool {
	return strings.TrimSpace(s.SearchQuery) != ""
}

// Values projects the state into URL query parameters. The search
// parameter is present only while a query is submitted.
func (s State) Values() url.Values {
	s = s.normalized()
	v := url.Values{}
	if s.Searching() {
		v.Set(ParamSearch, strings.TrimSpace(s.SearchQuery))
		return v
	}
	if s.ActiveCategory != CategoryAll {
		v.Set(ParamCategory, string(s.ActiveCategory))
	}
	return v
}

// Path returns the catalog location for this state under base, which must
// end in a slash.
func (s State) Path(base string) string {
	if enc := s.Values().Encode(); enc != "" {
		return base + "?" + enc
	}
	return base
}

// Visible applies the filter engine to games.
func (s State) Visible(games []Game) []Game {
	s = s.normalized()
	return Filter(games, s.ActiveCategory, s.SearchQuery)
}

func (s State) normalized() State {
	if !s.ActiveCategory.IsFilter() {
		s.ActiveCategory = CategoryAll
	}
	return s
}
