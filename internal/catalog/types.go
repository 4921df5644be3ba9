package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Category identifies a catalog tab. The manifest uses the closed set
// math, reading, science, fun and random; "all" is the tab sentinel.
type Category string

const (
	CategoryAll     Category = "all"
	CategoryMath    Category = "math"
	CategoryReading Category = "reading"
	CategoryScience Category = "science"
	CategoryFun     Category = "fun"
	CategoryRandom  Category = "random"
)

// DefaultRating is shown when a record carries no usable rating.
const DefaultRating = 4.5

// Tab is one entry of the category bar.
type Tab struct {
	ID   Category
	Name string
}

var tabs = []Tab{
	{ID: CategoryAll, Name: "All"},
	{ID: CategoryMath, Name: "Math"},
	{ID: CategoryReading, Name: "Reading"},
	{ID: CategoryScience, Name: "Science"},
	{ID: CategoryFun, Name: "Fun"},
	{ID: CategoryRandom, Name: "Random"},
}

// Tabs returns the category bar in display order.
func Tabs() []Tab {
	out := make([]Tab, len(tabs))
	copy(out, tabs)
	return out
}

// IsFilter reports whether c narrows the grid. "random" is a command,
// not a filter, and unknown values are rejected.
func (c Category) IsFilter() bool {
	switch c {
	case CategoryAll, CategoryMath, CategoryReading, CategoryScience, CategoryFun:
		return true
	}
	return false
}

// Known reports whether c belongs to the manifest's closed category set.
func (c Category) Known() bool {
	switch c {
	case CategoryMath, CategoryReading, CategoryScience, CategoryFun, CategoryRandom:
		return true
	}
	return false
}

// Label returns the capitalized display form used on badges.
func (c Category) Label() string {
	if c == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(string(c))
	return strings.ToUpper(string(r)) + string(c[size:])
}

// Game is a single manifest record. Records are read-only; id uniqueness
// is assumed but never enforced.
type Game struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Image       string   `json:"image"`
	Rating      float64  `json:"rating"`
	URL         string   `json:"url"`
}

// UnmarshalJSON decodes a record leniently: scalars are coerced to
// strings, missing fields stay empty and an unusable rating falls back to
// DefaultRating. Only a non-object value is an error. The category is
// kept verbatim, so tab matching stays exact.
func (g *Game) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("game record is not an object: %w", err)
	}
	if raw == nil {
		*g = Game{Rating: DefaultRating}
		return nil
	}

	*g = Game{
		ID:          coerceString(raw["id"]),
		Title:       coerceString(raw["title"]),
		Description: coerceString(raw["description"]),
		Category:    Category(coerceString(raw["category"])),
		Image:       coerceString(raw["image"]),
		Rating:      coerceRating(raw["rating"]),
		URL:         coerceString(raw["url"]),
	}
	return nil
}

// IsExternal reports whether the record launches an absolute http(s) address
// rather than an in-site route.
func (g Game) IsExternal() bool {
	u := strings.ToLower(g.URL)
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}

// FormatRating renders the rating with one decimal place.
func (g Game) FormatRating() string {
	return strconv.FormatFloat(g.Rating, 'f', 1, 64)
}

func coerceString(msg json.RawMessage) string {
	if len(msg) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(msg, &v); err != nil {
		return ""
	}
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		// Objects and arrays keep their JSON text.
		return string(msg)
	}
}

func coerceRating(msg json.RawMessage) float64 {
	if len(msg) == 0 {
		return DefaultRating
	}
	var v any
	if err := json.Unmarshal(msg, &v); err != nil {
		return DefaultRating
	}
	switch t := v.(type) {
	case float64:
		return t
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f
		}
	}
	return DefaultRating
}
