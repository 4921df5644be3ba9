package portal

import (
	"bytes"
	"html/template"
	"net/url"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/ziadkadry99/arcade/internal/catalog"
)

// pageView carries what every page header needs.
type pageView struct {
	SiteName   string
	Logo       string
	Base       string
	InputValue string
}

type tabView struct {
	ID     catalog.Category
	Name   string
	Href   string
	Active bool
}

type cardView struct {
	ID            string
	Title         string
	Description   template.HTML
	Image         string
	Rating        string
	Category      catalog.Category
	CategoryLabel string
	PlayHref      string
	External      bool
}

type indexView struct {
	Page  pageView
	Tabs  []tabView
	Tip   string
	Query string
	Games []cardView
	Error string
	Empty bool
}

type embedView struct {
	Page        pageView
	Title       string
	Src         string
	Allow       string
	FullScreen  bool
	Loading     string
	FrameHeight template.CSS
}

type notFoundView struct {
	Page  pageView
	Path  string
	Error string
}

func (p *Portal) page(input string) pageView {
	logo := p.opts.Logo
	if logo != "" {
		logo = p.href(logo)
	}
	return pageView{
		SiteName:   p.opts.SiteName,
		Logo:       logo,
		Base:       p.opts.BasePath,
		InputValue: input,
	}
}

// tabs builds the category bar. Tab links carry the current state so the
// random tab can fall back to the same view.
func (p *Portal) tabs(state catalog.State) []tabView {
	query := ""
	if enc := state.Values().Encode(); enc != "" {
		query = "?" + enc
	}
	all := catalog.Tabs()
	out := make([]tabView, 0, len(all))
	for _, t := range all {
		out = append(out, tabView{
			ID:     t.ID,
			Name:   t.Name,
			Href:   p.opts.BasePath + "tab/" + url.PathEscape(string(t.ID)) + query,
			Active: t.ID == state.ActiveCategory,
		})
	}
	return out
}

// cards converts visible games into card views. all is the full manifest,
// used to spot ids that cannot address a single record.
func (p *Portal) cards(visible, all []catalog.Game) []cardView {
	dups := make(map[string]bool)
	for _, id := range catalog.Duplicates(all) {
		dups[id] = true
	}

	out := make([]cardView, 0, len(visible))
	for _, g := range visible {
		play := p.opts.BasePath + "play/" + url.PathEscape(g.ID)
		if g.ID == "" || dups[g.ID] {
			play = p.href(g.URL)
		}
		out = append(out, cardView{
			ID:            g.ID,
			Title:         g.Title,
			Description:   p.renderDescription(g.Description),
			Image:         g.Image,
			Rating:        g.FormatRating(),
			Category:      g.Category,
			CategoryLabel: g.Category.Label(),
			PlayHref:      play,
			External:      g.IsExternal(),
		})
	}
	return out
}

func newMarkdown() goldmark.Markdown {
	// Raw HTML stays disabled: descriptions come from the manifest.
	return goldmark.New(
		goldmark.WithExtensions(
			extension.Strikethrough,
			extension.Linkify,
		),
	)
}

// renderDescription renders a description as inline Markdown. On failure
// the escaped plain text is used.
func (p *Portal) renderDescription(desc string) template.HTML {
	if strings.TrimSpace(desc) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := p.md.Convert([]byte(desc), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(desc))
	}
	out := strings.TrimSpace(buf.String())
	// A single paragraph is unwrapped so it sits inline in the card.
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") && strings.Count(out, "<p>") == 1 {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}
	return template.HTML(out)
}
