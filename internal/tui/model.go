// Package tui is a terminal rendition of the catalog page. It drives the
// same state machine as the web portal.
package tui

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ziadkadry99/arcade/internal/catalog"
	"github.com/ziadkadry99/arcade/internal/manifest"
)

// tip takes the place of the caps-lock hint; the terminal has no overlay.
const tip = "Tip: Esc quits, Tab switches between search and list"

// Loader provides the manifest.
type Loader interface {
	Load(ctx context.Context) ([]catalog.Game, error)
}

type gamesLoadedMsg struct {
	games []catalog.Game
	err   error
}

// Model is the bubbletea model of the browser.
type Model struct {
	ctx    context.Context
	loader Loader
	rnd    *rand.Rand
	styles Styles

	state   catalog.State
	input   textinput.Model
	games   []catalog.Game
	visible []catalog.Game
	err     error
	loading bool
	notice  string

	cursor    int
	listFocus bool
	chosen    *catalog.Game
	width     int
	height    int
}

// New creates a browser starting from initial.
func New(ctx context.Context, loader Loader, initial catalog.State, rnd *rand.Rand) Model {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	ti := textinput.New()
	ti.Placeholder = "Search games..."
	ti.Prompt = "/ "
	ti.CharLimit = 120
	ti.SetValue(initial.InputValue)
	ti.Focus()

	return Model{
		ctx:     ctx,
		loader:  loader,
		rnd:     rnd,
		styles:  DefaultStyles(),
		state:   initial,
		input:   ti,
		loading: true,
	}
}

// Chosen returns the game picked before the program exited.
func (m Model) Chosen() (catalog.Game, bool) {
	if m.chosen == nil {
		return catalog.Game{}, false
	}
	return *m.chosen, true
}

// State returns the current catalog state.
func (m Model) State() catalog.State { return m.state }

// Visible returns the games currently listed.
func (m Model) Visible() []catalog.Game { return m.visible }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), textinput.Blink)
}

// load re-reads the manifest; there is no cache.
func (m Model) load() tea.Cmd {
	ctx, loader := m.ctx, m.loader
	return func() tea.Msg {
		games, err := loader.Load(ctx)
		return gamesLoadedMsg{games: games, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-6, 10)
		return m, nil

	case gamesLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.games = msg.games
		if msg.err != nil {
			m.games = nil
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.setListFocus(!m.listFocus)
			return m, nil
		case "ctrl+r":
			m.loading = true
			return m, m.load()
		}
		if m.listFocus {
			return m.updateList(msg)
		}
		return m.updateInput(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		m.state = m.state.Submit()
		m.input.SetValue(m.state.SearchQuery)
		m.refresh()
		if len(m.visible) > 0 {
			m.setListFocus(true)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	// Typing never filters; only Enter commits.
	m.state = m.state.Type(m.input.Value())
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case "left", "h":
		return m.selectTab(m.neighbourTab(-1))
	case "right", "l":
		return m.selectTab(m.neighbourTab(1))
	case "1", "2", "3", "4", "5", "6":
		tabs := catalog.Tabs()
		idx := int(key[0] - '1')
		if idx < len(tabs) {
			return m.selectTab(tabs[idx].ID)
		}
	case "enter":
		if m.cursor < len(m.visible) {
			g := m.visible[m.cursor]
			m.chosen = &g
			return m, tea.Quit
		}
	}
	return m, nil
}

// selectTab applies a tab click. The random tab launches a game picked
// from the full list; with nothing to pick the view stays as it is.
func (m Model) selectTab(id catalog.Category) (tea.Model, tea.Cmd) {
	next, cmd := m.state.SelectTab(id)
	if cmd == catalog.CommandRandom {
		g, ok := catalog.Pick(m.games, m.rnd)
		if !ok {
			m.notice = "No games to pick from"
			return m, nil
		}
		m.chosen = &g
		return m, tea.Quit
	}
	m.state = next
	m.input.SetValue(next.InputValue)
	m.refresh()
	return m, nil
}

// neighbourTab returns the filter tab dir steps from the active one,
// wrapping around. The random tab is skipped.
func (m Model) neighbourTab(dir int) catalog.Category {
	var filters []catalog.Category
	for _, t := range catalog.Tabs() {
		if t.ID.IsFilter() {
			filters = append(filters, t.ID)
		}
	}
	cur := 0
	for i, id := range filters {
		if id == m.state.ActiveCategory {
			cur = i
		}
	}
	n := len(filters)
	return filters[((cur+dir)%n+n)%n]
}

func (m *Model) setListFocus(on bool) {
	m.listFocus = on
	if on {
		m.input.Blur()
	} else {
		m.input.Focus()
	}
}

func (m *Model) refresh() {
	m.notice = ""
	m.visible = m.state.Visible(m.games)
	if m.cursor >= len(m.visible) {
		m.cursor = max(len(m.visible)-1, 0)
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Header.Render("Arcade"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.styles.Tip.Render(tip))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.styles.Muted.Render("Loading games..."))
	case m.err != nil:
		b.WriteString(m.styles.Error.Render("Error: " + manifest.Message(m.err)))
	case len(m.visible) == 0:
		b.WriteString("No games found\n")
		b.WriteString(m.styles.Muted.Render("Try selecting a different category or search term."))
	default:
		for i, g := range m.visible {
			line := fmt.Sprintf("%s  %s  %s", g.Title, m.styles.Muted.Render("★ "+g.FormatRating()), m.styles.Muted.Render(g.Category.Label()))
			if m.listFocus && i == m.cursor {
				b.WriteString(m.styles.Selected.Render(line))
			} else {
				b.WriteString(m.styles.Item.Render(line))
			}
			b.WriteString("\n")
		}
	}
	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render(m.notice))
	}

	b.WriteString(m.styles.Footer.Render("enter: search/play  tab: focus  ←/→ or 1-6: category  ctrl+r: reload  esc: quit"))
	return b.String()
}

func (m Model) renderTabs() string {
	var parts []string
	for _, t := range catalog.Tabs() {
		style := m.styles.Tab
		if t.ID == m.state.ActiveCategory {
			style = m.styles.ActiveTab
		}
		parts = append(parts, style.Render(t.Name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
