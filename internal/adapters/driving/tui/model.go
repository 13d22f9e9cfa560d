// Package tui implements the interactive "ask" view: a question loop over
// the document indexes with typo-tolerant search. Typing "switch" (or
// pressing tab) cycles the index scope; "quit" or Ctrl+C exits.
package tui

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/veridian-labs/docdex/internal/core/domain"
	"github.com/veridian-labs/docdex/internal/core/ports/driving"
)

// scopeAll queries every index at once. It is always the first scope.
const scopeAll = "all"

const maxSnippetLen = 160

// resultsMsg carries completed search results into the update loop.
type resultsMsg struct {
	query   string
	results []domain.SearchResult
}

// errMsg carries a failed search into the update loop.
type errMsg struct {
	err error
}

// Model is the bubbletea model for the ask view.
type Model struct {
	search driving.SearchService
	ctx    context.Context
	styles *Styles

	input  textinput.Model
	scopes []string
	scope  int

	query     string
	results   []domain.SearchResult
	searched  bool
	searching bool
	err       error
}

// NewModel creates the ask model. indexes are the selectable scopes; the
// "all" scope is prepended.
func NewModel(search driving.SearchService, indexes []string) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask a question..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 60

	scopes := append([]string{scopeAll}, indexes...)

	return Model{
		search: search,
		ctx:    context.Background(),
		styles: DefaultStyles(),
		input:  ti,
		scopes: scopes,
	}
}

// WithContext sets the context used for searches.
func (m Model) WithContext(ctx context.Context) Model {
	m.ctx = ctx
	return m
}

// Init initialises the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab:
			m.cycleScope()
			return m, nil
		case tea.KeyEnter:
			return m.submit()
		}

	case resultsMsg:
		m.searching = false
		m.searched = true
		m.query = msg.query
		m.results = msg.results
		m.err = nil
		return m, nil

	case errMsg:
		m.searching = false
		m.searched = true
		m.results = nil
		m.err = msg.err
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit interprets the entered line: the control words "quit" and
// "switch" come from the original question loop; anything else is a query.
func (m Model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	switch strings.ToLower(line) {
	case "":
		return m, nil
	case "quit", "exit":
		return m, tea.Quit
	case "switch":
		m.cycleScope()
		m.input.SetValue("")
		return m, nil
	}

	m.searching = true
	m.input.SetValue("")
	return m, m.runSearch(line)
}

// cycleScope advances to the next index scope, wrapping around.
func (m *Model) cycleScope() {
	m.scope = (m.scope + 1) % len(m.scopes)
}

// Scope returns the current index scope name.
func (m Model) Scope() string {
	return m.scopes[m.scope]
}

// runSearch executes the query asynchronously.
func (m Model) runSearch(query string) tea.Cmd {
	scope := m.Scope()
	search := m.search
	ctx := m.ctx

	return func() tea.Msg {
		opts := domain.SearchOptions{}
		if scope != scopeAll {
			opts.Indexes = []string{scope}
		}

		results, err := search.Search(ctx, query, opts)
		if err != nil {
			return errMsg{err: err}
		}
		return resultsMsg{query: query, results: results}
	}
}

// View renders the ask view.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("docdex ask"))
	b.WriteString("  ")
	b.WriteString(m.styles.Scope.Render("[" + m.Scope() + "]"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.searching:
		b.WriteString(m.styles.Muted.Render("Searching..."))
	case m.err != nil:
		b.WriteString(m.styles.Error.Render("Error: " + m.err.Error()))
	case m.searched && len(m.results) == 0:
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("No results for %q.", m.query)))
	default:
		for i := range m.results {
			b.WriteString(m.renderResult(i, &m.results[i]))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("enter: search · tab/'switch': cycle index · 'quit'/esc: exit"))
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderResult(i int, r *domain.SearchResult) string {
	header := fmt.Sprintf("%s %s %s",
		m.styles.Source.Render(fmt.Sprintf("[%d] %s", i+1, r.Chunk.SourceFile)),
		m.styles.Scope.Render(r.Index),
		m.styles.Score.Render(fmt.Sprintf("(%.2f)", r.Score)),
	)

	snippet := r.Chunk.Content
	if len(r.Highlights) > 0 {
		snippet = r.Highlights[0]
	}
	snippet = truncate(snippet, maxSnippetLen)

	return m.styles.Result.Render(header+"\n"+m.styles.Snippet.Render(snippet)) + "\n"
}

// truncate shortens s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
