package tui

import (
	"context"
	"errors"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridian-labs/docdex/internal/core/domain"
)

type stubSearchService struct {
	results []domain.SearchResult
	opts    domain.SearchOptions
	query   string
	err     error
}

func (s *stubSearchService) Search(
	_ context.Context,
	query string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	s.query = query
	s.opts = opts
	return s.results, s.err
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// typeAndSubmit feeds the string into the model and presses enter.
func typeAndSubmit(t *testing.T, m Model, line string) (Model, tea.Cmd) {
	t.Helper()

	updated, _ := m.Update(keyRunes(line))
	model, ok := updated.(Model)
	require.True(t, ok)

	updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model, ok = updated.(Model)
	require.True(t, ok)
	return model, cmd
}

func TestNewModel_ScopesStartAtAll(t *testing.T) {
	m := NewModel(&stubSearchService{}, []string{"invoices", "contracts"})

	assert.Equal(t, "all", m.Scope())
	assert.Equal(t, []string{"all", "invoices", "contracts"}, m.scopes)
}

func TestModel_TabCyclesScope(t *testing.T) {
	m := NewModel(&stubSearchService{}, []string{"invoices", "contracts"})

	tab := tea.KeyMsg{Type: tea.KeyTab}
	updated, _ := m.Update(tab)
	m = updated.(Model)
	assert.Equal(t, "invoices", m.Scope())

	updated, _ = m.Update(tab)
	m = updated.(Model)
	assert.Equal(t, "contracts", m.Scope())

	// Wraps back around.
	updated, _ = m.Update(tab)
	m = updated.(Model)
	assert.Equal(t, "all", m.Scope())
}

func TestModel_SwitchWordCyclesScope(t *testing.T) {
	m := NewModel(&stubSearchService{}, []string{"invoices"})

	m, cmd := typeAndSubmit(t, m, "switch")

	assert.Nil(t, cmd)
	assert.Equal(t, "invoices", m.Scope())
	assert.Empty(t, m.input.Value())
}

func TestModel_QuitWordExits(t *testing.T) {
	m := NewModel(&stubSearchService{}, nil)

	_, cmd := typeAndSubmit(t, m, "quit")

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_EnterRunsSearch(t *testing.T) {
	stub := &stubSearchService{
		results: []domain.SearchResult{
			{
				Chunk: domain.Chunk{SourceFile: "report.pdf", Content: "total due"},
				Index: "invoices",
				Score: 2.5,
			},
		},
	}
	m := NewModel(stub, []string{"invoices"})

	m, cmd := typeAndSubmit(t, m, "invoice total")
	require.NotNil(t, cmd)
	assert.True(t, m.searching)

	msg := cmd()
	results, ok := msg.(resultsMsg)
	require.True(t, ok)
	assert.Equal(t, "invoice total", stub.query)
	assert.Empty(t, stub.opts.Indexes, "all scope queries every index")

	updated, _ := m.Update(results)
	m = updated.(Model)
	assert.False(t, m.searching)
	require.Len(t, m.results, 1)
	assert.Contains(t, m.View(), "report.pdf")
}

func TestModel_ScopedSearchRestrictsIndex(t *testing.T) {
	stub := &stubSearchService{}
	m := NewModel(stub, []string{"invoices"})

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)

	_, cmd := typeAndSubmit(t, m, "total")
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, []string{"invoices"}, stub.opts.Indexes)
}

func TestModel_SearchErrorShown(t *testing.T) {
	stub := &stubSearchService{err: errors.New("store offline")}
	m := NewModel(stub, nil)

	m, cmd := typeAndSubmit(t, m, "anything")
	require.NotNil(t, cmd)

	msg := cmd()
	failure, ok := msg.(errMsg)
	require.True(t, ok)

	updated, _ := m.Update(failure)
	m = updated.(Model)
	assert.Contains(t, m.View(), "store offline")
}

func TestModel_EmptyLineIgnored(t *testing.T) {
	m := NewModel(&stubSearchService{}, nil)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	assert.Nil(t, cmd)
	assert.False(t, m.searching)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "lon...", truncate("longer text", 3))
	// Never splits a multi-byte rune.
	out := truncate("héllo wörld héllo wörld", 10)
	assert.True(t, len(out) <= 13)
	assert.True(t, utf8.ValidString(out))
}
