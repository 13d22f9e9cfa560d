package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/veridian-labs/docdex/internal/adapters/driving/tui"
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Launch the interactive question loop",
	Long: `Launch an interactive terminal UI for querying the document indexes.

Type a question and press Enter to search. Type 'switch' (or press Tab)
to cycle the index scope, 'quit' or Esc to exit.`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if searchService == nil {
		return errors.New("search service not configured")
	}

	var indexes []string
	if searchStore != nil {
		names, err := searchStore.Indexes(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing indexes: %w", err)
		}
		indexes = names
	}

	model := tui.NewModel(searchService, indexes).WithContext(cmd.Context())

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
