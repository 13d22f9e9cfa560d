// Package cli implements the docdex command-line interface using cobra.
// Commands resolve their services lazily on first run so that tests can
// inject fakes before execution.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veridian-labs/docdex/internal/adapters/driven/config/file"
	"github.com/veridian-labs/docdex/internal/adapters/driven/storage/sqlite"
	"github.com/veridian-labs/docdex/internal/core/ports/driven"
	"github.com/veridian-labs/docdex/internal/core/ports/driving"
	"github.com/veridian-labs/docdex/internal/core/services"
	"github.com/veridian-labs/docdex/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var verbose bool

// Shared services, built once by initServices. Tests assign these
// directly to bypass the real wiring.
var (
	configStore   driven.ConfigStore
	searchStore   driven.SearchStore
	searchService driving.SearchService
)

var rootCmd = &cobra.Command{
	Use:   "docdex",
	Short: "Index and search OCR-extracted documents",
	Long: `docdex ingests scanned documents and PDFs, extracts their text via an
external OCR service, cleans and chunks the result, and indexes the chunks
in a local full-text store with typo-tolerant search.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion overrides the build version string.
func SetVersion(v string) {
	version = v
}

// initServices wires the config store, search store and search service.
// No-op when a test has already injected services.
func initServices() error {
	if searchService != nil {
		return nil
	}

	cfg, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	configStore = cfg

	store, err := sqlite.NewStore(configStore.GetString("storage.data_dir"))
	if err != nil {
		return fmt.Errorf("opening search store: %w", err)
	}
	searchStore = store

	searchService = services.NewSearchService(store)
	return nil
}
