package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_Short(t *testing.T) {
	assert.Equal(t, "Search indexed documents", searchCmd.Short)
}

func TestSearchCmd_Long(t *testing.T) {
	assert.Contains(t, searchCmd.Long, "typo-tolerant")
	assert.Contains(t, searchCmd.Long, "edit distance")
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_HasLimitFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "limit flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "10", flag.DefValue)
}

func TestSearchCmd_ExecutesWithQuery(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "invoice total"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Results:")
	assert.Contains(t, buf.String(), "report.pdf")
	assert.Contains(t, buf.String(), "Index: invoices")
}

func TestSearchCmd_ExecutesWithLimitFlag(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := searchService.(*mockSearchService)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "-n", "5", "another query"})
	defer func() {
		rootCmd.SetArgs(nil)
		searchLimit = 10 // Reset flag
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, 5, mock.opts.Limit)
}

func TestSearchCmd_IndexFlagRestrictsQuery(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := searchService.(*mockSearchService)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "--index", "contracts", "query"})
	defer func() {
		rootCmd.SetArgs(nil)
		searchIndex = "" // Reset flag
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, []string{"contracts"}, mock.opts.Indexes)
}

func TestSearchCmd_IndexAllQueriesEverything(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := searchService.(*mockSearchService)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "--index", "all", "query"})
	defer func() {
		rootCmd.SetArgs(nil)
		searchIndex = "" // Reset flag
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Empty(t, mock.opts.Indexes)
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "--json", "invoice total"})
	defer func() {
		rootCmd.SetArgs(nil)
		searchJSON = false // Reset flag
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	// JSON uses capitalized field names from struct tags
	assert.Contains(t, buf.String(), "\"SourceFile\"")
	assert.Contains(t, buf.String(), "\"Score\"")
}

func TestSearchCmd_NoResults(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	searchService.(*mockSearchService).results = nil

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "nothing"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No results found.")
}

func TestSearchCmd_ErrorsWithoutService(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	oldService := searchService
	searchService = &mockSearchServiceError{}
	defer func() {
		searchService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search", "query"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "search failed")
}
