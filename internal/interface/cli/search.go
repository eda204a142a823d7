package cli

import (
	"fmt"
	"strings"

	"github.com/neilberkman/chatrider/internal/core/db"
	"github.com/neilberkman/chatrider/internal/core/search"
	"github.com/spf13/cobra"
)

var (
	searchLimit int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search archived messages using full-text search",
	Long: `Search through all archived chat messages.

Uses FTS5 full-text search with porter stemming. Queries may include filters:
  chat:<name>  from:<sender>  type:media|omitted|system|text
  after:<date> before:<date>  (2025-01-13, 13/01/2025, yesterday, ...)

Examples:
  chatrider search "dinner plans"
  chatrider search birthday from:Alice after:2024-01-01
  chatrider search 'chat:"Book Club" type:media'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVar(&searchLimit, "limit", 50, "Maximum number of matches to show")
}

func runSearch(cmd *cobra.Command, args []string) error {
	// Join all args as query
	query := strings.Join(args, " ")

	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = database.Close()
	}()

	// Same query grammar as the TUI and MCP server
	filters := search.ParseQuery(query)
	filters.Limit = searchLimit

	results, err := search.SearchWithFilters(database, filters)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Printf("No results found for: %s\n", query)
		return nil
	}

	fmt.Printf("Found %d match(es) for: %s\n\n", len(results), query)

	// Group consecutive results by chat for readability
	lastChat := ""
	for _, r := range results {
		if r.ChatName != lastChat {
			fmt.Printf("=== %s ===\n", r.ChatName)
			lastChat = r.ChatName
		}
		fmt.Printf("  [%s] %s: %s\n", strings.Replace(r.Timestamp, "T", " ", 1), r.Sender, truncateText(r.Snippet, 200))
	}

	if len(results) == searchLimit {
		fmt.Printf("\n(showing first %d, use --limit to see more)\n", searchLimit)
	}
	return nil
}
