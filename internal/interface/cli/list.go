package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/neilberkman/chatrider/internal/core/db"
	"github.com/spf13/cobra"
)

var (
	listLimit  int
	listFilter string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived chats",
	Long: `List all archived chats, most recently active first.

Shows participants, message counts, and date spans.

Examples:
  chatrider list
  chatrider list --limit 10
  chatrider list --filter alice`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVar(&listLimit, "limit", 20, "Maximum number of chats to display")
	listCmd.Flags().StringVar(&listFilter, "filter", "", "Filter by chat name or participant")
}

func runList(cmd *cobra.Command, args []string) error {
	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = database.Close()
	}()

	chats, err := database.ListChats(listFilter, listLimit)
	if err != nil {
		return fmt.Errorf("failed to list chats: %w", err)
	}

	if len(chats) == 0 {
		if listFilter != "" {
			fmt.Printf("No chats found matching: %s\n", listFilter)
		} else {
			fmt.Println("No chats found. Run 'chatrider sync' or 'chatrider generate' to import exports.")
		}
		return nil
	}

	fmt.Printf("Showing %d chat(s)", len(chats))
	if listFilter != "" {
		fmt.Printf(" matching: %s", listFilter)
	}
	fmt.Println()
	fmt.Println()

	for i, c := range chats {
		fmt.Printf("[%d] %s\n", i+1, c.ChatName)
		if len(c.Participants) > 0 {
			fmt.Printf("    Participants: %s\n", truncateText(c.ParticipantList(), 80))
		}
		fmt.Printf("    Messages: %s\n", humanize.Comma(int64(c.MessageCount)))
		if c.FirstDate != "" {
			fmt.Printf("    Span: %s to %s\n", c.FirstDate, c.LastDate)
		}
		if !c.UpdatedAt.IsZero() {
			fmt.Printf("    Last message: %s\n", formatTimestamp(c.UpdatedAt))
		}
		fmt.Println()
	}

	return nil
}

// truncateText truncates long text for display on a single line
func truncateText(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")

	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}

	// Find a good break point (end of word)
	truncated := string(r[:maxLen])
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > 0 && lastSpace > len(truncated)-20 {
		truncated = truncated[:lastSpace]
	}

	return truncated + "..."
}

// formatTimestamp formats a naive chat timestamp in a human-friendly way.
// Chat timestamps carry no zone, so they are compared against local wall time.
func formatTimestamp(t time.Time) string {
	now := time.Now()
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.Local)
	if now.Sub(wall) < 30*24*time.Hour {
		return humanize.Time(wall)
	}
	if t.Year() == now.Year() {
		return t.Format("Jan 2")
	}
	return t.Format("Jan 2, 2006")
}
