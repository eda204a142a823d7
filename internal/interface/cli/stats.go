package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/neilberkman/chatrider/internal/core/db"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show archive statistics",
	Long: `Display statistics about the chatrider archive.

Shows chat and message counts, message kinds, date ranges, the busiest chat,
top senders, and storage info.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = database.Close()
	}()

	stats, err := database.GetStats()
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	fmt.Println("Archive Statistics")
	fmt.Println("==================")
	fmt.Println()

	fmt.Printf("Total Chats:       %s\n", humanize.Comma(int64(stats.TotalChats)))
	fmt.Printf("Total Messages:    %s\n", humanize.Comma(int64(stats.TotalMessages)))
	fmt.Printf("  Media:           %s\n", humanize.Comma(int64(stats.MediaMessages)))
	fmt.Printf("  Media omitted:   %s\n", humanize.Comma(int64(stats.OmittedMedia)))
	fmt.Printf("  System:          %s\n", humanize.Comma(int64(stats.SystemMessages)))
	fmt.Printf("Distinct Senders:  %d\n", stats.DistinctSenders)
	fmt.Println()

	if !stats.OldestMessage.IsZero() {
		fmt.Printf("Oldest Message:    %s\n", stats.OldestMessage.Format("Jan 2, 2006 3:04 PM"))
		fmt.Printf("Newest Message:    %s\n", stats.NewestMessage.Format("Jan 2, 2006 3:04 PM"))
		fmt.Println()
	}

	if stats.MostActiveChat != "" {
		fmt.Printf("Most Active Chat:\n")
		fmt.Printf("  Name:     %s\n", stats.MostActiveChat)
		fmt.Printf("  Messages: %s\n", humanize.Comma(int64(stats.MostActiveChatCount)))
		fmt.Println()
	}

	if len(stats.TopSenders) > 0 {
		fmt.Println("Top Senders:")
		for _, s := range stats.TopSenders {
			fmt.Printf("  %-24s %s\n", s.Sender, humanize.Comma(int64(s.Count)))
		}
		fmt.Println()
	}

	fileInfo, err := os.Stat(dbPath)
	if err != nil {
		return fmt.Errorf("failed to stat database file: %w", err)
	}

	fmt.Printf("Database Location: %s\n", dbPath)
	fmt.Printf("Database Size:     %s\n", humanize.Bytes(uint64(fileInfo.Size())))

	return nil
}
