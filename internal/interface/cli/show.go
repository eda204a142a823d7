package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/neilberkman/chatrider/internal/core/db"
	"github.com/spf13/cobra"
)

var showMessages int

var showCmd = &cobra.Command{
	Use:   "show <chat>",
	Short: "Show details of an archived chat",
	Long: `Show metadata for one archived chat and its most recent messages.

Examples:
  chatrider show Family
  chatrider show "Book Club" --messages 50`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVarP(&showMessages, "messages", "n", 10, "Number of recent messages to print")
}

func runShow(cmd *cobra.Command, args []string) error {
	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = database.Close()
	}()

	detail, err := database.GetChatDetail(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Chat:         %s\n", detail.ChatName)
	fmt.Printf("Source:       %s\n", detail.SourceDir)
	fmt.Printf("Participants: %s\n", detail.ParticipantList())
	fmt.Printf("Messages:     %s\n", humanize.Comma(int64(detail.MessageCount)))
	if detail.FirstDate != "" {
		fmt.Printf("Span:         %s to %s\n", detail.FirstDate, detail.LastDate)
	}
	fmt.Printf("Transcript:   %s (sha256 %.12s)\n", humanize.Bytes(uint64(detail.FileSize)), detail.FileHash)
	if !detail.ImportedAt.IsZero() {
		fmt.Printf("Imported:     %s\n", detail.ImportedAt.Format("Jan 2, 2006 3:04 PM"))
	}

	msgs := detail.Messages
	if showMessages >= 0 && len(msgs) > showMessages {
		msgs = msgs[len(msgs)-showMessages:]
	}
	if len(msgs) > 0 {
		fmt.Println()
	}
	for _, m := range msgs {
		fmt.Printf("[%s] %s: %s\n", m.Timestamp.Format("2006-01-02 15:04"), m.Sender, truncateText(m.Content, 200))
	}
	return nil
}
