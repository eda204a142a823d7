package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/neilberkman/chatrider/internal/core/db"
	"github.com/neilberkman/chatrider/internal/interface/tui"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:     "browse",
	Aliases: []string{"tui"},
	Short:   "Launch interactive TUI browser",
	Long:    "Launch an interactive terminal UI for browsing and searching archived chats",
	RunE:    runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = database.Close()
	}()

	p := tea.NewProgram(
		tui.New(database),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
