package cli

import (
	"fmt"
	"os"

	"github.com/neilberkman/chatrider/internal/core/db"
	"github.com/neilberkman/chatrider/internal/core/importer"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync [exports-dir]",
	Short: "Import chat exports into the archive",
	Long: `Import chats from the configured exports directory or a specified one.

Performs incremental sync - unchanged transcripts are skipped, changed ones
replace their previous copy. No HTML is generated.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	sourcePath := exportsDirArg(args)

	fmt.Printf("Syncing chats from: %s\n", sourcePath)
	fmt.Printf("Database: %s\n\n", dbPath)

	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = database.Close()
	}()

	imp := importer.New(database)
	progress := importer.NewProgressReporter(os.Stdout)

	res, err := imp.ImportDirectory(sourcePath, cfg.ContentRules(), progress)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("Imported: %d  Unchanged: %d  Failed: %d  Messages: %d\n",
		res.Imported, res.Skipped, res.Failed, res.Messages)
	return nil
}
