package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/neilberkman/chatrider/internal/core/db"
	"github.com/neilberkman/chatrider/internal/core/generator"
	"github.com/neilberkman/chatrider/internal/core/importer"
	"github.com/neilberkman/chatrider/internal/core/locator"
	"github.com/neilberkman/chatrider/internal/core/viewer"
	"github.com/spf13/cobra"
)

var (
	genOutput    string
	genWorkers   int
	genNoMedia   bool
	genNoArchive bool
	genTemplate  string
	genFromJSON  string
)

var generateCmd = &cobra.Command{
	Use:   "generate [exports-dir]",
	Short: "Generate HTML viewers from chat exports",
	Long: `Parse every chat export under exports-dir and write, per chat:
  <output>/<chat>/index.html      static viewer
  <output>/<chat>/metadata.json   chat summary
  <output>/<chat>/messages.json   parsed messages
  <output>/<chat>/media/          copied attachments

Each chat is also imported into the archive unless --no-archive is set.
A chat that fails to parse is reported and the others continue.

Examples:
  chatrider generate
  chatrider generate ~/Downloads/exports --output ~/chats
  chatrider generate --from-json ./output/Family`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "", "Output directory (default from config)")
	generateCmd.Flags().IntVarP(&genWorkers, "workers", "w", 0, "Chats processed in parallel (default from config)")
	generateCmd.Flags().BoolVar(&genNoMedia, "no-media", false, "Skip copying media files")
	generateCmd.Flags().BoolVar(&genNoArchive, "no-archive", false, "Skip importing into the archive")
	generateCmd.Flags().StringVar(&genTemplate, "template", "", "Mustache template replacing the built-in viewer")
	generateCmd.Flags().StringVar(&genFromJSON, "from-json", "", "Rebuild index.html in this chat output directory from its JSON files")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	templatePath := cfg.TemplatePath
	if genTemplate != "" {
		templatePath = genTemplate
	}
	tmpl, err := viewer.LoadTemplate(templatePath)
	if err != nil {
		return err
	}

	gen := &generator.Generator{
		Rules:     cfg.ContentRules(),
		OutputDir: cfg.OutputDir,
		CopyMedia: cfg.CopyMedia && !genNoMedia,
		Template:  tmpl,
	}
	if genOutput != "" {
		gen.OutputDir = genOutput
	}

	if genFromJSON != "" {
		if err := gen.Regenerate(genFromJSON); err != nil {
			return fmt.Errorf("failed to regenerate viewer: %w", err)
		}
		fmt.Printf("Regenerated %s\n", genFromJSON)
		return nil
	}

	exportsDir := exportsDirArg(args)
	exports, err := locator.Find(exportsDir)
	if err != nil {
		return err
	}
	if len(exports) == 0 {
		fmt.Printf("No chat exports (directories with _chat.txt) found in %s\n", exportsDir)
		return nil
	}

	if cfg.Archive && !genNoArchive {
		database, err := db.New(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() {
			_ = database.Close()
		}()
		gen.Archive = importer.New(database)
	}

	workers := cfg.Workers
	if genWorkers > 0 {
		workers = genWorkers
	}

	fmt.Printf("Generating %d chat(s) from %s into %s\n\n", len(exports), exportsDir, gen.OutputDir)
	spin := newSpinner(os.Stderr, fmt.Sprintf("Generating %d chat(s)...", len(exports)))
	if !verbose {
		spin.Start()
	}
	sum := gen.Run(cmd.Context(), exports, workers)
	spin.Stop()

	for _, r := range sum.Results {
		line := fmt.Sprintf("  ✓ %-30s %s messages", r.Name, humanize.Comma(int64(r.Metadata.TotalMessages)))
		if r.Copy.Copied > 0 {
			line += fmt.Sprintf(", %s media copied", humanize.Bytes(uint64(r.Copy.Bytes)))
		}
		if n := len(r.Media.Missing); n > 0 {
			line += fmt.Sprintf(", %d missing media", n)
		}
		fmt.Println(line)
	}
	for _, f := range sum.Failures {
		fmt.Printf("  ✗ %-30s %v\n", f.Name, f.Err)
	}

	fmt.Printf("\nProcessed %d chat(s), %s messages", sum.Processed, humanize.Comma(int64(sum.Messages)))
	if sum.MissingMedia > 0 {
		fmt.Printf(", %d missing media file(s)", sum.MissingMedia)
	}
	fmt.Println()

	if sum.Failed > 0 {
		fmt.Fprintf(os.Stderr, "%d chat(s) failed\n", sum.Failed)
		return fmt.Errorf("%d of %d chats failed", sum.Failed, len(exports))
	}
	return nil
}
