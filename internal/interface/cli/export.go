package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cbroglie/mustache"
	"github.com/neilberkman/chatrider/internal/core/db"
	"github.com/neilberkman/chatrider/internal/core/generator"
	"github.com/neilberkman/chatrider/pkg/waexport"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
)

// Triple braces keep markdown unescaped
const markdownTemplate = `# {{{chatName}}}

**Participants:** {{{participants}}}  
**Messages:** {{messageCount}}  
{{#firstDate}}**Span:** {{firstDate}} to {{lastDate}}  
{{/firstDate}}**Source:** ` + "`{{{sourceDir}}}`" + `

---

{{#messages}}
{{#isSystem}}_{{timestamp}} {{{content}}}_
{{/isSystem}}{{^isSystem}}**{{{sender}}}** _{{timestamp}}_

{{#mediaFilename}}[{{mediaType}}: {{{mediaFilename}}}]
{{/mediaFilename}}{{^mediaFilename}}{{{content}}}
{{/mediaFilename}}{{/isSystem}}
{{/messages}}`

var exportCmd = &cobra.Command{
	Use:   "export <chat>",
	Short: "Export an archived chat to markdown",
	Long: `Export an archived chat to a markdown file.

By default exports to the current directory as <chat>.md.
Use --output to specify a custom path.

Examples:
  chatrider export Family
  chatrider export "Book Club" --output ~/book-club.md`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (default: <chat>.md in current directory)")
}

func runExport(cmd *cobra.Command, args []string) error {
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

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	outputPath := exportOutput
	if outputPath == "" {
		outputPath = generator.ChatDir(cwd, detail.ChatName) + ".md"
	} else if !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(cwd, outputPath)
	}

	md, err := renderMarkdown(detail)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, []byte(md), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	fmt.Printf("Exported %d messages to: %s\n", len(detail.Messages), outputPath)
	return nil
}

func renderMarkdown(detail *db.ChatDetail) (string, error) {
	msgs := make([]map[string]interface{}, 0, len(detail.Messages))
	for _, m := range detail.Messages {
		msgs = append(msgs, map[string]interface{}{
			"sender":        m.Sender,
			"content":       m.Content,
			"timestamp":     m.Timestamp.Format("Jan 02, 2006 15:04"),
			"isSystem":      m.Type == string(waexport.MessageTypeSystem),
			"mediaFilename": m.MediaFilename,
			"mediaType":     m.MediaType,
		})
	}

	ctx := map[string]interface{}{
		"chatName":     detail.ChatName,
		"participants": detail.ParticipantList(),
		"messageCount": detail.MessageCount,
		"firstDate":    detail.FirstDate,
		"lastDate":     detail.LastDate,
		"sourceDir":    detail.SourceDir,
		"messages":     msgs,
	}

	out, err := mustache.Render(markdownTemplate, ctx)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
