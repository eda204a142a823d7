package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/neilberkman/chatrider/internal/core/locator"
	"github.com/neilberkman/chatrider/internal/core/media"
	"github.com/neilberkman/chatrider/pkg/waexport"
	"github.com/spf13/cobra"
)

var validateVerbose bool

var validateCmd = &cobra.Command{
	Use:   "validate [exports-dir]",
	Short: "Check chat exports without writing anything",
	Long: `Parse every chat export under exports-dir and report parse errors and
media files that are referenced but missing (or present but unreferenced).

Exits non-zero when any export fails to parse or is missing media.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVar(&validateVerbose, "files", false, "List individual missing and unreferenced files")
}

func runValidate(cmd *cobra.Command, args []string) error {
	exportsDir := exportsDirArg(args)
	exports, err := locator.Find(exportsDir)
	if err != nil {
		return err
	}
	if len(exports) == 0 {
		fmt.Printf("No chat exports (directories with _chat.txt) found in %s\n", exportsDir)
		return nil
	}

	asm := waexport.Assembler{Dialects: waexport.DefaultDialects(), Rules: cfg.ContentRules()}
	problems := 0
	for _, exp := range exports {
		tr, err := asm.ParseFile(exp.TranscriptPath)
		if err != nil {
			problems++
			fmt.Printf("✗ %s: %v\n", exp.Name, err)
			continue
		}

		rep := media.Validate(tr.Messages, exp.MediaFiles)
		mark := "✓"
		if !rep.OK() {
			mark = "✗"
			problems++
		}
		fmt.Printf("%s %s: %s messages, %d/%d media referenced present (%s on disk)",
			mark, exp.Name, humanize.Comma(int64(len(tr.Messages))),
			rep.Referenced-len(rep.Missing), rep.Referenced, humanize.Bytes(uint64(exp.TotalMediaSize())))
		if n := len(rep.Unreferenced); n > 0 {
			fmt.Printf(", %d unreferenced", n)
		}
		fmt.Println()

		if validateVerbose {
			for _, name := range rep.Missing {
				fmt.Printf("    missing:      %s\n", name)
			}
			for _, name := range rep.Unreferenced {
				fmt.Printf("    unreferenced: %s\n", name)
			}
		}
	}

	if problems > 0 {
		return fmt.Errorf("%d of %d exports have problems", problems, len(exports))
	}
	return nil
}
