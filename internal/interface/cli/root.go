package cli

import (
	"fmt"
	"os"

	"github.com/neilberkman/chatrider/internal/core/config"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	dbPath      string
	configPath  string
	verbose     bool
	logFormat   string
	versionInfo string

	cfg = config.Default()
)

// SetVersion sets the version information from build-time ldflags
func SetVersion(version, commit, date string) {
	versionInfo = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	rootCmd.Version = versionInfo
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "chatrider",
	Short: "WhatsApp chat export viewer and archive",
	Long: `chatrider - turn WhatsApp chat exports into browsable, searchable archives

Parses exported _chat.txt transcripts (iOS and Android formats), generates a
static HTML viewer per chat, and keeps a searchable SQLite archive.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(verbose, logFormat); err != nil {
			return err
		}

		var err error
		if configPath != "" {
			cfg, err = config.LoadFile(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// --db wins over config
		if !cmd.Flags().Changed("db") {
			dbPath = cfg.DBPath
		}
		log.WithFields(log.Fields{"db": dbPath, "exports": cfg.ExportsDir}).Debug("configuration loaded")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default to TUI if no subcommand specified
		return browseCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath(), "Database path")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/chatrider/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
}

func setupLogging(verbose bool, format string) error {
	log.SetOutput(os.Stderr)
	switch format {
	case "text", "":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", format)
	}

	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
	return nil
}

// exportsDirArg returns the first argument or the configured exports directory
func exportsDirArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.ExportsDir
}
