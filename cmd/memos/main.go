package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/unowned-ai/memos/pkg/config"
	pkgdb "github.com/unowned-ai/memos/pkg/db"
	"github.com/unowned-ai/memos/pkg/version"
)

var (
	dbPath     string
	walMode    bool
	syncMode   string
	configPath string
	logLevel   string

	// cfg is the loaded configuration with flag overrides applied.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "memos",
	Short:         "Markdown memos with categories and tags, from the terminal.",
	Long:          `memos keeps short markdown notes in a local SQLite database. Browse them with "memos tui", script them with the CLI, or hand them to an LLM with "memos mcp".`,
	Version:       fmt.Sprintf("v%s", version.Version),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// loadConfig reads the config file and applies the persistent flags the
// user set explicitly on top of it.
func loadConfig(cmd *cobra.Command) error {
	loaded, err := config.LoadFile(config.Path(configPath))
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		loaded.Database.Path = dbPath
	}
	if flags.Changed("wal") {
		loaded.Database.WAL = walMode
	}
	if flags.Changed("sync") {
		loaded.Database.Sync = strings.ToUpper(syncMode)
	}
	if flags.Changed("log-level") {
		if err := loaded.App.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
		}
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cfg = loaded
	slog.SetDefault(newLogger(os.Stderr, cfg.App.LogLevel))
	return nil
}

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

var completionCmd = &cobra.Command{
	Use:   fmt.Sprintf("completion %s", strings.Join(completionShells, "|")),
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for memos.

The command prints a completion script to stdout. You can source it in your shell
or install it to the appropriate location for your shell to enable completions permanently.

Examples:

  Bash (current shell):
    $ source <(memos completion bash)

  Zsh:
    $ memos completion zsh > "${fpath[1]}/_memos"

  Fish:
    $ memos completion fish > ~/.config/fish/completions/memos.fish

  PowerShell:
    PS> memos completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             completionShells,
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	PersistentPreRunE:     func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print the version number of memos",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Version)
	},
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the memos database",
}

var dbUpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade the database schema to the latest version",
	Long: `Connects to the SQLite database (the --db flag or the configured path) and applies any
necessary schema migrations. A missing database is created with the latest schema.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveDBPath()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Upgrading database at %s (WAL: %t, Sync: %s)\n", path, cfg.Database.WAL, cfg.Database.Sync)

		conn, err := pkgdb.OpenDBConnection(path, cfg.Database.WAL, cfg.Database.Sync)
		if err != nil {
			return err
		}
		defer pkgdb.CloseDBConnection(conn)

		if err := pkgdb.UpgradeDB(conn, path, pkgdb.TargetSchemaVersion); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), success(fmt.Sprintf("Database is at schema version %d", pkgdb.TargetSchemaVersion)))
		return nil
	},
}

func initCmd() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&dbPath, "db", "", "Path to the database file (default: config database.path)")
	flags.BoolVar(&walMode, "wal", true, "Enable SQLite WAL (Write-Ahead Logging) mode")
	flags.StringVar(&syncMode, "sync", "FULL", "SQLite synchronous pragma (OFF, NORMAL, FULL, EXTRA)")
	flags.StringVar(&configPath, "config", "", fmt.Sprintf("Config file (default: $%s or the user config dir)", config.EnvConfigPath))
	flags.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	dbCmd.AddCommand(dbUpgradeCmd)

	initMemoCmds()
	initTUICmd()
	initMCPCmd()
	rootCmd.AddCommand(completionCmd, versionCmd, dbCmd)
}

func main() {
	initCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, failure(err.Error()))
		os.Exit(1)
	}
}
