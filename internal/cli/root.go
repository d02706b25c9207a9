// internal/cli/root.go
//
// Command line entry points:
//   - recall serve        → HTTP game API (default)
//   - recall migrate      → apply SQLite migrations
//   - recall profile      → show (or rename) the local profile
//   - recall claim-heart  → run the daily heart regeneration
//   - recall ranks        → print the rank ladder

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/robalobadob/recall/internal/config"
	"github.com/robalobadob/recall/internal/locale"
)

const Version = "1.0.0"

// app carries what every command needs.
type app struct {
	cfg  config.Config
	lang string
}

// Execute runs the command line and exits non-zero on failure.
func Execute(cfg config.Config) {
	if err := NewRootCmd(cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, badStyle.Render(iconError+" "+err.Error()))
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree. Running it with no subcommand serves.
func NewRootCmd(cfg config.Config) *cobra.Command {
	a := &app{cfg: cfg}
	serve := a.newServeCmd()

	root := &cobra.Command{
		Use:           "recall",
		Short:         "Recall: memory pattern game server",
		Long:          "Recall serves the memory pattern game API and manages the local player profile.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	root.PersistentFlags().StringVar(&a.lang, "lang", cfg.DefaultLang, "display language for rank names")
	root.PersistentFlags().StringVar(&a.cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	// Bare "recall" serves too, so the listen port lives on the root.
	root.PersistentFlags().StringVar(&a.cfg.Port, "port", cfg.Port, "listen port")

	root.AddCommand(
		serve,
		a.newMigrateCmd(),
		a.newProfileCmd(),
		a.newClaimHeartCmd(),
		a.newRanksCmd(),
	)
	return root
}

// catalog loads the display strings; commands match --lang against it.
func (a *app) catalog() (*locale.Catalog, error) {
	return locale.Load(a.cfg.DefaultLang)
}
