package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ticklist/internal/client"
	"ticklist/internal/format"
	"ticklist/internal/model"
	"ticklist/internal/store"
	"ticklist/internal/tui"
)

type App struct {
	Dir        string
	Local      bool
	PrettyJSON bool

	clk model.Clock
}

func (app *App) clock() model.Clock {
	if app.clk != nil {
		return app.clk
	}
	return model.SystemClock{}
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "ticklist",
		Short:        "Personal checklists with deadlines, local-first with optional sync",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  ticklist

  # Scriptable commands
  ticklist lists create --title "Release v1.0" --prefill "Ship it"
  ticklist items add <checklist-id> --text "Write changelog" --deadline 2026-09-01
  ticklist lists sort <checklist-id> --mode deadline-asc
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("TICKLIST_DIR", ""), "Path to data dir (overrides the default ~/.ticklist; forces the local backend)")
	cmd.PersistentFlags().BoolVar(&app.Local, "local", false, "Use the local store even when logged in to a sync server")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newListsCmd(app))
	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newArchiveCmd(app))
	cmd.AddCommand(newBackupCmd(app))
	cmd.AddCommand(newAccountCmd(app))
	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newThemeCmd(app))

	return cmd
}

// backend bundles a loaded snapshot with the function that persists it, so
// command logic is identical for the local store and the sync server.
type backend struct {
	db     *store.DB
	save   func(*store.DB) error
	remote bool
}

func openBackend(app *App) (*backend, error) {
	if app.Dir == "" && !app.Local {
		if b, ok, err := openRemote(); err != nil {
			return nil, err
		} else if ok {
			return b, nil
		}
	}
	return openLocal(app)
}

func openLocal(app *App) (*backend, error) {
	dir := app.Dir
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	s := store.Store{Dir: dir}
	db, err := s.Load()
	if err != nil {
		return nil, err
	}
	return &backend{db: db, save: s.Save}, nil
}

// openRemote reports ok=false when no usable session exists, which sends
// the caller to the local store.
func openRemote() (*backend, bool, error) {
	creds, err := client.LoadCredentials()
	if err != nil || creds == nil {
		return nil, false, err
	}
	url := creds.ServerURL
	if url == "" {
		if cfg, err := store.LoadConfig(); err == nil {
			url = cfg.ServerURL
		}
	}
	if url == "" {
		return nil, false, nil
	}
	c := client.New(url, creds.Token)
	lists, err := c.LoadChecklists()
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return nil, false, errors.New("session expired; run `ticklist account login` (or pass --local)")
		}
		return nil, false, err
	}
	db := &store.DB{Checklists: lists}
	return &backend{
		db:     db,
		save:   func(db *store.DB) error { return c.SaveChecklists(db.Checklists) },
		remote: true,
	}, true, nil
}

func runTUI(app *App) error {
	b, err := openBackend(app)
	if err != nil {
		return err
	}
	theme := ""
	if cfg, err := store.LoadConfig(); err == nil {
		theme = cfg.Theme
	}
	return tui.Run(tui.Options{
		DB:    b.db,
		Save:  b.save,
		Theme: theme,
		Clock: app.clock(),
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), map[string]any{"data": v}, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
