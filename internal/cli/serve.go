package cli

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"ticklist/internal/server"
	"ticklist/internal/store"
)

func newServeCmd(app *App) *cobra.Command {
	var configPath, addr, dbPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the sync server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := server.LoadConfig(configPath)
			if err != nil {
				return writeErr(cmd, err)
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if dbPath != "" {
				cfg.DBPath = dbPath
			}
			if cfg.DBPath == "" {
				dir, err := store.DefaultDir()
				if err != nil {
					return writeErr(cmd, err)
				}
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return writeErr(cmd, err)
				}
				cfg.DBPath = filepath.Join(dir, "server.sqlite")
			}

			repo, err := server.OpenSQLiteRepository(cmd.Context(), cfg.DBPath)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer repo.Close()

			logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
			srv, err := server.New(repo, cfg, server.WithLogger(logger), server.WithClock(app.clock()))
			if err != nil {
				return writeErr(cmd, err)
			}

			logger.Info("listening", "addr", cfg.Addr, "db", cfg.DBPath)
			return http.ListenAndServe(cfg.Addr, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&configPath, "config", envOr("TICKLIST_SERVER_CONFIG", ""), "Path to a TOML server config")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")
	return cmd
}
