package cli

import (
	"os"

	"github.com/spf13/cobra"

	"ticklist/internal/store"
)

func newBackupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export and import checklist backups",
	}
	cmd.AddCommand(newBackupExportCmd(app))
	cmd.AddCommand(newBackupImportCmd(app))
	return cmd
}

func newBackupExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all checklists as a JSON backup",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBackend(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			payload := store.ExportBackup(b.db.Checklists, app.clock())
			raw, err := store.MarshalBackup(payload)
			if err != nil {
				return writeErr(cmd, err)
			}
			if out == "" {
				_, err := cmd.OutOrStdout().Write(append(raw, '\n'))
				return err
			}
			if err := os.WriteFile(out, raw, 0o600); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"file": out, "checklists": len(payload.Checklists)})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to a file instead of stdout")
	return cmd
}

func newBackupImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import checklists from a backup file (ids are regenerated)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			b, err := openBackend(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			imported, err := store.ImportBackup(b.db, raw)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := b.save(b.db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"imported": len(imported)})
		},
	}
	return cmd
}
