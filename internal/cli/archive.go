package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"ticklist/internal/mutate"
)

func newArchiveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Archive lifecycle commands",
	}
	cmd.AddCommand(newArchiveAddCmd(app))
	cmd.AddCommand(newArchiveListCmd(app))
	cmd.AddCommand(newArchiveRestoreCmd(app))
	cmd.AddCommand(newArchiveDeleteCmd(app))
	return cmd
}

func newArchiveAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <checklist-id>",
		Short: "Archive a checklist (read-only until restored)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBackend(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := mutate.ArchiveChecklist(b.db, args[0], app.clock())
			if err != nil {
				return writeErr(cmd, err)
			}
			if res.Changed {
				if err := b.save(b.db); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, res.Checklist)
		},
	}
	return cmd
}

func newArchiveListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived checklists",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBackend(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, summarize(b.db.Archived(), app.clock()))
		},
	}
	return cmd
}

func newArchiveRestoreCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <checklist-id>",
		Short: "Restore an archived checklist with items intact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBackend(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := mutate.RestoreChecklist(b.db, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if res.Changed {
				if err := b.save(b.db); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, res.Checklist)
		},
	}
	return cmd
}

func newArchiveDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <checklist-id>",
		Short: "Permanently delete an archived checklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Deletion is irreversible and only ever reaches archived lists.
			if !yes {
				return writeErr(cmd, errors.New("permanent deletion requires --yes"))
			}
			b, err := openBackend(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := mutate.DeleteChecklist(b.db, args[0]); err != nil {
				return writeErr(cmd, err)
			}
			if err := b.save(b.db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]string{"deleted": args[0]})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm permanent deletion")
	return cmd
}
