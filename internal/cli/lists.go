package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"ticklist/internal/model"
	"ticklist/internal/mutate"
	"ticklist/internal/order"
)

func newListsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Checklist commands",
	}
	cmd.AddCommand(newListsCreateCmd(app))
	cmd.AddCommand(newListsListCmd(app))
	cmd.AddCommand(newListsShowCmd(app))
	cmd.AddCommand(newListsRenameCmd(app))
	cmd.AddCommand(newListsSortCmd(app))
	cmd.AddCommand(newListsPinCmd(app, true))
	cmd.AddCommand(newListsPinCmd(app, false))
	return cmd
}

func newListsCreateCmd(app *App) *cobra.Command {
	var title string
	var prefill string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a checklist",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBackend(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			c, err := mutate.CreateChecklist(b.db, title, prefill)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := b.save(b.db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, c)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Checklist title")
	cmd.Flags().StringVar(&prefill, "prefill", "", "Seed items, one per line")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

// listSummary is the lists-list row: the checklist plus its counters, so
// scripts do not have to recompute progress.
type listSummary struct {
	model.Checklist
	Stats model.Stats `json:"stats"`
}

func summarize(lists []model.Checklist, clk model.Clock) []listSummary {
	out := make([]listSummary, 0, len(lists))
	for _, c := range lists {
		out = append(out, listSummary{Checklist: c, Stats: c.StatsAt(clk)})
	}
	return out
}

func newListsListCmd(app *App) *cobra.Command {
	var archived bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List checklists (pinned first; archived hidden unless --archived)",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBackend(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			lists := b.db.Visible()
			if archived {
				lists = b.db.Archived()
			}
			return writeOut(cmd, app, summarize(lists, app.clock()))
		},
	}

	cmd.Flags().BoolVar(&archived, "archived", false, "Show the archive instead of active checklists")
	return cmd
}

func newListsShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <checklist-id>",
		Short: "Show one checklist with items in display order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBackend(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			c, ok := b.db.FindChecklist(args[0])
			if !ok {
				return writeErr(cmd, mutate.NotFoundError{Kind: "checklist", ID: args[0]})
			}
			view := *c
			view.Items = order.Display(c.Items, c.SortMode)
			return writeOut(cmd, app, listSummary{Checklist: view, Stats: c.StatsAt(app.clock())})
		},
	}
	return cmd
}

func newListsRenameCmd(app *App) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "rename <checklist-id>",
		Short: "Rename a checklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBackend(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := mutate.RenameChecklist(b.db, args[0], title)
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

	cmd.Flags().StringVar(&title, "title", "", "New title")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newListsSortCmd(app *App) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "sort <checklist-id>",
		Short: "Set the sort mode (manual|deadline-asc|deadline-desc)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBackend(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := mutate.SetSortMode(b.db, args[0], model.SortMode(strings.TrimSpace(mode)))
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

	cmd.Flags().StringVar(&mode, "mode", "", "Sort mode")
	_ = cmd.MarkFlagRequired("mode")
	return cmd
}

func newListsPinCmd(app *App, pin bool) *cobra.Command {
	use, short := "pin <checklist-id>", "Pin a checklist to the top of the overview"
	if !pin {
		use, short = "unpin <checklist-id>", "Unpin a checklist"
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBackend(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := mutate.SetPinned(b.db, args[0], pin)
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
