package cli

import (
	"github.com/spf13/cobra"

	"ticklist/internal/mutate"
	"ticklist/internal/order"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Item commands",
	}
	cmd.AddCommand(newItemsAddCmd(app))
	cmd.AddCommand(newItemsListCmd(app))
	cmd.AddCommand(newItemsToggleCmd(app))
	cmd.AddCommand(newItemsEditCmd(app))
	cmd.AddCommand(newItemsDeadlineCmd(app))
	cmd.AddCommand(newItemsRemoveCmd(app))
	cmd.AddCommand(newItemsMoveCmd(app))
	cmd.AddCommand(newItemsClearCompletedCmd(app))
	return cmd
}

// saveItemResult persists and emits the common item-mutation response.
func saveItemResult(cmd *cobra.Command, app *App, b *backend, res mutate.ItemResult) error {
	if res.Changed {
		if err := b.save(b.db); err != nil {
			return writeErr(cmd, err)
		}
	}
	return writeOut(cmd, app, res.Item)
}

func newItemsAddCmd(app *App) *cobra.Command {
	var text, deadline string

	cmd := &cobra.Command{
		Use:   "add <checklist-id>",
		Short: "Add an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBackend(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := mutate.AddItem(b.db, args[0], text, deadline)
			if err != nil {
				return writeErr(cmd, err)
			}
			return saveItemResult(cmd, app, b, res)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Item text")
	cmd.Flags().StringVar(&deadline, "deadline", "", "Deadline as YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newItemsListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <checklist-id>",
		Short: "List items in display order",
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
			return writeOut(cmd, app, order.Display(c.Items, c.SortMode))
		},
	}
	return cmd
}

func newItemsToggleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle <checklist-id> <item-id>",
		Short: "Toggle an item's done state",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBackend(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := mutate.ToggleItem(b.db, args[0], args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			return saveItemResult(cmd, app, b, res)
		},
	}
	return cmd
}

func newItemsEditCmd(app *App) *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "edit <checklist-id> <item-id>",
		Short: "Edit an item's text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBackend(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := mutate.EditItemText(b.db, args[0], args[1], text)
			if err != nil {
				return writeErr(cmd, err)
			}
			return saveItemResult(cmd, app, b, res)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "New text")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newItemsDeadlineCmd(app *App) *cobra.Command {
	var date string
	var clear bool

	cmd := &cobra.Command{
		Use:   "deadline <checklist-id> <item-id>",
		Short: "Set or clear an item's deadline",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBackend(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			var res mutate.ItemResult
			if clear {
				res, err = mutate.ClearItemDeadline(b.db, args[0], args[1])
			} else {
				res, err = mutate.SetItemDeadline(b.db, args[0], args[1], date)
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return saveItemResult(cmd, app, b, res)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Deadline as YYYY-MM-DD")
	cmd.Flags().BoolVar(&clear, "clear", false, "Remove the deadline")
	cmd.MarkFlagsOneRequired("date", "clear")
	cmd.MarkFlagsMutuallyExclusive("date", "clear")
	return cmd
}

func newItemsRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <checklist-id> <item-id>",
		Short: "Remove an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBackend(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := mutate.RemoveItem(b.db, args[0], args[1])
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

func newItemsMoveCmd(app *App) *cobra.Command {
	var from, to int

	cmd := &cobra.Command{
		Use:   "move <checklist-id>",
		Short: "Move an item to a new position (manual sort mode only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBackend(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := mutate.MoveItem(b.db, args[0], from, to)
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

	cmd.Flags().IntVar(&from, "from", 0, "Current index (0-based)")
	cmd.Flags().IntVar(&to, "to", 0, "Target index (0-based)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newItemsClearCompletedCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear-completed <checklist-id>",
		Short: "Remove all completed items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBackend(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			removed, err := mutate.ClearCompleted(b.db, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if removed > 0 {
				if err := b.save(b.db); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]int{"removed": removed})
		},
	}
	return cmd
}
