package cli

import (
	"github.com/spf13/cobra"

	"ticklist/internal/store"
)

func newThemeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Get or set the TUI theme",
	}

	get := &cobra.Command{
		Use:   "get",
		Short: "Show the configured theme",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			theme := cfg.Theme
			if theme == "" {
				theme = "dark"
			}
			return writeOut(cmd, app, map[string]string{"theme": theme})
		},
	}

	set := &cobra.Command{
		Use:   "set <dark|light>",
		Short: "Set the theme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			theme, err := store.NormalizeTheme(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg.Theme = theme
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]string{"theme": theme})
		},
	}

	cmd.AddCommand(get)
	cmd.AddCommand(set)
	return cmd
}
