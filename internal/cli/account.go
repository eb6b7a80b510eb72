package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"ticklist/internal/client"
	"ticklist/internal/store"
)

func newAccountCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Sync-server account commands",
	}
	cmd.AddCommand(newAccountSignupCmd(app))
	cmd.AddCommand(newAccountLoginCmd(app))
	cmd.AddCommand(newAccountLogoutCmd(app))
	cmd.AddCommand(newAccountShowCmd(app))
	cmd.AddCommand(newAccountUpdateCmd(app))
	return cmd
}

// resolveServerURL prefers the flag, then the saved session, then config.
func resolveServerURL(flag string) (string, error) {
	if s := strings.TrimSpace(flag); s != "" {
		return s, nil
	}
	if creds, err := client.LoadCredentials(); err == nil && creds != nil && creds.ServerURL != "" {
		return creds.ServerURL, nil
	}
	if cfg, err := store.LoadConfig(); err == nil && cfg.ServerURL != "" {
		return cfg.ServerURL, nil
	}
	return "", errors.New("no server configured; pass --server or set serverUrl in config")
}

func sessionClient() (*client.Client, error) {
	creds, err := client.LoadCredentials()
	if err != nil {
		return nil, err
	}
	if creds == nil || creds.Token == "" {
		return nil, errors.New("not logged in; run `ticklist account login`")
	}
	url, err := resolveServerURL("")
	if err != nil {
		return nil, err
	}
	return client.New(url, creds.Token), nil
}

func newAccountSignupCmd(app *App) *cobra.Command {
	var server, name, email, password string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := resolveServerURL(server)
			if err != nil {
				return writeErr(cmd, err)
			}
			c := client.New(url, "")
			sess, err := c.Signup(cmd.Context(), name, email, password)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := client.SaveCredentials(client.Credentials{
				ServerURL: url, Token: sess.Token, Email: sess.User.Email,
			}); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, sess.User)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Sync server base URL")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password (min 8 characters)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newAccountLoginCmd(app *App) *cobra.Command {
	var server, email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to a sync server",
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := resolveServerURL(server)
			if err != nil {
				return writeErr(cmd, err)
			}
			c := client.New(url, "")
			sess, err := c.Login(cmd.Context(), email, password)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := client.SaveCredentials(client.Credentials{
				ServerURL: url, Token: sess.Token, Email: sess.User.Email,
			}); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, sess.User)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Sync server base URL")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newAccountLogoutCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session (server data is untouched)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.ClearCredentials(); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]bool{"loggedOut": true})
		},
	}
	return cmd
}

func newAccountShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the logged-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sessionClient()
			if err != nil {
				return writeErr(cmd, err)
			}
			u, err := c.Me(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, u)
		},
	}
	return cmd
}

func newAccountUpdateCmd(app *App) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update the logged-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sessionClient()
			if err != nil {
				return writeErr(cmd, err)
			}
			var upd client.AccountUpdate
			if cmd.Flags().Changed("name") {
				upd.Name = &name
			}
			if cmd.Flags().Changed("email") {
				upd.Email = &email
			}
			if cmd.Flags().Changed("password") {
				upd.Password = &password
			}
			u, err := c.UpdateMe(cmd.Context(), upd)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, u)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New display name")
	cmd.Flags().StringVar(&email, "email", "", "New email address")
	cmd.Flags().StringVar(&password, "password", "", "New password")
	return cmd
}
