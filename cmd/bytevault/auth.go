package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joestump/bytevault/internal/tokenstore"
)

func newRegisterCmd() *cobra.Command {
	return newCredentialsCmd("register", "Create an account and sign in",
		func(ctx context.Context, app *clientApp, email, password string) (*tokenstore.User, error) {
			return app.api.Register(ctx, email, password)
		})
}

func newLoginCmd() *cobra.Command {
	return newCredentialsCmd("login", "Sign in to ByteVault",
		func(ctx context.Context, app *clientApp, email, password string) (*tokenstore.User, error) {
			return app.api.Login(ctx, email, password)
		})
}

type credentialsFunc func(ctx context.Context, app *clientApp, email, password string) (*tokenstore.User, error)

func newCredentialsCmd(use, short string, fn credentialsFunc) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return errors.New("--email is required")
			}
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}

			app, err := openClient(cmd, clientOptions{anonymous: true})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			// A different account must not see the previous one's cached page.
			if err := app.cache.Clear(); err != nil {
				return err
			}
			u, err := fn(cmd.Context(), app, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", u.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget local credentials and cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openClient(cmd, clientOptions{anonymous: true})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			if err := app.api.Logout(cmd.Context()); err != nil {
				return err
			}
			if err := app.cache.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openClient(cmd, clientOptions{anonymous: true})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			u, err := app.tokens.User()
			if err != nil {
				return err
			}
			if u == nil {
				return errNotSignedIn
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", u.Email, u.ID)
			return nil
		},
	}
}
