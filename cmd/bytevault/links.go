package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joestump/bytevault/internal/vault"
)

func newLinksCmd() *cobra.Command {
	var (
		page    int
		search  string
		sort    string
		refresh bool
	)
	cmd := &cobra.Command{
		Use:   "links",
		Short: "List saved links that are not in a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if sort != vault.SortNewest && sort != vault.SortOldest {
				return fmt.Errorf("--sort must be %s or %s", vault.SortNewest, vault.SortOldest)
			}
			app, err := openClient(cmd, clientOptions{listing: true})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			ctx := cmd.Context()
			app.ctrl.Configure(vault.ViewLinks, page, search, sort)
			clean := page <= 1 && search == "" && sort == vault.SortNewest
			if clean && !refresh && app.ctrl.LoadInitial() {
				return app.ctrl.Revalidate(ctx, false)
			}
			return app.ctrl.Reload(ctx)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().StringVar(&search, "search", "", "filter by title or URL")
	cmd.Flags().StringVar(&sort, "sort", vault.SortNewest, "newest or oldest")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "skip the local cache")
	return cmd
}

func newSaveCmd() *cobra.Command {
	var title, favicon string
	cmd := &cobra.Command{
		Use:   "save URL",
		Short: "Save a link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openClient(cmd, clientOptions{})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			app.ctrl.LoadInitial()
			_, done := app.ctrl.SaveTab(cmd.Context(), vault.Tab{URL: args[0], Title: title, Favicon: favicon})
			if err := <-done; err != nil {
				return errSilent
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "link title (default \"Untitled\")")
	cmd.Flags().StringVar(&favicon, "favicon", "", "favicon URL")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID...",
		Short: "Delete one or more links",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openClient(cmd, clientOptions{})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			app.ctrl.LoadInitial()
			if len(args) == 1 {
				return app.ctrl.DeleteLink(cmd.Context(), args[0])
			}
			n, err := app.ctrl.DeleteLinks(cmd.Context(), args)
			if err != nil {
				return err
			}
			if n < len(args) {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d ids were not found\n", len(args)-n, len(args))
			}
			return nil
		},
	}
}
