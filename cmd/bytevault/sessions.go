package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/joestump/bytevault/internal/remote"
	"github.com/joestump/bytevault/internal/vault"
)

func newSessionsCmd() *cobra.Command {
	var (
		page   int
		search string
		sort   string
	)
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List and manage sessions of saved tabs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sort != vault.SortNewest && sort != vault.SortOldest {
				return fmt.Errorf("--sort must be %s or %s", vault.SortNewest, vault.SortOldest)
			}
			app, err := openClient(cmd, clientOptions{listing: true})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			app.ctrl.Configure(vault.ViewSessions, page, search, sort)
			return app.ctrl.Reload(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().StringVar(&search, "search", "", "filter by name, description or tag")
	cmd.Flags().StringVar(&sort, "sort", vault.SortNewest, "newest or oldest")

	cmd.AddCommand(newSessionCreateCmd())
	cmd.AddCommand(newSessionMergeCmd())
	cmd.AddCommand(newSessionUpdateCmd())
	cmd.AddCommand(newSessionDeleteCmd())
	cmd.AddCommand(newSessionOpenCmd())
	return cmd
}

func newSessionCreateCmd() *cobra.Command {
	var in remote.NewSession
	cmd := &cobra.Command{
		Use:   "create NAME URL...",
		Short: "Save URLs as a new session",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openClient(cmd, clientOptions{})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			in.Name = args[0]
			report, err := app.ctrl.SaveTabsToSession(cmd.Context(), in, tabsFromArgs(args[1:]))
			if err != nil {
				return errSilent
			}
			return printBatchReport(cmd.ErrOrStderr(), report)
		},
	}
	cmd.Flags().StringVar(&in.Description, "description", "", "session description")
	cmd.Flags().StringVar(&in.Tag, "tag", "", "session tag")
	cmd.Flags().BoolVar(&in.IsFavorite, "favorite", false, "mark as favorite")
	return cmd
}

func newSessionMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge SESSION_ID URL...",
		Short: "Add URLs to an existing session",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openClient(cmd, clientOptions{})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			report, err := app.ctrl.MergeIntoSession(cmd.Context(), args[0], tabsFromArgs(args[1:]))
			if err != nil {
				return errSilent
			}
			return printBatchReport(cmd.ErrOrStderr(), report)
		},
	}
}

func printBatchReport(w io.Writer, report *vault.BatchReport) error {
	for _, t := range report.Skipped {
		fmt.Fprintf(w, "skipped %s\n", t.URL)
	}
	for _, f := range report.Failed {
		fmt.Fprintf(w, "failed  %s: %v\n", f.Tab.URL, f.Err)
	}
	if len(report.Saved) == 0 {
		return errSilent
	}
	return nil
}

func newSessionUpdateCmd() *cobra.Command {
	var (
		name, description, tag string
		favorite               bool
	)
	cmd := &cobra.Command{
		Use:   "update SESSION_ID",
		Short: "Change the fields of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch remote.SessionPatch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			if flags.Changed("tag") {
				patch.Tag = &tag
			}
			if flags.Changed("favorite") {
				patch.IsFavorite = &favorite
			}
			if patch == (remote.SessionPatch{}) {
				return errors.New("nothing to update; pass --name, --description, --tag or --favorite")
			}

			app, err := openClient(cmd, clientOptions{})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			if _, err := app.ctrl.UpdateSession(cmd.Context(), args[0], patch); err != nil {
				return errSilent
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&tag, "tag", "", "new tag")
	cmd.Flags().BoolVar(&favorite, "favorite", false, "favorite flag")
	return cmd
}

func newSessionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete SESSION_ID",
		Short: "Delete a session and every link in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openClient(cmd, clientOptions{})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			return app.ctrl.DeleteSession(cmd.Context(), args[0])
		},
	}
}

func newSessionOpenCmd() *cobra.Command {
	var printOnly bool
	cmd := &cobra.Command{
		Use:   "open SESSION_ID",
		Short: "Open every link of a session in the browser",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openClient(cmd, clientOptions{launcher: launcherFor(cmd, printOnly)})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			_, err = app.ctrl.OpenSession(cmd.Context(), args[0])
			return err
		},
	}
	cmd.Flags().BoolVar(&printOnly, "print", false, "print the URLs instead of opening them")
	return cmd
}
