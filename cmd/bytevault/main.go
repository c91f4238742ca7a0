package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joestump/bytevault/internal/remote"
)

// errSilent fails a command whose error was already shown to the user.
var errSilent = errors.New("")

func main() {
	rootCmd := &cobra.Command{
		Use:           "bytevault",
		Short:         "A self-hosted bookmark vault",
		Long:          "ByteVault saves links and sessions of tabs behind an authenticated API, with a terminal client.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.AddCommand(newRegisterCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newLinksCmd())
	rootCmd.AddCommand(newSaveCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newSessionsCmd())
	rootCmd.AddCommand(newExportCmd())

	if err := rootCmd.Execute(); err != nil {
		switch {
		case errors.Is(err, errSilent):
		case errors.Is(err, remote.ErrSessionExpired):
			fmt.Fprintln(os.Stderr, remote.MsgSessionExpired)
		default:
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
