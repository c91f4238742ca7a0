package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/joestump/bytevault/internal/build"
	"github.com/joestump/bytevault/internal/config"
	"github.com/joestump/bytevault/internal/localstore"
	"github.com/joestump/bytevault/internal/logging"
	"github.com/joestump/bytevault/internal/remote"
	"github.com/joestump/bytevault/internal/terminal"
	"github.com/joestump/bytevault/internal/tokenstore"
	"github.com/joestump/bytevault/internal/vault"
)

var errNotSignedIn = errors.New("not signed in; run `bytevault login` first")

// clientApp bundles the client core for one command invocation.
type clientApp struct {
	cfg    *config.ClientConfig
	log    *logrus.Logger
	kv     localstore.Store
	tokens *tokenstore.Store
	api    *remote.Client
	cache  *vault.Cache
	ctrl   *vault.Controller
}

type clientOptions struct {
	// listing selects the table renderer; otherwise only notices are printed.
	listing  bool
	launcher vault.Launcher
	// anonymous skips the signed-in check.
	anonymous bool
}

func openClient(cmd *cobra.Command, opts clientOptions) (*clientApp, error) {
	cfg, err := config.LoadClient()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	kv, err := localstore.OpenBolt(cfg.DataPath)
	if err != nil {
		return nil, err
	}

	tokens := tokenstore.New(kv)
	if !opts.anonymous && !tokens.SignedIn() {
		_ = kv.Close()
		return nil, errNotSignedIn
	}

	client := remote.New(cfg.APIURL, tokens,
		remote.WithLogger(logger),
		remote.WithUserAgent(build.UserAgent()),
	)

	var r vault.Renderer
	if opts.listing {
		r = terminal.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
	} else {
		r = terminal.NewNotifier(cmd.OutOrStdout(), cmd.ErrOrStderr())
	}
	cache := vault.NewCache(kv)
	ctrl := vault.New(client, cache, r, vault.Options{
		PageSize: cfg.PageSize,
		Logger:   logger,
		Launcher: opts.launcher,
	})

	return &clientApp{
		cfg:    cfg,
		log:    logger,
		kv:     kv,
		tokens: tokens,
		api:    client,
		cache:  cache,
		ctrl:   ctrl,
	}, nil
}

// Close waits for background work and releases the local store.
func (a *clientApp) Close() error {
	a.ctrl.Wait()
	return a.kv.Close()
}

// readPassword prompts without echo on a terminal and reads one line otherwise.
func readPassword(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	return readLine(in)
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// tabsFromArgs turns URL arguments into tabs.
func tabsFromArgs(args []string) []vault.Tab {
	tabs := make([]vault.Tab, 0, len(args))
	for _, u := range args {
		tabs = append(tabs, vault.Tab{URL: u})
	}
	return tabs
}

func launcherFor(cmd *cobra.Command, printOnly bool) vault.Launcher {
	if printOnly {
		return terminal.PrintLauncher{Out: cmd.OutOrStdout()}
	}
	return terminal.BrowserLauncher{}
}
