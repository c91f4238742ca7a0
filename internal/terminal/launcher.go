package terminal

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
)

// PrintLauncher writes URLs one per line instead of opening them.
type PrintLauncher struct {
	Out io.Writer
}

func (p PrintLauncher) Open(ctx context.Context, urls []string) error {
	for _, u := range urls {
		if _, err := fmt.Fprintln(p.Out, u); err != nil {
			return err
		}
	}
	return nil
}

// BrowserLauncher opens URLs with the platform's default handler.
type BrowserLauncher struct{}

func (BrowserLauncher) Open(ctx context.Context, urls []string) error {
	for _, u := range urls {
		if err := exec.CommandContext(ctx, opener(), u).Run(); err != nil {
			return fmt.Errorf("open %s: %w", u, err)
		}
	}
	return nil
}

func opener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "explorer"
	default:
		return "xdg-open"
	}
}
