// Package terminal draws the vault listings as text tables.
package terminal

import (
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/joestump/bytevault/internal/vault"
)

const maxTitleWidth = 48

// Renderer implements vault.Renderer on a pair of writers. Tables and
// notices go to out; errors and progress go to errOut.
type Renderer struct {
	mu       sync.Mutex
	out      io.Writer
	errOut   io.Writer
	progress bool
	quiet    bool // notices only, no listings
}

func New(out, errOut io.Writer) *Renderer {
	return &Renderer{out: out, errOut: errOut, progress: isTerminal(errOut)}
}

// NewNotifier returns a Renderer that prints only toasts, for commands that
// change data without listing it.
func NewNotifier(out, errOut io.Writer) *Renderer {
	r := New(out, errOut)
	r.quiet = true
	return r
}

var _ vault.Renderer = (*Renderer)(nil)

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (r *Renderer) RenderLinks(items []vault.Item) {
	if r.quiet {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tURL\tSAVED")
	for _, it := range items {
		l := it.Link
		id := l.ID
		saved := formatTime(l.CreatedAt)
		if it.Pending {
			id = "(saving)"
			saved = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", id, truncate(l.Title, maxTitleWidth), l.URL, saved)
	}
	_ = w.Flush()
}

func (r *Renderer) RenderSessions(items []vault.Item) {
	if r.quiet {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTAG\tLINKS\tFAVORITE\tCREATED")
	for _, it := range items {
		s := it.Session
		fav := ""
		if s.IsFavorite {
			fav = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			s.ID, truncate(s.Name, maxTitleWidth), s.Tag, s.LinkCount, fav, formatTime(s.CreatedAt))
	}
	_ = w.Flush()
}

// UpdatePagination prints the page position when there is more than one page.
func (r *Renderer) UpdatePagination(page, totalPages int) {
	if totalPages <= 1 || r.quiet {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "\nPage %d of %d\n", page, totalPages)
}

func (r *Renderer) ShowLoading() {
	if !r.progress {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.errOut, "Loading...")
}

func (r *Renderer) ShowEmptyState(message string) {
	if r.quiet {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, message)
}

func (r *Renderer) ShowToast(message string, isError bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if isError {
		fmt.Fprintln(r.errOut, "error: "+message)
		return
	}
	fmt.Fprintln(r.out, message)
}

func (r *Renderer) SetSaveBusy(busy bool) {
	if !busy || !r.progress {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.errOut, "Saving...")
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
