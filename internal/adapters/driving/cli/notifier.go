package cli

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/custodia-labs/bucketdrop/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/bucketdrop/internal/core/domain"
	"github.com/custodia-labs/bucketdrop/internal/core/ports/driven"
)

// Ensure the notifiers implement the interface.
var (
	_ driven.Notifier = (*noticeRelay)(nil)
	_ driven.Notifier = (*noticePrinter)(nil)
)

// noticeRelay forwards notices to whichever surface is active.
// The pipeline is built once; the relay lets the TUI and MCP commands
// swap the destination without rebuilding it.
type noticeRelay struct {
	mu     sync.RWMutex
	target driven.Notifier
}

// SetTarget replaces the destination. Nil drops notices.
func (r *noticeRelay) SetTarget(n driven.Notifier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.target = n
}

// Notify forwards the notice.
func (r *noticeRelay) Notify(n domain.Notice) {
	r.mu.RLock()
	target := r.target
	r.mu.RUnlock()
	if target != nil {
		target.Notify(n)
	}
}

// noticePrinter writes one line per notice.
type noticePrinter struct {
	mu     sync.Mutex
	w      io.Writer
	styles *styles.Styles
}

func newNoticePrinter(w io.Writer) *noticePrinter {
	p := &noticePrinter{w: w}
	if isTerminal(w) {
		p.styles = styles.DefaultStyles()
	}
	return p
}

// Notify prints the notice, styled when writing to a terminal.
func (p *noticePrinter) Notify(n domain.Notice) {
	p.mu.Lock()
	defer p.mu.Unlock()

	line := styles.NoticeMarker(n.Level) + " " + n.Message
	if p.styles != nil {
		line = p.styles.RenderNotice(n)
	}
	fmt.Fprintln(p.w, line) //nolint:errcheck // best-effort output
}

// noticeFunc adapts a function to driven.Notifier.
type noticeFunc func(domain.Notice)

// Notify calls f.
func (f noticeFunc) Notify(n domain.Notice) {
	f(n)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: fd fits in int
}
