package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/bucketdrop/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/bucketdrop/internal/core/domain"
	"github.com/custodia-labs/bucketdrop/internal/core/ports/driven"
)

// Ensure Notifier implements the interface.
var _ driven.Notifier = (*Notifier)(nil)

// sender is the part of *tea.Program the notifier needs.
type sender interface {
	Send(msg tea.Msg)
}

// Notifier delivers pipeline notices to a running program as
// messages.NoticeShown. Notices sent before Attach are dropped.
type Notifier struct {
	mu      sync.RWMutex
	program sender
}

// NewNotifier creates a detached notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Attach routes notices to p. Nil detaches.
func (n *Notifier) Attach(p *tea.Program) {
	if p == nil {
		n.attach(nil)
		return
	}
	n.attach(p)
}

func (n *Notifier) attach(s sender) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.program = s
}

// Notify implements driven.Notifier.
func (n *Notifier) Notify(notice domain.Notice) {
	n.mu.RLock()
	p := n.program
	n.mu.RUnlock()
	if p != nil {
		p.Send(messages.NoticeShown{Notice: notice})
	}
}
