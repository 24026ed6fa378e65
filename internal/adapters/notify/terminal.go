package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/bnema/spaceo-chat/internal/ports"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

// Terminal prints toasts as single styled lines. The dismiss hint that a
// browser toast carries is dropped.
type Terminal struct {
	mu      sync.Mutex
	out     io.Writer
	logger  zerolog.Logger
	success lipgloss.Style
	danger  lipgloss.Style
	detail  lipgloss.Style
}

var _ ports.Notifier = (*Terminal)(nil)

func NewTerminal(out io.Writer, logger zerolog.Logger) *Terminal {
	return &Terminal{
		out:     out,
		logger:  logger,
		success: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		danger:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		detail:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

func (n *Terminal) Notify(toast ports.Toast) {
	n.logger.Debug().Str("level", string(toast.Level)).Str("title", toast.Title).Msg("toast")

	var line string
	switch toast.Level {
	case ports.ToastSuccess:
		line = n.success.Render("✓ " + toast.Title)
	default:
		line = n.danger.Render("✗ " + toast.Title)
	}
	if toast.Message != "" && toast.Message != "Click to dismiss" {
		line += " " + n.detail.Render(toast.Message)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = fmt.Fprintln(n.out, line)
}
