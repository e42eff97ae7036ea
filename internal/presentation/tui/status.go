package tui

import (
	"github.com/aretw0/sprout/pkg/domain"
	"github.com/muesli/termenv"
)

// StatusLabel colours a run or phase status for terminal output.
func StatusLabel(s domain.Status) string {
	p := termenv.ColorProfile()
	label := termenv.String(string(s))
	switch s {
	case domain.StatusSuccess:
		return label.Foreground(p.Color("#22c55e")).String()
	case domain.StatusFailed:
		return label.Foreground(p.Color("#f59e0b")).String()
	case domain.StatusAborted:
		return label.Foreground(p.Color("#ef4444")).Bold().String()
	default:
		return label.Faint().String()
	}
}
