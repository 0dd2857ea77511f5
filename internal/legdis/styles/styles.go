// Package styles holds the colors and renderers shared by the legdis viewer.
package styles

import (
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/exp/charmtone"
)

var (
	// Title styles list and panel titles.
	Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color(charmtone.Charple.Hex())).
		MarginLeft(2)

	// Selected marks the active label in the label list.
	Selected = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))

	// Muted is used for slot indices and annotations.
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	// LabelName colors label names, matching the listing's gold labels.
	LabelName = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))

	// Menu is the bottom key-help bar.
	Menu = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("252")).
		Padding(0, 1)

	// Error renders fatal decode errors inside the viewer.
	Error = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)
