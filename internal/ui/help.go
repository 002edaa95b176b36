package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

// HelpRenderer handles help content rendering
type HelpRenderer struct{}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{}
}

// RenderHelpContent generates help content with colors for the pager
func (r *HelpRenderer) RenderHelpContent() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	line := func(b *strings.Builder, k, desc string) {
		b.WriteString(fmt.Sprintf("  %-12s %s\n", keyStyle.Render(k), descStyle.Render(desc)))
	}

	var help strings.Builder

	help.WriteString(titleStyle.Render("photogrid Help"))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Photo Search"))
	help.WriteString("\n")
	help.WriteString(descStyle.Render("  Type to search. A query is sent once you stop typing for a moment;"))
	help.WriteString("\n")
	help.WriteString(descStyle.Render("  answers to older queries are ignored. Clearing the field keeps the results."))
	help.WriteString("\n")
	line(&help, "↑/↓", "Move selection")
	line(&help, "PgUp/PgDn", "Page up/down")
	line(&help, "Enter", "Preview the selected photo")
	line(&help, "Esc", "Close the preview")
	line(&help, "Ctrl+G", "Switch between list and mosaic")
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Layout Demos"))
	help.WriteString("\n")
	line(&help, "↑/↓", "Focus previous/next section")
	line(&help, "←/→, h/l", "Page a horizontally scrolling section")
	line(&help, "s", "Shuffle items and apply the change set")
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Other"))
	help.WriteString("\n")
	line(&help, "Tab", "Next screen")
	line(&help, "Shift+Tab", "Previous screen")
	line(&help, "F1", "Show this help")
	line(&help, "F2", "Toggle the key summary")
	line(&help, "q", "Quit (layout demos)")
	help.WriteString(fmt.Sprintf("  %-12s %s", keyStyle.Render("Ctrl+C"), descStyle.Render("Quit")))

	return help.String()
}

// HelpOps handles help operations
type HelpOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewHelpOps creates a new help operations instance
func NewHelpOps(program *tea.Program) *HelpOps {
	return &HelpOps{
		program: program,
	}
}

// ShowHelpInPager shows help content using ov pager
func (h *HelpOps) ShowHelpInPager(helpContent string) error {
	if h.program == nil {
		return fmt.Errorf("program not set")
	}

	// Release terminal control to run ov
	if err := h.program.ReleaseTerminal(); err != nil {
		return err
	}

	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = h.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(helpContent))
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
