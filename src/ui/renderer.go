package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	runewidth "github.com/mattn/go-runewidth"
)

const (
	Title     = "Alogic Playground"
	argsLabel = "args"
	maxTabW   = 24
)

// Render generates the full UI string based on the provided state.
func Render(s State, styles Styles) string {
	header := renderHeader(s, styles)
	body := renderBody(s, styles)
	status := renderStatus(s, styles)
	footer := renderFooter(s, styles)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, status, footer)
}

func renderHeader(s State, styles Styles) string {
	title := styles.Header.Render(Title)
	if s.Version == "" {
		return title
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, styles.Subtitle.Render("Playground Version: "+s.Version))
}

func renderFooter(s State, styles Styles) string {
	help := "ctrl+c: quit"
	switch s.Mode {
	case ModeNewFile:
		help += " | enter: create | esc: cancel"
	case ModeOpenFile:
		help += " | enter: open | ←: parent dir | esc: cancel"
	default:
		if s.Busy {
			help += " | esc: cancel compile"
		} else {
			help += " | ctrl+r: compile | tab: focus | alt+[/]: switch tab | ctrl+n: new file | ctrl+o: open | ctrl+w: close"
		}
	}
	return styles.Footer.Render(help)
}

func renderBody(s State, styles Styles) string {
	switch s.Mode {
	case ModeNewFile:
		return renderNewFile(s, styles)
	case ModeOpenFile:
		return renderOpenFile(s, styles)
	default:
		return renderWorkspace(s, styles)
	}
}

func renderWorkspace(s State, styles Styles) string {
	l := ComputeLayout(s.Width, s.Height)

	args := box(s.Focus == FocusArgs, styles).Render(
		lipgloss.JoinHorizontal(lipgloss.Top, styles.Label.Render(argsLabel), s.Args.View()),
	)
	input := renderGroup(s.InputTabs, s.InputBody, l.InputW, s.Focus == FocusInput, styles)
	output := renderGroup(s.OutputTabs, s.OutputBody, l.OutputW, s.Focus == FocusOutput, styles)
	console := renderGroup([]Tab{{Title: "Console", Active: true}}, s.ConsoleBody, l.ConsoleW, s.Focus == FocusConsole, styles)

	row := lipgloss.JoinHorizontal(lipgloss.Top, input, output)
	if s.Busy {
		row = lipgloss.Place(lipgloss.Width(row), lipgloss.Height(row),
			lipgloss.Center, lipgloss.Center, renderBusy(s, styles))
	}
	return lipgloss.JoinVertical(lipgloss.Left, args, row, console)
}

func renderGroup(tabs []Tab, body string, width int, focused bool, styles Styles) string {
	strip := renderTabs(tabs, width, styles)
	return box(focused, styles).Render(lipgloss.JoinVertical(lipgloss.Left, strip, body))
}

func renderTabs(tabs []Tab, width int, styles Styles) string {
	if len(tabs) == 0 {
		return styles.Subtle.Render("(no files)")
	}
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		label := TabLabel(t.Title, maxTabW)
		if t.Badge != "" {
			label += " " + styles.Badge.Render(t.Badge)
		}
		if t.Active {
			parts = append(parts, styles.TabActive.Render(label))
		} else {
			parts = append(parts, styles.Tab.Render(label))
		}
	}
	strip := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	if width > 0 && lipgloss.Width(strip) > width {
		strip = lipgloss.NewStyle().MaxWidth(width).Render(strip)
	}
	return strip
}

// TabLabel shortens a title to max display cells.
func TabLabel(title string, max int) string {
	return runewidth.Truncate(title, max, "…")
}

func box(focused bool, styles Styles) lipgloss.Style {
	if focused {
		return styles.BoxFocused
	}
	return styles.Box
}

func renderBusy(s State, styles Styles) string {
	text := s.BusyText
	if text == "" {
		text = "Compiling"
	}
	return styles.BusyOverlay.Render(styles.Busy.Render(fmt.Sprintf("%s %s", s.Spinner.View(), text)))
}

func renderStatus(s State, styles Styles) string {
	if s.Status == "" {
		return ""
	}
	if s.StatusOK {
		return styles.Success.Render(s.Status)
	}
	return styles.Error.Render(s.Status)
}

func renderNewFile(s State, styles Styles) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.ListHeader.Render("New Input File"),
		styles.Subtle.Render("File names must be unique among the input tabs."),
		s.Prompt.View(),
		styles.Help.Render("enter: confirm | esc: cancel"),
	)
}

func renderOpenFile(s State, styles Styles) string {
	pathHeader := styles.Subtitle.Render(fmt.Sprintf("Current: %s", s.WorkingDir))
	return lipgloss.JoinVertical(lipgloss.Left, pathHeader, s.FileList.View())
}

// StatusLine formats a one-line summary that fits width.
func StatusLine(msg string, width int) string {
	msg = strings.ReplaceAll(strings.TrimSpace(msg), "\n", " ")
	if width <= 0 {
		return msg
	}
	return runewidth.Truncate(msg, width, "…")
}
