package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette. ANSI 256 codes, chosen to stay readable on dark and light
// backgrounds.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// Exported styles are shared with the browse view.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleLink      = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorCyan)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
)

var styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

// marker is the leading glyph of a status line.
type marker struct {
	glyph string
	style lipgloss.Style
}

var (
	markSuccess = marker{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	markError   = marker{"✗", lipgloss.NewStyle().Foreground(colorRed)}
	markWarning = marker{"!", lipgloss.NewStyle().Foreground(colorYellow)}
	markInfo    = marker{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

// statusOut receives human-oriented status lines. Machine output, such as
// JSON and path listings, goes to the command's own writer instead.
var statusOut io.Writer = os.Stdout

func status(m marker, format string, args ...any) {
	fmt.Fprintln(statusOut, m.style.Render(m.glyph)+" "+fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { status(markSuccess, format, args...) }
func printError(format string, args ...any)   { status(markError, format, args...) }
func printInfo(format string, args ...any)    { status(markInfo, format, args...) }

func printWarning(format string, args ...any) {
	status(markWarning, "%s", StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

// printStats prints node counts and whether the result came from cache,
// e.g. "15 nodes · 2 hidden · cached".
func printStats(nodeCount, hiddenCount int, cached bool) {
	var parts []string
	if nodeCount > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d nodes", nodeCount)))
	}
	if hiddenCount > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d hidden", hiddenCount)))
	}
	if cached {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorGreen).Render("cached"))
	} else {
		parts = append(parts, StyleDim.Render("fresh"))
	}
	fmt.Fprintln(statusOut, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}
