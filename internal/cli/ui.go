package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// stdout receives all user-facing output. Logs go to stderr.
var stdout io.Writer = os.Stdout

// =============================================================================
// Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // current room, titles
	colorGreen  = lipgloss.Color("35")  // success, cache hits
	colorYellow = lipgloss.Color("220") // warnings
	colorRed    = lipgloss.Color("167") // errors
	colorBlue   = lipgloss.Color("75")  // suggested commands
	colorWhite  = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // labels
	colorDim    = lipgloss.Color("240") // secondary text
)

var (
	// StyleTitle renders headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleValue renders data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	styleWarning     = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(10)
)

// status line prefixes
var (
	markSuccess = lipgloss.NewStyle().Foreground(colorGreen).Render("✓")
	markError   = lipgloss.NewStyle().Foreground(colorRed).Render("✗")
	markWarning = lipgloss.NewStyle().Foreground(colorYellow).Render("!")
	markInfo    = lipgloss.NewStyle().Foreground(colorGray).Render("›")
	markFile    = StyleDim.Render("→")

	labelCached = lipgloss.NewStyle().Foreground(colorGreen).Render("cached")
	labelFresh  = lipgloss.NewStyle().Foreground(colorGray).Render("fresh")
)

// =============================================================================
// Printers
// =============================================================================

func printLine(parts ...string) {
	fmt.Fprintln(stdout, strings.Join(parts, " "))
}

func printSuccess(format string, args ...any) {
	printLine(markSuccess, fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	printLine(markError, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	printLine(markWarning, styleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	printLine(markInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	printLine(" ", StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	printLine(" ", markFile, StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	printLine(styleKey.Render(key), StyleValue.Render(value))
}

// printStats prints counts such as "4 rooms · 12 walls" followed by whether
// the result came from the cache.
func printStats(cached bool, stats ...string) {
	label := labelFresh
	if cached {
		label = labelCached
	}
	sep := StyleDim.Render(" · ")
	line := StyleDim.Render(strings.Join(stats, " · "))
	if line != "" {
		line += sep
	}
	printLine(" ", line+label)
}

// printNextStep prints a suggested follow-up command.
func printNextStep(description, cmd string) {
	printLine(StyleDim.Render(description+":"), styleCommand.Render(cmd))
}
