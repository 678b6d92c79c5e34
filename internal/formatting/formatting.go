// Package formatting renders pasteboard content for the terminal.
package formatting

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	wordwrap "github.com/muesli/reflow/wordwrap"

	domain "github.com/inference-gateway/pasteboard/internal/domain"
)

// Tokyo Night palette
const (
	LipglossRed     = "#f7768e"
	LipglossGreen   = "#9ece6a"
	LipglossBlue    = "#7aa2f7"
	LipglossMagenta = "#bb9af7"
	LipglossGray    = "#565f89"
	LipglossAmber   = "#e0af68"
)

var (
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(LipglossBlue))
	TypeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(LipglossMagenta))
	DimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(LipglossGray))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(LipglossRed))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(LipglossGreen))
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(LipglossAmber))
)

const ellipsis = "…"

// WrapText wraps text to fit within the specified width using wordwrap
func WrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	return wordwrap.String(text, width)
}

// TruncateText shortens text to width cells, marking the cut with an ellipsis
func TruncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	return truncate.StringWithTail(text, uint(width), ellipsis)
}

// FormatSize renders a byte count
func FormatSize(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := unit, 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGT"[exp])
}

// IsBinary reports whether a payload should not be shown as text
func IsBinary(typ string, data []byte) bool {
	if domain.IsImageType(typ) {
		return true
	}
	return !utf8.Valid(data) || strings.ContainsRune(string(data), 0)
}

// Preview renders a one-line preview of a payload. Binary payloads render as
// their size.
func Preview(typ string, data []byte, width int) string {
	if len(data) == 0 {
		return DimStyle.Render("(empty)")
	}
	if IsBinary(typ, data) {
		return DimStyle.Render(fmt.Sprintf("<%s binary>", FormatSize(len(data))))
	}
	line := strings.Join(strings.Fields(string(data)), " ")
	return TruncateText(line, width)
}

// TypeLine renders one row of a type listing
func TypeLine(typ string, class domain.TypeClassification, size int) string {
	return fmt.Sprintf("%s  %s  %s",
		TypeStyle.Render(typ),
		DimStyle.Render(class.String()),
		DimStyle.Render(FormatSize(size)))
}

// Body wraps a text payload for display
func Body(text string, width int) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		wrapped := strings.Split(WrapText(line, width), "\n")
		for j, wl := range wrapped {
			wrapped[j] = strings.TrimRight(wl, " ")
		}
		lines[i] = strings.Join(wrapped, "\n")
	}
	return strings.Join(lines, "\n")
}
