package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	linesPerResult = 4 // header + snippet + spacing
	reservedLines  = 8 // Header + footer lines
)

func maxVisibleResults(height int) int {
	n := (height - reservedLines) / linesPerResult
	if n < 2 {
		n = 2
	}
	return n
}

// adjustSearchViewport ensures the selected search result is visible within the viewport.
func adjustSearchViewport(m Model) Model {
	visible := maxVisibleResults(m.height)

	if m.searchSelectedIdx >= m.searchViewOffset+visible {
		m.searchViewOffset = m.searchSelectedIdx - visible + 1
	}
	if m.searchSelectedIdx < m.searchViewOffset {
		m.searchViewOffset = m.searchSelectedIdx
	}

	return m
}

// handleSearchMouseWheel moves the search selection one result per wheel tick
func handleSearchMouseWheel(m Model, wheelDown bool) Model {
	if len(m.searchResults) == 0 {
		return m
	}

	if wheelDown {
		m.searchSelectedIdx = min(m.searchSelectedIdx+1, len(m.searchResults)-1)
	} else {
		m.searchSelectedIdx = max(m.searchSelectedIdx-1, 0)
	}

	return adjustSearchViewport(m)
}

// findMatchLines returns the lines of content containing query, case-insensitively
func findMatchLines(content, query string) []int {
	if query == "" {
		return nil
	}
	lowerQuery := strings.ToLower(query)

	var lines []int
	for i, line := range strings.Split(content, "\n") {
		if strings.Contains(strings.ToLower(line), lowerQuery) {
			lines = append(lines, i)
		}
	}
	return lines
}

// highlightContent highlights query on every line; currentLine gets the
// current-match style
func highlightContent(content, query string, currentLine int) string {
	if query == "" {
		return content
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = highlightLineWithStyle(line, query, i == currentLine)
	}
	return strings.Join(lines, "\n")
}

// highlightLineWithStyle highlights all occurrences of query in a single line
func highlightLineWithStyle(text, query string, isCurrent bool) string {
	if query == "" {
		return text
	}

	lower := strings.ToLower(text)
	lowerQuery := strings.ToLower(query)
	// Lowercasing can change byte lengths; give up on highlighting rather than slice mid-rune
	if len(lower) != len(text) {
		return text
	}

	var result strings.Builder
	lastIdx := 0
	matchCount := 0

	for {
		idx := strings.Index(lower[lastIdx:], lowerQuery)
		if idx == -1 {
			result.WriteString(text[lastIdx:])
			break
		}
		idx += lastIdx

		result.WriteString(text[lastIdx:idx])

		// On the current line only the first match is the current one
		var style lipgloss.Style
		if isCurrent && matchCount == 0 {
			style = searchCurrentMatchStyle
		} else {
			style = searchMatchStyle
		}
		result.WriteString(style.Render(text[idx : idx+len(lowerQuery)]))

		lastIdx = idx + len(lowerQuery)
		matchCount++
	}

	return result.String()
}

// scrollToMatchSmart scrolls only when the current match is off screen,
// leaving 3 lines of context above it
func scrollToMatchSmart(m *Model) {
	line := m.currentMatchLine()
	if line < 0 {
		return
	}

	offset := m.viewport.YOffset
	if line >= offset && line < offset+m.viewport.Height {
		return
	}
	m.viewport.SetYOffset(max(line-3, 0))
}

// scrollToMatchAlways always scrolls to the current match, used while typing
func scrollToMatchAlways(m *Model) {
	line := m.currentMatchLine()
	if line < 0 {
		return
	}
	m.viewport.SetYOffset(max(line-3, 0))
}
