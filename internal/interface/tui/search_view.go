package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/neilberkman/chatrider/internal/core/search"
)

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "esc":
		m.mode = listView
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.searchResults = nil
		m.searchSelectedIdx = 0
		m.searchViewOffset = 0
		return m, nil

	case "enter":
		if m.searchSelectedIdx < len(m.searchResults) {
			r := m.searchResults[m.searchSelectedIdx]
			return m, loadChatDetail(m.db, r.ChatName, r.MsgID)
		}
		return m, nil

	// Navigation: Use Ctrl+j or arrow keys (allow j/k to be typed in search)
	case "ctrl+j", "down":
		if len(m.searchResults) > 0 {
			m.searchSelectedIdx = min(m.searchSelectedIdx+1, len(m.searchResults)-1)
			return adjustSearchViewport(m), nil
		}
		return m, nil

	case "up":
		if len(m.searchResults) > 0 {
			m.searchSelectedIdx = max(m.searchSelectedIdx-1, 0)
			return adjustSearchViewport(m), nil
		}
		return m, nil
	}

	prev := m.searchInput.Value()
	m.searchInput, cmd = m.searchInput.Update(msg)

	query := m.searchInput.Value()
	if query == prev {
		return m, cmd
	}
	// Live search on every edit
	return m, tea.Batch(cmd, performSearch(m.db, query))
}

func (m Model) viewSearch() string {
	var b strings.Builder

	b.WriteString(searchHeaderStyle.Render("Search: "))
	b.WriteString(m.searchInput.View())
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", max(min(m.width, 100), 20)))
	b.WriteString("\n\n")

	switch {
	case m.searchResults == nil:
		b.WriteString(searchMetaStyle.Render(fmt.Sprintf("Type to search (minimum %d characters)", minSearchLen)))
	case len(m.searchResults) == 0:
		b.WriteString(searchMetaStyle.Render("No results found"))
	default:
		b.WriteString(searchMetaStyle.Render(fmt.Sprintf("Found %d messages:", len(m.searchResults))))
		b.WriteString("\n\n")

		start := m.searchViewOffset
		end := min(start+maxVisibleResults(m.height), len(m.searchResults))
		terms := search.ParseQuery(m.searchInput.Value()).Query

		for i := start; i < end; i++ {
			b.WriteString(renderSearchResult(m.searchResults[i], terms, i == m.searchSelectedIdx, m.width))
		}

		if start > 0 {
			b.WriteString(searchMetaStyle.Render(fmt.Sprintf("... %d results above\n", start)))
		}
		if end < len(m.searchResults) {
			b.WriteString(searchMetaStyle.Render(fmt.Sprintf("... %d results below\n", len(m.searchResults)-end)))
		}
	}

	b.WriteString("\n\n")
	if len(m.searchResults) > 0 {
		b.WriteString(helpStyle.Render("Ctrl+j or ↑↓: navigate | Enter: open | esc: back"))
	} else {
		b.WriteString(helpStyle.Render("Type to search | esc: back"))
	}
	b.WriteString("\n")
	b.WriteString(searchMetaStyle.Render("Filters: chat:name | from:sender | type:media | after:yesterday | before:2024-11-01"))

	return b.String()
}

func renderSearchResult(r search.SearchResult, terms string, selected bool, width int) string {
	prefix := "  "
	name := searchMatchStyle.Render(r.ChatName)
	if selected {
		prefix = "► "
		name = searchSelectedStyle.Render(r.ChatName)
	}

	meta := searchMetaStyle.Render(fmt.Sprintf("%s | %s", r.Sender, strings.Replace(r.Timestamp, "T", " ", 1)))
	snippet := firstLine(r.Snippet, max(width-8, 40))
	// Highlight the first query word
	if words := strings.Fields(terms); len(words) > 0 {
		snippet = highlightLineWithStyle(snippet, strings.Trim(words[0], `"*`), false)
	}

	return fmt.Sprintf("%s%s %s\n    %s\n\n", prefix, name, meta, snippet)
}

// firstLine flattens text to one line of at most n runes
func firstLine(s string, n int) string {
	return truncate(strings.Join(strings.Fields(s), " "), n)
}
