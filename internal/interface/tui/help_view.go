package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key returns to where help was opened
	m.mode = m.prevMode
	return m, nil
}

func (m Model) viewHelp() string {
	help := `
chatrider - Help
════════════════

CHAT LIST
─────────
  ↑/↓, j/k     Navigate chats
  Enter        Open chat
  f            Filter chats by name or participant
  /            Search all messages
  r            Reload chat list
  ?            Show this help
  q            Quit

CHAT VIEW
─────────
  j/k, ↑/↓     Scroll line by line
  d/u          Scroll half page
  g/G          Jump to top/bottom
  /            Find in chat
  n/p          Next/previous match
  y            Copy transcript to clipboard
  esc, q       Back to chat list

SEARCH
──────
  Type         Enter search query (live)
  ↑/↓, Ctrl+j  Navigate results
  Enter        Open chat at the message
  esc          Back to chat list

  Filters: chat:<name> from:<sender> type:text|media|omitted|system
           after:<date> before:<date>

Press any key to return
`

	return helpStyle.Render(help)
}
