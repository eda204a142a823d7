package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"
	"github.com/neilberkman/chatrider/internal/core/db"
	"github.com/neilberkman/chatrider/internal/core/models"
	"github.com/neilberkman/chatrider/internal/core/viewer"
	"github.com/neilberkman/chatrider/pkg/waexport"
)

const detailChromeLines = 4 // header + footer

// lineWriter counts lines as it writes so message offsets are known
type lineWriter struct {
	b     strings.Builder
	lines int
}

func (w *lineWriter) write(s string) {
	w.b.WriteString(s)
	w.lines += strings.Count(s, "\n")
}

// renderTranscript renders a chat for the viewport. msgLines maps each
// msg_id to the line its header starts on.
func renderTranscript(detail *db.ChatDetail, width int) (string, map[string]int) {
	wrapWidth := width - 4
	if wrapWidth < 40 {
		wrapWidth = 40
	}

	var w lineWriter
	msgLines := make(map[string]int, len(detail.Messages))
	lastDate := ""

	for _, msg := range detail.Messages {
		if date := msg.Timestamp.Format(waexport.DateLayout); date != lastDate {
			label := dateStyle.Render(msg.Timestamp.Format("Monday, January 2, 2006"))
			w.write(lipgloss.PlaceHorizontal(width, lipgloss.Center, label) + "\n\n")
			lastDate = date
		}

		msgLines[msg.MsgID] = w.lines
		clock := timestampStyle.Render(msg.Timestamp.Format("15:04"))

		if msg.Type == string(waexport.MessageTypeSystem) {
			w.write(clock + " " + systemStyle.Render(wordwrap.String(msg.Content, wrapWidth)) + "\n\n")
			continue
		}

		style := senderStyles[viewer.ColorIndex(detail.Participants, msg.Sender)%len(senderStyles)]
		w.write(style.Render(msg.Sender) + " " + clock + "\n")

		switch msg.Type {
		case string(waexport.MessageTypeMedia):
			w.write(mediaStyle.Render(fmt.Sprintf("[%s] %s", msg.MediaType, msg.MediaFilename)) + "\n")
		case string(waexport.MessageTypeMediaOmitted):
			w.write(omittedStyle.Render(msg.Content) + "\n")
		default:
			w.write(wordwrap.String(msg.Content, wrapWidth) + "\n")
		}
		w.write("\n")
	}

	return w.b.String(), msgLines
}

// plainTranscript is the clipboard form of a chat
func plainTranscript(name string, msgs []models.Message) string {
	var b strings.Builder
	b.WriteString(name + "\n\n")
	for _, msg := range msgs {
		ts := msg.Timestamp.Format("2006-01-02 15:04")
		switch {
		case msg.Type == string(waexport.MessageTypeSystem):
			fmt.Fprintf(&b, "[%s] %s\n", ts, msg.Content)
		case msg.HasMedia():
			fmt.Fprintf(&b, "[%s] %s: <%s: %s>\n", ts, msg.Sender, msg.MediaType, msg.MediaFilename)
		default:
			fmt.Fprintf(&b, "[%s] %s: %s\n", ts, msg.Sender, msg.Content)
		}
	}
	return b.String()
}

// renderDetail rebuilds the viewport for the current chat and size
func (m Model) renderDetail() Model {
	width, height := m.width, m.height
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}

	offset := m.viewport.YOffset
	content, msgLines := renderTranscript(m.currentChat, width)
	m.msgLines = msgLines

	m.viewport = viewport.New(width, max(height-detailChromeLines, 1))
	query := m.chatSearch.Value()
	m.matchLines = findMatchLines(content, query)
	if m.matchIdx >= len(m.matchLines) {
		m.matchIdx = len(m.matchLines) - 1
	}
	m.viewport.SetContent(highlightContent(content, query, m.currentMatchLine()))
	m.viewport.SetYOffset(offset)
	return m
}

func (m Model) currentMatchLine() int {
	if m.matchIdx < 0 || m.matchIdx >= len(m.matchLines) {
		return -1
	}
	return m.matchLines[m.matchIdx]
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.chatSearchActive {
		return m.updateChatSearch(msg)
	}

	switch msg.String() {
	case "esc", "q":
		if m.chatSearch.Value() != "" {
			m.chatSearch.SetValue("")
			m.matchIdx = -1
			return m.renderDetail(), nil
		}
		m.mode = listView
		m.currentChat = nil
		m.status = ""
		return m, nil

	case "/":
		m.chatSearchActive = true
		m.chatSearch.Focus()
		return m, textinput.Blink

	case "n":
		if len(m.matchLines) > 0 {
			m.matchIdx = (m.matchIdx + 1) % len(m.matchLines)
			m = m.renderDetail()
			scrollToMatchSmart(&m)
		}
		return m, nil

	case "N", "p":
		if len(m.matchLines) > 0 {
			m.matchIdx = (m.matchIdx - 1 + len(m.matchLines)) % len(m.matchLines)
			m = m.renderDetail()
			scrollToMatchSmart(&m)
		}
		return m, nil

	case "y":
		m.status = "Copying..."
		return m, copyTranscript(m.currentChat.ChatName, m.currentChat.Messages)

	case "g", "home":
		m.viewport.GotoTop()
		return m, nil

	case "G", "end":
		m.viewport.GotoBottom()
		return m, nil

	case "?":
		m.prevMode = detailView
		m.mode = helpView
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) updateChatSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.chatSearchActive = false
		m.chatSearch.Blur()
		m.chatSearch.SetValue("")
		m.matchIdx = -1
		return m.renderDetail(), nil

	case "enter":
		// Keep highlights, hand keys back to n/p navigation
		m.chatSearchActive = false
		m.chatSearch.Blur()
		return m, nil

	case "up", "down", "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.chatSearch, cmd = m.chatSearch.Update(msg)
	m.matchIdx = 0
	m = m.renderDetail()
	scrollToMatchAlways(&m)
	return m, cmd
}

func (m Model) viewDetail() string {
	if m.currentChat == nil {
		return "No chat loaded"
	}

	c := m.currentChat
	header := titleStyle.Render(c.ChatName) + " " + searchMetaStyle.Render(fmt.Sprintf("%s messages | %s",
		humanize.Comma(int64(c.MessageCount)), truncate(c.ParticipantList(), max(m.width-len(c.ChatName)-30, 20))))

	footer := ""
	if m.chatSearchActive || m.chatSearch.Value() != "" {
		footer = m.chatSearch.View()
		if len(m.matchLines) > 0 {
			footer += fmt.Sprintf(" [%d/%d matches]", m.matchIdx+1, len(m.matchLines))
		} else if m.chatSearch.Value() != "" {
			footer += " [no matches]"
		}
		if m.chatSearchActive {
			footer += "\n" + helpStyle.Render("enter: navigate | ↑↓: scroll | esc: exit")
		} else {
			footer += "\n" + helpStyle.Render("n/p: next/prev | /: edit | esc: clear")
		}
	} else {
		footer = fmt.Sprintf("%3.f%%", m.viewport.ScrollPercent()*100)
		if m.status != "" {
			footer += "  " + statusStyle.Render(m.status)
		}
		footer += "\n" + helpStyle.Render("/: find | y: copy | j/k: scroll | g/G: top/bottom | esc: back | ?: help")
	}

	return header + "\n" + m.viewport.View() + "\n" + footer
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
