package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/neilberkman/chatrider/internal/core/models"
)

type chatItem struct {
	chat models.Chat
}

func (i chatItem) FilterValue() string {
	return i.chat.ChatName + " " + i.chat.ParticipantList()
}

func (i chatItem) Title() string {
	return i.chat.ChatName
}

func (i chatItem) Description() string {
	desc := fmt.Sprintf("%s messages", humanize.Comma(int64(i.chat.MessageCount)))
	if len(i.chat.Participants) > 0 {
		desc += fmt.Sprintf(" | %d participants", len(i.chat.Participants))
	}
	if !i.chat.UpdatedAt.IsZero() {
		desc += " | Last: " + formatTime(i.chat.UpdatedAt)
	}
	return desc
}

type chatDelegate struct {
	list.DefaultDelegate
}

func (d chatDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	c, ok := item.(chatItem)
	if !ok {
		d.DefaultDelegate.Render(w, m, index, item)
		return
	}

	title := c.Title()
	desc := c.Description()
	if index == m.Index() {
		title = selectedItemStyle.Render(title)
		desc = selectedItemStyle.Faint(true).Render(desc)
	} else {
		title = itemStyle.Render(title)
		desc = itemStyle.Render(desc)
	}

	_, _ = fmt.Fprintf(w, "%s\n%s", title, desc)
}

func chatListItems(chats []chatItem) []list.Item {
	items := make([]list.Item, len(chats))
	for i, c := range chats {
		items[i] = c
	}
	return items
}

func createChatList(chats []chatItem, width, height int) list.Model {
	delegate := chatDelegate{DefaultDelegate: list.NewDefaultDelegate()}

	l := list.New(chatListItems(chats), delegate, width, height-1) // Reserve 1 line for help text only
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetFilteringEnabled(true)
	// "/" is archive search; the name filter moves to f
	l.KeyMap.Filter = key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter"))

	return l
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the built-in filter is being typed, every key belongs to it
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "enter":
		if selected, ok := m.list.SelectedItem().(chatItem); ok {
			return m, loadChatDetail(m.db, selected.chat.ChatName, "")
		}
		return m, nil

	case "/":
		m.mode = searchView
		m.searchInput.Focus()
		return m, nil

	case "?":
		m.prevMode = listView
		m.mode = helpView
		return m, nil

	case "r":
		return m, loadChats(m.db)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) viewList() string {
	helpText := helpStyle.Render("↑/k up • ↓/j down • enter open • f filter • / search • r reload • q quit • ? more")

	if len(m.chats) == 0 {
		return "No chats archived yet. Run 'chatrider sync' or 'chatrider generate'.\n\n" + helpText
	}

	return m.list.View() + "\n" + helpText
}

// formatTime renders a naive chat timestamp relative to local wall time
func formatTime(t time.Time) string {
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.Local)
	if time.Since(wall) < 30*24*time.Hour {
		return humanize.Time(wall)
	}
	return t.Format("Jan 2, 2006")
}
