package tui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/neilberkman/chatrider/internal/core/db"
	"github.com/neilberkman/chatrider/internal/core/search"
)

type viewMode int

const (
	listView viewMode = iota
	detailView
	searchView
	helpView
)

// Model is the bubbletea model for the chat browser
type Model struct {
	db       *db.DB
	mode     viewMode
	prevMode viewMode
	list     list.Model
	viewport viewport.Model
	width    int
	height   int
	err      error
	status   string

	chats       []chatItem
	currentChat *db.ChatDetail
	msgLines    map[string]int // msg_id -> first line in the rendered transcript

	// Archive search
	searchInput       textinput.Model
	searchResults     []search.SearchResult
	searchSelectedIdx int
	searchViewOffset  int

	// In-chat search
	chatSearch       textinput.Model
	chatSearchActive bool
	matchLines       []int
	matchIdx         int
}

// New creates the browser model over an open archive
func New(database *db.DB) Model {
	si := textinput.New()
	si.Placeholder = "words, chat:name, from:sender, type:media, after:2024-01-01"
	si.CharLimit = 200

	cs := textinput.New()
	cs.Placeholder = "find in chat"
	cs.Prompt = "/"

	return Model{
		db:          database,
		mode:        listView,
		list:        createChatList(nil, 80, 24),
		searchInput: si,
		chatSearch:  cs,
		matchIdx:    -1,
	}
}

func (m Model) Init() tea.Cmd {
	return loadChats(m.db)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-1)
		if m.currentChat != nil {
			m = m.renderDetail()
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.mode {
		case listView:
			return m.updateList(msg)
		case detailView:
			return m.updateDetail(msg)
		case searchView:
			return m.updateSearch(msg)
		case helpView:
			return m.updateHelp(msg)
		}

	case tea.MouseMsg:
		if m.mode == detailView {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		if m.mode == searchView && msg.Action == tea.MouseActionPress {
			switch msg.Button {
			case tea.MouseButtonWheelDown:
				return handleSearchMouseWheel(m, true), nil
			case tea.MouseButtonWheelUp:
				return handleSearchMouseWheel(m, false), nil
			}
		}

	case chatsLoadedMsg:
		m.chats = msg.chats
		m.list.SetItems(chatListItems(msg.chats))
		return m, nil

	case chatDetailLoadedMsg:
		m.currentChat = msg.detail
		m.chatSearch.SetValue("")
		m.chatSearchActive = false
		m.matchLines = nil
		m.matchIdx = -1
		m.status = ""
		m.viewport.YOffset = 0
		m = m.renderDetail()
		if line, ok := m.msgLines[msg.focusMsgID]; ok {
			m.viewport.SetYOffset(max(line-3, 0))
		}
		m.mode = detailView
		return m, nil

	case searchResultsMsg:
		// Drop results for a query the user has already typed past
		if msg.query != m.searchInput.Value() {
			return m, nil
		}
		m.searchResults = msg.results
		m.searchSelectedIdx = 0
		m.searchViewOffset = 0
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.status = "Copy failed: " + msg.err.Error()
		} else {
			m.status = "Transcript copied to clipboard"
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress ctrl+c to quit"
	}

	switch m.mode {
	case listView:
		return m.viewList()
	case detailView:
		return m.viewDetail()
	case searchView:
		return m.viewSearch()
	case helpView:
		return m.viewHelp()
	}

	return ""
}
