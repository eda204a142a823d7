package tui

import (
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/neilberkman/chatrider/internal/core/db"
	"github.com/neilberkman/chatrider/internal/core/models"
	"github.com/neilberkman/chatrider/internal/core/search"
)

const (
	chatListLimit     = 500
	searchResultLimit = 100
	minSearchLen      = 2
)

type errMsg struct {
	err error
}

type chatsLoadedMsg struct {
	chats []chatItem
}

type chatDetailLoadedMsg struct {
	detail     *db.ChatDetail
	focusMsgID string
}

type searchResultsMsg struct {
	query   string
	results []search.SearchResult
}

type copiedMsg struct {
	err error
}

func loadChats(database *db.DB) tea.Cmd {
	return func() tea.Msg {
		chats, err := database.ListChats("", chatListLimit)
		if err != nil {
			return errMsg{err}
		}
		items := make([]chatItem, len(chats))
		for i, c := range chats {
			items[i] = chatItem{chat: c}
		}
		return chatsLoadedMsg{chats: items}
	}
}

func loadChatDetail(database *db.DB, name, focusMsgID string) tea.Cmd {
	return func() tea.Msg {
		detail, err := database.GetChatDetail(name)
		if err != nil {
			return errMsg{err}
		}
		return chatDetailLoadedMsg{detail: detail, focusMsgID: focusMsgID}
	}
}

func performSearch(database *db.DB, query string) tea.Cmd {
	return func() tea.Msg {
		filters := search.ParseQuery(query)
		// Too short to be useful unless a filter narrows it
		if len([]rune(filters.Query)) < minSearchLen && !filters.HasFilters() {
			return searchResultsMsg{query: query, results: nil}
		}
		filters.Limit = searchResultLimit

		results, err := search.SearchWithFilters(database, filters)
		if err != nil {
			return errMsg{err}
		}
		if results == nil {
			results = []search.SearchResult{}
		}
		return searchResultsMsg{query: query, results: results}
	}
}

func copyTranscript(name string, msgs []models.Message) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: clipboard.WriteAll(plainTranscript(name, msgs))}
	}
}
