package models

import (
	"errors"
	"strings"
	"time"
)

// Chat is an archived chat export
type Chat struct {
	ID           int64
	ChatName     string // Export directory name without the "WhatsApp Chat - " prefix
	SourceDir    string // Export directory the chat was imported from
	Participants []string
	MessageCount int
	FirstDate    string // YYYY-MM-DD, empty for chats without messages
	LastDate     string
	CreatedAt    time.Time // First message
	UpdatedAt    time.Time // Last message
	ImportedAt   time.Time
	FileHash     string // SHA256 of _chat.txt for change detection
	FileSize     int64
}

// Validate checks if the chat has required fields
func (c *Chat) Validate() error {
	if strings.TrimSpace(c.ChatName) == "" {
		return errors.New("chat_name is required")
	}
	if c.SourceDir == "" {
		return errors.New("source_dir is required")
	}
	if c.MessageCount < 0 {
		return errors.New("message_count cannot be negative")
	}
	return nil
}

// ParticipantList joins participants for storage and display
func (c *Chat) ParticipantList() string {
	return strings.Join(c.Participants, ", ")
}

// SplitParticipants is the inverse of ParticipantList
func SplitParticipants(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ", ")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
