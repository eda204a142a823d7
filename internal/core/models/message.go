package models

import "time"

// Message is an archived message row
type Message struct {
	ID            int64
	ChatID        int64
	MsgID         string // msg_N, unique within a chat
	Sender        string
	Content       string
	Type          string
	MediaFilename string
	MediaType     string
	Timestamp     time.Time
	Sequence      int
}

// HasMedia reports whether the message references an attachment
func (m *Message) HasMedia() bool {
	return m.MediaFilename != ""
}
