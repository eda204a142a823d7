package waexport

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType classifies a message record
type MessageType string

const (
	MessageTypeText         MessageType = "text"
	MessageTypeMedia        MessageType = "media"
	MessageTypeMediaOmitted MessageType = "media_omitted"
	MessageTypeSystem       MessageType = "system"
)

// MediaType is the coarse category of an attachment
type MediaType string

const (
	MediaTypeImage    MediaType = "image"
	MediaTypeAudio    MediaType = "audio"
	MediaTypeVideo    MediaType = "video"
	MediaTypeDocument MediaType = "document"
)

// SystemSender is the sender recorded for system messages
const SystemSender = "System"

// TimestampLayout is the zone-less wall-clock layout used for persisted timestamps
const TimestampLayout = "2006-01-02T15:04:05"

// DateLayout is the calendar-date layout used in metadata
const DateLayout = "2006-01-02"

// Media references an attached file
type Media struct {
	Filename  string    `json:"filename"`
	MediaType MediaType `json:"mediaType"`
}

// Message is a single parsed transcript record
type Message struct {
	ID        string      `json:"id"`
	Timestamp Timestamp   `json:"timestamp"`
	Sender    string      `json:"sender"`
	Content   string      `json:"content"`
	Type      MessageType `json:"type"`
	Media     *Media      `json:"media,omitempty"`
}

// Timestamp is a naive local wall-clock time with second precision.
// The underlying time.Time is always in UTC and carries no meaning beyond
// the calendar fields.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t, dropping sub-second precision and zone
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)}
}

func (t Timestamp) String() string {
	return t.Format(TimestampLayout)
}

// DateString returns the calendar date as YYYY-MM-DD
func (t Timestamp) DateString() string {
	return t.Format(DateLayout)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(TimestampLayout))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// DateRange is the inclusive calendar-date span of a chat
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Metadata summarises a parsed chat
type Metadata struct {
	ChatName      string     `json:"chatName"`
	GeneratedDate string     `json:"generatedDate"`
	TotalMessages int        `json:"totalMessages"`
	Participants  []string   `json:"participants"`
	DateRange     *DateRange `json:"dateRange"`
}

// Transcript is the result of parsing one _chat.txt file
type Transcript struct {
	Path     string
	Size     int64
	ModTime  time.Time
	Messages []Message
}
