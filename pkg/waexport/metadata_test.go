package waexport

import (
	"testing"
	"time"
)

func TestExtractMetadata(t *testing.T) {
	msgs, err := Parse(bracketedSample)
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	meta := ExtractMetadata("Trip", msgs, now)

	if meta.ChatName != "Trip" {
		t.Errorf("ChatName = %q", meta.ChatName)
	}
	if meta.GeneratedDate != "2025-02-01T10:00:00Z" {
		t.Errorf("GeneratedDate = %q", meta.GeneratedDate)
	}
	if meta.TotalMessages != 5 {
		t.Errorf("TotalMessages = %d, want 5", meta.TotalMessages)
	}
	if len(meta.Participants) != 2 || meta.Participants[0] != "Alice" || meta.Participants[1] != "Bob" {
		t.Errorf("Participants = %v, want [Alice Bob]", meta.Participants)
	}
	if meta.DateRange == nil || meta.DateRange.Start != "2025-01-13" || meta.DateRange.End != "2025-01-14" {
		t.Errorf("DateRange = %+v", meta.DateRange)
	}
}

func TestExtractMetadata_Empty(t *testing.T) {
	meta := ExtractMetadata("Empty", []Message{}, time.Now())
	if meta.TotalMessages != 0 {
		t.Errorf("TotalMessages = %d", meta.TotalMessages)
	}
	if meta.DateRange != nil {
		t.Errorf("DateRange = %+v, want nil", meta.DateRange)
	}
	if meta.Participants == nil || len(meta.Participants) != 0 {
		t.Errorf("Participants = %#v, want empty slice", meta.Participants)
	}
}

func TestExtractMetadata_SystemOnly(t *testing.T) {
	msgs, err := Parse("1/13/25, 9:05 PM - Bob created group \"x\"\n")
	if err != nil {
		t.Fatal(err)
	}
	meta := ExtractMetadata("x", msgs, time.Now())
	if len(meta.Participants) != 0 {
		t.Errorf("Participants = %v, want none", meta.Participants)
	}
	if meta.DateRange == nil || meta.DateRange.Start != "2025-01-13" {
		t.Errorf("system messages should still count towards the range, got %+v", meta.DateRange)
	}
}

func TestExtractMetadata_UnorderedInput(t *testing.T) {
	msgs := []Message{
		{Sender: "Zed", Type: MessageTypeText, Timestamp: NewTimestamp(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC))},
		{Sender: "Amy", Type: MessageTypeText, Timestamp: NewTimestamp(time.Date(2023, 1, 9, 0, 0, 0, 0, time.UTC))},
		{Sender: "Zed", Type: MessageTypeText, Timestamp: NewTimestamp(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))},
	}
	meta := ExtractMetadata("x", msgs, time.Now())
	if meta.DateRange.Start != "2023-01-09" || meta.DateRange.End != "2024-05-02" {
		t.Errorf("DateRange = %+v", meta.DateRange)
	}
	if len(meta.Participants) != 2 {
		t.Errorf("Participants = %v", meta.Participants)
	}
}
