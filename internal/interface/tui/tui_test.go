package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/neilberkman/chatrider/internal/core/db"
	"github.com/neilberkman/chatrider/internal/core/models"
	"github.com/neilberkman/chatrider/internal/core/search"
)

func testDetail() *db.ChatDetail {
	day1 := time.Date(2025, 1, 13, 14, 30, 0, 0, time.UTC)
	day2 := time.Date(2025, 1, 14, 9, 0, 0, 0, time.UTC)
	return &db.ChatDetail{
		Chat: models.Chat{
			ChatName:     "Family",
			Participants: []string{"Alice", "Bob"},
			MessageCount: 4,
		},
		Messages: []models.Message{
			{MsgID: "msg_0", Sender: "Alice", Content: "Dinner at eight?", Type: "text", Timestamp: day1},
			{MsgID: "msg_1", Sender: "Bob", Content: "IMG-0001.jpg", Type: "media", MediaFilename: "IMG-0001.jpg", MediaType: "image", Timestamp: day1.Add(time.Minute)},
			{MsgID: "msg_2", Sender: "Bob", Content: "image omitted", Type: "media_omitted", Timestamp: day1.Add(2 * time.Minute)},
			{MsgID: "msg_3", Sender: "System", Content: "Alice added Carol", Type: "system", Timestamp: day2},
		},
	}
}

func TestRenderTranscript(t *testing.T) {
	content, msgLines := renderTranscript(testDetail(), 80)

	for _, want := range []string{"Dinner at eight?", "IMG-0001.jpg", "image omitted", "Alice added Carol", "January 13, 2025", "January 14, 2025"} {
		if !strings.Contains(content, want) {
			t.Errorf("transcript missing %q", want)
		}
	}

	if len(msgLines) != 4 {
		t.Fatalf("expected 4 message offsets, got %d", len(msgLines))
	}

	lines := strings.Split(content, "\n")
	for id, want := range map[string]string{"msg_0": "Alice", "msg_1": "Bob", "msg_3": "Alice added Carol"} {
		line := msgLines[id]
		if line >= len(lines) || !strings.Contains(lines[line], want) {
			t.Errorf("%s: line %d does not contain %q", id, line, want)
		}
	}

	if !(msgLines["msg_0"] < msgLines["msg_1"] && msgLines["msg_1"] < msgLines["msg_2"] && msgLines["msg_2"] < msgLines["msg_3"]) {
		t.Errorf("message offsets not increasing: %v", msgLines)
	}
}

func TestRenderTranscriptWrapsLongMessages(t *testing.T) {
	detail := testDetail()
	detail.Messages = detail.Messages[:1]
	detail.Messages[0].Content = strings.Repeat("word ", 40)

	content, _ := renderTranscript(detail, 50)
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "word") && len(strings.TrimSpace(line)) > 46 {
			t.Errorf("line not wrapped: %q", line)
		}
	}
}

func TestPlainTranscript(t *testing.T) {
	d := testDetail()
	got := plainTranscript(d.ChatName, d.Messages)

	want := []string{
		"Family",
		"[2025-01-13 14:30] Alice: Dinner at eight?",
		"[2025-01-13 14:31] Bob: <image: IMG-0001.jpg>",
		"[2025-01-13 14:32] Bob: image omitted",
		"[2025-01-14 09:00] Alice added Carol",
	}
	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Errorf("plain transcript missing %q:\n%s", w, got)
		}
	}
}

func TestFindMatchLines(t *testing.T) {
	content := "Hello there\nnothing\nsay HELLO again\n"

	tests := []struct {
		query string
		want  []int
	}{
		{"hello", []int{0, 2}},
		{"nothing", []int{1}},
		{"absent", nil},
		{"", nil},
	}

	for _, tt := range tests {
		got := findMatchLines(content, tt.query)
		if len(got) != len(tt.want) {
			t.Errorf("findMatchLines(%q) = %v, want %v", tt.query, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("findMatchLines(%q) = %v, want %v", tt.query, got, tt.want)
				break
			}
		}
	}
}

func TestHighlightLineKeepsText(t *testing.T) {
	tests := []struct {
		text  string
		query string
	}{
		{"see you at dinner", "dinner"},
		{"Dinner and DINNER", "dinner"},
		{"no match here", "xyz"},
		{"anything", ""},
	}

	for _, tt := range tests {
		got := highlightLineWithStyle(tt.text, tt.query, true)
		if tt.query == "" || !strings.Contains(strings.ToLower(tt.text), tt.query) {
			if got != tt.text {
				t.Errorf("highlightLineWithStyle(%q, %q) changed text to %q", tt.text, tt.query, got)
			}
			continue
		}
		if !strings.Contains(got, "see you at ") && tt.text == "see you at dinner" {
			t.Errorf("prefix lost: %q", got)
		}
		if !strings.Contains(strings.ToLower(got), tt.query) {
			t.Errorf("match text lost: %q", got)
		}
	}
}

func TestAdjustSearchViewport(t *testing.T) {
	m := Model{height: 24, searchResults: make([]search.SearchResult, 20)}
	visible := maxVisibleResults(m.height)

	m.searchSelectedIdx = visible + 2
	m = adjustSearchViewport(m)
	if m.searchViewOffset != 3 {
		t.Errorf("offset after scrolling down = %d, want 3", m.searchViewOffset)
	}

	m.searchSelectedIdx = 1
	m = adjustSearchViewport(m)
	if m.searchViewOffset != 1 {
		t.Errorf("offset after scrolling up = %d, want 1", m.searchViewOffset)
	}
}

func TestHandleSearchMouseWheelClamps(t *testing.T) {
	m := Model{height: 24, searchResults: make([]search.SearchResult, 2)}

	m = handleSearchMouseWheel(m, false)
	if m.searchSelectedIdx != 0 {
		t.Errorf("wheel up at top moved to %d", m.searchSelectedIdx)
	}

	m = handleSearchMouseWheel(m, true)
	m = handleSearchMouseWheel(m, true)
	if m.searchSelectedIdx != 1 {
		t.Errorf("wheel down past end moved to %d", m.searchSelectedIdx)
	}
}

func TestChatItem(t *testing.T) {
	item := chatItem{chat: models.Chat{
		ChatName:     "Book Club",
		Participants: []string{"Dana", "Eve"},
		MessageCount: 1234,
	}}

	if item.Title() != "Book Club" {
		t.Errorf("Title() = %q", item.Title())
	}
	if !strings.Contains(item.Description(), "1,234 messages") {
		t.Errorf("Description() = %q", item.Description())
	}
	if !strings.Contains(item.FilterValue(), "Dana, Eve") {
		t.Errorf("FilterValue() = %q", item.FilterValue())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("héllo wörld", 8); got != "héllo..." {
		t.Errorf("truncate multibyte = %q", got)
	}
}
