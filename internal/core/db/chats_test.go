package db

import (
	"errors"
	"testing"
)

func TestListChats(t *testing.T) {
	database := newTestDB(t)
	trip := insertChat(t, database, "Trip")
	insertMessage(t, database, trip, 1, "Alice", "text", "hi")
	insertMessage(t, database, trip, 2, "Bob", "text", "yo")
	insertChat(t, database, "Book Club")

	chats, err := database.ListChats("", 0)
	if err != nil {
		t.Fatalf("ListChats failed: %v", err)
	}
	if len(chats) != 2 {
		t.Fatalf("got %d chats, want 2", len(chats))
	}

	var found bool
	for _, c := range chats {
		if c.ChatName == "Trip" {
			found = true
			if c.MessageCount != 2 {
				t.Errorf("MessageCount = %d, want 2", c.MessageCount)
			}
			if len(c.Participants) != 2 || c.Participants[1] != "Bob" {
				t.Errorf("Participants = %v", c.Participants)
			}
			if c.CreatedAt.IsZero() || c.ImportedAt.IsZero() {
				t.Errorf("timestamps not parsed: %+v", c)
			}
		}
	}
	if !found {
		t.Error("Trip not listed")
	}

	filtered, err := database.ListChats("book", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(filtered) != 1 || filtered[0].ChatName != "Book Club" {
		t.Errorf("filtered = %+v", filtered)
	}

	limited, err := database.ListChats("", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("limit ignored: %d", len(limited))
	}
}

func TestGetChatDetail(t *testing.T) {
	database := newTestDB(t)
	trip := insertChat(t, database, "Trip")
	insertMessage(t, database, trip, 2, "Bob", "text", "second")
	insertMessage(t, database, trip, 1, "Alice", "text", "first")

	detail, err := database.GetChatDetail("trip")
	if err != nil {
		t.Fatalf("GetChatDetail failed: %v", err)
	}
	if detail.ChatName != "Trip" {
		t.Errorf("ChatName = %s", detail.ChatName)
	}
	if len(detail.Messages) != 2 || detail.Messages[0].Content != "first" {
		t.Errorf("messages not in sequence order: %+v", detail.Messages)
	}
	if detail.Messages[0].Timestamp.IsZero() {
		t.Error("timestamp not parsed")
	}

	if _, err := database.GetChatDetail("nope"); !errors.Is(err, ErrChatNotFound) {
		t.Errorf("err = %v, want ErrChatNotFound", err)
	}
}

func TestDeleteChat(t *testing.T) {
	database := newTestDB(t)
	trip := insertChat(t, database, "Trip")
	insertMessage(t, database, trip, 1, "Alice", "text", "hi")

	if err := database.DeleteChat("Trip"); err != nil {
		t.Fatalf("DeleteChat failed: %v", err)
	}
	var n int
	if err := database.QueryRow("SELECT COUNT(*) FROM messages").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("%d messages survived the cascade", n)
	}
	if err := database.DeleteChat("Trip"); !errors.Is(err, ErrChatNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}

func TestGetStats(t *testing.T) {
	database := newTestDB(t)

	empty, err := database.GetStats()
	if err != nil {
		t.Fatalf("GetStats on empty db: %v", err)
	}
	if empty.TotalChats != 0 || empty.TotalMessages != 0 {
		t.Errorf("empty stats = %+v", empty)
	}

	trip := insertChat(t, database, "Trip")
	insertMessage(t, database, trip, 1, "Alice", "text", "hi")
	insertMessage(t, database, trip, 2, "Alice", "media", "<attached: a.jpg>")
	insertMessage(t, database, trip, 3, "Bob", "media_omitted", "image omitted")
	insertMessage(t, database, trip, 4, "System", "system", "Alice created group")
	club := insertChat(t, database, "Club")
	insertMessage(t, database, club, 1, "Carol", "text", "hey")

	stats, err := database.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalChats != 2 || stats.TotalMessages != 5 {
		t.Errorf("totals = %d chats, %d messages", stats.TotalChats, stats.TotalMessages)
	}
	if stats.MediaMessages != 1 || stats.OmittedMedia != 1 || stats.SystemMessages != 1 {
		t.Errorf("type counts = %+v", stats)
	}
	if stats.DistinctSenders != 3 {
		t.Errorf("DistinctSenders = %d, want 3", stats.DistinctSenders)
	}
	if stats.MostActiveChat != "Trip" || stats.MostActiveChatCount != 4 {
		t.Errorf("most active = %s (%d)", stats.MostActiveChat, stats.MostActiveChatCount)
	}
	if len(stats.TopSenders) == 0 || stats.TopSenders[0].Sender != "Alice" || stats.TopSenders[0].Count != 2 {
		t.Errorf("TopSenders = %+v", stats.TopSenders)
	}
	if stats.OldestMessage.IsZero() {
		t.Error("OldestMessage not parsed")
	}
}
