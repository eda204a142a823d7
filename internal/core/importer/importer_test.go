package importer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/neilberkman/chatrider/internal/core/db"
	"github.com/neilberkman/chatrider/internal/core/locator"
	"github.com/neilberkman/chatrider/pkg/waexport"
)

const transcript = "[13/01/25, 11:52:46 AM] Alice: Hello\n" +
	"[13/01/25, 11:53:00 AM] Bob: <attached: a.jpg>\n" +
	"[13/01/25, 11:54:00 AM] Alice: Messages and calls are end-to-end encrypted.\n"

func newTestDB(t *testing.T) *db.DB {
	t.Helper()
	tmpfile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Remove(tmpfile.Name()) })
	_ = tmpfile.Close()

	database, err := db.New(tmpfile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func writeExport(t *testing.T, root, name, content string) locator.Export {
	t.Helper()
	dir := filepath.Join(root, "WhatsApp Chat - "+name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, waexport.TranscriptFile), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	exp, ok, err := locator.Load(dir)
	if err != nil || !ok {
		t.Fatalf("Load = %v, %v", ok, err)
	}
	return exp
}

func parse(t *testing.T, exp locator.Export) (*waexport.Transcript, waexport.Metadata) {
	t.Helper()
	tr, err := waexport.ParseFile(exp.TranscriptPath)
	if err != nil {
		t.Fatal(err)
	}
	return tr, waexport.ExtractMetadata(exp.Name, tr.Messages, time.Now())
}

func count(t *testing.T, database *db.DB, query string, args ...interface{}) int {
	t.Helper()
	var n int
	if err := database.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatal(err)
	}
	return n
}

func TestImportChat(t *testing.T) {
	database := newTestDB(t)
	imp := New(database)
	exp := writeExport(t, t.TempDir(), "Trip", transcript)
	tr, meta := parse(t, exp)

	imported, err := imp.ImportChat(exp, tr, meta)
	if err != nil {
		t.Fatalf("ImportChat() error = %v", err)
	}
	if !imported {
		t.Error("first import reported as skipped")
	}

	if n := count(t, database, "SELECT COUNT(*) FROM chats"); n != 1 {
		t.Errorf("Expected 1 chat, got %d", n)
	}
	if n := count(t, database, "SELECT COUNT(*) FROM messages"); n != 3 {
		t.Errorf("Expected 3 messages, got %d", n)
	}
	if n := count(t, database, "SELECT COUNT(*) FROM messages WHERE media_filename = 'a.jpg' AND media_type = 'image'"); n != 1 {
		t.Errorf("media columns not stored")
	}
	if n := count(t, database, "SELECT COUNT(*) FROM messages WHERE type = 'system' AND sender = 'System'"); n != 1 {
		t.Errorf("system message not stored")
	}

	detail, err := database.GetChatDetail("Trip")
	if err != nil {
		t.Fatal(err)
	}
	if detail.FirstDate != "2025-01-13" || len(detail.Participants) != 2 {
		t.Errorf("chat = %+v", detail.Chat)
	}
	if detail.Messages[2].MsgID != "msg_3" || detail.Messages[2].Sequence != 3 {
		t.Errorf("last message = %+v", detail.Messages[2])
	}
	if got := detail.Messages[0].Timestamp.Format(waexport.TimestampLayout); got != "2025-01-13T11:52:46" {
		t.Errorf("timestamp = %s", got)
	}
}

func TestImportChat_Unchanged(t *testing.T) {
	database := newTestDB(t)
	imp := New(database)
	exp := writeExport(t, t.TempDir(), "Trip", transcript)
	tr, meta := parse(t, exp)

	if _, err := imp.ImportChat(exp, tr, meta); err != nil {
		t.Fatal(err)
	}
	imported, err := imp.ImportChat(exp, tr, meta)
	if err != nil {
		t.Fatalf("ImportChat() second import error = %v", err)
	}
	if imported {
		t.Error("identical transcript should be skipped")
	}

	if n := count(t, database, "SELECT COUNT(*) FROM chats"); n != 1 {
		t.Errorf("Expected 1 chat after duplicate import, got %d", n)
	}
	if n := count(t, database, "SELECT COUNT(*) FROM messages"); n != 3 {
		t.Errorf("Expected 3 messages after duplicate import, got %d", n)
	}
	if n := count(t, database, "SELECT COUNT(*) FROM import_log"); n != 1 {
		t.Errorf("Expected 1 import_log row, got %d", n)
	}
}

func TestImportChat_ChangedReplaces(t *testing.T) {
	database := newTestDB(t)
	imp := New(database)
	exp := writeExport(t, t.TempDir(), "Trip", transcript)
	tr, meta := parse(t, exp)
	if _, err := imp.ImportChat(exp, tr, meta); err != nil {
		t.Fatal(err)
	}

	// The export grew by one message
	grown := transcript + "[14/01/25, 8:00:00 AM] Bob: morning\n"
	if err := os.WriteFile(exp.TranscriptPath, []byte(grown), 0o644); err != nil {
		t.Fatal(err)
	}
	tr, meta = parse(t, exp)

	imported, err := imp.ImportChat(exp, tr, meta)
	if err != nil {
		t.Fatal(err)
	}
	if !imported {
		t.Error("changed transcript should be imported")
	}
	if n := count(t, database, "SELECT COUNT(*) FROM chats"); n != 1 {
		t.Errorf("Expected 1 chat, got %d", n)
	}
	if n := count(t, database, "SELECT COUNT(*) FROM messages"); n != 4 {
		t.Errorf("Expected 4 messages, got %d", n)
	}
	if n := count(t, database, "SELECT COUNT(*) FROM messages_fts WHERE messages_fts MATCH 'morning'"); n != 1 {
		t.Errorf("new message not searchable")
	}
}

func TestImportDirectory(t *testing.T) {
	database := newTestDB(t)
	imp := New(database)
	root := t.TempDir()
	writeExport(t, root, "Trip", transcript)
	writeExport(t, root, "Club", "1/13/25, 9:05 PM - Carol: hi\n")
	writeExport(t, root, "Broken", "[31/02/25, 10:00 AM] Bob: bad\n")

	var buf bytes.Buffer
	res, err := imp.ImportDirectory(root, waexport.DefaultContentRules(), NewProgressReporter(&buf))
	if err != nil {
		t.Fatalf("ImportDirectory() error = %v", err)
	}
	if res.Imported != 2 || res.Failed != 1 || res.Messages != 4 {
		t.Errorf("result = %+v", res)
	}
	if !strings.Contains(buf.String(), "Completed: processed 2 chats") {
		t.Errorf("progress output = %q", buf.String())
	}
	if n := count(t, database, "SELECT COUNT(*) FROM import_log WHERE status = 'failed' AND chat_name = 'Broken'"); n != 1 {
		t.Errorf("failure not logged")
	}

	res, err = imp.ImportDirectory(root, waexport.DefaultContentRules(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Imported != 0 || res.Skipped != 2 {
		t.Errorf("second run = %+v", res)
	}
}

func TestImportDirectory_MissingRoot(t *testing.T) {
	imp := New(newTestDB(t))
	if _, err := imp.ImportDirectory(filepath.Join(t.TempDir(), "missing"), waexport.DefaultContentRules(), nil); err == nil {
		t.Error("expected an error")
	}
}

func TestProgressReporter(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressReporter(&buf)
	p.Start(2)
	p.Update("Trip", "line one\nline two")
	p.Update("A very long chat name that will not fit in the bar", "")
	p.Finish()

	out := buf.String()
	for _, want := range []string{"(1/2)", "100%", "line one line two", "...", "processed 2 chats"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
}
