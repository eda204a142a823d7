package cli

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func TestSpinner(t *testing.T) {
	var buf syncBuffer
	s := newSpinner(&buf, "Generating 3 chats")
	s.interval = time.Millisecond

	s.Start()
	time.Sleep(20 * time.Millisecond)
	s.Stop()
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "⠋ Generating 3 chats") {
		t.Errorf("first frame missing: %q", out)
	}
	if !strings.HasSuffix(out, "\r\033[K") {
		t.Errorf("line not cleared on stop: %q", out)
	}
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"multi\nline   text", 20, "multi line text"},
		{"aaaa bbbb", 4, "aaaa..."},
	}
	for _, tt := range tests {
		if got := truncateText(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateText(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestExportsDirArg(t *testing.T) {
	cfg.ExportsDir = "/configured"
	if got := exportsDirArg(nil); got != "/configured" {
		t.Errorf("default = %q", got)
	}
	if got := exportsDirArg([]string{"/given"}); got != "/given" {
		t.Errorf("arg = %q", got)
	}
}

func TestSetupLogging(t *testing.T) {
	for _, format := range []string{"", "text", "json"} {
		if err := setupLogging(false, format); err != nil {
			t.Errorf("setupLogging(%q) = %v", format, err)
		}
	}
	if err := setupLogging(false, "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	var buf syncBuffer
	s := newSpinner(&buf, "idle")
	s.Stop()
	if buf.String() != "" {
		t.Errorf("unexpected output %q", buf.String())
	}
}
