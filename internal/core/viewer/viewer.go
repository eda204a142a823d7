package viewer

import (
	_ "embed"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cbroglie/mustache"
	"github.com/dustin/go-humanize"
	"github.com/neilberkman/chatrider/internal/core/media"
	"github.com/neilberkman/chatrider/pkg/waexport"
)

// IndexFile is the viewer's file name inside a chat's output directory
const IndexFile = "index.html"

// Number of participant colour classes in the template
const paletteSize = 8

//go:embed templates/index.html.mustache
var defaultTemplate string

// DefaultTemplate returns the built-in viewer template
func DefaultTemplate() string {
	return defaultTemplate
}

// Options tweak rendering
type Options struct {
	Template   string // mustache source; empty uses the built-in template
	MediaBytes int64  // total size of copied media, shown in the header when non-zero
}

// Viewer renders chats with a parsed template
type Viewer struct {
	tmpl *mustache.Template
}

// New parses a template. An empty string selects the built-in one.
func New(source string) (*Viewer, error) {
	if source == "" {
		source = defaultTemplate
	}
	tmpl, err := mustache.ParseString(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse viewer template: %w", err)
	}
	return &Viewer{tmpl: tmpl}, nil
}

// LoadTemplate reads a template file. An empty path returns the built-in template.
func LoadTemplate(path string) (string, error) {
	if path == "" {
		return defaultTemplate, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read template: %w", err)
	}
	return string(data), nil
}

// Render renders meta and msgs with opts.Template
func Render(meta waexport.Metadata, msgs []waexport.Message, opts Options) (string, error) {
	v, err := New(opts.Template)
	if err != nil {
		return "", err
	}
	return v.Render(meta, msgs, opts.MediaBytes)
}

// Render produces the HTML document for one chat
func (v *Viewer) Render(meta waexport.Metadata, msgs []waexport.Message, mediaBytes int64) (string, error) {
	out, err := v.tmpl.Render(buildContext(meta, msgs, mediaBytes))
	if err != nil {
		return "", fmt.Errorf("failed to render viewer: %w", err)
	}
	return out, nil
}

// WriteFile writes html to <dir>/index.html
func WriteFile(dir, html string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, IndexFile), []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", IndexFile, err)
	}
	return nil
}

// Day is a run of consecutive messages sharing a calendar date
type Day struct {
	Date     string
	Anchor   string
	Messages []waexport.Message
}

// GroupByDate splits msgs into consecutive same-date runs, keeping order.
// Only the first run of a date gets an anchor.
func GroupByDate(msgs []waexport.Message) []Day {
	var days []Day
	anchored := make(map[string]bool)
	for _, m := range msgs {
		date := m.Timestamp.DateString()
		if len(days) == 0 || days[len(days)-1].Date != date {
			d := Day{Date: date}
			if !anchored[date] {
				d.Anchor = "d-" + date
				anchored[date] = true
			}
			days = append(days, d)
		}
		days[len(days)-1].Messages = append(days[len(days)-1].Messages, m)
	}
	return days
}

// ColorIndex maps a sender to a stable palette slot
func ColorIndex(participants []string, sender string) int {
	for i, p := range participants {
		if p == sender {
			return i % paletteSize
		}
	}
	return 0
}

func buildContext(meta waexport.Metadata, msgs []waexport.Message, mediaBytes int64) map[string]interface{} {
	participants := make([]map[string]interface{}, 0, len(meta.Participants))
	for i, p := range meta.Participants {
		participants = append(participants, map[string]interface{}{
			"name":  p,
			"color": i % paletteSize,
		})
	}

	days := make([]map[string]interface{}, 0)
	for _, d := range GroupByDate(msgs) {
		items := make([]map[string]interface{}, 0, len(d.Messages))
		for _, m := range d.Messages {
			items = append(items, messageContext(meta.Participants, m))
		}
		label := d.Date
		if len(d.Messages) > 0 {
			label = d.Messages[0].Timestamp.Format("Monday, 2 January 2006")
		}
		days = append(days, map[string]interface{}{
			"anchor":   d.Anchor,
			"label":    label,
			"messages": items,
		})
	}

	ctx := map[string]interface{}{
		"chatName":      meta.ChatName,
		"totalMessages": humanize.Comma(int64(meta.TotalMessages)),
		"generatedDate": meta.GeneratedDate,
		"participants":  participants,
		"days":          days,
		"hasRange":      meta.DateRange != nil,
		"mediaSize":     "",
	}
	if meta.DateRange != nil {
		ctx["dateStart"] = meta.DateRange.Start
		ctx["dateEnd"] = meta.DateRange.End
	}
	if mediaBytes > 0 {
		ctx["mediaSize"] = humanize.Bytes(uint64(mediaBytes))
	}
	return ctx
}

func messageContext(participants []string, m waexport.Message) map[string]interface{} {
	text := m.Content
	if m.Type == waexport.MessageTypeMedia {
		text = waexport.StripAttachmentMarkup(text)
	}

	item := map[string]interface{}{
		"id":        m.ID,
		"time":      m.Timestamp.Format("15:04"),
		"sender":    m.Sender,
		"text":      text,
		"search":    strings.ToLower(m.Sender + " " + text),
		"color":     ColorIndex(participants, m.Sender),
		"isSystem":  m.Type == waexport.MessageTypeSystem,
		"isOmitted": m.Type == waexport.MessageTypeMediaOmitted,
	}
	if m.Media != nil {
		item["filename"] = m.Media.Filename
		item["mediaPath"] = path.Join(media.Dir, m.Media.Filename)
		item["isImage"] = m.Media.MediaType == waexport.MediaTypeImage
		item["isVideo"] = m.Media.MediaType == waexport.MediaTypeVideo
		item["isAudio"] = m.Media.MediaType == waexport.MediaTypeAudio
		item["isDocument"] = m.Media.MediaType == waexport.MediaTypeDocument
	}
	return item
}
