package waexport

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// LineKind is the outcome of classifying a transcript line
type LineKind int

const (
	LineBlank LineKind = iota
	LineStart
	LineContinuation
)

func (k LineKind) String() string {
	switch k {
	case LineStart:
		return "start"
	case LineContinuation:
		return "continuation"
	default:
		return "blank"
	}
}

// Line is a classified transcript line
type Line struct {
	Kind LineKind
	// Text is the cleaned line
	Text string

	// Set for LineStart only
	Dialect   Dialect
	Date      string
	Clock     string
	Sender    string
	HasSender bool
	Body      string
}

// invisibleRunes are directional marks, embedding/override/isolate controls,
// zero-width characters and the byte order mark
var invisibleRunes = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x200b, Hi: 0x200f, Stride: 1},
		{Lo: 0x202a, Hi: 0x202e, Stride: 1},
		{Lo: 0x2060, Hi: 0x2064, Stride: 1},
		{Lo: 0x2066, Hi: 0x2069, Stride: 1},
		{Lo: 0xfeff, Hi: 0xfeff, Stride: 1},
	},
}

// CleanLine removes invisible formatting characters and surrounding whitespace
func CleanLine(raw string) string {
	cleaned, _, err := transform.String(runes.Remove(runes.In(invisibleRunes)), raw)
	if err != nil {
		cleaned = raw
	}
	return strings.TrimSpace(cleaned)
}

// Classify decides whether raw opens a message under one of dialects (tried in
// order, first match wins) or continues the open one.
func Classify(raw string, dialects []Dialect) Line {
	text := CleanLine(raw)
	if text == "" {
		return Line{Kind: LineBlank}
	}

	for _, d := range dialects {
		if m := d.Start.FindStringSubmatch(text); m != nil {
			return Line{
				Kind:      LineStart,
				Text:      text,
				Dialect:   d,
				Date:      m[1],
				Clock:     m[2],
				Sender:    m[3],
				HasSender: true,
				Body:      m[4],
			}
		}
		if d.SystemStart == nil {
			continue
		}
		if m := d.SystemStart.FindStringSubmatch(text); m != nil {
			return Line{
				Kind:    LineStart,
				Text:    text,
				Dialect: d,
				Date:    m[1],
				Clock:   m[2],
				Body:    m[3],
			}
		}
	}

	return Line{Kind: LineContinuation, Text: text}
}
