package search

import (
	"strings"
	"time"

	"github.com/neilberkman/chatrider/pkg/waexport"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// ParseQuery extracts filters from a search query string
// Supports:
//   - chat:<name>, from:<sender> - substring filters; quote values with spaces
//   - type:text|media|media_omitted|system (type:omitted is accepted)
//   - after:yesterday, before:2024-11-01, after:"last week" - date ranges
//
// Everything else is the text query.
func ParseQuery(query string) Filters {
	return parseQuery(query, time.Now())
}

func parseQuery(query string, now time.Time) Filters {
	filters := Filters{}

	// Initialize date parser with English rules
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	var queryParts []string
	for _, token := range splitTokens(query) {
		key, value, ok := strings.Cut(token, ":")
		value = unquote(value)
		if !ok || value == "" {
			queryParts = append(queryParts, token)
			continue
		}

		switch strings.ToLower(key) {
		case "chat":
			filters.Chat = value
		case "from", "sender":
			filters.Sender = value
		case "type":
			filters.Type = parseType(value)
		case "after", "date":
			if parsed := parseDate(w, value, now); parsed != nil {
				filters.After = *parsed
			}
		case "before":
			if parsed := parseDate(w, value, now); parsed != nil {
				filters.Before = *parsed
			}
		default:
			// Not a filter, add to query
			queryParts = append(queryParts, token)
		}
	}

	filters.Query = strings.Join(queryParts, " ")
	return filters
}

func parseType(s string) waexport.MessageType {
	switch strings.ToLower(s) {
	case "media", "attachment":
		return waexport.MessageTypeMedia
	case "omitted", "media_omitted":
		return waexport.MessageTypeMediaOmitted
	case "system":
		return waexport.MessageTypeSystem
	default:
		return waexport.MessageTypeText
	}
}

// parseDate accepts fixed layouts first, then natural language
func parseDate(w *when.Parser, dateStr string, now time.Time) *time.Time {
	formats := []string{
		"2006-01-02",
		waexport.TimestampLayout,
		time.RFC3339,
		"2006/01/02",
		"02/01/2006",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return &t
		}
	}

	result, err := w.Parse(dateStr, now)
	if err == nil && result != nil {
		t := time.Date(result.Time.Year(), result.Time.Month(), result.Time.Day(), 0, 0, 0, 0, time.UTC)
		return &t
	}
	return nil
}

// splitTokens splits on whitespace, keeping double-quoted runs together
func splitTokens(s string) []string {
	var tokens []string
	var cur strings.Builder
	inQuote := false
	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
			cur.WriteRune(r)
		case (r == ' ' || r == '\t') && !inQuote:
			if cur.Len() > 0 {
				tokens = append(tokens, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
