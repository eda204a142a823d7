package waexport

import (
	"sort"
	"time"
)

// ExtractMetadata summarises msgs. Participants are the distinct senders of
// non-system messages; the date range covers every message.
func ExtractMetadata(chatName string, msgs []Message, generatedAt time.Time) Metadata {
	meta := Metadata{
		ChatName:      chatName,
		GeneratedDate: generatedAt.Format(time.RFC3339),
		TotalMessages: len(msgs),
		Participants:  []string{},
	}
	if len(msgs) == 0 {
		return meta
	}

	seen := make(map[string]struct{})
	first, last := msgs[0].Timestamp.Time, msgs[0].Timestamp.Time
	for _, m := range msgs {
		if m.Timestamp.Before(first) {
			first = m.Timestamp.Time
		}
		if m.Timestamp.After(last) {
			last = m.Timestamp.Time
		}
		if m.Type == MessageTypeSystem {
			continue
		}
		if _, ok := seen[m.Sender]; !ok {
			seen[m.Sender] = struct{}{}
			meta.Participants = append(meta.Participants, m.Sender)
		}
	}
	sort.Strings(meta.Participants)

	meta.DateRange = &DateRange{
		Start: first.Format(DateLayout),
		End:   last.Format(DateLayout),
	}
	return meta
}
