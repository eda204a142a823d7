package db

import (
	"database/sql"
	"time"

	"github.com/neilberkman/chatrider/pkg/waexport"
)

// Stats represents database statistics
type Stats struct {
	TotalChats          int
	TotalMessages       int
	MediaMessages       int
	OmittedMedia        int
	SystemMessages      int
	DistinctSenders     int
	OldestMessage       time.Time
	NewestMessage       time.Time
	MostActiveChat      string
	MostActiveChatCount int
	TopSenders          []SenderCount
}

// SenderCount is a sender with the number of messages they sent
type SenderCount struct {
	Sender string
	Count  int
}

// GetStats returns comprehensive database statistics
func (db *DB) GetStats() (*Stats, error) {
	stats := &Stats{}

	err := db.QueryRow("SELECT COUNT(*) FROM chats").Scan(&stats.TotalChats)
	if err != nil {
		return nil, err
	}

	err = db.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(type = 'media'), 0),
			COALESCE(SUM(type = 'media_omitted'), 0),
			COALESCE(SUM(type = 'system'), 0),
			COUNT(DISTINCT CASE WHEN type != 'system' THEN sender END)
		FROM messages
	`).Scan(&stats.TotalMessages, &stats.MediaMessages, &stats.OmittedMedia, &stats.SystemMessages, &stats.DistinctSenders)
	if err != nil {
		return nil, err
	}

	if stats.TotalMessages == 0 {
		return stats, nil
	}

	var oldest, newest sql.NullString
	err = db.QueryRow("SELECT MIN(timestamp), MAX(timestamp) FROM messages").Scan(&oldest, &newest)
	if err != nil {
		return nil, err
	}
	stats.OldestMessage = parseTimestamp(oldest.String)
	stats.NewestMessage = parseTimestamp(newest.String)

	// Most active chat
	var mostActive sql.NullString
	err = db.QueryRow(`
		SELECT c.chat_name, COUNT(*) as count
		FROM messages m
		JOIN chats c ON c.id = m.chat_id
		GROUP BY c.id
		ORDER BY count DESC, c.chat_name ASC
		LIMIT 1
	`).Scan(&mostActive, &stats.MostActiveChatCount)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	if mostActive.Valid {
		stats.MostActiveChat = mostActive.String
	}

	rows, err := db.Query(`
		SELECT sender, COUNT(*) as count
		FROM messages
		WHERE type != 'system' AND sender != ?
		GROUP BY sender
		ORDER BY count DESC, sender ASC
		LIMIT 5
	`, waexport.SystemSender)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var sc SenderCount
		if err := rows.Scan(&sc.Sender, &sc.Count); err != nil {
			return nil, err
		}
		stats.TopSenders = append(stats.TopSenders, sc)
	}

	return stats, rows.Err()
}
