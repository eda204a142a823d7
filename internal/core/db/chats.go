package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/neilberkman/chatrider/internal/core/models"
	"github.com/neilberkman/chatrider/pkg/waexport"
)

// ErrChatNotFound is returned when no archived chat has the requested name
var ErrChatNotFound = errors.New("chat not found")

// ChatDetail is a chat with all of its messages in transcript order
type ChatDetail struct {
	models.Chat
	Messages []models.Message
}

const chatColumns = `
	c.id, c.chat_name, c.source_dir, COALESCE(c.participants, ''),
	(SELECT COUNT(*) FROM messages WHERE chat_id = c.id) as actual_message_count,
	COALESCE(c.first_date, ''), COALESCE(c.last_date, ''),
	COALESCE(c.created_at, ''), COALESCE(c.updated_at, ''), COALESCE(CAST(c.imported_at AS TEXT), ''),
	COALESCE(c.file_hash, ''), COALESCE(c.file_size, 0)`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanChat(row rowScanner) (models.Chat, error) {
	var c models.Chat
	var participants, createdAt, updatedAt, importedAt string
	err := row.Scan(
		&c.ID, &c.ChatName, &c.SourceDir, &participants,
		&c.MessageCount,
		&c.FirstDate, &c.LastDate,
		&createdAt, &updatedAt, &importedAt,
		&c.FileHash, &c.FileSize,
	)
	if err != nil {
		return c, err
	}
	c.Participants = models.SplitParticipants(participants)
	c.CreatedAt = parseTimestamp(createdAt)
	c.UpdatedAt = parseTimestamp(updatedAt)
	c.ImportedAt = parseTimestamp(importedAt)
	return c, nil
}

// ListChats returns archived chats, most recently active first. filter
// matches chat names and participants as a substring.
func (db *DB) ListChats(filter string, limit int) ([]models.Chat, error) {
	query := `SELECT ` + chatColumns + ` FROM chats c`

	args := []interface{}{}
	if filter != "" {
		query += " WHERE c.chat_name LIKE ? OR c.participants LIKE ?"
		args = append(args, "%"+filter+"%", "%"+filter+"%")
	}

	if limit <= 0 {
		limit = 1000
	}
	query += `
		ORDER BY c.updated_at DESC, c.chat_name ASC
		LIMIT ?
	`
	args = append(args, limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var chats []models.Chat
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

// GetChat looks up a chat by name, ignoring case
func (db *DB) GetChat(name string) (*models.Chat, error) {
	row := db.QueryRow(`SELECT `+chatColumns+` FROM chats c WHERE c.chat_name = ? COLLATE NOCASE`, name)
	c, err := scanChat(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrChatNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetChatDetail returns full details for a single chat
func (db *DB) GetChatDetail(name string) (*ChatDetail, error) {
	chat, err := db.GetChat(name)
	if err != nil {
		return nil, err
	}

	msgs, err := db.GetMessages(chat.ID)
	if err != nil {
		return nil, err
	}
	return &ChatDetail{Chat: *chat, Messages: msgs}, nil
}

// GetMessages returns a chat's messages ordered by sequence
func (db *DB) GetMessages(chatID int64) ([]models.Message, error) {
	rows, err := db.Query(`
		SELECT
			id, chat_id, msg_id, COALESCE(sender, ''), COALESCE(content, ''), type,
			COALESCE(media_filename, ''), COALESCE(media_type, ''),
			COALESCE(timestamp, ''), sequence
		FROM messages
		WHERE chat_id = ?
		ORDER BY sequence ASC
	`, chatID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	msgs := []models.Message{}
	for rows.Next() {
		var m models.Message
		var ts string
		if err := rows.Scan(&m.ID, &m.ChatID, &m.MsgID, &m.Sender, &m.Content, &m.Type,
			&m.MediaFilename, &m.MediaType, &ts, &m.Sequence); err != nil {
			return nil, err
		}
		m.Timestamp = parseTimestamp(ts)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// DeleteChat removes a chat and, through the foreign key, its messages
func (db *DB) DeleteChat(name string) error {
	res, err := db.Exec(`DELETE FROM chats WHERE chat_name = ? COLLATE NOCASE`, name)
	if err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrChatNotFound, name)
	}
	return nil
}

// CURRENT_TIMESTAMP format
const sqliteTimestampLayout = "2006-01-02 15:04:05"

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(waexport.TimestampLayout, s); err == nil {
		return t
	}
	for _, layout := range []string{sqliteTimestampLayout, waexport.DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
