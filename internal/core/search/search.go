package search

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/neilberkman/chatrider/internal/core/db"
	"github.com/neilberkman/chatrider/pkg/waexport"
	log "github.com/sirupsen/logrus"
)

// SearchResult represents a single search result
type SearchResult struct {
	ChatName  string
	MsgID     string
	Sender    string
	Type      string
	Snippet   string // FTS snippet, or the full content for LIKE matches
	Content   string
	Timestamp string
}

// Filters narrow a search. Zero values mean "no restriction".
type Filters struct {
	Query  string
	Chat   string // substring of the chat name
	Sender string // substring of the sender
	Type   waexport.MessageType
	After  time.Time // inclusive
	Before time.Time // exclusive
	Limit  int
}

// HasFilters reports whether anything besides the text query is set
func (f Filters) HasFilters() bool {
	return f.Chat != "" || f.Sender != "" || f.Type != "" || !f.After.IsZero() || !f.Before.IsZero()
}

const defaultLimit = 1000

// Default sort order for search results (most recent first)
const defaultOrderBy = "m.timestamp DESC, m.id DESC"

// Characters FTS5 handles poorly; queries containing them use LIKE
const likeOnlyChars = "-_@#$%&:./+'?!"

// Search performs a full-text search over all archived messages
func Search(database *db.DB, query string) ([]SearchResult, error) {
	return SearchWithFilters(database, Filters{Query: query})
}

// SearchWithFilters runs a search restricted by f. The text query may be
// empty when at least one other filter is set.
func SearchWithFilters(database *db.DB, f Filters) ([]SearchResult, error) {
	f.Query = strings.TrimSpace(f.Query)
	if f.Query == "" && !f.HasFilters() {
		return nil, fmt.Errorf("search query cannot be empty")
	}
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}

	if f.Query == "" || strings.ContainsAny(f.Query, likeOnlyChars) {
		return run(database, f, false)
	}

	results, err := run(database, f, true)
	if err != nil {
		// FTS5 rejects some syntax (unbalanced quotes, bare operators)
		log.WithError(err).Debug("fts query failed, retrying with LIKE")
		return run(database, f, false)
	}
	return results, nil
}

func run(database *db.DB, f Filters, useFTS bool) ([]SearchResult, error) {
	var where []string
	var args []interface{}

	var query string
	if useFTS {
		query = `
			SELECT
				c.chat_name, m.msg_id, COALESCE(m.sender, ''), m.type,
				snippet(messages_fts, 0, '', '', '...', 32) as snippet,
				COALESCE(m.content, ''), COALESCE(m.timestamp, '')
			FROM messages_fts
			JOIN messages m ON messages_fts.rowid = m.id
			JOIN chats c ON c.id = m.chat_id`
		where = append(where, "messages_fts MATCH ?")
		args = append(args, f.Query)
	} else {
		query = `
			SELECT
				c.chat_name, m.msg_id, COALESCE(m.sender, ''), m.type,
				COALESCE(m.content, ''),
				COALESCE(m.content, ''), COALESCE(m.timestamp, '')
			FROM messages m
			JOIN chats c ON c.id = m.chat_id`
		if f.Query != "" {
			where = append(where, "m.content LIKE '%' || ? || '%'")
			args = append(args, f.Query)
		}
	}

	if f.Chat != "" {
		where = append(where, "c.chat_name LIKE ?")
		args = append(args, "%"+f.Chat+"%")
	}
	if f.Sender != "" {
		where = append(where, "m.sender LIKE ?")
		args = append(args, "%"+f.Sender+"%")
	}
	if f.Type != "" {
		where = append(where, "m.type = ?")
		args = append(args, string(f.Type))
	}
	if !f.After.IsZero() {
		where = append(where, "m.timestamp >= ?")
		args = append(args, f.After.Format(waexport.TimestampLayout))
	}
	if !f.Before.IsZero() {
		where = append(where, "m.timestamp < ?")
		args = append(args, f.Before.Format(waexport.TimestampLayout))
	}

	if len(where) > 0 {
		query += "\n\t\t\tWHERE " + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf("\n\t\t\tORDER BY %s\n\t\t\tLIMIT ?", defaultOrderBy)
	args = append(args, f.Limit)

	rows, err := database.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanResults(rows)
}

func scanResults(rows *sql.Rows) ([]SearchResult, error) {
	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(
			&r.ChatName,
			&r.MsgID,
			&r.Sender,
			&r.Type,
			&r.Snippet,
			&r.Content,
			&r.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating results: %w", err)
	}

	return results, nil
}
