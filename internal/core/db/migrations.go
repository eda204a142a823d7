package db

import (
	"database/sql"
	"fmt"
)

// migrate applies database migrations for existing databases
func (db *DB) migrate() error {
	// Migration 1: media columns on archives created before attachments were tracked
	if err := db.migration001AddMediaColumns(); err != nil {
		return fmt.Errorf("migration 001: %w", err)
	}

	// Migration 2: rebuild the FTS index when it has drifted from messages
	if err := db.migration002RebuildFTS(); err != nil {
		return fmt.Errorf("migration 002: %w", err)
	}

	return nil
}

func (db *DB) hasColumn(table, column string) (bool, error) {
	var n int
	err := db.conn.QueryRow(`
		SELECT COUNT(*) FROM pragma_table_info(?)
		WHERE name = ?
	`, table, column).Scan(&n)
	return n > 0, err
}

// migration001AddMediaColumns adds media_filename and media_type to messages
func (db *DB) migration001AddMediaColumns() error {
	for _, col := range []string{"media_filename", "media_type"} {
		ok, err := db.hasColumn("messages", col)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if _, err := db.conn.Exec(fmt.Sprintf(`ALTER TABLE messages ADD COLUMN %s TEXT;`, col)); err != nil {
			return fmt.Errorf("add %s column: %w", col, err)
		}
	}
	return nil
}

// migration002RebuildFTS repopulates messages_fts if its row count differs
// from messages, e.g. after rows were written with triggers missing
func (db *DB) migration002RebuildFTS() error {
	var messages, indexed int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM messages`).Scan(&messages); err != nil {
		return err
	}
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM messages_fts_docsize`).Scan(&indexed)
	if err == sql.ErrNoRows {
		indexed = 0
	} else if err != nil {
		return err
	}
	if messages == indexed {
		return nil
	}
	_, err = db.conn.Exec(`INSERT INTO messages_fts(messages_fts) VALUES ('rebuild');`)
	return err
}
