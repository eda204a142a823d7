package db

// Timestamps are stored as zone-less TEXT (2006-01-02T15:04:05) because
// exported chats carry no timezone.
func (db *DB) initSchema() error {
	schema := `
	-- Chats table, one row per export
	CREATE TABLE IF NOT EXISTS chats (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		chat_name TEXT UNIQUE NOT NULL,
		source_dir TEXT NOT NULL,
		participants TEXT,
		message_count INTEGER DEFAULT 0,
		first_date TEXT,
		last_date TEXT,
		created_at TEXT,
		updated_at TEXT,
		imported_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		file_hash TEXT,
		file_size INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_chats_updated_at ON chats(updated_at);

	-- Messages table
	CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		chat_id INTEGER NOT NULL,
		msg_id TEXT NOT NULL,
		sender TEXT,
		content TEXT,
		type TEXT NOT NULL CHECK(type IN ('text', 'media', 'media_omitted', 'system')),
		media_filename TEXT,
		media_type TEXT,
		timestamp TEXT,
		sequence INTEGER,
		FOREIGN KEY (chat_id) REFERENCES chats(id) ON DELETE CASCADE,
		UNIQUE (chat_id, msg_id)
	);

	CREATE INDEX IF NOT EXISTS idx_messages_chat_id ON messages(chat_id);
	CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages(sender);
	CREATE INDEX IF NOT EXISTS idx_messages_timestamp ON messages(timestamp);

	-- Import log table
	CREATE TABLE IF NOT EXISTS import_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		file_path TEXT NOT NULL,
		file_hash TEXT NOT NULL,
		chat_name TEXT,
		imported_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		messages_imported INTEGER,
		status TEXT CHECK(status IN ('success', 'partial', 'failed')),
		error_message TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_import_log_file_hash ON import_log(file_hash);

	-- Full-text search with porter stemming
	CREATE VIRTUAL TABLE IF NOT EXISTS messages_fts USING fts5(
		content,
		sender,
		content=messages,
		content_rowid=id,
		tokenize='porter unicode61'
	);

	-- Triggers to keep FTS in sync
	CREATE TRIGGER IF NOT EXISTS messages_ai AFTER INSERT ON messages BEGIN
		INSERT INTO messages_fts(rowid, content, sender) VALUES (new.id, new.content, new.sender);
	END;

	CREATE TRIGGER IF NOT EXISTS messages_ad AFTER DELETE ON messages BEGIN
		INSERT INTO messages_fts(messages_fts, rowid, content, sender) VALUES ('delete', old.id, old.content, old.sender);
	END;

	CREATE TRIGGER IF NOT EXISTS messages_au AFTER UPDATE ON messages BEGIN
		INSERT INTO messages_fts(messages_fts, rowid, content, sender) VALUES ('delete', old.id, old.content, old.sender);
		INSERT INTO messages_fts(rowid, content, sender) VALUES (new.id, new.content, new.sender);
	END;
	`

	_, err := db.conn.Exec(schema)
	return err
}
