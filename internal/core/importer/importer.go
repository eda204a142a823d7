package importer

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/neilberkman/chatrider/internal/core/db"
	"github.com/neilberkman/chatrider/internal/core/locator"
	"github.com/neilberkman/chatrider/internal/core/models"
	"github.com/neilberkman/chatrider/pkg/waexport"
	log "github.com/sirupsen/logrus"
)

// Importer handles importing parsed chats into the database
type Importer struct {
	db *db.DB
}

// New creates a new importer
func New(database *db.DB) *Importer {
	return &Importer{db: database}
}

// Result summarises an ImportDirectory run
type Result struct {
	Imported int
	Skipped  int
	Failed   int
	Messages int
}

// ImportChat stores one parsed chat. It returns false without touching the
// archive when the transcript is unchanged since the last import; a changed
// transcript replaces the chat's previous rows.
func (i *Importer) ImportChat(exp locator.Export, tr *waexport.Transcript, meta waexport.Metadata) (bool, error) {
	hash, err := computeFileHash(tr.Path)
	if err != nil {
		return false, fmt.Errorf("failed to hash file: %w", err)
	}

	chat := chatFromMetadata(exp, tr, meta, hash)
	if err := chat.Validate(); err != nil {
		return false, fmt.Errorf("invalid chat: %w", err)
	}

	tx, err := i.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Check if already imported
	var existingHash sql.NullString
	err = tx.QueryRow("SELECT file_hash FROM chats WHERE chat_name = ?", chat.ChatName).Scan(&existingHash)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return false, fmt.Errorf("failed to check existing chat: %w", err)
	case existingHash.String == hash:
		return false, nil
	default:
		// Transcript changed - drop old rows, messages cascade
		if _, err := tx.Exec("DELETE FROM chats WHERE chat_name = ?", chat.ChatName); err != nil {
			return false, fmt.Errorf("failed to replace chat: %w", err)
		}
	}

	result, err := tx.Exec(`
		INSERT INTO chats (
			chat_name, source_dir, participants, message_count,
			first_date, last_date, created_at, updated_at,
			file_hash, file_size
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		chat.ChatName,
		chat.SourceDir,
		chat.ParticipantList(),
		chat.MessageCount,
		chat.FirstDate,
		chat.LastDate,
		formatTimestamp(tr.Messages, 0),
		formatTimestamp(tr.Messages, len(tr.Messages)-1),
		chat.FileHash,
		chat.FileSize,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert chat: %w", err)
	}

	chatDBID, err := result.LastInsertId()
	if err != nil {
		return false, fmt.Errorf("failed to get chat ID: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO messages (
			chat_id, msg_id, sender, content, type,
			media_filename, media_type, timestamp, sequence
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return false, fmt.Errorf("failed to prepare message insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for seq, msg := range tr.Messages {
		var mediaFile, mediaType sql.NullString
		if msg.Media != nil {
			mediaFile = sql.NullString{String: msg.Media.Filename, Valid: true}
			mediaType = sql.NullString{String: string(msg.Media.MediaType), Valid: true}
		}
		_, err := stmt.Exec(
			chatDBID,
			msg.ID,
			msg.Sender,
			msg.Content,
			string(msg.Type),
			mediaFile,
			mediaType,
			msg.Timestamp.String(),
			seq+1,
		)
		if err != nil {
			return false, fmt.Errorf("failed to insert message %s: %w", msg.ID, err)
		}
	}

	// Record import
	_, err = tx.Exec(`
		INSERT INTO import_log (file_path, file_hash, chat_name, messages_imported, status)
		VALUES (?, ?, ?, ?, 'success')
	`, tr.Path, hash, chat.ChatName, len(tr.Messages))
	if err != nil {
		return false, fmt.Errorf("failed to record import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit: %w", err)
	}

	return true, nil
}

// ImportDirectory imports every export found under dirPath
func (i *Importer) ImportDirectory(dirPath string, rules waexport.ContentRules, progress ProgressCallback) (Result, error) {
	var res Result

	exports, err := locator.Find(dirPath)
	if err != nil {
		return res, err
	}
	if progress != nil {
		progress.Start(len(exports))
	}

	asm := waexport.Assembler{Dialects: waexport.DefaultDialects(), Rules: rules}
	for _, exp := range exports {
		logger := log.WithField("chat", exp.Name)

		tr, err := asm.ParseFile(exp.TranscriptPath)
		if err != nil {
			logger.WithError(err).Warn("failed to parse chat")
			i.logFailure(exp, err)
			res.Failed++
			continue
		}

		meta := waexport.ExtractMetadata(exp.Name, tr.Messages, tr.ModTime)
		imported, err := i.ImportChat(exp, tr, meta)
		if err != nil {
			logger.WithError(err).Warn("failed to import chat")
			i.logFailure(exp, err)
			res.Failed++
			continue
		}

		if imported {
			res.Imported++
			res.Messages += len(tr.Messages)
		} else {
			res.Skipped++
			logger.Debug("unchanged, skipped")
		}

		if progress != nil {
			progress.Update(exp.Name, lastMessagePreview(tr.Messages))
		}
	}

	if progress != nil {
		progress.Finish()
	}
	return res, nil
}

func (i *Importer) logFailure(exp locator.Export, cause error) {
	hash, _ := computeFileHash(exp.TranscriptPath)
	_, err := i.db.Exec(`
		INSERT INTO import_log (file_path, file_hash, chat_name, messages_imported, status, error_message)
		VALUES (?, ?, ?, 0, 'failed', ?)
	`, exp.TranscriptPath, hash, exp.Name, cause.Error())
	if err != nil {
		log.WithError(err).Debug("failed to record import failure")
	}
}

func chatFromMetadata(exp locator.Export, tr *waexport.Transcript, meta waexport.Metadata, hash string) models.Chat {
	chat := models.Chat{
		ChatName:     meta.ChatName,
		SourceDir:    exp.Dir,
		Participants: meta.Participants,
		MessageCount: meta.TotalMessages,
		FileHash:     hash,
		FileSize:     tr.Size,
	}
	if meta.DateRange != nil {
		chat.FirstDate = meta.DateRange.Start
		chat.LastDate = meta.DateRange.End
	}
	return chat
}

func formatTimestamp(msgs []waexport.Message, idx int) sql.NullString {
	if idx < 0 || idx >= len(msgs) {
		return sql.NullString{}
	}
	return sql.NullString{String: msgs[idx].Timestamp.String(), Valid: true}
}

func lastMessagePreview(msgs []waexport.Message) string {
	for j := len(msgs) - 1; j >= 0; j-- {
		if msgs[j].Type == waexport.MessageTypeText {
			text := []rune(msgs[j].Content)
			if len(text) > 100 {
				return string(text[:97]) + "..."
			}
			return string(text)
		}
	}
	return ""
}

func computeFileHash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = file.Close()
	}()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}
