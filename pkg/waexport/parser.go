package waexport

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// TranscriptFile is the name of the transcript inside an export directory
const TranscriptFile = "_chat.txt"

// ParseFile parses a _chat.txt transcript with the default assembler
func ParseFile(path string) (*Transcript, error) {
	return NewAssembler().ParseFile(path)
}

// ParseFile parses a _chat.txt transcript
func (a Assembler) ParseFile(path string) (*Transcript, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTranscriptRead, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrTranscriptRead, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTranscriptRead, err)
	}

	msgs, err := a.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &Transcript{
		Path:     path,
		Size:     info.Size(),
		ModTime:  info.ModTime(),
		Messages: msgs,
	}, nil
}

// ParseDir parses <dir>/_chat.txt and derives its metadata
func (a Assembler) ParseDir(dir, chatName string, now time.Time) (*Transcript, Metadata, error) {
	t, err := a.ParseFile(filepath.Join(dir, TranscriptFile))
	if err != nil {
		return nil, Metadata{}, err
	}
	return t, ExtractMetadata(chatName, t.Messages, now), nil
}
