package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/neilberkman/chatrider/pkg/waexport"
)

const (
	MetadataFile = "metadata.json"
	MessagesFile = "messages.json"
)

// WriteJSON writes metadata.json and messages.json into dir
func WriteJSON(dir string, meta waexport.Metadata, msgs []waexport.Message) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if msgs == nil {
		msgs = []waexport.Message{}
	}
	if err := writeIndented(filepath.Join(dir, MetadataFile), meta); err != nil {
		return err
	}
	return writeIndented(filepath.Join(dir, MessagesFile), msgs)
}

// ReadJSON loads a previously written chat back
func ReadJSON(dir string) (waexport.Metadata, []waexport.Message, error) {
	var meta waexport.Metadata
	var msgs []waexport.Message

	if err := readJSON(filepath.Join(dir, MetadataFile), &meta); err != nil {
		return meta, nil, err
	}
	if err := readJSON(filepath.Join(dir, MessagesFile), &msgs); err != nil {
		return meta, nil, err
	}
	return meta, msgs, nil
}

func writeIndented(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return nil
}
