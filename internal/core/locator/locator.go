package locator

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/neilberkman/chatrider/pkg/waexport"
)

// Export is one chat export directory: a _chat.txt transcript plus its media
type Export struct {
	Name           string
	Dir            string
	TranscriptPath string
	MediaFiles     []MediaFile
}

// MediaFile is a file shipped alongside the transcript
type MediaFile struct {
	Name string
	Path string
	Size int64
}

var namePrefixes = []string{"WhatsApp Chat - ", "WhatsApp Chat with "}

// ChatName derives a chat name from an export directory name
func ChatName(dir string) string {
	name := filepath.Base(filepath.Clean(dir))
	for _, p := range namePrefixes {
		if strings.HasPrefix(name, p) {
			return strings.TrimSpace(strings.TrimPrefix(name, p))
		}
	}
	return name
}

// Find returns every export under root, sorted by name. When root itself
// holds a transcript it is the only export.
func Find(root string) ([]Export, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat exports directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("exports path %s is not a directory", root)
	}

	if exp, ok, err := Load(root); err != nil {
		return nil, err
	} else if ok {
		return []Export{exp}, nil
	}

	var exports []Export
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || path == root {
			return nil
		}
		if isHidden(d.Name()) {
			return filepath.SkipDir
		}
		exp, ok, err := Load(path)
		if err != nil {
			return err
		}
		if ok {
			exports = append(exports, exp)
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	sort.SliceStable(exports, func(i, j int) bool {
		if exports[i].Name != exports[j].Name {
			return exports[i].Name < exports[j].Name
		}
		return exports[i].Dir < exports[j].Dir
	})
	return exports, nil
}

// Load inspects a single directory. ok is false when it has no transcript.
func Load(dir string) (Export, bool, error) {
	transcript := filepath.Join(dir, waexport.TranscriptFile)
	if info, err := os.Stat(transcript); err != nil || info.IsDir() {
		return Export{}, false, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return Export{}, false, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	exp := Export{
		Name:           ChatName(dir),
		Dir:            dir,
		TranscriptPath: transcript,
		MediaFiles:     []MediaFile{},
	}
	for _, e := range entries {
		if !e.Type().IsRegular() || e.Name() == waexport.TranscriptFile || isHidden(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return Export{}, false, fmt.Errorf("failed to stat %s: %w", e.Name(), err)
		}
		exp.MediaFiles = append(exp.MediaFiles, MediaFile{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return exp, true, nil
}

// TotalMediaSize sums the sizes of the export's media files
func (e Export) TotalMediaSize() int64 {
	var total int64
	for _, f := range e.MediaFiles {
		total += f.Size
	}
	return total
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
