package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/neilberkman/chatrider/internal/core/locator"
	"github.com/neilberkman/chatrider/pkg/waexport"
)

// Dir is the media subdirectory inside a chat's output directory
const Dir = "media"

// CopyResult summarises a Copy call
type CopyResult struct {
	Copied  int
	Skipped int
	Bytes   int64
}

// Copy copies the export's media files into <destDir>/media. Files already
// present with the same size are left alone.
func Copy(exp locator.Export, destDir string) (CopyResult, error) {
	var res CopyResult

	mediaDir := filepath.Join(destDir, Dir)
	if err := os.MkdirAll(mediaDir, 0755); err != nil {
		return res, fmt.Errorf("failed to create media directory: %w", err)
	}

	for _, f := range exp.MediaFiles {
		dst := filepath.Join(mediaDir, f.Name)
		if info, err := os.Stat(dst); err == nil && info.Size() == f.Size {
			res.Skipped++
			continue
		}
		n, err := copyFile(f.Path, dst)
		if err != nil {
			return res, fmt.Errorf("failed to copy %s: %w", f.Name, err)
		}
		res.Copied++
		res.Bytes += n
	}
	return res, nil
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return n, err
}

// Report compares media referenced by messages with the files on disk
type Report struct {
	Referenced   int
	Present      int
	Missing      []string // referenced but not on disk
	Unreferenced []string // on disk but never referenced
}

// OK reports whether every referenced file exists
func (r Report) OK() bool {
	return len(r.Missing) == 0
}

// Validate checks media references in msgs against files. Only messages of
// type media carry references; omitted-media placeholders are ignored.
func Validate(msgs []waexport.Message, files []locator.MediaFile) Report {
	onDisk := make(map[string]bool, len(files))
	for _, f := range files {
		onDisk[f.Name] = true
	}

	referenced := make(map[string]bool)
	rep := Report{Present: len(files), Missing: []string{}, Unreferenced: []string{}}
	for _, m := range msgs {
		if m.Type != waexport.MessageTypeMedia || m.Media == nil || referenced[m.Media.Filename] {
			continue
		}
		referenced[m.Media.Filename] = true
		if !onDisk[m.Media.Filename] {
			rep.Missing = append(rep.Missing, m.Media.Filename)
		}
	}
	rep.Referenced = len(referenced)

	for _, f := range files {
		if !referenced[f.Name] {
			rep.Unreferenced = append(rep.Unreferenced, f.Name)
		}
	}
	sort.Strings(rep.Missing)
	sort.Strings(rep.Unreferenced)
	return rep
}
