package generator

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/neilberkman/chatrider/internal/core/locator"
	"github.com/neilberkman/chatrider/internal/core/media"
	"github.com/neilberkman/chatrider/internal/core/output"
	"github.com/neilberkman/chatrider/internal/core/viewer"
	"github.com/neilberkman/chatrider/pkg/waexport"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Archiver stores a parsed chat. imported is false when the archive already
// held an identical copy.
type Archiver interface {
	ImportChat(exp locator.Export, tr *waexport.Transcript, meta waexport.Metadata) (imported bool, err error)
}

// Generator turns chat exports into output directories
type Generator struct {
	Rules     waexport.ContentRules
	OutputDir string
	CopyMedia bool
	Template  string   // mustache source; empty uses the built-in viewer
	Archive   Archiver // optional
	Now       func() time.Time
}

// ChatResult describes one successfully processed chat
type ChatResult struct {
	Name      string
	OutputDir string
	Metadata  waexport.Metadata
	Copy      media.CopyResult
	Media     media.Report
	Archived  bool
}

// ChatFailure records a chat that could not be processed
type ChatFailure struct {
	Name string
	Err  error
}

// RunSummary aggregates a multi-chat run. Results and Failures follow the
// order of the exports given to Run.
type RunSummary struct {
	Processed    int
	Failed       int
	Messages     int
	MissingMedia int
	Results      []ChatResult
	Failures     []ChatFailure
}

// Run processes exports with at most workers chats in flight. A failing chat
// never stops the others. Cancelling ctx stops new chats from starting.
func (g *Generator) Run(ctx context.Context, exports []locator.Export, workers int) RunSummary {
	if workers < 1 {
		workers = 1
	}

	results := make([]*ChatResult, len(exports))
	errs := make([]error, len(exports))

	var viewerErr error
	v, err := viewer.New(g.Template)
	if err != nil {
		viewerErr = err
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, exp := range exports {
		if egCtx.Err() != nil {
			errs[i] = egCtx.Err()
			continue
		}
		eg.Go(func() error {
			if viewerErr != nil {
				errs[i] = viewerErr
				return nil
			}
			if err := egCtx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			res, err := g.process(exp, v)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = &res
			return nil
		})
	}
	_ = eg.Wait()

	var sum RunSummary
	for i, exp := range exports {
		if errs[i] != nil {
			log.WithField("chat", exp.Name).WithError(errs[i]).Error("chat failed")
			sum.Failed++
			sum.Failures = append(sum.Failures, ChatFailure{Name: exp.Name, Err: errs[i]})
			continue
		}
		res := results[i]
		sum.Processed++
		sum.Messages += res.Metadata.TotalMessages
		sum.MissingMedia += len(res.Media.Missing)
		sum.Results = append(sum.Results, *res)
	}
	return sum
}

// ProcessChat runs the pipeline for a single export
func (g *Generator) ProcessChat(exp locator.Export) (ChatResult, error) {
	v, err := viewer.New(g.Template)
	if err != nil {
		return ChatResult{}, err
	}
	return g.process(exp, v)
}

func (g *Generator) process(exp locator.Export, v *viewer.Viewer) (ChatResult, error) {
	logger := log.WithField("chat", exp.Name)
	res := ChatResult{Name: exp.Name, OutputDir: ChatDir(g.OutputDir, exp.Name)}

	asm := waexport.Assembler{Dialects: waexport.DefaultDialects(), Rules: g.Rules}
	tr, err := asm.ParseFile(exp.TranscriptPath)
	if err != nil {
		return res, err
	}
	res.Metadata = waexport.ExtractMetadata(exp.Name, tr.Messages, g.now())
	logger.WithField("messages", len(tr.Messages)).Debug("parsed transcript")

	if g.CopyMedia {
		res.Copy, err = media.Copy(exp, res.OutputDir)
		if err != nil {
			return res, err
		}
		logger.WithFields(log.Fields{"copied": res.Copy.Copied, "skipped": res.Copy.Skipped}).Debug("copied media")
	}

	res.Media = media.Validate(tr.Messages, exp.MediaFiles)
	for _, name := range res.Media.Missing {
		logger.WithField("file", name).Warn("referenced media file not found")
	}

	if err := output.WriteJSON(res.OutputDir, res.Metadata, tr.Messages); err != nil {
		return res, err
	}

	var mediaBytes int64
	if g.CopyMedia {
		mediaBytes = exp.TotalMediaSize()
	}
	html, err := v.Render(res.Metadata, tr.Messages, mediaBytes)
	if err != nil {
		return res, err
	}
	if err := viewer.WriteFile(res.OutputDir, html); err != nil {
		return res, err
	}

	if g.Archive != nil {
		res.Archived, err = g.Archive.ImportChat(exp, tr, res.Metadata)
		if err != nil {
			return res, fmt.Errorf("failed to archive chat: %w", err)
		}
	}
	return res, nil
}

// Regenerate rebuilds index.html in dir from its JSON dumps without re-parsing
func (g *Generator) Regenerate(dir string) error {
	meta, msgs, err := output.ReadJSON(dir)
	if err != nil {
		return err
	}
	v, err := viewer.New(g.Template)
	if err != nil {
		return err
	}
	html, err := v.Render(meta, msgs, 0)
	if err != nil {
		return err
	}
	return viewer.WriteFile(dir, html)
}

func (g *Generator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

var unsafeNameChars = strings.NewReplacer("/", "_", "\\", "_", ":", "_", "\x00", "")

// ChatDir returns the output directory for a chat name
func ChatDir(root, chatName string) string {
	name := strings.TrimSpace(unsafeNameChars.Replace(chatName))
	if name == "" || name == "." || name == ".." {
		name = "chat"
	}
	return filepath.Join(root, name)
}
