// Package pipeline runs the bricklayer engine over one file with the safety
// steps around it: snapshot, file-type check, dry-run diff, concurrent
// modification check, backup and atomic write.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/gobricklayer/pkg/bricklayer"
	"github.com/yaklabco/gobricklayer/pkg/dialect"
	"github.com/yaklabco/gobricklayer/pkg/diff"
	"github.com/yaklabco/gobricklayer/pkg/fsutil"
	"github.com/yaklabco/gobricklayer/pkg/gcode"
)

// Failure categories, matched with errors.Is.
var (
	ErrReadFailure  = errors.New("read failure")
	ErrWriteFailure = errors.New("write failure")
)

// Reasons a file is left untouched, reported through Result.Skip.
var (
	ErrNotGCode               = errors.New("not a G-code file")
	ErrAlreadyProcessed       = errors.New("already processed")
	ErrConcurrentModification = errors.New("file modified during processing")
)

// Options controls one pipeline run.
type Options struct {
	// DryRun computes the rewrite and its diff without writing.
	DryRun bool

	// Diff computes the diff even when the file is written.
	Diff bool

	// Backup configures the sidecar backup taken before writing.
	Backup fsutil.BackupConfig

	// SkipTypeCheck processes files regardless of what the content looks like.
	SkipTypeCheck bool
}

// DefaultOptions returns options that write in place with backups.
func DefaultOptions() Options {
	return Options{Backup: fsutil.DefaultBackupConfig()}
}

// Result is the outcome for one file.
type Result struct {
	// Result is the engine output. Nil when the file was skipped before the
	// rewrite ran.
	*bricklayer.Result

	Path         string
	OriginalInfo *fsutil.FileInfo

	// Modified is set when the rewrite changed the content.
	Modified bool

	// Diff is set in dry-run mode or when Options.Diff is set.
	Diff *diff.Diff

	// Skip is non-nil when the file was left alone. It wraps one of
	// ErrNotGCode, ErrAlreadyProcessed or ErrConcurrentModification.
	Skip error

	BackupCreated bool
	Written       bool
}

// Skipped reports whether the file was left alone.
func (r *Result) Skipped() bool {
	return r.Skip != nil
}

// Summary returns a one-word status for the file.
func (r *Result) Summary() string {
	switch {
	case r.Skipped():
		return "skipped: " + r.Skip.Error()
	case r.Written && r.BackupCreated:
		return "rewritten (backup created)"
	case r.Written:
		return "rewritten"
	case r.Modified:
		return "changes pending"
	default:
		return "unchanged"
	}
}

// Pipeline runs an engine over files.
type Pipeline struct {
	Engine *bricklayer.Engine
}

// New returns a pipeline driving engine.
func New(engine *bricklayer.Engine) *Pipeline {
	return &Pipeline{Engine: engine}
}

// ProcessFile rewrites the file at path. Nothing is written until the whole
// pass has succeeded, and a file that changed on disk in the meantime is
// skipped rather than clobbered.
func (p *Pipeline) ProcessFile(ctx context.Context, path string, opts Options) (*Result, error) {
	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadFailure, err)
	}

	result, err := p.ProcessBytes(ctx, path, content, opts)
	if err != nil {
		return nil, err
	}
	result.OriginalInfo = info

	if !result.Modified || opts.DryRun {
		return result, nil
	}

	changed, err := fsutil.CheckModified(ctx, info)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadFailure, err)
	}
	if changed {
		result.Skip = ErrConcurrentModification
		return result, nil
	}

	created, err := fsutil.CreateBackup(ctx, path, content, info.Mode, opts.Backup)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.BackupCreated = created

	if err := fsutil.WriteAtomic(ctx, path, result.Content(), info.Mode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true

	return result, nil
}

// ProcessBytes rewrites content in memory. name is used for the file-type
// check, logging and the diff header; "-" or "" mean standard input.
func (p *Pipeline) ProcessBytes(ctx context.Context, name string, content []byte, opts Options) (*Result, error) {
	result := &Result{Path: name}

	if !opts.SkipTypeCheck && !dialect.IsGCode(name, content) {
		result.Skip = ErrNotGCode
		return result, nil
	}

	engine := p.Engine
	if name != "" {
		engine = engine.WithLogger(engine.Logger().With("path", name))
	}

	lines := gcode.SplitLines(content)
	rewritten, err := engine.Process(ctx, lines)
	if err != nil {
		return nil, err
	}
	result.Result = rewritten

	if rewritten.AlreadyProcessed {
		result.Skip = ErrAlreadyProcessed
		return result, nil
	}

	result.Modified = rewritten.Modified()
	if result.Modified && (opts.DryRun || opts.Diff) {
		result.Diff = diff.FromOrigins(name, gcode.Texts(lines), gcode.Texts(rewritten.Lines), rewritten.Origins)
	}

	return result, nil
}
