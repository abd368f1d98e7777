// Package runner discovers G-code files and rewrites them concurrently.
package runner

import "github.com/yaklabco/gobricklayer/pkg/pipeline"

// Options controls a multi-file run.
type Options struct {
	// Paths are the files or directories to process. Empty means ".".
	Paths []string

	// WorkingDir resolves relative Paths and anchors ExcludeGlobs. Empty
	// means the process working directory.
	WorkingDir string

	// Extensions are the lowercase file extensions, with leading dot, that
	// discovery picks up in directories. Files named explicitly in Paths
	// are always taken.
	Extensions []string

	// ExcludeGlobs skip matching files and directories. Patterns are
	// matched against the slash-separated path relative to WorkingDir and
	// against the base name.
	ExcludeGlobs []string

	// FollowSymlinks walks into symlinked directories.
	FollowSymlinks bool

	// Jobs caps concurrent files. Zero or negative means runtime.NumCPU().
	Jobs int

	// Pipeline is applied to every file.
	Pipeline pipeline.Options
}

// DefaultExtensions returns the extensions slicers write G-code with.
func DefaultExtensions() []string {
	return []string{".gcode", ".gco", ".g"}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
