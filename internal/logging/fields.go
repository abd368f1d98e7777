package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldBackup     = "backup"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Settings fields.
	FieldLayerHeight = "layer_height"
	FieldMultiplier  = "extrusion_multiplier"
	FieldShift       = "shift_policy"
	FieldParity      = "parity_policy"
	FieldDialect     = "dialect"
	FieldDryRun      = "dry_run"
	FieldJobs        = "jobs"

	// Pass fields.
	FieldLine    = "line"
	FieldLayer   = "layer"
	FieldZ       = "z"
	FieldSegment = "segment"
	FieldShifted = "shifted"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesModified   = "files_modified"
	FieldFilesSkipped    = "files_skipped"
	FieldFilesErrored    = "files_errored"
	FieldSegments        = "segments"
	FieldWarnings        = "warnings"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
