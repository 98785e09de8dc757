// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"

	// Configuration fields.
	FieldAssetsDir = "assets_dir"
	FieldOutDir    = "out_dir"
	FieldFence     = "fence"
	FieldEmbed     = "embed"
	FieldPrune     = "prune"
	FieldDryRun    = "dry_run"
	FieldJobs      = "jobs"

	// Render fields.
	FieldBlock  = "block"
	FieldLine   = "line"
	FieldToken  = "token"
	FieldAsset  = "asset"
	FieldWidth  = "width"
	FieldHeight = "height"
	FieldImage  = "image"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldBlocksRendered  = "blocks_rendered"
	FieldBlocksFailed    = "blocks_failed"
	FieldImagesWritten   = "images_written"
	FieldImagesPruned    = "images_pruned"
	FieldFilesModified   = "files_modified"

	// Version fields.
	FieldVersion  = "version"
	FieldCommit   = "commit"
	FieldBuilt    = "built"
	FieldGo       = "go"
	FieldPlatform = "platform"
)
