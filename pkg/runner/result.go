package runner

// BlockOutcome describes one rendered notation block.
type BlockOutcome struct {
	// Index is the block's position among the file's notation blocks.
	Index int `json:"index"`

	// Line is the 1-based line of the opening fence.
	Line int `json:"line"`

	// Source is the notation text inside the fence.
	Source string `json:"source"`

	// Image is the image file name inside the output directory.
	Image string `json:"image,omitempty"`

	// Width and Height are the image dimensions in pixels.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// TextTokens counts tokens drawn as text instead of an icon.
	TextTokens int `json:"text_tokens,omitempty"`

	// Written is true if the image file was created by this run.
	Written bool `json:"written,omitempty"`

	// Error is set if the block could not be rendered.
	Error error `json:"-"`
}

// Failed reports whether the block could not be rendered.
func (b BlockOutcome) Failed() bool {
	return b.Error != nil
}

// FileOutcome describes the processing of one Markdown file.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// RelPath is Path relative to the working directory, slash-separated.
	RelPath string

	// Blocks are the file's notation blocks in document order.
	Blocks []BlockOutcome

	// LinksInserted and LinksUpdated count embedded image links.
	LinksInserted int
	LinksUpdated  int

	// Modified is true if the Markdown file was rewritten (or would be,
	// in a dry run).
	Modified bool

	// BackupWritten is true if a backup was taken before rewriting.
	BackupWritten bool

	// Error is set if the file could not be processed.
	Error error
}

// Images returns the image names of the successfully rendered blocks.
func (f FileOutcome) Images() []string {
	images := make([]string, 0, len(f.Blocks))
	for _, b := range f.Blocks {
		if b.Image != "" {
			images = append(images, b.Image)
		}
	}
	return images
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int `json:"files_discovered"`

	// FilesProcessed is the number of files successfully processed.
	FilesProcessed int `json:"files_processed"`

	// FilesWithBlocks is the number of files holding at least one notation block.
	FilesWithBlocks int `json:"files_with_blocks"`

	// FilesErrored is the number of files that encountered errors.
	FilesErrored int `json:"files_errored"`

	// FilesModified is the number of Markdown files rewritten.
	FilesModified int `json:"files_modified"`

	// BlocksRendered is the number of blocks rendered successfully.
	BlocksRendered int `json:"blocks_rendered"`

	// BlocksFailed is the number of blocks that could not be rendered.
	BlocksFailed int `json:"blocks_failed"`

	// ImagesWritten is the number of image files created.
	ImagesWritten int `json:"images_written"`

	// ImagesPruned is the number of stale images removed.
	ImagesPruned int `json:"images_pruned"`

	// LinksInserted and LinksUpdated count embedded image links.
	LinksInserted int `json:"links_inserted"`
	LinksUpdated  int `json:"links_updated"`
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file.
	// Files are ordered deterministically (by path).
	Files []FileOutcome

	// Pruned lists the stale images removed (or, in a dry run, that would be).
	Pruned []string

	// OutDir is the absolute output directory.
	OutDir string

	// DryRun is true if nothing was written.
	DryRun bool

	// Stats contains aggregate statistics for the run.
	Stats Stats

	// Errors contains any non-file-specific errors encountered.
	Errors []error
}

// HasFailures reports whether any block or file failed.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.BlocksFailed > 0 || r.Stats.FilesErrored > 0 || len(r.Errors) > 0
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	r.Stats.FilesProcessed++
	if len(outcome.Blocks) > 0 {
		r.Stats.FilesWithBlocks++
	}
	if outcome.Modified {
		r.Stats.FilesModified++
	}
	r.Stats.LinksInserted += outcome.LinksInserted
	r.Stats.LinksUpdated += outcome.LinksUpdated

	for _, b := range outcome.Blocks {
		if b.Failed() {
			r.Stats.BlocksFailed++
			continue
		}
		r.Stats.BlocksRendered++
		if b.Written {
			r.Stats.ImagesWritten++
		}
	}
}
