package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/tekkenmd/pkg/runner"
)

// jsonSchemaVersion is bumped when the JSON layout changes incompatibly.
const jsonSchemaVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	OutDir  string           `json:"out_dir"`
	DryRun  bool             `json:"dry_run"`
	Files   []JSONFileResult `json:"files"`
	Pruned  []string         `json:"pruned"`
	Errors  []string         `json:"errors,omitempty"`
	Summary runner.Stats     `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path          string      `json:"path"`
	Blocks        []JSONBlock `json:"blocks"`
	LinksInserted int         `json:"links_inserted,omitempty"`
	LinksUpdated  int         `json:"links_updated,omitempty"`
	Modified      bool        `json:"modified,omitempty"`
	Error         string      `json:"error,omitempty"`
}

// JSONBlock represents a single notation block.
type JSONBlock struct {
	runner.BlockOutcome

	Error string `json:"error,omitempty"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := buildJSONOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return failures(result), nil
}

func buildJSONOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonSchemaVersion,
		Files:   make([]JSONFileResult, 0),
		Pruned:  make([]string, 0),
	}

	if result == nil {
		return output
	}

	output.OutDir = result.OutDir
	output.DryRun = result.DryRun
	output.Summary = result.Stats
	output.Pruned = append(output.Pruned, result.Pruned...)

	for _, runErr := range result.Errors {
		output.Errors = append(output.Errors, runErr.Error())
	}

	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:          displayPath(file),
			Blocks:        make([]JSONBlock, 0, len(file.Blocks)),
			LinksInserted: file.LinksInserted,
			LinksUpdated:  file.LinksUpdated,
			Modified:      file.Modified,
		}
		if file.Error != nil {
			fileResult.Error = file.Error.Error()
		}

		for _, block := range file.Blocks {
			jsonBlock := JSONBlock{BlockOutcome: block}
			if block.Error != nil {
				jsonBlock.Error = block.Error.Error()
			}
			fileResult.Blocks = append(fileResult.Blocks, jsonBlock)
		}

		output.Files = append(output.Files, fileResult)
	}

	return output
}
