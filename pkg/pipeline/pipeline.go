// Package pipeline provides the core detection and translation pipeline for
// diagramkit.
//
// This package implements the complete scan → decode → classify → translate
// pipeline that can be used by CLI and API components. By centralizing this
// logic, we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Scan: Extract ordered candidate code blocks from the content
//  2. Decode: Normalize markup-escaped block text to literal characters
//  3. Classify: Map each block to a diagram dialect, or leave it opaque
//  4. Translate: Convert architecture-notation blocks to D2 text
//
// Every stage is a pure transformation over its input; concurrent pipeline
// invocations share no mutable state and need no locking. Preview rendering
// (DOT → SVG via Graphviz) is the only stage with real cost and the only one
// backed by the artifact cache.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, 0)
//	opts := pipeline.Options{Container: scan.ContainerMarkdown}
//	result, err := runner.Execute(ctx, content, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, seg := range result.Segments {
//	    ...
//	}
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"diagramkit/pkg/dialect"
	"diagramkit/pkg/errors"
	"diagramkit/pkg/scan"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// DefaultContainer is the container form assumed when none is given.
const DefaultContainer = scan.ContainerMarkdown

// Preview output formats.
const (
	FormatD2  = "d2"
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// ValidFormats is the set of supported preview output formats.
var ValidFormats = map[string]bool{
	FormatD2:  true,
	FormatDOT: true,
	FormatSVG: true,
}

// ValidateFormat checks that a preview format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: d2, dot, svg)", format)
	}
	return nil
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the detection pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Container is the container form of the content.
	Container scan.Container `json:"container,omitempty"`

	// Detailed includes technology/description detail in preview nodes.
	Detailed bool `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Container == "" {
		o.Container = DefaultContainer
	}
	if err := scan.ValidateContainer(o.Container); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// =============================================================================
// Result Types
// =============================================================================

// Segment is one ordered piece of pipeline output.
//
// Exactly one of three shapes applies:
//   - prose text: Text is set, Block is nil
//   - opaque block: Block is set, Classification is opaque; Block.Raw is
//     byte-identical to the scanned input
//   - diagram block: Block is set, Classification names the dialect, Source
//     holds the decoded diagram source, and Translated holds the D2
//     description for architecture dialects
type Segment struct {
	Text  string          `json:"text,omitempty"`
	Block *scan.CodeBlock `json:"block,omitempty"`

	Classification dialect.Classification `json:"classification"`

	// Source is the decoded block source for recognized dialects. The
	// external renderer consumes it directly for non-architecture dialects.
	Source string `json:"source,omitempty"`

	// Translated is the D2 description, set only for architecture dialects.
	// It survives any downstream render failure.
	Translated string `json:"translated,omitempty"`

	// Warnings collects non-fatal degradations from parsing and emission.
	Warnings []string `json:"warnings,omitempty"`
}

// IsDiagram reports whether the segment classified to a known dialect.
func (s *Segment) IsDiagram() bool {
	return s.Block != nil && !s.Classification.IsOpaque()
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Segments is the ordered text/block output sequence.
	Segments []Segment

	// Stats contains timing and count information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	BlockCount      int
	DiagramCount    int
	TranslatedCount int
	ScanTime        time.Duration
	TranslateTime   time.Duration
}

// CacheInfo tracks cache hits for preview rendering.
type CacheInfo struct {
	PreviewHit bool // Whether the preview artifact came from cache
}
