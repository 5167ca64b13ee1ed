// Package pkg provides the core libraries for diagramkit diagram detection
// and translation.
//
// # Overview
//
// Diagramkit finds diagram source embedded in generated chat content,
// classifies it, and translates architecture notation into D2 declarative
// text. The pkg directory is organized by pipeline stage:
//
//  1. [markup] - Entity decoding for escaped block text
//  2. [scan] - Code block extraction from markdown and HTML containers
//  3. [dialect] - Diagram dialect classification
//  4. [c4] - Architecture DSL parsing
//  5. [d2] - D2 text emission
//  6. [render] - Local DOT/SVG preview rendering
//  7. [pipeline] - Orchestration of the stages above
//
// Supporting packages: [cache] (preview artifact caching), [config] (runtime
// configuration), [errors] (machine-readable error codes), [observability]
// (instrumentation hooks), and [buildinfo] (ldflags version data).
//
// # Architecture
//
// The typical data flow through diagramkit:
//
//	Generated content (markdown or escaped HTML)
//	         ↓
//	    [scan] package (extract ordered code blocks)
//	         ↓
//	    [markup] package (decode entity escapes)
//	         ↓
//	    [dialect] package (classify into Mermaid dialects)
//	         ↓
//	    [c4] package (parse architecture statements)
//	         ↓
//	    [d2] package (emit D2 declarative text)
//
// Blocks that classify to no known dialect pass through byte-identical;
// dialects other than the C4 family keep their decoded source for an
// external renderer.
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, 0)
//	result, err := runner.Execute(ctx, content, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	for _, seg := range result.Segments {
//	    if seg.Translated != "" {
//	        fmt.Println(seg.Translated)
//	    }
//	}
package pkg
