// Package d2 emits a parsed architecture model as D2 declarative diagram
// text.
//
// Emission is deterministic: entity blocks appear in first-declaration order,
// edges in original statement order, and every styling decision is a pure
// lookup on the entity kind. Translating the same model twice produces
// byte-identical output.
package d2

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"diagramkit/pkg/c4"
	"diagramkit/pkg/observability"
)

// Result holds the emitted diagram description and any non-fatal warnings
// raised during emission.
type Result struct {
	Description string
	Warnings    []string
}

// Emit translates a model into D2 text. A relationship whose endpoint was
// never declared is dropped with a warning; an empty model yields an empty
// description. Emit never fails.
func Emit(ctx context.Context, m *c4.Model) Result {
	if m == nil || m.Empty() {
		return Result{}
	}

	var buf bytes.Buffer

	if m.Title != "" {
		fmt.Fprintf(&buf, "# %s\n\n", m.Title)
	}

	for _, e := range m.Entities {
		writeEntity(&buf, e)
	}

	var warnings []string
	for _, r := range m.Relationships {
		if !m.Declared(r.FromID) || !m.Declared(r.ToID) {
			warnings = append(warnings,
				fmt.Sprintf("dropped relationship %s -> %s: endpoint not declared", r.FromID, r.ToID))
			observability.Warnings().OnDroppedRelationship(ctx, r.FromID, r.ToID)
			continue
		}
		writeEdge(&buf, r)
	}

	return Result{Description: buf.String(), Warnings: warnings}
}

// writeEntity emits one entity block keyed by its id: label (with the
// technology bracketed on a second line), shape, palette, and the
// description as a tooltip when present.
func writeEntity(buf *bytes.Buffer, e c4.Entity) {
	label := e.Label
	if e.Technology != "" {
		label += "\\n[" + e.Technology + "]"
	}

	p := PaletteFor(e.Kind)

	fmt.Fprintf(buf, "%s: %s {\n", e.ID, quote(label))
	fmt.Fprintf(buf, "  shape: %s\n", ShapeFor(e.Kind))
	fmt.Fprintf(buf, "  style: {\n")
	fmt.Fprintf(buf, "    fill: %s\n", quote(p.Fill))
	fmt.Fprintf(buf, "    stroke: %s\n", quote(p.Stroke))
	fmt.Fprintf(buf, "    font-color: %s\n", quote(p.FontColor))
	fmt.Fprintf(buf, "  }\n")
	if e.Description != "" {
		fmt.Fprintf(buf, "  tooltip: %s\n", quote(e.Description))
	}
	fmt.Fprintf(buf, "}\n")
}

// writeEdge emits one directed edge. A technology renders as a bracketed
// second label line.
func writeEdge(buf *bytes.Buffer, r c4.Relationship) {
	label := r.Label
	if r.Technology != "" {
		label += "\\n[" + r.Technology + "]"
	}
	fmt.Fprintf(buf, "%s -> %s: %s\n", r.FromID, r.ToID, quote(label))
}

// quote wraps s in double quotes, escaping embedded quotes. Line breaks in
// labels are already encoded as the two-character sequence \n, which D2
// interprets inside quoted strings.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
