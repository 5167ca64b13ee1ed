// Package render produces local preview renderings of a parsed architecture
// model.
//
// The real renderer for translated diagrams is an external engine consuming
// the D2 description; this package exists for quick local inspection. It
// emits Graphviz DOT and can render SVG in-process via go-graphviz. Preview
// rendering can fail (Graphviz is a real layout engine); such failures carry
// the RENDER_FAILED error code and never touch the already-produced
// translation.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-graphviz"

	"diagramkit/pkg/c4"
	"diagramkit/pkg/d2"
	"diagramkit/pkg/errors"
	"diagramkit/pkg/observability"
)

// Options configures preview rendering.
type Options struct {
	// Detailed includes technology and description lines in node labels.
	// When false, only the entity label is shown.
	Detailed bool
}

// ToDOT converts a model to Graphviz DOT format for preview rendering.
// The resulting DOT string can be rendered with [SVG] or processed by
// external Graphviz tools.
//
// Node fill and stroke colors reuse the same category palette as the D2
// emission, so the preview and the translated diagram agree visually.
func ToDOT(m *c4.Model, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [style=\"rounded,filled\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, e := range m.Entities {
		label := fmtLabel(e, opts.Detailed)
		attrs := fmtAttrs(e, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", e.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, r := range m.Relationships {
		if !m.Declared(r.FromID) || !m.Declared(r.ToID) {
			continue // same drop policy as the D2 emission
		}
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", r.FromID, r.ToID, edgeLabel(r))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(e c4.Entity, detailed bool) string {
	if !detailed {
		return e.Label
	}
	parts := []string{e.Label}
	if e.Technology != "" {
		parts = append(parts, "["+e.Technology+"]")
	}
	if e.Description != "" {
		parts = append(parts, e.Description)
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(e c4.Entity, label string) []string {
	p := d2.PaletteFor(e.Kind)
	return []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("shape=%s", dotShape(e.Kind)),
		fmt.Sprintf("fillcolor=%q", p.Fill),
		fmt.Sprintf("color=%q", p.Stroke),
		fmt.Sprintf("fontcolor=%q", p.FontColor),
	}
}

// dotShape approximates the D2 shape table with Graphviz equivalents.
func dotShape(k c4.Kind) string {
	switch d2.ShapeFor(k) {
	case d2.ShapePerson:
		return "ellipse"
	case d2.ShapeCylinder:
		return "cylinder"
	case d2.ShapeQueue:
		return "cds"
	default:
		return "box"
	}
}

func edgeLabel(r c4.Relationship) string {
	if r.Technology == "" {
		return r.Label
	}
	return r.Label + "\n[" + r.Technology + "]"
}

// SVG renders a DOT graph to SVG using Graphviz in-process.
func SVG(ctx context.Context, dot string) ([]byte, error) {
	observability.Pipeline().OnRenderStart(ctx, "svg")
	start := time.Now()

	svg, err := renderSVG(ctx, dot)
	observability.Pipeline().OnRenderComplete(ctx, "svg", time.Since(start), err)
	return svg, err
}

func renderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render SVG")
	}
	return buf.Bytes(), nil
}
