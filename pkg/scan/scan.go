// Package scan extracts candidate diagram code blocks from generated content.
//
// Content arrives in one of two container forms: markdown with triple-backtick
// fences, or HTML with <pre>/</pre> preformatted blocks. Scanning splits the
// content into an ordered sequence of segments, each either prose text or a
// code block, so callers can reconstruct a mixed text/diagram rendering in the
// original relative order.
//
// Scanning is fail-open: an unterminated fence or tag pair extends to the end
// of the input, is reported through the warning hooks, and never aborts the
// scan.
package scan

import (
	"context"
	"regexp"
	"strings"
	"time"

	"diagramkit/pkg/errors"
	"diagramkit/pkg/observability"
)

// Container identifies the container form of a content string.
type Container string

// Supported container forms.
const (
	// ContainerMarkdown delimits code blocks with triple-backtick fences.
	ContainerMarkdown Container = "markdown"

	// ContainerHTML delimits code blocks with <pre>/</pre> tag pairs, with
	// markup-escaped block content.
	ContainerHTML Container = "html"
)

// ValidContainers is the set of supported container forms.
var ValidContainers = map[Container]bool{
	ContainerMarkdown: true,
	ContainerHTML:     true,
}

// ValidateContainer checks that a container form is valid.
func ValidateContainer(form Container) error {
	if !ValidContainers[form] {
		return errors.New(errors.ErrCodeInvalidContainer,
			"unknown container form: %q (must be one of: markdown, html)", form)
	}
	return nil
}

// CodeBlock is one candidate diagram block extracted from the content.
type CodeBlock struct {
	// Raw is the block body, verbatim. For the HTML form this is still
	// markup-escaped; decode with markup.Decode before classification.
	Raw string

	// LanguageHint is the language token from the container syntax, if any
	// (fence info string or <code class="language-..."> attribute).
	LanguageHint string

	// Position is the zero-based ordinal of this block within the scan.
	Position int
}

// Segment is one ordered piece of scanned content: either prose text or a
// code block, never both.
type Segment struct {
	Text  string
	Block *CodeBlock
}

// IsBlock reports whether the segment carries a code block.
func (s Segment) IsBlock() bool { return s.Block != nil }

// Scan splits content into ordered text and code-block segments.
// The only error condition is an unknown container form; malformed content
// never fails, it degrades to fail-open blocks plus warning events.
func Scan(ctx context.Context, form Container, content string) ([]Segment, error) {
	if err := ValidateContainer(form); err != nil {
		return nil, err
	}

	observability.Pipeline().OnScanStart(ctx, string(form))
	start := time.Now()

	var segs []Segment
	switch form {
	case ContainerMarkdown:
		segs = scanMarkdown(ctx, content)
	case ContainerHTML:
		segs = scanHTML(ctx, content)
	}

	blocks := 0
	for _, s := range segs {
		if s.IsBlock() {
			blocks++
		}
	}
	observability.Pipeline().OnScanComplete(ctx, string(form), blocks, time.Since(start))

	return segs, nil
}

// =============================================================================
// Markdown Fences
// =============================================================================

// scanMarkdown walks the content line by line. A line whose trimmed prefix is
// "```" opens a fence; the rest of that line is the language hint. The next
// "```" line closes it. A fence that never closes swallows the remainder of
// the input.
func scanMarkdown(ctx context.Context, content string) []Segment {
	var (
		segs     []Segment
		text     strings.Builder
		block    strings.Builder
		hint     string
		inFence  bool
		position int
	)

	flushText := func() {
		if text.Len() > 0 {
			segs = append(segs, Segment{Text: text.String()})
			text.Reset()
		}
	}
	closeBlock := func() {
		raw := strings.TrimSuffix(block.String(), "\n")
		raw = strings.TrimSuffix(raw, "\r")
		segs = append(segs, Segment{Block: &CodeBlock{
			Raw:          raw,
			LanguageHint: hint,
			Position:     position,
		}})
		block.Reset()
		hint = ""
		position++
		inFence = false
	}

	for _, line := range splitLines(content) {
		trimmed := strings.TrimRight(line, "\r\n")
		if !inFence {
			if rest, ok := strings.CutPrefix(strings.TrimLeft(trimmed, " \t"), "```"); ok {
				flushText()
				inFence = true
				hint = strings.TrimSpace(rest)
				continue
			}
			text.WriteString(line)
			continue
		}
		if strings.HasPrefix(strings.TrimLeft(trimmed, " \t"), "```") {
			closeBlock()
			continue
		}
		block.WriteString(line)
		if !strings.HasSuffix(line, "\n") {
			block.WriteString("\n")
		}
	}

	if inFence {
		// Fail-open: the unterminated fence runs to end of input.
		observability.Warnings().OnUnterminatedBlock(ctx, string(ContainerMarkdown), position)
		closeBlock()
	}
	flushText()

	return segs
}

// splitLines splits s into lines with their trailing newlines preserved, so
// prose segments round-trip byte-identically.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// =============================================================================
// Escaped Preformatted Blocks
// =============================================================================

var (
	preOpenRe  = regexp.MustCompile(`<pre\b[^>]*>`)
	codeOpenRe = regexp.MustCompile(`^\s*<code\b([^>]*)>`)
	langHintRe = regexp.MustCompile(`class="[^"]*\blanguage-([A-Za-z0-9_+#-]+)`)
)

// scanHTML finds every <pre>...</pre> pair, pulling the language hint from an
// optional inner <code class="language-..."> wrapper. Intervening text is
// preserved verbatim. A <pre> without a closing tag runs to end of input.
func scanHTML(ctx context.Context, content string) []Segment {
	var (
		segs     []Segment
		position int
	)

	rest := content
	for {
		loc := preOpenRe.FindStringIndex(rest)
		if loc == nil {
			break
		}

		if loc[0] > 0 {
			segs = append(segs, Segment{Text: rest[:loc[0]]})
		}

		body := rest[loc[1]:]
		end := strings.Index(body, "</pre>")
		if end < 0 {
			observability.Warnings().OnUnterminatedBlock(ctx, string(ContainerHTML), position)
			segs = append(segs, htmlBlock(body, position))
			position++
			rest = ""
			break
		}

		segs = append(segs, htmlBlock(body[:end], position))
		position++
		rest = body[end+len("</pre>"):]
	}

	if rest != "" {
		segs = append(segs, Segment{Text: rest})
	}

	return segs
}

// htmlBlock builds a block segment from the raw inner content of a <pre>
// element, unwrapping an optional <code> element and its language class.
func htmlBlock(inner string, position int) Segment {
	hint := ""
	if m := codeOpenRe.FindStringSubmatchIndex(inner); m != nil {
		if lm := langHintRe.FindStringSubmatch(inner[:m[1]]); lm != nil {
			hint = lm[1]
		}
		inner = inner[m[1]:]
		inner = strings.TrimSuffix(strings.TrimRight(inner, " \t\n"), "</code>")
	}
	return Segment{Block: &CodeBlock{
		Raw:          inner,
		LanguageHint: hint,
		Position:     position,
	}}
}
