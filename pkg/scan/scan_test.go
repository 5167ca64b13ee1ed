package scan

import (
	"context"
	"strings"
	"testing"

	"diagramkit/pkg/observability"
)

type countingWarnings struct {
	observability.NoopWarningHooks
	unterminated int
}

func (c *countingWarnings) OnUnterminatedBlock(_ context.Context, _ string, _ int) {
	c.unterminated++
}

func TestScanMarkdownSingleBlock(t *testing.T) {
	content := "Here is a diagram:\n```mermaid\ngraph TD\nA-->B\n```\nDone.\n"

	segs, err := Scan(context.Background(), ContainerMarkdown, content)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	if len(segs) != 3 {
		t.Fatalf("got %d segments, want 3: %#v", len(segs), segs)
	}
	if segs[0].Text != "Here is a diagram:\n" {
		t.Errorf("leading text = %q", segs[0].Text)
	}
	b := segs[1].Block
	if b == nil {
		t.Fatal("segment 1 is not a block")
	}
	if b.LanguageHint != "mermaid" {
		t.Errorf("LanguageHint = %q, want mermaid", b.LanguageHint)
	}
	if b.Raw != "graph TD\nA-->B" {
		t.Errorf("Raw = %q", b.Raw)
	}
	if b.Position != 0 {
		t.Errorf("Position = %d, want 0", b.Position)
	}
	if segs[2].Text != "Done.\n" {
		t.Errorf("trailing text = %q", segs[2].Text)
	}
}

func TestScanMarkdownMultipleBlocksPreservesOrder(t *testing.T) {
	content := "intro\n```go\nfmt.Println()\n```\nmiddle\n```\nplain\n```\noutro"

	segs, err := Scan(context.Background(), ContainerMarkdown, content)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	var kinds []string
	for _, s := range segs {
		if s.IsBlock() {
			kinds = append(kinds, "block")
		} else {
			kinds = append(kinds, "text")
		}
	}
	want := []string{"text", "block", "text", "block", "text"}
	if strings.Join(kinds, ",") != strings.Join(want, ",") {
		t.Fatalf("segment kinds = %v, want %v", kinds, want)
	}

	if segs[1].Block.Position != 0 || segs[3].Block.Position != 1 {
		t.Errorf("positions = %d, %d", segs[1].Block.Position, segs[3].Block.Position)
	}
	if segs[1].Block.LanguageHint != "go" || segs[3].Block.LanguageHint != "" {
		t.Errorf("hints = %q, %q", segs[1].Block.LanguageHint, segs[3].Block.LanguageHint)
	}
}

func TestScanMarkdownUnterminatedFenceFailsOpen(t *testing.T) {
	observability.Reset()
	t.Cleanup(observability.Reset)
	rec := &countingWarnings{}
	observability.SetWarningHooks(rec)

	content := "text\n```mermaid\ngraph TD\nA-->B"
	segs, err := Scan(context.Background(), ContainerMarkdown, content)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}
	if segs[1].Block == nil || segs[1].Block.Raw != "graph TD\nA-->B" {
		t.Errorf("unterminated block = %#v", segs[1].Block)
	}
	if rec.unterminated != 1 {
		t.Errorf("unterminated warnings = %d, want 1", rec.unterminated)
	}
}

func TestScanMarkdownNoBlocks(t *testing.T) {
	content := "just prose, nothing else\n"
	segs, err := Scan(context.Background(), ContainerMarkdown, content)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(segs) != 1 || segs[0].Text != content {
		t.Errorf("segments = %#v", segs)
	}
}

func TestScanHTML(t *testing.T) {
	content := `<p>before</p><pre><code class="language-mermaid">graph TD
A --&gt; B</code></pre><p>after</p>`

	segs, err := Scan(context.Background(), ContainerHTML, content)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	if len(segs) != 3 {
		t.Fatalf("got %d segments, want 3: %#v", len(segs), segs)
	}
	if segs[0].Text != "<p>before</p>" {
		t.Errorf("leading text = %q", segs[0].Text)
	}
	b := segs[1].Block
	if b == nil {
		t.Fatal("segment 1 is not a block")
	}
	if b.LanguageHint != "mermaid" {
		t.Errorf("LanguageHint = %q", b.LanguageHint)
	}
	// Content stays escaped; decoding is the caller's job.
	if b.Raw != "graph TD\nA --&gt; B" {
		t.Errorf("Raw = %q", b.Raw)
	}
	if segs[2].Text != "<p>after</p>" {
		t.Errorf("trailing text = %q", segs[2].Text)
	}
}

func TestScanHTMLMultipleBlocks(t *testing.T) {
	content := `<pre>one</pre>middle<pre>two</pre>`

	segs, err := Scan(context.Background(), ContainerHTML, content)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(segs) != 3 {
		t.Fatalf("got %d segments, want 3", len(segs))
	}
	if segs[0].Block == nil || segs[0].Block.Raw != "one" || segs[0].Block.Position != 0 {
		t.Errorf("first block = %#v", segs[0].Block)
	}
	if segs[1].Text != "middle" {
		t.Errorf("middle text = %q", segs[1].Text)
	}
	if segs[2].Block == nil || segs[2].Block.Raw != "two" || segs[2].Block.Position != 1 {
		t.Errorf("second block = %#v", segs[2].Block)
	}
}

func TestScanHTMLUnterminatedPre(t *testing.T) {
	observability.Reset()
	t.Cleanup(observability.Reset)
	rec := &countingWarnings{}
	observability.SetWarningHooks(rec)

	content := `text<pre>dangling`
	segs, err := Scan(context.Background(), ContainerHTML, content)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(segs) != 2 || segs[1].Block == nil || segs[1].Block.Raw != "dangling" {
		t.Errorf("segments = %#v", segs)
	}
	if rec.unterminated != 1 {
		t.Errorf("unterminated warnings = %d, want 1", rec.unterminated)
	}
}

func TestScanInvalidContainer(t *testing.T) {
	_, err := Scan(context.Background(), Container("asciidoc"), "x")
	if err == nil {
		t.Fatal("Scan() expected error for unknown container")
	}
}
