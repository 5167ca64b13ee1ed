package observability

import (
	"context"
	"testing"
	"time"
)

type recordingWarnings struct {
	NoopWarningHooks
	unterminated int
	skipped      int
	dropped      []string
}

func (r *recordingWarnings) OnUnterminatedBlock(_ context.Context, _ string, _ int) {
	r.unterminated++
}

func (r *recordingWarnings) OnSkippedStatement(_ context.Context, _ int, _ string) {
	r.skipped++
}

func (r *recordingWarnings) OnDroppedRelationship(_ context.Context, from, to string) {
	r.dropped = append(r.dropped, from+"->"+to)
}

func TestDefaultHooksAreNoop(t *testing.T) {
	Reset()

	// Must not panic.
	ctx := context.Background()
	Pipeline().OnScanStart(ctx, "markdown")
	Pipeline().OnScanComplete(ctx, "markdown", 2, time.Millisecond)
	Pipeline().OnRenderComplete(ctx, "svg", time.Millisecond, nil)
	Warnings().OnSkippedStatement(ctx, 3, "Boundary(...)")
	Cache().OnCacheHit(ctx, "artifact")
}

func TestSetWarningHooks(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	rec := &recordingWarnings{}
	SetWarningHooks(rec)

	ctx := context.Background()
	Warnings().OnUnterminatedBlock(ctx, "html", 1)
	Warnings().OnSkippedStatement(ctx, 4, "Nope()")
	Warnings().OnDroppedRelationship(ctx, "a", "b")

	if rec.unterminated != 1 || rec.skipped != 1 {
		t.Errorf("counts = %d/%d, want 1/1", rec.unterminated, rec.skipped)
	}
	if len(rec.dropped) != 1 || rec.dropped[0] != "a->b" {
		t.Errorf("dropped = %v", rec.dropped)
	}
}

func TestSetNilKeepsPrevious(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	rec := &recordingWarnings{}
	SetWarningHooks(rec)
	SetWarningHooks(nil)

	Warnings().OnSkippedStatement(context.Background(), 1, "x")
	if rec.skipped != 1 {
		t.Error("nil registration should not replace existing hooks")
	}
}
