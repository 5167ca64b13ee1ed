package pipeline

import (
	"context"
	"time"

	"diagramkit/pkg/c4"
	"diagramkit/pkg/cache"
	"diagramkit/pkg/d2"
	"diagramkit/pkg/dialect"
	"diagramkit/pkg/markup"
	"diagramkit/pkg/observability"
	"diagramkit/pkg/render"
	"diagramkit/pkg/scan"
)

// Runner executes the detection and translation pipeline.
// A Runner is safe for concurrent use; every Execute call allocates its own
// parse state.
type Runner struct {
	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
}

// NewRunner creates a pipeline runner. A nil cache disables artifact caching;
// a nil keyer uses the default key scheme; a non-positive ttl caches
// artifacts for cache.DefaultTTL.
func NewRunner(c cache.Cache, k cache.Keyer, ttl time.Duration) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if k == nil {
		k = cache.NewDefaultKeyer()
	}
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &Runner{cache: c, keyer: k, ttl: ttl}
}

// Execute runs the full pipeline over one content string.
//
// Classification never fails: unclassifiable blocks come back as opaque
// segments with byte-identical content. Translation degrades per statement;
// its warnings ride on the segment. The only error condition is invalid
// options.
func (r *Runner) Execute(ctx context.Context, content string, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	scanStart := time.Now()
	scanned, err := scan.Scan(ctx, opts.Container, content)
	if err != nil {
		return nil, err
	}
	scanTime := time.Since(scanStart)

	res := &Result{Stats: Stats{ScanTime: scanTime}}

	for _, seg := range scanned {
		if !seg.IsBlock() {
			res.Segments = append(res.Segments, Segment{Text: seg.Text})
			continue
		}

		res.Stats.BlockCount++
		out := r.classifyBlock(ctx, seg.Block, &res.Stats)
		logger.Debug("classified block",
			"position", seg.Block.Position,
			"dialect", out.Classification.Dialect.Tag(),
			"method", out.Classification.Method)
		res.Segments = append(res.Segments, out)
	}

	logger.Debug("pipeline complete",
		"blocks", res.Stats.BlockCount,
		"diagrams", res.Stats.DiagramCount,
		"translated", res.Stats.TranslatedCount)

	return res, nil
}

// classifyBlock decodes, classifies and (for architecture dialects)
// translates one scanned block.
func (r *Runner) classifyBlock(ctx context.Context, block *scan.CodeBlock, stats *Stats) Segment {
	decoded := markup.Decode(block.Raw)
	c := dialect.Classify(ctx, block.LanguageHint, decoded)

	seg := Segment{Block: block, Classification: c}
	if c.IsOpaque() {
		// Byte-identical passthrough: the caller sees block.Raw untouched.
		return seg
	}

	stats.DiagramCount++
	seg.Source = decoded

	if !c.Dialect.IsArchitecture() {
		// The external renderer takes the source directly.
		return seg
	}

	observability.Pipeline().OnTranslateStart(ctx, c.Dialect.Tag())
	start := time.Now()

	model := c4.Parse(ctx, decoded)
	emitted := d2.Emit(ctx, model)

	elapsed := time.Since(start)
	stats.TranslateTime += elapsed
	stats.TranslatedCount++
	observability.Pipeline().OnTranslateComplete(ctx, c.Dialect.Tag(),
		len(model.Entities), len(model.Relationships), elapsed)

	seg.Translated = emitted.Description
	for _, w := range model.Warnings {
		seg.Warnings = append(seg.Warnings, w.Message)
	}
	seg.Warnings = append(seg.Warnings, emitted.Warnings...)

	return seg
}

// Translate runs parse + emit over one already-decoded architecture block.
// It is the single-block entry point used by the translate command and the
// API; the description is returned even when warnings occur.
func (r *Runner) Translate(ctx context.Context, source string) (string, []string, error) {
	model := c4.Parse(ctx, source)
	emitted := d2.Emit(ctx, model)

	warnings := make([]string, 0, len(model.Warnings)+len(emitted.Warnings))
	for _, w := range model.Warnings {
		warnings = append(warnings, w.Message)
	}
	warnings = append(warnings, emitted.Warnings...)

	return emitted.Description, warnings, nil
}

// Preview renders an architecture block to the requested preview format.
// SVG artifacts are cached by content hash; DOT and D2 are cheap enough to
// recompute. The translated description is produced before any rendering, so
// a render failure still leaves the caller with usable D2 text.
func (r *Runner) Preview(ctx context.Context, source, format string, opts Options) ([]byte, CacheInfo, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, CacheInfo{}, err
	}
	if err := ValidateFormat(format); err != nil {
		return nil, CacheInfo{}, err
	}

	model := c4.Parse(ctx, source)

	switch format {
	case FormatD2:
		return []byte(d2.Emit(ctx, model).Description), CacheInfo{}, nil
	case FormatDOT:
		return []byte(render.ToDOT(model, render.Options{Detailed: opts.Detailed})), CacheInfo{}, nil
	}

	key := r.keyer.ArtifactKey(cache.Hash([]byte(source)), cache.ArtifactKeyOpts{
		Format:   format,
		Detailed: opts.Detailed,
	})
	if data, ok, err := r.cache.Get(ctx, key); err == nil && ok {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return data, CacheInfo{PreviewHit: true}, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	dot := render.ToDOT(model, render.Options{Detailed: opts.Detailed})
	svg, err := render.SVG(ctx, dot)
	if err != nil {
		return nil, CacheInfo{}, err
	}

	if err := r.cache.Set(ctx, key, svg, r.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, "artifact", len(svg))
	}

	return svg, CacheInfo{}, nil
}
