package dialect

import (
	"context"
	"sort"
	"strings"

	"diagramkit/pkg/observability"
)

// keywordEntry binds one dialect-defining keyword to its dialect.
type keywordEntry struct {
	keyword string
	dialect Dialect
}

// keywordTable is the ordered (keyword, dialect) lookup table. Table order is
// the tie-break for equal-length keywords; the scan itself runs
// longest-keyword-first so a keyword can never be shadowed by a shorter
// keyword that is one of its prefixes (flowchart-elk before flowchart,
// stateDiagram-v2 before stateDiagram).
var keywordTable = []keywordEntry{
	{"flowchart-elk", FlowchartELK},
	{"flowchart", Flowchart},
	{"sequenceDiagram", Sequence},
	{"classDiagram", Class},
	{"stateDiagram-v2", StateV2},
	{"stateDiagram", State},
	{"erDiagram", ER},
	{"gantt", Gantt},
	{"timeline", Timeline},
	{"pie", Pie},
	{"quadrantChart", Quadrant},
	{"journey", Journey},
	{"gitGraph", GitGraph},
	{"C4Context", C4Context},
	{"C4Container", C4Container},
	{"C4Component", C4Component},
	{"C4Dynamic", C4Dynamic},
	{"C4Deployment", C4Deployment},
	{"mindmap", Mindmap},
	{"requirementDiagram", Requirement},
	{"graph", Graph},
}

// scanOrder is keywordTable re-sorted longest-first, with table order
// preserved among equal lengths.
var scanOrder = func() []keywordEntry {
	entries := make([]keywordEntry, len(keywordTable))
	copy(entries, keywordTable)
	sort.SliceStable(entries, func(i, j int) bool {
		return len(entries[i].keyword) > len(entries[j].keyword)
	})
	return entries
}()

// Classify maps a decoded block to a diagram dialect.
//
// Decision order:
//  1. languageHint exactly (case-sensitively) matching a dialect tag wins as
//     an explicit marker; no keyword scan runs.
//  2. Otherwise the body is scanned for dialect-defining keywords with
//     word-boundary matching, longest keyword first.
//  3. Otherwise the block is opaque.
func Classify(ctx context.Context, languageHint, body string) Classification {
	if d, ok := FromTag(languageHint); ok && languageHint != "" {
		c := Classification{Dialect: d, Method: MethodExplicitMarker}
		observability.Pipeline().OnClassify(ctx, d.Tag(), string(c.Method))
		return c
	}

	for _, e := range scanOrder {
		if containsWord(body, e.keyword) {
			c := Classification{
				Dialect:        e.dialect,
				Method:         MethodKeywordMatch,
				MatchedKeyword: e.keyword,
			}
			observability.Pipeline().OnClassify(ctx, e.dialect.Tag(), string(c.Method))
			return c
		}
	}

	c := Classification{Dialect: None, Method: MethodNone}
	observability.Pipeline().OnClassify(ctx, "", string(c.Method))
	return c
}

// containsWord reports whether keyword occurs in body delimited by word
// boundaries. Letters, digits, '_' and '-' count as word characters, so
// "stateDiagram" does not match inside "stateDiagram-v2".
func containsWord(body, keyword string) bool {
	for start := 0; ; {
		i := strings.Index(body[start:], keyword)
		if i < 0 {
			return false
		}
		i += start
		j := i + len(keyword)
		if (i == 0 || !isWordByte(body[i-1])) && (j == len(body) || !isWordByte(body[j])) {
			return true
		}
		start = i + 1
	}
}

func isWordByte(b byte) bool {
	return b == '_' || b == '-' ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z') ||
		('0' <= b && b <= '9')
}
