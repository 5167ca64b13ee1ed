// Package dialect classifies decoded code blocks into diagram dialects.
//
// Classification never fails: a block that matches no known marker or keyword
// resolves to [None] and is passed through untouched by callers. Detection is
// two-stage: an exact, case-sensitive match of the block's language hint
// against the closed tag set (the explicit-marker path), then a word-boundary
// keyword scan over the block body. Both stages are case-sensitive; explicit
// markers are documented as case-sensitive upstream and the keyword path
// deliberately mirrors that instead of normalizing.
package dialect

// Dialect is one recognized diagram notation family. The string value is the
// dialect's tag: the token that names it in a language hint and opens its
// source text.
type Dialect string

// The closed dialect enumeration.
const (
	Flowchart    Dialect = "flowchart"
	FlowchartELK Dialect = "flowchart-elk" // experimental layout-engine variant
	Graph        Dialect = "graph"
	Sequence     Dialect = "sequenceDiagram"
	Class        Dialect = "classDiagram"
	State        Dialect = "stateDiagram"
	StateV2      Dialect = "stateDiagram-v2"
	ER           Dialect = "erDiagram"
	Gantt        Dialect = "gantt"
	Timeline     Dialect = "timeline"
	Pie          Dialect = "pie"
	Quadrant     Dialect = "quadrantChart"
	Journey      Dialect = "journey"
	GitGraph     Dialect = "gitGraph"
	C4Context    Dialect = "C4Context"
	C4Container  Dialect = "C4Container"
	C4Component  Dialect = "C4Component"
	C4Dynamic    Dialect = "C4Dynamic"
	C4Deployment Dialect = "C4Deployment"
	Mindmap      Dialect = "mindmap"
	Requirement  Dialect = "requirementDiagram"

	// None marks an unclassified, opaque block.
	None Dialect = ""
)

// All lists every recognized dialect in declaration order.
var All = []Dialect{
	Flowchart, FlowchartELK, Graph, Sequence, Class, State, StateV2, ER,
	Gantt, Timeline, Pie, Quadrant, Journey, GitGraph,
	C4Context, C4Container, C4Component, C4Dynamic, C4Deployment,
	Mindmap, Requirement,
}

// Tag returns the dialect's tag string.
func (d Dialect) Tag() string { return string(d) }

// IsArchitecture reports whether d is one of the architecture-notation levels
// handled by the C4 translator. All five levels share one translator but keep
// their level tag for downstream labeling.
func (d Dialect) IsArchitecture() bool {
	switch d {
	case C4Context, C4Container, C4Component, C4Dynamic, C4Deployment:
		return true
	}
	return false
}

// FromTag resolves a tag string to its dialect. Matching is exact and
// case-sensitive.
func FromTag(tag string) (Dialect, bool) {
	d, ok := byTag[tag]
	return d, ok
}

var byTag = func() map[string]Dialect {
	m := make(map[string]Dialect, len(All))
	for _, d := range All {
		m[d.Tag()] = d
	}
	return m
}()

// Method describes how a classification was reached.
type Method string

// Detection methods.
const (
	MethodExplicitMarker Method = "explicit-marker"
	MethodKeywordMatch   Method = "keyword-match"
	MethodNone           Method = "none"
)

// Classification is the result of classifying one code block.
type Classification struct {
	Dialect        Dialect
	Method         Method
	MatchedKeyword string // set only for keyword-match
}

// IsOpaque reports whether the block resolved to no known dialect.
func (c Classification) IsOpaque() bool { return c.Method == MethodNone }
