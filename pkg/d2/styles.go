package d2

import "diagramkit/pkg/c4"

// Shape names in the declarative layout notation.
const (
	ShapePerson    = "person"
	ShapeRectangle = "rectangle"
	ShapeCylinder  = "cylinder"
	ShapeQueue     = "queue"
)

// ShapeFor is the fixed kind → shape table. Styling is a pure function of
// the kind, never of declaration order or external state.
func ShapeFor(k c4.Kind) string {
	switch k {
	case c4.KindPerson, c4.KindPersonExternal:
		return ShapePerson
	case c4.KindSystemDb, c4.KindContainerDb, c4.KindComponentDb:
		return ShapeCylinder
	case c4.KindSystemQueue, c4.KindContainerQueue, c4.KindComponentQueue:
		return ShapeQueue
	default:
		return ShapeRectangle
	}
}

// Category is one of the four color categories.
type Category string

// The four color categories. External wins over the architecture level:
// any *_Ext kind uses the external palette.
const (
	CategoryInternalSystem Category = "internal-system"
	CategoryExternal       Category = "external"
	CategoryContainer      Category = "container"
	CategoryComponent      Category = "component"
)

// CategoryFor is the fixed kind → category table.
func CategoryFor(k c4.Kind) Category {
	if k.IsExternal() {
		return CategoryExternal
	}
	switch k {
	case c4.KindContainer, c4.KindContainerDb, c4.KindContainerQueue:
		return CategoryContainer
	case c4.KindComponent, c4.KindComponentDb, c4.KindComponentQueue:
		return CategoryComponent
	default:
		// Person, System, SystemDb, SystemQueue
		return CategoryInternalSystem
	}
}

// Palette is a fill/stroke/font color triple.
type Palette struct {
	Fill      string
	Stroke    string
	FontColor string
}

// palettes is the fixed category → color-pair table, following the
// conventional architecture-notation palette.
var palettes = map[Category]Palette{
	CategoryInternalSystem: {Fill: "#1168BD", Stroke: "#0B4884", FontColor: "#FFFFFF"},
	CategoryExternal:       {Fill: "#999999", Stroke: "#6B6B6B", FontColor: "#FFFFFF"},
	CategoryContainer:      {Fill: "#438DD5", Stroke: "#3C7FC0", FontColor: "#FFFFFF"},
	CategoryComponent:      {Fill: "#85BBF0", Stroke: "#78A8D8", FontColor: "#000000"},
}

// PaletteFor returns the color palette for a kind.
func PaletteFor(k c4.Kind) Palette {
	return palettes[CategoryFor(k)]
}
