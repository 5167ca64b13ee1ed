// Package c4 parses the architecture-notation DSL into an entity/relationship
// model.
//
// The DSL is line-oriented: a title directive, entity declarations of the form
// Kind(id, "label"[, "technology"], "description"), and relationships of the
// form Rel(fromId, toId, "label"[, "technology"]). Parsing degrades
// gracefully: an unparseable statement is skipped with a warning and parsing
// continues. The only input that cannot produce a model is no input at all,
// and even that yields a valid empty model.
package c4

// Kind is one of the closed set of entity kinds in the architecture DSL.
type Kind string

// The closed entity-kind enumeration.
const (
	KindPerson            Kind = "Person"
	KindPersonExternal    Kind = "Person_Ext"
	KindSystem            Kind = "System"
	KindSystemExternal    Kind = "System_Ext"
	KindSystemDb          Kind = "SystemDb"
	KindSystemQueue       Kind = "SystemQueue"
	KindContainer         Kind = "Container"
	KindContainerExternal Kind = "Container_Ext"
	KindContainerDb       Kind = "ContainerDb"
	KindContainerQueue    Kind = "ContainerQueue"
	KindComponent         Kind = "Component"
	KindComponentDb       Kind = "ComponentDb"
	KindComponentQueue    Kind = "ComponentQueue"
)

// Kinds lists every entity kind in declaration order.
var Kinds = []Kind{
	KindPerson, KindPersonExternal,
	KindSystem, KindSystemExternal, KindSystemDb, KindSystemQueue,
	KindContainer, KindContainerExternal, KindContainerDb, KindContainerQueue,
	KindComponent, KindComponentDb, KindComponentQueue,
}

// IsExternal reports whether the kind belongs to the external category.
// External kinds take the external palette regardless of architecture level.
func (k Kind) IsExternal() bool {
	switch k {
	case KindPersonExternal, KindSystemExternal, KindContainerExternal:
		return true
	}
	return false
}

// IsPerson reports whether the kind renders with the person shape.
func (k Kind) IsPerson() bool {
	return k == KindPerson || k == KindPersonExternal
}

// TakesTechnology reports whether argument position 3 of the kind's
// declaration carries a technology string. For person and system kinds that
// position collapses away and position 3 is the description.
func (k Kind) TakesTechnology() bool {
	switch k {
	case KindContainer, KindContainerExternal, KindContainerDb, KindContainerQueue,
		KindComponent, KindComponentDb, KindComponentQueue:
		return true
	}
	return false
}

// Entity is one declared architecture element.
type Entity struct {
	ID          string // unique within one diagram
	Kind        Kind
	Label       string
	Technology  string // optional
	Description string // optional
}

// Relationship is one directed edge between declared entities.
type Relationship struct {
	FromID     string
	ToID       string
	Label      string
	Technology string // optional
}

// Warning records a non-fatal degradation during parsing.
type Warning struct {
	Line    int
	Message string
}

// Model is the parsed entity/relationship model of one diagram.
//
// Entities keep first-declaration order; a duplicate declaration overwrites
// the earlier entity's attributes but not its ordinal position.
// Relationships keep original statement order.
type Model struct {
	Title         string
	Entities      []Entity
	Relationships []Relationship
	Warnings      []Warning

	index map[string]int // entity id -> position in Entities
}

// Declared reports whether an entity with the given id exists.
func (m *Model) Declared(id string) bool {
	_, ok := m.index[id]
	return ok
}

// Entity returns the entity with the given id, if declared.
func (m *Model) Entity(id string) (Entity, bool) {
	i, ok := m.index[id]
	if !ok {
		return Entity{}, false
	}
	return m.Entities[i], true
}

// Empty reports whether the model holds no entities and no relationships.
func (m *Model) Empty() bool {
	return len(m.Entities) == 0 && len(m.Relationships) == 0
}

// add inserts or overwrites an entity, preserving first-seen order.
func (m *Model) add(e Entity) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[e.ID]; ok {
		m.Entities[i] = e
		return
	}
	m.index[e.ID] = len(m.Entities)
	m.Entities = append(m.Entities, e)
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, len(Kinds))
	for _, k := range Kinds {
		m[string(k)] = k
	}
	return m
}()

// KindByName resolves a statement call name to an entity kind.
func KindByName(name string) (Kind, bool) {
	k, ok := kindByName[name]
	return k, ok
}
