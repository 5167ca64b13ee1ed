package c4

import (
	"context"
	"testing"
)

func TestParseEntitiesAndRelationships(t *testing.T) {
	src := `C4Context
title System Context diagram for Internet Banking

Person(customer, "Customer", "Online shopper")
System(paymentSystem, "Payment System", "Handles payments")
Container(api, "API", "Go", "Serves requests")

Rel(customer, paymentSystem, "Makes payment", "HTTPS")
Rel(paymentSystem, api, "Calls")`

	m := Parse(context.Background(), src)

	if m.Title != "System Context diagram for Internet Banking" {
		t.Errorf("Title = %q", m.Title)
	}
	if len(m.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", m.Warnings)
	}
	if len(m.Entities) != 3 {
		t.Fatalf("got %d entities, want 3", len(m.Entities))
	}

	customer := m.Entities[0]
	if customer.ID != "customer" || customer.Kind != KindPerson ||
		customer.Label != "Customer" || customer.Description != "Online shopper" ||
		customer.Technology != "" {
		t.Errorf("customer = %+v", customer)
	}

	api := m.Entities[2]
	if api.Kind != KindContainer || api.Technology != "Go" || api.Description != "Serves requests" {
		t.Errorf("api = %+v", api)
	}

	if len(m.Relationships) != 2 {
		t.Fatalf("got %d relationships, want 2", len(m.Relationships))
	}
	r := m.Relationships[0]
	if r.FromID != "customer" || r.ToID != "paymentSystem" ||
		r.Label != "Makes payment" || r.Technology != "HTTPS" {
		t.Errorf("rel = %+v", r)
	}
	if m.Relationships[1].Technology != "" {
		t.Errorf("rel without technology = %+v", m.Relationships[1])
	}
}

func TestParsePositionThreeIsDescriptionForPersonAndSystem(t *testing.T) {
	src := `System(s, "Sys", "The description")
Container(c, "Con", "Go")`

	m := Parse(context.Background(), src)

	s, _ := m.Entity("s")
	if s.Description != "The description" || s.Technology != "" {
		t.Errorf("system = %+v", s)
	}
	c, _ := m.Entity("c")
	if c.Technology != "Go" || c.Description != "" {
		t.Errorf("container = %+v", c)
	}
}

func TestParseWhitespaceAndEscapes(t *testing.T) {
	src := `Person( customer ,   "Customer \"Jane\"" , "Uses \\ paths" )`

	m := Parse(context.Background(), src)
	if len(m.Entities) != 1 {
		t.Fatalf("entities = %+v, warnings = %v", m.Entities, m.Warnings)
	}
	e := m.Entities[0]
	if e.ID != "customer" {
		t.Errorf("ID = %q", e.ID)
	}
	if e.Label != `Customer "Jane"` {
		t.Errorf("Label = %q", e.Label)
	}
	if e.Description != `Uses \ paths` {
		t.Errorf("Description = %q", e.Description)
	}
}

func TestParseDuplicateIDKeepsFirstPosition(t *testing.T) {
	src := `Person(a, "First")
System(b, "Other")
Person(a, "Second", "overwritten")`

	m := Parse(context.Background(), src)
	if len(m.Entities) != 2 {
		t.Fatalf("got %d entities, want 2", len(m.Entities))
	}
	if m.Entities[0].ID != "a" || m.Entities[1].ID != "b" {
		t.Errorf("order = %s, %s", m.Entities[0].ID, m.Entities[1].ID)
	}
	if m.Entities[0].Label != "Second" || m.Entities[0].Description != "overwritten" {
		t.Errorf("overwritten entity = %+v", m.Entities[0])
	}
}

func TestParseSkipsUnknownStatements(t *testing.T) {
	src := `C4Context
Person(a, "A")
UpdateRelStyle(a, b, $lineColor="red")
BiRel(a, b, "both ways")
System_Boundary(b1, "Boundary") {
}
Rel(a, a, "self")`

	m := Parse(context.Background(), src)

	if len(m.Entities) != 1 {
		t.Errorf("entities = %+v", m.Entities)
	}
	if len(m.Relationships) != 1 {
		t.Errorf("relationships = %+v", m.Relationships)
	}
	// UpdateRelStyle, BiRel and the boundary line are each skipped with a
	// warning; the bare closing brace is ignored silently.
	if len(m.Warnings) != 3 {
		t.Errorf("warnings = %v", m.Warnings)
	}
}

func TestParseMultiLineStatementIsSkipped(t *testing.T) {
	src := `Person(a,
"A")`

	m := Parse(context.Background(), src)
	if len(m.Entities) != 0 {
		t.Errorf("entities = %+v", m.Entities)
	}
	// Both fragments fail to parse on their own.
	if len(m.Warnings) != 2 {
		t.Errorf("warnings = %v", m.Warnings)
	}
}

func TestParseEmptyBlock(t *testing.T) {
	m := Parse(context.Background(), "")
	if !m.Empty() {
		t.Errorf("model = %+v", m)
	}
	if len(m.Warnings) != 0 {
		t.Errorf("warnings = %v", m.Warnings)
	}
}

func TestParseCommentsAndHeadersIgnored(t *testing.T) {
	src := `C4Container
%% this is a comment
Person(a, "A")`

	m := Parse(context.Background(), src)
	if len(m.Warnings) != 0 {
		t.Errorf("warnings = %v", m.Warnings)
	}
	if len(m.Entities) != 1 {
		t.Errorf("entities = %+v", m.Entities)
	}
}

func TestParseAllKinds(t *testing.T) {
	src := `Person(p1, "x")
Person_Ext(p2, "x")
System(s1, "x")
System_Ext(s2, "x")
SystemDb(s3, "x")
SystemQueue(s4, "x")
Container(c1, "x")
Container_Ext(c2, "x")
ContainerDb(c3, "x")
ContainerQueue(c4, "x")
Component(k1, "x")
ComponentDb(k2, "x")
ComponentQueue(k3, "x")`

	m := Parse(context.Background(), src)
	if len(m.Warnings) != 0 {
		t.Fatalf("warnings = %v", m.Warnings)
	}
	if len(m.Entities) != len(Kinds) {
		t.Fatalf("got %d entities, want %d", len(m.Entities), len(Kinds))
	}
	for i, k := range Kinds {
		if m.Entities[i].Kind != k {
			t.Errorf("entity %d kind = %s, want %s", i, m.Entities[i].Kind, k)
		}
	}
}
