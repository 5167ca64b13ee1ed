package render

import (
	"context"
	"strings"
	"testing"

	"diagramkit/pkg/c4"
)

func TestToDOT(t *testing.T) {
	src := `Person(customer, "Customer", "Online shopper")
SystemDb(db, "Database", "Stores data")
Rel(customer, db, "Reads", "SQL")
Rel(customer, ghost, "Nope")`

	m := c4.Parse(context.Background(), src)
	dot := ToDOT(m, Options{})

	if !strings.HasPrefix(dot, "digraph G {") || !strings.HasSuffix(dot, "}\n") {
		t.Fatalf("malformed DOT:\n%s", dot)
	}
	for _, frag := range []string{
		`"customer" [label="Customer", shape=ellipse`,
		`"db" [label="Database", shape=cylinder`,
		`"customer" -> "db" [label="Reads\n[SQL]"];`,
	} {
		if !strings.Contains(dot, frag) {
			t.Errorf("DOT missing %q:\n%s", frag, dot)
		}
	}
	if strings.Contains(dot, "ghost") {
		t.Errorf("undeclared endpoint leaked into DOT:\n%s", dot)
	}
}

func TestToDOTDetailed(t *testing.T) {
	src := `Container(api, "API", "Go", "Serves requests")`
	m := c4.Parse(context.Background(), src)

	dot := ToDOT(m, Options{Detailed: true})
	if !strings.Contains(dot, `label="API\n[Go]\nServes requests"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}

	plain := ToDOT(m, Options{})
	if strings.Contains(plain, "Serves requests") {
		t.Errorf("plain label should omit description:\n%s", plain)
	}
}

func TestToDOTDeterministic(t *testing.T) {
	src := `Person(a, "A")
System(b, "B")
Rel(a, b, "x")`
	m := c4.Parse(context.Background(), src)

	first := ToDOT(m, Options{})
	for i := 0; i < 5; i++ {
		if ToDOT(m, Options{}) != first {
			t.Fatal("DOT emission not deterministic")
		}
	}
}
