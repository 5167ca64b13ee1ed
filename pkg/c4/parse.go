package c4

import (
	"context"
	"fmt"
	"strings"

	"diagramkit/pkg/observability"
)

// Parse reads architecture-DSL source into a Model.
//
// Parsing is stateless and deterministic; identical input yields an identical
// model. Statements that cannot be parsed are skipped with a warning, both
// recorded on the model and emitted through the warning hooks. An empty block
// yields a valid empty model.
func Parse(ctx context.Context, src string) *Model {
	m := &Model{}

	for i, line := range strings.Split(src, "\n") {
		lineNo := i + 1
		stmt := strings.TrimSpace(line)

		if skippable(stmt) {
			continue
		}

		if rest, ok := strings.CutPrefix(stmt, "title"); ok && (rest == "" || rest[0] == ' ' || rest[0] == '\t') {
			m.Title = strings.TrimSpace(rest)
			continue
		}

		name, args, ok := splitCall(stmt)
		if !ok {
			m.skip(ctx, lineNo, stmt, "not a recognized statement")
			continue
		}

		if kind, isEntity := KindByName(name); isEntity {
			e, err := entityFromArgs(kind, args)
			if err != nil {
				m.skip(ctx, lineNo, stmt, err.Error())
				continue
			}
			m.add(e)
			continue
		}

		if name == "Rel" {
			r, err := relFromArgs(args)
			if err != nil {
				m.skip(ctx, lineNo, stmt, err.Error())
				continue
			}
			m.Relationships = append(m.Relationships, r)
			continue
		}

		m.skip(ctx, lineNo, stmt, fmt.Sprintf("unknown call %q", name))
	}

	return m
}

// skip records a skipped-statement warning on the model and emits it through
// the warning hooks.
func (m *Model) skip(ctx context.Context, line int, stmt, reason string) {
	m.Warnings = append(m.Warnings, Warning{
		Line:    line,
		Message: fmt.Sprintf("skipped statement: %s (%s)", stmt, reason),
	})
	observability.Warnings().OnSkippedStatement(ctx, line, stmt)
}

// skippable reports lines that are ignored without a warning: blanks,
// comments, dialect level headers, and stray braces left by excluded
// grouping constructs.
func skippable(stmt string) bool {
	switch {
	case stmt == "", stmt == "{", stmt == "}":
		return true
	case strings.HasPrefix(stmt, "%%"):
		return true
	}
	switch stmt {
	case "C4Context", "C4Container", "C4Component", "C4Dynamic", "C4Deployment":
		return true
	}
	return false
}

// splitCall splits a statement of the form name(args...) and verifies it
// terminates at end of line. Trailing grouping braces are not supported;
// such lines fail here and surface as skipped statements.
func splitCall(stmt string) (name string, args []string, ok bool) {
	open := strings.IndexByte(stmt, '(')
	if open <= 0 {
		return "", nil, false
	}
	name = strings.TrimSpace(stmt[:open])
	if !validCallName(name) {
		return "", nil, false
	}

	args, rest, ok := parseArgs(stmt[open+1:])
	if !ok || strings.TrimSpace(rest) != "" {
		return "", nil, false
	}
	return name, args, true
}

func validCallName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		b := name[i]
		if b == '_' || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || (i > 0 && '0' <= b && b <= '9') {
			continue
		}
		return false
	}
	return true
}

// parseArgs reads a comma-separated argument list up to the closing
// parenthesis. Arguments are either double-quoted strings with
// backslash-escaped characters or bare tokens; whitespace around commas and
// parentheses is arbitrary. Returns the text after the closing parenthesis.
func parseArgs(s string) (args []string, rest string, ok bool) {
	i := 0
	skipSpace := func() {
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
	}

	skipSpace()
	if i < len(s) && s[i] == ')' {
		return nil, s[i+1:], true
	}

	for {
		skipSpace()
		if i >= len(s) {
			return nil, "", false // unterminated: no multi-line statements
		}

		var arg string
		if s[i] == '"' {
			var err bool
			arg, i, err = readQuoted(s, i)
			if err {
				return nil, "", false
			}
		} else {
			start := i
			for i < len(s) && s[i] != ',' && s[i] != ')' {
				i++
			}
			arg = strings.TrimSpace(s[start:i])
		}
		args = append(args, arg)

		skipSpace()
		if i >= len(s) {
			return nil, "", false
		}
		switch s[i] {
		case ',':
			i++
		case ')':
			return args, s[i+1:], true
		default:
			return nil, "", false
		}
	}
}

// readQuoted reads a double-quoted string starting at s[start] == '"'.
// Backslash escapes \" and \\ resolve to their literal character; any other
// backslash sequence is kept verbatim.
func readQuoted(s string, start int) (arg string, next int, malformed bool) {
	var b strings.Builder
	i := start + 1
	for i < len(s) {
		switch s[i] {
		case '\\':
			if i+1 < len(s) && (s[i+1] == '"' || s[i+1] == '\\') {
				b.WriteByte(s[i+1])
				i += 2
				continue
			}
			b.WriteByte(s[i])
			i++
		case '"':
			return b.String(), i + 1, false
		default:
			b.WriteByte(s[i])
			i++
		}
	}
	return "", i, true // closing quote never found
}

// entityFromArgs maps positional arguments onto an Entity. Position 3 is the
// technology for container/component kinds and the description for
// person/system kinds, whose declarations collapse to a two-or-three-argument
// form.
func entityFromArgs(kind Kind, args []string) (Entity, error) {
	if len(args) < 2 {
		return Entity{}, fmt.Errorf("%s needs an id and a label", kind)
	}
	if args[0] == "" {
		return Entity{}, fmt.Errorf("%s has an empty id", kind)
	}

	e := Entity{ID: args[0], Kind: kind, Label: args[1]}
	if kind.TakesTechnology() {
		if len(args) > 2 {
			e.Technology = args[2]
		}
		if len(args) > 3 {
			e.Description = args[3]
		}
	} else if len(args) > 2 {
		e.Description = args[2]
	}
	return e, nil
}

// relFromArgs maps positional arguments onto a Relationship.
func relFromArgs(args []string) (Relationship, error) {
	if len(args) < 3 {
		return Relationship{}, fmt.Errorf("Rel needs from, to and a label")
	}
	if args[0] == "" || args[1] == "" {
		return Relationship{}, fmt.Errorf("Rel has an empty endpoint id")
	}

	r := Relationship{FromID: args[0], ToID: args[1], Label: args[2]}
	if len(args) > 3 {
		r.Technology = args[3]
	}
	return r, nil
}
