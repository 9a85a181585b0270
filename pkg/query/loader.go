package query

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Block is a named query template parsed from a SQL library file.
type Block struct {
	Name   string
	Kind   Kind
	SQL    string
	Doc    string
	Policy *Policy
	Line   int
}

// NewQuery instantiates a fresh Query from the block, carrying its kind,
// template, and cache policy. Each call returns an independent parameter
// set so one block can back many concurrent queries.
func (b Block) NewQuery() *Query {
	q := New(b.Kind, b.SQL)
	if b.Policy != nil {
		p := *b.Policy
		q.policy = &p
	}
	return q
}

// ParseLibrary extracts named query blocks from a SQL library file.
//
// Blocks are introduced by a marker comment:
//
//	-- name: GetUser :select
//	-- @cache ttl=5m
//	SELECT * FROM users WHERE id = :id;
//
// Comment lines between the marker and the SQL become the block's doc.
// The path argument is used in error messages only.
func ParseLibrary(path string, src []byte) ([]Block, error) {
	if !utf8.Valid(src) {
		return nil, fmt.Errorf("%s:1:1: input is not valid UTF-8", path)
	}

	var (
		blocks  []Block
		current *Block
		sql     []string
		doc     []string
		seen    = make(map[string]int)
	)

	flush := func() {
		if current == nil {
			return
		}
		current.SQL = strings.TrimSpace(strings.Join(sql, "\n"))
		current.Doc = strings.TrimSpace(strings.Join(doc, "\n"))
		blocks = append(blocks, *current)
		current, sql, doc = nil, nil, nil
	}

	for idx, line := range strings.Split(string(src), "\n") {
		lineNo := idx + 1
		trimmed := strings.TrimSpace(line)

		if name, tag, ok := parseMarker(trimmed); ok {
			flush()
			kind, known := ParseKind(tag)
			if !known {
				return nil, fmt.Errorf("%s:%d: unknown command %q for block %q", path, lineNo, tag, name)
			}
			if prev, dup := seen[name]; dup {
				return nil, fmt.Errorf("%s:%d: duplicate block %q (first defined on line %d)", path, lineNo, name, prev)
			}
			seen[name] = lineNo
			current = &Block{Name: name, Kind: kind, Line: lineNo}
			continue
		}

		if current == nil {
			// Text before the first marker is ignored, matching the
			// common header-comment convention in query files.
			continue
		}

		if strings.HasPrefix(trimmed, "--") {
			if p := ParseAnnotation(trimmed); p != nil {
				current.Policy = p
				continue
			}
			if len(sql) == 0 {
				doc = append(doc, strings.TrimSpace(strings.TrimPrefix(trimmed, "--")))
			}
			continue
		}

		sql = append(sql, line)
	}
	flush()

	for _, b := range blocks {
		if b.SQL == "" {
			return nil, fmt.Errorf("%s:%d: block %q contains no SQL", path, b.Line, b.Name)
		}
	}

	return blocks, nil
}

// parseMarker recognizes `-- name: <ident> :<command>` lines.
func parseMarker(line string) (name, tag string, ok bool) {
	if !strings.HasPrefix(line, "--") {
		return "", "", false
	}
	content := strings.TrimSpace(strings.TrimPrefix(line, "--"))
	lower := strings.ToLower(content)
	if !strings.HasPrefix(lower, "name:") {
		return "", "", false
	}
	fields := strings.Fields(strings.TrimSpace(content[len("name:"):]))
	if len(fields) < 2 {
		return "", "", false
	}
	return fields[0], fields[1], true
}
