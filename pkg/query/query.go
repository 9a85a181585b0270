// Package query models parameterized SQL statements and compiles them into
// executable text by substituting quoted values for named placeholders.
package query

import (
	"strings"
	"time"
)

// Kind identifies the statement verb. It is fixed at construction and
// drives the executor's cache-or-execute decision: only Select statements
// ever interact with the cache.
type Kind int

const (
	// KindOther covers statements with no recognized verb.
	KindOther Kind = iota
	// KindSelect marks a row-returning statement.
	KindSelect
	// KindInsert marks an INSERT statement.
	KindInsert
	// KindUpdate marks an UPDATE statement.
	KindUpdate
	// KindDelete marks a DELETE statement.
	KindDelete
)

func (k Kind) String() string {
	switch k {
	case KindSelect:
		return "select"
	case KindInsert:
		return "insert"
	case KindUpdate:
		return "update"
	case KindDelete:
		return "delete"
	default:
		return "other"
	}
}

// ParseKind maps a command tag (e.g. ":select") to a Kind.
func ParseKind(tag string) (Kind, bool) {
	switch strings.ToLower(tag) {
	case ":select":
		return KindSelect, true
	case ":insert":
		return KindInsert, true
	case ":update":
		return KindUpdate, true
	case ":delete":
		return KindDelete, true
	case ":other", ":exec":
		return KindOther, true
	default:
		return KindOther, false
	}
}

// Shape selects how result rows are presented to the caller.
type Shape int

const (
	// ShapeAssoc presents rows as name-to-value maps.
	ShapeAssoc Shape = iota
	// ShapeTyped hydrates rows into caller-provided structs.
	ShapeTyped
)

// Policy controls caching for a single query.
type Policy struct {
	// Lifetime is the freshness window for cached results. Zero means
	// "do not populate the cache on this call"; negative additionally
	// busts any existing entry.
	Lifetime time.Duration
	// ForceExecute runs the statement even when a fresh cached result
	// exists. The new result still replaces the cached one.
	ForceExecute bool
}

// param holds either a literal value or a deferred accessor. Deferred
// accessors are read at compile time, so mutating the bound variable
// between binding and compilation changes the compiled SQL.
type param struct {
	value    any
	deferred func() any
}

func (p param) resolve() any {
	if p.deferred != nil {
		return p.deferred()
	}
	return p.value
}

// Query is an immutable SQL template with a mutable parameter set, result
// shape, and optional cache policy. The zero value is not usable; construct
// with New.
type Query struct {
	kind     Kind
	template string
	params   map[string]param
	shape    Shape
	factory  func() any
	policy   *Policy
}

// New constructs a Query for the given template. The template never
// mutates after construction.
func New(kind Kind, template string) *Query {
	return &Query{
		kind:     kind,
		template: template,
		params:   make(map[string]param),
	}
}

// Kind returns the statement verb.
func (q *Query) Kind() Kind { return q.kind }

// Template returns the raw SQL template.
func (q *Query) Template() string { return q.template }

// Shape returns the configured result shape.
func (q *Query) Shape() Shape { return q.shape }

// Factory returns the typed-row factory, or nil for associative results.
func (q *Query) Factory() func() any { return q.factory }

// Policy returns the attached cache policy, or nil when the query is
// uncached.
func (q *Query) Policy() *Policy { return q.policy }

// SetParameter stores a literal value under name, overwriting any prior
// value or binding.
func (q *Query) SetParameter(name string, value any) *Query {
	q.params[name] = param{value: value}
	return q
}

// BindParameter stores a deferred accessor under name. The accessor's
// current value is read at compile time, which allows reusing one Query in
// a loop with a changing variable.
func (q *Query) BindParameter(name string, fn func() any) *Query {
	q.params[name] = param{deferred: fn}
	return q
}

// Assoc configures associative rows (the default).
func (q *Query) Assoc() *Query {
	q.shape = ShapeAssoc
	q.factory = nil
	return q
}

// Typed configures hydration of each row into a fresh value produced by
// factory, which must return a pointer to a struct.
func (q *Query) Typed(factory func() any) *Query {
	q.shape = ShapeTyped
	q.factory = factory
	return q
}

// Cached attaches a cache policy with the given lifetime. Cache policies
// only take effect for Select queries.
func (q *Query) Cached(lifetime time.Duration) *Query {
	q.policy = &Policy{Lifetime: lifetime}
	return q
}

// CachedForce attaches a cache policy that executes against the database
// even on a cache hit, refreshing the stored result.
func (q *Query) CachedForce(lifetime time.Duration) *Query {
	q.policy = &Policy{Lifetime: lifetime, ForceExecute: true}
	return q
}

// SetPolicy attaches a prebuilt policy; nil detaches caching.
func (q *Query) SetPolicy(p *Policy) *Query {
	q.policy = p
	return q
}

// Compile substitutes every bound placeholder with its quoted value and
// returns the final SQL. Quoting is entirely delegated to quote; this
// package never escapes values itself.
//
// The template is scanned once, left to right. Substituted text is
// appended to the output and never re-scanned, so a quoted value that
// happens to contain another placeholder token is not substituted again.
// Placeholders with no bound parameter pass through verbatim, as do
// placeholder-like text inside quoted string literals and the `::` cast
// syntax.
func (q *Query) Compile(quote func(any) string) string {
	var out strings.Builder
	out.Grow(len(q.template))

	tpl := q.template
	for i := 0; i < len(tpl); {
		c := tpl[i]

		// Skip string literals wholesale; a ':' inside quotes is data,
		// not a placeholder.
		if c == '\'' || c == '"' {
			end := skipQuoted(tpl, i)
			out.WriteString(tpl[i:end])
			i = end
			continue
		}

		if c == ':' {
			// `::` is cast syntax, not a placeholder.
			if i+1 < len(tpl) && tpl[i+1] == ':' {
				out.WriteString("::")
				i += 2
				continue
			}
			name, end := scanIdent(tpl, i+1)
			if name != "" {
				if p, ok := q.params[name]; ok {
					out.WriteString(quote(p.resolve()))
					i = end
					continue
				}
			}
			// Unbound placeholder (or bare colon): emit verbatim.
			out.WriteString(tpl[i:end])
			i = end
			continue
		}

		out.WriteByte(c)
		i++
	}

	return out.String()
}

// skipQuoted returns the index just past the quoted literal starting at
// start. Doubled quote characters inside the literal are treated as
// escapes. An unterminated literal runs to the end of the template.
func skipQuoted(s string, start int) int {
	delim := s[start]
	for i := start + 1; i < len(s); i++ {
		if s[i] != delim {
			continue
		}
		if i+1 < len(s) && s[i+1] == delim {
			i++ // escaped delimiter
			continue
		}
		return i + 1
	}
	return len(s)
}

// scanIdent reads a placeholder identifier starting at start and returns
// it with the index just past its end. Returns an empty name when start
// does not begin an identifier.
func scanIdent(s string, start int) (string, int) {
	i := start
	for i < len(s) {
		c := s[i]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			(i > start && c >= '0' && c <= '9') {
			i++
			continue
		}
		break
	}
	if i == start {
		// Bare colon; include it so the caller emits it verbatim.
		return "", start
	}
	return s[start:i], i
}
