package validate

import (
	"strings"

	"github.com/sqlgauge/sqlgauge/pkg/parser"
)

// ScopeTable is one table visible in a query's FROM clause.
type ScopeTable struct {
	// Name is the effective name used to qualify columns: the alias
	// if one was given, else the table name.
	Name string
	// RealName is the underlying catalog table name. Empty for
	// derived tables.
	RealName string
	// Derived marks subquery-in-FROM tables.
	Derived bool
}

type scopeEntry struct {
	table ScopeTable
	// joinIndex is -1 for the FROM source, else the index into
	// From.Joins that introduced the table.
	joinIndex int
}

// Scope tracks the tables and aliases visible in a SELECT core. It
// supports self-joins (the same table under two aliases resolves per
// alias) and per-join visibility: when checking join i's condition,
// only the source and joins up to i are in scope.
type Scope struct {
	entries []scopeEntry
	maxJoin int
}

// NewScope builds a scope from the core's FROM clause. A core without
// a FROM clause yields an empty scope.
func NewScope(core *parser.SelectCore) *Scope {
	s := &Scope{maxJoin: -1}
	if core == nil || core.From == nil {
		return s
	}

	s.add(core.From.Source, -1)
	for i, join := range core.From.Joins {
		s.add(join.Right, i)
		s.maxJoin = i
	}
	return s
}

func (s *Scope) add(ref parser.TableRef, joinIndex int) {
	switch t := ref.(type) {
	case *parser.TableName:
		s.entries = append(s.entries, scopeEntry{
			table:     ScopeTable{Name: t.EffectiveName(), RealName: t.Name},
			joinIndex: joinIndex,
		})
	case *parser.DerivedTable:
		s.entries = append(s.entries, scopeEntry{
			table:     ScopeTable{Name: t.Alias, Derived: true},
			joinIndex: joinIndex,
		})
	}
}

// Resolve looks up an effective name (alias or table name). With
// duplicate names the latest table wins.
func (s *Scope) Resolve(name string) (ScopeTable, bool) {
	return s.resolveUpTo(name, s.maxJoin)
}

func (s *Scope) resolveUpTo(name string, joinIndex int) (ScopeTable, bool) {
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		if e.joinIndex > joinIndex {
			continue
		}
		if strings.EqualFold(e.table.Name, name) {
			return e.table, true
		}
	}
	return ScopeTable{}, false
}

// Tables returns the visible tables in FROM order.
func (s *Scope) Tables() []ScopeTable {
	out := make([]ScopeTable, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.table)
	}
	return out
}

// Names returns the effective table names in FROM order.
func (s *Scope) Names() []string {
	out := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.table.Name)
	}
	return out
}

// Visible returns the scope as seen from join i's condition: the FROM
// source plus joins 0 through i.
func (s *Scope) Visible(joinIndex int) *Scope {
	sub := &Scope{maxJoin: joinIndex}
	for _, e := range s.entries {
		if e.joinIndex <= joinIndex {
			sub.entries = append(sub.entries, e)
		}
	}
	return sub
}

// HasRealTable returns true if any visible table resolves to the
// given catalog table name.
func (s *Scope) HasRealTable(name string) bool {
	for _, e := range s.entries {
		if strings.EqualFold(e.table.RealName, name) {
			return true
		}
	}
	return false
}
