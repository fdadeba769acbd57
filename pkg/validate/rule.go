package validate

import (
	"sync"

	"github.com/sqlgauge/sqlgauge/pkg/catalog"
	"github.com/sqlgauge/sqlgauge/pkg/parser"
)

// RuleContext carries everything a rule needs to check one query.
type RuleContext struct {
	// Stmt is the full parsed statement.
	Stmt *parser.SelectStmt
	// Core is the primary SELECT core the rules operate on.
	Core *parser.SelectCore
	// Catalog is the schema snapshot, never nil (may be empty).
	Catalog *catalog.Catalog
	// Scope resolves table names and aliases visible in the core.
	Scope *Scope
	// Strict enables scope-aware column resolution instead of the
	// default catalog-wide bare-name lookup.
	Strict bool
}

// CheckFunc analyzes a query and returns its diagnostics.
type CheckFunc func(rc *RuleContext) []Diagnostic

// RuleDef describes one validation rule: metadata for discovery and
// documentation plus the check itself.
type RuleDef struct {
	ID          string
	Name        string
	Group       string
	Description string
	Severity    Severity
	Check       CheckFunc

	// Documentation fields, surfaced by the rules command.
	Rationale   string
	BadExample  string
	GoodExample string
	Fix         string
}

// registry holds registered rules in registration order. Rules run in
// this order, which keeps diagnostic output deterministic.
var registry = struct {
	mu    sync.RWMutex
	rules []RuleDef
	byID  map[string]int
}{
	byID: make(map[string]int),
}

// Register adds a rule. Call from init() in rule packages. Registering
// the same ID twice replaces the earlier definition in place.
func Register(rule RuleDef) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if i, ok := registry.byID[rule.ID]; ok {
		registry.rules[i] = rule
		return
	}
	registry.byID[rule.ID] = len(registry.rules)
	registry.rules = append(registry.rules, rule)
}

// Registered returns all rules in registration order.
func Registered() []RuleDef {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	out := make([]RuleDef, len(registry.rules))
	copy(out, registry.rules)
	return out
}

// RuleByID returns a registered rule by its ID.
func RuleByID(id string) (RuleDef, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	i, ok := registry.byID[id]
	if !ok {
		return RuleDef{}, false
	}
	return registry.rules[i], true
}
