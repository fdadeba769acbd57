package rules

import "github.com/sqlgauge/sqlgauge/pkg/validate"

// Rules run in registration order: structure first, then joins, WHERE,
// HAVING, and schema existence last.
func init() {
	validate.Register(SelectStructure)
	validate.Register(JoinConditions)
	validate.Register(WhereSanity)
	validate.Register(HavingSanity)
	validate.Register(SchemaExistence)
}

// All returns the built-in rules in their run order.
func All() []validate.RuleDef {
	return []validate.RuleDef{
		SelectStructure,
		JoinConditions,
		WhereSanity,
		HavingSanity,
		SchemaExistence,
	}
}
