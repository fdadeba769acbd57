package parser

import "strings"

// aggregateFuncs lists the SQL aggregate functions recognized by the
// GROUP BY and HAVING rules. Names are stored in upper case, matching
// the normalization applied by the parser to function call names.
var aggregateFuncs = map[string]bool{
	"COUNT":       true,
	"SUM":         true,
	"AVG":         true,
	"MIN":         true,
	"MAX":         true,
	"ARRAY_AGG":   true,
	"STRING_AGG":  true,
	"BOOL_AND":    true,
	"BOOL_OR":     true,
	"EVERY":       true,
	"STDDEV":      true,
	"STDDEV_POP":  true,
	"STDDEV_SAMP": true,
	"VARIANCE":    true,
	"VAR_POP":     true,
	"VAR_SAMP":    true,
	"JSON_AGG":    true,
	"JSONB_AGG":   true,
	"BIT_AND":     true,
	"BIT_OR":      true,
}

// IsAggregateFunc returns true if name refers to a known aggregate function.
// The check is case-insensitive.
func IsAggregateFunc(name string) bool {
	return aggregateFuncs[strings.ToUpper(name)]
}
