package catalog

import "strings"

// Family groups column data types into coarse categories for
// comparison checking. Classification is by type-name prefix so that
// parameterized and qualified forms ("character varying(255)",
// "timestamp without time zone") land in the right family.
type Family int

// Type families.
const (
	FamilyOther Family = iota
	FamilyNumeric
	FamilyText
	FamilyTime
	FamilyBool
)

func (f Family) String() string {
	switch f {
	case FamilyNumeric:
		return "numeric"
	case FamilyText:
		return "text"
	case FamilyTime:
		return "time"
	case FamilyBool:
		return "boolean"
	}
	return "other"
}

// numericPrefixes and friends follow information_schema data_type
// spellings, plus the short forms SQLite and DuckDB report.
var (
	numericPrefixes = []string{
		"integer", "int", "smallint", "bigint", "serial", "bigserial",
		"numeric", "decimal", "real", "double", "float", "money",
	}
	textPrefixes = []string{
		"character", "char", "varchar", "text", "string", "uuid",
	}
	timePrefixes = []string{
		"timestamp", "date", "time", "interval",
	}
	boolPrefixes = []string{
		"boolean", "bool",
	}
)

// FamilyOf classifies a data type string into a Family.
func FamilyOf(dataType string) Family {
	dt := strings.ToLower(strings.TrimSpace(dataType))
	switch {
	// Time before numeric: "interval" would otherwise match the
	// "int" prefix.
	case hasAnyPrefix(dt, timePrefixes):
		return FamilyTime
	case hasAnyPrefix(dt, numericPrefixes):
		return FamilyNumeric
	case hasAnyPrefix(dt, boolPrefixes):
		return FamilyBool
	case hasAnyPrefix(dt, textPrefixes):
		return FamilyText
	}
	return FamilyOther
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// IsNumericLiteral reports whether a string literal's content is a
// plain number (optionally signed, at most one decimal point). Used to
// allow comparisons like price > '9.99' against numeric columns.
func IsNumericLiteral(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	dots := 0
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			dots++
			if dots > 1 {
				return false
			}
		default:
			return false
		}
	}
	return digits > 0
}
