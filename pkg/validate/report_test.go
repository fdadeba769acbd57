package validate_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlgauge/sqlgauge/pkg/validate"
	"github.com/sqlgauge/sqlgauge/pkg/validate/rules"
)

func TestFormatResultValid(t *testing.T) {
	out := validate.FormatResult(&validate.Result{Valid: true})
	assert.Contains(t, out, "passed validation")
}

func TestFormatResultWithDiagnostics(t *testing.T) {
	r := &validate.Result{
		Valid: false,
		Diagnostics: []validate.Diagnostic{
			{
				Kind:       validate.KindTableNotFound,
				Message:    "table 'ghost' does not exist",
				Suggestion: "available tables: users",
			},
			{
				Kind:    validate.KindMissingFrom,
				Message: "SELECT statement has no FROM clause",
			},
		},
	}

	out := validate.FormatResult(r)
	assert.Contains(t, out, "issue 1: table not found")
	assert.Contains(t, out, "message: table 'ghost' does not exist")
	assert.Contains(t, out, "suggestion: available tables: users")
	assert.Contains(t, out, "issue 2: missing FROM")

	// The second diagnostic has no suggestion line.
	issue2 := out[strings.Index(out, "issue 2"):]
	assert.NotContains(t, issue2, "suggestion:")
}

func TestWriteJSON(t *testing.T) {
	v := validate.New(fixtureCatalog())
	r := v.Validate("SELECT * FROM ghost_table")

	var buf bytes.Buffer
	require.NoError(t, validate.WriteJSON(&buf, r))

	var decoded validate.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.False(t, decoded.Valid)
	require.Len(t, decoded.Diagnostics, 1)
	assert.Equal(t, validate.KindTableNotFound, decoded.Diagnostics[0].Kind)
	assert.Equal(t, validate.SeverityError, decoded.Diagnostics[0].Severity)

	// A diagnostic without a position carries no pos key.
	assert.NotContains(t, buf.String(), `"pos"`)
}

func TestWriteTable(t *testing.T) {
	v := validate.New(fixtureCatalog())
	r := v.Validate("SELECT * FROM ghost_table")

	var buf bytes.Buffer
	validate.WriteTable(&buf, r)
	out := buf.String()
	assert.Contains(t, out, "SC01")
	assert.Contains(t, out, "table not found")

	buf.Reset()
	validate.WriteTable(&buf, v.Validate("SELECT username FROM users"))
	assert.Contains(t, buf.String(), "passed validation")
}

func TestWriteRulesTable(t *testing.T) {
	var buf bytes.Buffer
	validate.WriteRulesTable(&buf, rules.All())
	out := buf.String()
	for _, id := range []string{"ST01", "JN01", "WH01", "HV01", "SC01"} {
		assert.Contains(t, out, id)
	}
}
