package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/extractflow/schema"
	"github.com/BaSui01/extractflow/testutil/fixtures"
	"github.com/BaSui01/extractflow/types"
)

func invoiceValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := Synthesize(fixtures.InvoiceSchema())
	require.NoError(t, err)
	return v
}

func TestValidator_AcceptsValidRecord(t *testing.T) {
	v := invoiceValidator(t)
	assert.NoError(t, v.Validate(fixtures.ValidInvoiceRecord()))
}

func TestValidator_Mismatches(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r map[string]any)
		path   string
		msg    string
	}{
		{
			name:   "missing required",
			mutate: func(r map[string]any) { delete(r, "invoiceNumber") },
			path:   "invoiceNumber",
			msg:    "required field is missing",
		},
		{
			name:   "null required",
			mutate: func(r map[string]any) { r["issueDate"] = nil },
			path:   "issueDate",
			msg:    "required field must not be null",
		},
		{
			name:   "bad date",
			mutate: func(r map[string]any) { r["issueDate"] = "03/01/2024" },
			path:   "issueDate",
			msg:    `"03/01/2024" is not a YYYY-MM-DD date`,
		},
		{
			name:   "enum",
			mutate: func(r map[string]any) { r["currency"] = "GBP" },
			path:   "currency",
			msg:    "value must be one of: [EUR USD]",
		},
		{
			name:   "too short",
			mutate: func(r map[string]any) { r["invoiceNumber"] = "IN" },
			path:   "invoiceNumber",
			msg:    "string length 2 is less than minimum 3",
		},
		{
			name:   "too long",
			mutate: func(r map[string]any) { r["invoiceNumber"] = "INV-000000000000000042" },
			path:   "invoiceNumber",
			msg:    "string length 22 exceeds maximum 20",
		},
		{
			name:   "below minimum",
			mutate: func(r map[string]any) { r["total"] = -1.5 },
			path:   "total",
			msg:    "value -1.5 is less than minimum 0",
		},
		{
			name:   "wrong kind",
			mutate: func(r map[string]any) { r["total"] = "12" },
			path:   "total",
			msg:    "expected number, got string",
		},
		{
			name: "nested integer",
			mutate: func(r map[string]any) {
				r["lines"].([]any)[1] = map[string]any{"sku": "W-2", "qty": 1.5}
			},
			path: "lines[1].qty",
			msg:  "expected integer, got 1.5",
		},
		{
			name: "nested missing",
			mutate: func(r map[string]any) {
				r["lines"] = []any{map[string]any{"qty": float64(1)}}
			},
			path: "lines[0].sku",
			msg:  "required field is missing",
		},
		{
			name:   "array expected",
			mutate: func(r map[string]any) { r["lines"] = map[string]any{} },
			path:   "lines",
			msg:    "expected array, got object",
		},
	}

	v := invoiceValidator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := fixtures.ValidInvoiceRecord()
			tt.mutate(record)

			err := v.Validate(record)
			require.Error(t, err)
			var mismatch *MismatchError
			require.ErrorAs(t, err, &mismatch)
			require.Len(t, mismatch.Mismatches, 1)
			assert.Equal(t, tt.path, mismatch.Mismatches[0].Path)
			assert.Equal(t, tt.msg, mismatch.Mismatches[0].Message)
			assert.Equal(t, types.ErrValidatorMismatch, types.GetErrorCode(err))
		})
	}
}

func TestValidator_OptionalNullAccepted(t *testing.T) {
	v := invoiceValidator(t)
	record := fixtures.ValidInvoiceRecord()
	record["total"] = nil
	record["currency"] = nil
	delete(record, "lines")

	assert.NoError(t, v.Validate(record))
}

func TestValidator_CollectsAllMismatches(t *testing.T) {
	v := invoiceValidator(t)
	err := v.Validate(map[string]any{"total": "x"})

	var mismatch *MismatchError
	require.ErrorAs(t, err, &mismatch)
	paths := make([]string, len(mismatch.Mismatches))
	for i, m := range mismatch.Mismatches {
		paths[i] = m.Path
	}
	assert.Equal(t, []string{"invoiceNumber", "issueDate", "total"}, paths)
	assert.Contains(t, err.Error(), "validation failed with 3 errors")
	assert.Equal(t, "invoiceNumber", mismatch.First().Path)
}

func TestValidator_ExtraFields(t *testing.T) {
	open := schema.NewObject()
	open.Properties.Set("a", &schema.Primitive{Type: schema.TypeString})

	closed := schema.CloneObject(open)
	closed.AdditionalProperties = schema.BoolPtr(false)

	record := map[string]any{"a": "x", "z": 1, "b": true}

	vOpen, err := Synthesize(open)
	require.NoError(t, err)
	assert.NoError(t, vOpen.Validate(record))

	vClosed, err := Synthesize(closed)
	require.NoError(t, err)
	ms := vClosed.Check(record)
	require.Len(t, ms, 2)
	assert.Equal(t, "b", ms[0].Path)
	assert.Equal(t, "z", ms[1].Path)
}

func TestValidator_ValidateJSON(t *testing.T) {
	v := invoiceValidator(t)

	err := v.ValidateJSON([]byte(`{"invoiceNumber":"INV-1","issueDate":"2024-01-31","lines":[{"sku":"a","qty":3}]}`))
	assert.NoError(t, err)

	err = v.ValidateJSON([]byte(`{"invoiceNumber":"INV-1","issueDate":"2024-01-31","lines":[{"sku":"a","qty":0}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lines[0].qty")

	err = v.ValidateJSON([]byte(`{"invoiceNumber":`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestValidator_NativeNumbers(t *testing.T) {
	v := invoiceValidator(t)
	record := fixtures.ValidInvoiceRecord()
	record["total"] = 42
	record["lines"] = []any{map[string]any{"sku": "W-1", "qty": int64(2)}}
	assert.NoError(t, v.Validate(record))
}

func TestValidator_OpaqueAcceptsAnything(t *testing.T) {
	wire, err := schema.Parse([]byte(`{"type":"object","properties":{"geo":{"type":"geopoint"}},"required":["geo"]}`))
	require.NoError(t, err)
	v, err := Synthesize(wire)
	require.NoError(t, err)

	assert.NoError(t, v.Validate(map[string]any{"geo": map[string]any{"lat": 1.0}}))
	assert.Error(t, v.Validate(map[string]any{}))
}

func TestValidator_CheckTopLevel(t *testing.T) {
	v := invoiceValidator(t)

	record := fixtures.ValidInvoiceRecord()
	record["lines"] = []any{"not an object"}
	assert.Empty(t, v.CheckTopLevel(record), "nested problems are not inspected")

	ms := v.CheckTopLevel(map[string]any{"invoiceNumber": 7, "total": "x"})
	require.Len(t, ms, 3)
	assert.Equal(t, "expected string, got number", ms[0].Message)
	assert.Equal(t, "required field is missing", ms[1].Message)
	assert.Equal(t, "total", ms[2].Path)

	assert.Equal(t, []string{"invoiceNumber", "currency", "issueDate", "total", "lines"}, v.Fields())
}

func TestSynthesize_Malformed(t *testing.T) {
	root := schema.NewObject()
	root.Properties.Set("tags", &schema.Array{})

	_, err := Synthesize(root)
	require.Error(t, err)
	var malformed *schema.MalformedNodeError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "$.properties.tags", malformed.Path)

	_, err = Synthesize(nil)
	assert.True(t, types.IsErrorCode(err, types.ErrMalformedWireNode))
}

func TestSynthesize_Deterministic(t *testing.T) {
	a := invoiceValidator(t)
	b := invoiceValidator(t)
	record := map[string]any{"currency": "GBP", "lines": []any{map[string]any{}}}
	assert.Equal(t, a.Check(record), b.Check(record))
}
