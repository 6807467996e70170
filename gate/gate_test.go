package gate

import (
	"context"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap/zapcore"

	"github.com/BaSui01/extractflow/compiler"
	"github.com/BaSui01/extractflow/internal/ctxkeys"
	"github.com/BaSui01/extractflow/internal/metrics"
	helpers "github.com/BaSui01/extractflow/testutil"
	"github.com/BaSui01/extractflow/testutil/fixtures"
	"github.com/BaSui01/extractflow/types"
)

func compileInvoice(t *testing.T) *compiler.CompiledSchema {
	t.Helper()
	compiled, err := compiler.New().CompileWire(helpers.TestContext(t), fixtures.InvoiceSchema())
	require.NoError(t, err)
	return compiled
}

func TestPartition_StructuralOnly(t *testing.T) {
	batch := []any{map[string]any{"a": float64(1)}, "not an object", map[string]any{}}

	result := New().Partition(context.Background(), batch, nil)

	assert.Equal(t, []any{map[string]any{"a": float64(1)}}, result.Valid)
	assert.Equal(t, 1, result.ValidCount)
	assert.Equal(t, 2, result.InvalidCount)
	require.Len(t, result.Invalid, 2)
	for _, rec := range result.Invalid {
		m := rec.(map[string]any)
		assert.Len(t, m, 2)
		assert.NotEmpty(t, m[FieldValidationError])
		assert.Equal(t, true, m[FieldSkipAgents])
	}

	require.Len(t, result.ValidationErrors, 2)
	assert.Equal(t, RecordError{Index: 1, Error: ReasonNotObject, Data: "not an object"}, result.ValidationErrors[0])
	assert.Equal(t, RecordError{Index: 2, Error: ReasonEmpty, Data: map[string]any{}}, result.ValidationErrors[1])
}

func TestPartition_MixedBatch(t *testing.T) {
	batch := fixtures.MixedBatch()
	result := New().Partition(context.Background(), batch, nil)

	assert.Equal(t, []any{map[string]any{"a": float64(1)}, map[string]any{"b": "ok"}}, result.Valid)
	assert.Equal(t, 4, result.InvalidCount)

	indexes := make([]int, len(result.ValidationErrors))
	for i, e := range result.ValidationErrors {
		indexes[i] = e.Index
	}
	assert.Equal(t, []int{1, 2, 3, 4}, indexes)

	summary := result.Summary()
	assert.Equal(t, 2, summary.ValidCount)
	assert.Equal(t, 4, summary.InvalidCount)
	assert.Equal(t, []string{
		"record 1: record must be a non-null object",
		"record 2: record must have at least one field",
		"record 3: record must be a non-null object",
	}, summary.Errors)
	assert.True(t, strings.HasPrefix(summary.String(), "2 valid, 4 invalid: record 1:"))
}

func TestPartition_DoesNotMutateInput(t *testing.T) {
	record := map[string]any{"invoiceNumber": "X"}
	before := helpers.CopyRecord(record)
	result := New().Partition(context.Background(), []any{record}, compileInvoice(t))

	require.Equal(t, 1, result.InvalidCount)
	assert.Equal(t, before, record)

	rejected := result.Invalid[0].(map[string]any)
	assert.Equal(t, "X", rejected["invoiceNumber"])
	assert.Equal(t, "issueDate: required field is missing", rejected[FieldValidationError])
	assert.Equal(t, record, result.ValidationErrors[0].Data)
}

func TestPartition_WithSchema(t *testing.T) {
	compiled := compileInvoice(t)

	withCurrency := func(v any) map[string]any {
		r := fixtures.ValidInvoiceRecord()
		r["currency"] = v
		return r
	}
	without := func(key string) map[string]any {
		r := fixtures.ValidInvoiceRecord()
		delete(r, key)
		return r
	}
	withValue := func(key string, v any) map[string]any {
		r := fixtures.ValidInvoiceRecord()
		r[key] = v
		return r
	}

	tests := []struct {
		name   string
		record map[string]any
		reason string
	}{
		{name: "valid", record: fixtures.ValidInvoiceRecord()},
		{name: "optional null", record: withCurrency(nil)},
		{name: "optional absent", record: without("total")},
		{name: "extra field", record: withValue("note", "hi")},
		{name: "required missing", record: without("issueDate"), reason: "issueDate: required field is missing"},
		{name: "required null", record: withValue("invoiceNumber", nil), reason: "invoiceNumber: required field must not be null"},
		{name: "wrong type", record: withValue("total", "abc"), reason: "total: expected number, got string"},
		{name: "array expected", record: withValue("lines", "none"), reason: "lines: expected array, got string"},
		// The top-level check does not look inside values.
		{name: "nested mismatch passes", record: withValue("lines", []any{map[string]any{"sku": "A", "qty": float64(0)}})},
		{name: "enum not checked", record: withCurrency("GBP")},
	}

	g := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.reason, g.Evaluate(tt.record, compiled))
		})
	}
}

func TestPartition_DeepValidation(t *testing.T) {
	compiled := compileInvoice(t)
	record := fixtures.ValidInvoiceRecord()
	record["lines"] = []any{map[string]any{"sku": "A", "qty": float64(0)}}

	shallow := New().Partition(context.Background(), []any{record}, compiled)
	assert.Equal(t, 1, shallow.ValidCount)

	deep := New(WithDeepValidation()).Partition(context.Background(), []any{record}, compiled)
	require.Equal(t, 1, deep.InvalidCount)
	assert.Equal(t, "lines[0].qty: value 0 is less than minimum 1", deep.ValidationErrors[0].Error)

	enum := fixtures.ValidInvoiceRecord()
	enum["currency"] = "GBP"
	assert.Contains(t, New(WithDeepValidation()).Evaluate(enum, compiled), "currency: value must be one of")
}

func TestPartition_Concurrent(t *testing.T) {
	compiled := compileInvoice(t)
	batch := make([]any, 0, 200)
	for i := 0; i < 50; i++ {
		bad := fixtures.ValidInvoiceRecord()
		delete(bad, "issueDate")
		batch = append(batch, fixtures.ValidInvoiceRecord(), bad, "x", nil)
	}

	ctx := helpers.TestContextWithTimeout(t, 5*time.Second)
	sequential := New().Partition(ctx, batch, compiled)
	parallel := New(WithConcurrency(8)).Partition(ctx, batch, compiled)

	assert.Equal(t, sequential, parallel)
	assert.Equal(t, 50, parallel.ValidCount)
	assert.Equal(t, 150, parallel.InvalidCount)
}

func TestPartition_EmptyBatch(t *testing.T) {
	result := New().Partition(context.Background(), nil, nil)
	assert.Empty(t, result.Valid)
	assert.Empty(t, result.Invalid)
	assert.Zero(t, result.ValidCount)

	data, err := json.Marshal(result)
	require.NoError(t, err)
	helpers.AssertJSONEqual(t, `{"valid":[],"invalid":[],"validCount":0,"invalidCount":0,"validationErrors":[]}`, string(data))
}

func TestResult_JSON(t *testing.T) {
	result := New().Partition(context.Background(), []any{map[string]any{"a": "b"}, float64(3)}, nil)
	data, err := json.Marshal(result)
	require.NoError(t, err)

	helpers.AssertJSONEqual(t, `{
		"valid": [{"a": "b"}],
		"invalid": [{"_validationError": "record must be a non-null object", "_skipAgents": true}],
		"validCount": 1,
		"invalidCount": 1,
		"validationErrors": [{"index": 1, "error": "record must be a non-null object", "data": 3}]
	}`, string(data))
}

func TestRecordError_Err(t *testing.T) {
	err := RecordError{Index: 4, Error: "boom"}.Err()
	assert.Equal(t, types.ErrGateRejection, types.GetErrorCode(err))
	assert.Contains(t, err.Error(), "boom")
}

func TestPartition_Observability(t *testing.T) {
	logger, logs := helpers.NewObservedLogger(zapcore.DebugLevel)
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector("extractflow", reg, nil)
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	g := New(WithLogger(logger), WithMetrics(collector), WithTracer(tp.Tracer("test")))
	g.Partition(ctxkeys.WithRunID(context.Background(), "run-7"), fixtures.MixedBatch(), nil)

	assert.Len(t, logs.FilterMessage("record rejected").All(), 4)
	partitioned := logs.FilterMessage("batch partitioned").All()
	require.Len(t, partitioned, 1)
	assert.Equal(t, "run-7", partitioned[0].ContextMap()["run_id"])

	expected := `
# HELP extractflow_gate_records_total Total number of records screened by the result gate
# TYPE extractflow_gate_records_total counter
extractflow_gate_records_total{outcome="invalid"} 4
extractflow_gate_records_total{outcome="valid"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "extractflow_gate_records_total"))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "extractflow.gate.partition", spans[0].Name())
	attrs := map[string]any{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	assert.Equal(t, int64(6), attrs["extractflow.gate.batch_size"])
	assert.Equal(t, int64(4), attrs["extractflow.gate.invalid"])
	assert.Equal(t, false, attrs["extractflow.gate.schema"])
}
