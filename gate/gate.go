package gate

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BaSui01/extractflow/compiler"
	"github.com/BaSui01/extractflow/internal/ctxkeys"
	"github.com/BaSui01/extractflow/internal/metrics"
)

// Rejection reasons for records that fail the structural rule.
const (
	ReasonNotObject = "record must be a non-null object"
	ReasonEmpty     = "record must have at least one field"
)

// Option configures a Gate.
type Option func(*Gate)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Gate) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithMetrics counts partitioned records on the collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(g *Gate) {
		g.metrics = collector
	}
}

// WithTracer sets the tracer for partition spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(g *Gate) {
		if tracer != nil {
			g.tracer = tracer
		}
	}
}

// WithDeepValidation checks records with the full recursive validator
// instead of the top-level check.
func WithDeepValidation() Option {
	return func(g *Gate) {
		g.deep = true
	}
}

// WithConcurrency evaluates up to n records in parallel. The result is the
// same as a sequential run.
func WithConcurrency(n int) Option {
	return func(g *Gate) {
		if n > 0 {
			g.concurrency = n
		}
	}
}

// Gate partitions candidate records. It is safe for concurrent use.
type Gate struct {
	logger      *zap.Logger
	metrics     *metrics.Collector
	tracer      trace.Tracer
	deep        bool
	concurrency int
}

// New creates a Gate.
func New(opts ...Option) *Gate {
	g := &Gate{
		logger:      zap.NewNop(),
		tracer:      noop.NewTracerProvider().Tracer("extractflow/gate"),
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With(zap.String("component", "gate"))
	return g
}

type verdict struct {
	reason string
	ok     bool
}

// Partition splits batch into valid and invalid records. compiled may be
// nil, in which case only the structural rule applies. The batch always
// completes; ctx is used for tracing and log correlation only.
func (g *Gate) Partition(ctx context.Context, batch []any, compiled *compiler.CompiledSchema) *Result {
	ctx, span := g.tracer.Start(ctx, "extractflow.gate.partition")
	defer span.End()
	start := time.Now()

	var validator *compiler.Validator
	if compiled != nil {
		validator = compiled.Validator()
	}

	verdicts := g.evaluateAll(batch, validator)

	logger := g.logger.With(ctxkeys.LogFields(ctx)...)
	result := newResult(len(batch))
	for i, record := range batch {
		v := verdicts[i]
		if v.ok {
			result.Valid = append(result.Valid, record)
			continue
		}
		result.Invalid = append(result.Invalid, markRejected(record, v.reason))
		result.ValidationErrors = append(result.ValidationErrors, RecordError{Index: i, Error: v.reason, Data: record})
		logger.Debug("record rejected", zap.Int("index", i), zap.String("reason", v.reason))
	}
	result.ValidCount = len(result.Valid)
	result.InvalidCount = len(result.Invalid)

	g.metrics.RecordGate(result.ValidCount, result.InvalidCount)
	span.SetAttributes(
		attribute.Int("extractflow.gate.batch_size", len(batch)),
		attribute.Int("extractflow.gate.valid", result.ValidCount),
		attribute.Int("extractflow.gate.invalid", result.InvalidCount),
		attribute.Bool("extractflow.gate.schema", compiled != nil),
		attribute.Bool("extractflow.gate.deep", g.deep),
	)
	logger.Debug("batch partitioned",
		zap.Int("batch_size", len(batch)),
		zap.Int("valid", result.ValidCount),
		zap.Int("invalid", result.InvalidCount),
		zap.Duration("duration", time.Since(start)),
	)
	return result
}

func (g *Gate) evaluateAll(batch []any, validator *compiler.Validator) []verdict {
	verdicts := make([]verdict, len(batch))
	if g.concurrency <= 1 || len(batch) < 2 {
		for i, record := range batch {
			verdicts[i] = g.evaluate(record, validator)
		}
		return verdicts
	}

	var eg errgroup.Group
	eg.SetLimit(g.concurrency)
	for i, record := range batch {
		eg.Go(func() error {
			verdicts[i] = g.evaluate(record, validator)
			return nil
		})
	}
	_ = eg.Wait()
	return verdicts
}

// Evaluate applies the gate rules to a single record and returns the
// rejection reason, or "" when the record passes.
func (g *Gate) Evaluate(record any, compiled *compiler.CompiledSchema) string {
	var validator *compiler.Validator
	if compiled != nil {
		validator = compiled.Validator()
	}
	return g.evaluate(record, validator).reason
}

func (g *Gate) evaluate(record any, validator *compiler.Validator) verdict {
	obj, ok := record.(map[string]any)
	if !ok || obj == nil {
		return verdict{reason: ReasonNotObject}
	}
	if len(obj) == 0 {
		return verdict{reason: ReasonEmpty}
	}
	if validator == nil {
		return verdict{ok: true}
	}

	var mismatches []compiler.Mismatch
	if g.deep {
		mismatches = validator.Check(obj)
	} else {
		mismatches = validator.CheckTopLevel(obj)
	}
	if len(mismatches) > 0 {
		return verdict{reason: mismatches[0].String()}
	}
	return verdict{ok: true}
}
