package compiler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/BaSui01/extractflow/internal/ctxkeys"
	"github.com/BaSui01/extractflow/internal/metrics"
	"github.com/BaSui01/extractflow/property"
	"github.com/BaSui01/extractflow/schema"
)

// Default length caps.
const (
	DefaultInstructionsMaxLength        = 500
	DefaultGeneralInstructionsMaxLength = 3000
)

// Truncation sections, also used as metric labels.
const (
	SectionInstructions        = "instructions"
	SectionGeneralInstructions = "general_instructions"
)

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger used for truncation and compile events.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records compilations and truncations on the collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(c *Compiler) {
		c.metrics = collector
	}
}

// WithTracer sets the tracer for compile spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Compiler) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

// WithInstructionsMaxLength overrides the per-field instructions cap.
func WithInstructionsMaxLength(n int) Option {
	return func(c *Compiler) {
		if n > 0 {
			c.instructionsMax = n
		}
	}
}

// Compiler turns author schemas into CompiledSchema values. It holds only
// configuration and concurrency-safe sinks, so one Compiler can serve many
// goroutines.
type Compiler struct {
	logger          *zap.Logger
	metrics         *metrics.Collector
	tracer          trace.Tracer
	instructionsMax int
}

// New creates a Compiler.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		logger:          zap.NewNop(),
		tracer:          noop.NewTracerProvider().Tracer("extractflow/compiler"),
		instructionsMax: DefaultInstructionsMaxLength,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("component", "compiler"))
	return c
}

// InstructionsMaxLength returns the configured per-field cap.
func (c *Compiler) InstructionsMaxLength() int { return c.instructionsMax }

// Compile checks, decodes and compiles an author schema. def may be a
// *schema.Object, a *schema.OrderedMap or a map[string]any. Either a complete
// CompiledSchema or an error is returned.
func (c *Compiler) Compile(ctx context.Context, def any) (*CompiledSchema, error) {
	if obj, ok := def.(*schema.Object); ok {
		return c.CompileWire(ctx, obj)
	}
	ctx, span := c.tracer.Start(ctx, "extractflow.compile")
	defer span.End()

	wire, err := schema.Decode(def)
	if err != nil {
		c.fail(ctx, span, err, 0)
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	return c.compile(ctx, span, wire)
}

// CompileWire compiles an already decoded wire tree. The tree is copied, so
// later changes by the caller do not leak into the result.
func (c *Compiler) CompileWire(ctx context.Context, wire *schema.Object) (*CompiledSchema, error) {
	ctx, span := c.tracer.Start(ctx, "extractflow.compile")
	defer span.End()
	if wire == nil {
		err := schema.Malformed(schema.Root, "schema is nil")
		c.fail(ctx, span, err, 0)
		return nil, err
	}
	return c.compile(ctx, span, schema.CloneObject(wire))
}

// CompileProperties converts a property list to its wire tree and compiles
// it.
func (c *Compiler) CompileProperties(ctx context.Context, props []property.Property) (*CompiledSchema, error) {
	ctx, span := c.tracer.Start(ctx, "extractflow.compile")
	defer span.End()
	span.SetAttributes(attribute.String("extractflow.source", "properties"))

	wire, err := property.ToWire(props)
	if err != nil {
		c.fail(ctx, span, err, 0)
		return nil, fmt.Errorf("convert properties: %w", err)
	}
	return c.compile(ctx, span, wire)
}

func (c *Compiler) compile(ctx context.Context, span trace.Span, wire *schema.Object) (*CompiledSchema, error) {
	start := time.Now()

	validator, err := Synthesize(wire)
	if err != nil {
		c.fail(ctx, span, err, time.Since(start))
		return nil, fmt.Errorf("synthesize validator: %w", err)
	}

	canonical, err := schema.Marshal(wire)
	if err != nil {
		c.fail(ctx, span, err, time.Since(start))
		return nil, fmt.Errorf("encode schema: %w", err)
	}
	sum := sha256.Sum256(canonical)

	compiled := &CompiledSchema{
		validator: validator,
		wire:      wire,
		guidance:  GuidanceView(wire, c.instructionsMax, c.RecordTruncation),
		structure: StructureView(wire),
		metadata:  newMetadata(wire, hex.EncodeToString(sum[:])),
	}

	elapsed := time.Since(start)
	c.metrics.RecordCompile(nil, elapsed)
	span.SetAttributes(
		attribute.Int("extractflow.field_count", compiled.metadata.FieldCount),
		attribute.String("extractflow.fingerprint", compiled.metadata.Fingerprint),
	)
	c.logger.Debug("schema compiled", append(ctxkeys.LogFields(ctx),
		zap.Int("fields", compiled.metadata.FieldCount),
		zap.String("fingerprint", compiled.metadata.Fingerprint),
		zap.Duration("duration", elapsed),
	)...)
	return compiled, nil
}

func (c *Compiler) fail(ctx context.Context, span trace.Span, err error, elapsed time.Duration) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	c.metrics.RecordCompile(err, elapsed)
	c.logger.Warn("schema compilation failed", append(ctxkeys.LogFields(ctx), zap.Error(err))...)
}

// RecordTruncation logs and counts one truncation. It satisfies
// TruncationRecorder and is shared with the prompt composer.
func (c *Compiler) RecordTruncation(t Truncation) {
	c.metrics.RecordTruncation(t.Section)
	c.logger.Debug("instructions truncated",
		zap.String("section", t.Section),
		zap.String("path", t.Path),
		zap.Int("original_length", t.OriginalLength),
		zap.Int("max_length", t.MaxLength),
	)
}
