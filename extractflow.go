// Package extractflow provides a top-level convenience entry point that wires
// the compiler, prompt composer, result gate and agent planner together with
// one set of observability sinks.
//
// Usage:
//
//	import "github.com/BaSui01/extractflow"
//
//	engine := extractflow.New(extractflow.WithLogger(logger))
//	compiled, err := engine.CompileProperties(ctx, props)
//	text, err := engine.Prompt(compiled, "Extract the supplier invoice.")
//	result := engine.Partition(ctx, batch, compiled)
//
// Each component can also be used on its own from its package.
package extractflow

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/BaSui01/extractflow/agent/declarative"
	"github.com/BaSui01/extractflow/compiler"
	"github.com/BaSui01/extractflow/config"
	"github.com/BaSui01/extractflow/gate"
	"github.com/BaSui01/extractflow/internal/metrics"
	"github.com/BaSui01/extractflow/prompt"
	"github.com/BaSui01/extractflow/property"
)

// Option configures the Engine created by New.
type Option func(*options)

type options struct {
	logger  *zap.Logger
	metrics *metrics.Collector
	tracer  trace.Tracer
	cfg     *config.Config
}

// WithLogger sets a custom zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics records compile, truncation, gate and agent list metrics on
// the collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(o *options) { o.metrics = collector }
}

// WithTracer sets the tracer for compile and partition spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) { o.tracer = tracer }
}

// WithConfig applies the compiler and gate sections of cfg.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// Engine bundles the components that share one configuration.
type Engine struct {
	compiler *compiler.Compiler
	composer *prompt.Composer
	gate     *gate.Gate
	planner  *declarative.Planner
}

// New creates an Engine. With no options it uses the default caps, a
// shallow serial gate and no-op observability.
func New(opts ...Option) *Engine {
	o := &options{cfg: config.DefaultConfig()}
	for _, opt := range opts {
		opt(o)
	}
	if o.cfg == nil {
		o.cfg = config.DefaultConfig()
	}

	c := compiler.New(
		compiler.WithLogger(o.logger),
		compiler.WithMetrics(o.metrics),
		compiler.WithTracer(o.tracer),
		compiler.WithInstructionsMaxLength(o.cfg.Compiler.InstructionsMaxLength),
	)

	gateOpts := []gate.Option{
		gate.WithLogger(o.logger),
		gate.WithMetrics(o.metrics),
		gate.WithTracer(o.tracer),
		gate.WithConcurrency(o.cfg.Gate.Concurrency),
	}
	if o.cfg.Gate.DeepValidation {
		gateOpts = append(gateOpts, gate.WithDeepValidation())
	}

	return &Engine{
		compiler: c,
		composer: prompt.NewComposer(
			prompt.WithLogger(o.logger),
			prompt.WithTruncationRecorder(c.RecordTruncation),
			prompt.WithMode(prompt.Mode(o.cfg.Compiler.PromptMode)),
			prompt.WithInstructionsMaxLength(o.cfg.Compiler.InstructionsMaxLength),
			prompt.WithGeneralInstructionsMaxLength(o.cfg.Compiler.GeneralInstructionsMaxLength),
		),
		gate:    gate.New(gateOpts...),
		planner: declarative.NewPlanner(o.logger, o.metrics),
	}
}

// Compile checks, decodes and compiles an author schema.
func (e *Engine) Compile(ctx context.Context, def any) (*compiler.CompiledSchema, error) {
	return e.compiler.Compile(ctx, def)
}

// CompileProperties compiles a property list.
func (e *Engine) CompileProperties(ctx context.Context, props []property.Property) (*compiler.CompiledSchema, error) {
	return e.compiler.CompileProperties(ctx, props)
}

// Prompt composes the extraction prompt for a compiled schema.
func (e *Engine) Prompt(compiled *compiler.CompiledSchema, generalInstructions string) (string, error) {
	return e.composer.Compose(prompt.Request{GeneralInstructions: generalInstructions, Schema: compiled})
}

// Partition screens a batch of candidate records. compiled may be nil.
func (e *Engine) Partition(ctx context.Context, batch []any, compiled *compiler.CompiledSchema) *gate.Result {
	return e.gate.Partition(ctx, batch, compiled)
}

// PlanAgents validates an untrusted agent list and returns the enabled
// agents in execution order.
func (e *Engine) PlanAgents(raw any) ([]declarative.AgentDefinition, error) {
	return e.planner.Plan(raw)
}
