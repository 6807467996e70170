package declarative

import (
	"go.uber.org/zap"

	"github.com/BaSui01/extractflow/internal/metrics"
)

// Planner validates agent lists and produces their execution order.
//
// It wraps ValidateList and Sort with logging and metrics so that callers
// saving a schema version get one entry point:
//
//	planner := declarative.NewPlanner(logger, collector)
//	ordered, err := planner.Plan(raw)
type Planner struct {
	logger  *zap.Logger
	metrics *metrics.Collector
}

// NewPlanner creates a new Planner. Both arguments may be nil.
func NewPlanner(logger *zap.Logger, collector *metrics.Collector) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{
		logger:  logger.With(zap.String("component", "agent_list")),
		metrics: collector,
	}
}

// Validate checks the raw list.
func (p *Planner) Validate(raw any) ([]AgentDefinition, error) {
	defs, err := ValidateList(raw)
	p.metrics.RecordAgentListValidation(err)
	if err != nil {
		fields := []zap.Field{zap.Error(err)}
		if listErr, ok := err.(*AgentListError); ok {
			fields = append(fields, zap.String("reason", string(listErr.Reason)), zap.Int("index", listErr.Index))
		}
		p.logger.Warn("agent list rejected", fields...)
		return nil, err
	}
	p.logger.Debug("agent list validated", zap.Int("agents", len(defs)))
	return defs, nil
}

// Plan validates the raw list and returns the enabled agents in execution
// order.
func (p *Planner) Plan(raw any) ([]AgentDefinition, error) {
	defs, err := p.Validate(raw)
	if err != nil {
		return nil, err
	}
	ordered := Sort(defs)
	names := make([]string, len(ordered))
	for i, def := range ordered {
		names[i] = def.Name
	}
	p.logger.Debug("agent execution order",
		zap.Strings("agents", names),
		zap.Int("disabled", len(defs)-len(ordered)),
	)
	return ordered, nil
}
