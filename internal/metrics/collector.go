package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// =============================================================================
// 📊 指标收集器
// =============================================================================

// Collector 指标收集器
type Collector struct {
	// 编译指标
	schemasCompiledTotal *prometheus.CounterVec
	compileDuration      prometheus.Histogram

	// 截断指标
	truncationsTotal *prometheus.CounterVec

	// 闸门指标
	gateRecordsTotal *prometheus.CounterVec

	// Agent 列表指标
	agentListValidationsTotal *prometheus.CounterVec

	logger *zap.Logger
}

// NewCollector 创建指标收集器，指标注册在 reg 上
func NewCollector(namespace string, reg prometheus.Registerer, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	factory := promauto.With(reg)
	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	// 编译指标
	c.schemasCompiledTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schemas_compiled_total",
			Help:      "Total number of schema compilations",
		},
		[]string{"status"},
	)

	c.compileDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compile_duration_seconds",
			Help:      "Schema compilation duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	// 截断指标
	c.truncationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "truncations_total",
			Help:      "Total number of applied length caps",
		},
		[]string{"section"}, // section: instructions, general_instructions
	)

	// 闸门指标
	c.gateRecordsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gate_records_total",
			Help:      "Total number of records screened by the result gate",
		},
		[]string{"outcome"}, // outcome: valid, invalid
	)

	// Agent 列表指标
	c.agentListValidationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "agent_list_validations_total",
			Help:      "Total number of agent list validations",
		},
		[]string{"status"},
	)

	c.logger.Debug("metrics collector initialized", zap.String("namespace", namespace))
	return c
}

// =============================================================================
// 🧩 编译指标记录
// =============================================================================

// RecordCompile 记录一次 schema 编译
func (c *Collector) RecordCompile(err error, duration time.Duration) {
	if c == nil {
		return
	}
	c.schemasCompiledTotal.WithLabelValues(status(err)).Inc()
	c.compileDuration.Observe(duration.Seconds())
}

// RecordTruncation 记录一次长度截断
func (c *Collector) RecordTruncation(section string) {
	if c == nil {
		return
	}
	c.truncationsTotal.WithLabelValues(section).Inc()
}

// =============================================================================
// 🚦 闸门指标记录
// =============================================================================

// RecordGate 记录一次批次分拣的结果
func (c *Collector) RecordGate(valid, invalid int) {
	if c == nil {
		return
	}
	c.gateRecordsTotal.WithLabelValues("valid").Add(float64(valid))
	c.gateRecordsTotal.WithLabelValues("invalid").Add(float64(invalid))
}

// =============================================================================
// 🎭 Agent 列表指标记录
// =============================================================================

// RecordAgentListValidation 记录一次 Agent 列表校验
func (c *Collector) RecordAgentListValidation(err error) {
	if c == nil {
		return
	}
	c.agentListValidationsTotal.WithLabelValues(status(err)).Inc()
}

// =============================================================================
// 🔧 辅助函数
// =============================================================================

// status 将错误转换为 status 标签
func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
