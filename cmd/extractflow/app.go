package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/BaSui01/extractflow/agent/declarative"
	"github.com/BaSui01/extractflow/compiler"
	"github.com/BaSui01/extractflow/config"
	"github.com/BaSui01/extractflow/gate"
	"github.com/BaSui01/extractflow/internal/metrics"
	"github.com/BaSui01/extractflow/internal/telemetry"
	"github.com/BaSui01/extractflow/prompt"
)

// commonOptions 是所有子命令共享的参数
type commonOptions struct {
	configPath string
	metricsOut string
}

func (o *commonOptions) register(fs *flag.FlagSet) {
	fs.StringVar(&o.configPath, "config", "", "Path to config file")
	fs.StringVar(&o.metricsOut, "metrics-out", "", "Write Prometheus metrics to this textfile on exit")
}

// app 持有一次命令执行所需的全部组件
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	// base 不带 run_id，供从 context 读取 run_id 的组件使用
	base      *zap.Logger
	runID     string
	registry  *prometheus.Registry
	collector *metrics.Collector
	providers *telemetry.Providers
	compiler  *compiler.Compiler

	metricsOut string
	stdout     io.Writer
}

func newApp(opts commonOptions, stdout io.Writer) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	base := initLogger(cfg.Log)
	logger := base.With(zap.String("run_id", runID))

	providers, err := telemetry.Init(cfg.Telemetry, logger)
	if err != nil {
		logger.Warn("failed to initialize telemetry", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(cfg.Metrics.Namespace, registry, logger)

	metricsOut := opts.metricsOut
	if metricsOut == "" {
		metricsOut = cfg.Metrics.TextfilePath
	}

	a := &app{
		cfg:        cfg,
		logger:     logger,
		base:       base,
		runID:      runID,
		registry:   registry,
		collector:  collector,
		providers:  providers,
		metricsOut: metricsOut,
		stdout:     stdout,
	}
	a.compiler = compiler.New(
		compiler.WithLogger(base),
		compiler.WithMetrics(collector),
		compiler.WithTracer(providers.Tracer("extractflow/compiler")),
		compiler.WithInstructionsMaxLength(cfg.Compiler.InstructionsMaxLength),
	)
	return a, nil
}

func (a *app) composer(mode prompt.Mode) *prompt.Composer {
	return prompt.NewComposer(
		prompt.WithLogger(a.logger),
		prompt.WithTruncationRecorder(a.compiler.RecordTruncation),
		prompt.WithMode(mode),
		prompt.WithInstructionsMaxLength(a.cfg.Compiler.InstructionsMaxLength),
		prompt.WithGeneralInstructionsMaxLength(a.cfg.Compiler.GeneralInstructionsMaxLength),
	)
}

func (a *app) gate() *gate.Gate {
	opts := []gate.Option{
		gate.WithLogger(a.base),
		gate.WithMetrics(a.collector),
		gate.WithTracer(a.providers.Tracer("extractflow/gate")),
		gate.WithConcurrency(a.cfg.Gate.Concurrency),
	}
	if a.cfg.Gate.DeepValidation {
		opts = append(opts, gate.WithDeepValidation())
	}
	return gate.New(opts...)
}

func (a *app) planner() *declarative.Planner {
	return declarative.NewPlanner(a.logger, a.collector)
}

// close 写出指标文件并关闭遥测
func (a *app) close() error {
	defer a.logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Telemetry.ShutdownTimeout)
	defer cancel()
	if err := a.providers.Shutdown(ctx); err != nil {
		a.logger.Warn("telemetry shutdown failed", zap.Error(err))
	}

	if a.metricsOut == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.metricsOut, a.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	a.logger.Debug("metrics written", zap.String("path", a.metricsOut))
	return nil
}

// =============================================================================
// 🔧 日志初始化
// =============================================================================

func initLogger(cfg config.LogConfig) *zap.Logger {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var encoderConfig zapcore.EncoderConfig
	encoding := "json"
	if cfg.Format == "console" {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoding = "console"
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	zapConfig := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       cfg.Format == "console",
		Encoding:          encoding,
		EncoderConfig:     encoderConfig,
		OutputPaths:       cfg.OutputPaths,
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     !cfg.EnableCaller,
		DisableStacktrace: !cfg.EnableStacktrace,
	}

	logger, err := zapConfig.Build()
	if err != nil {
		// 回退到基本 logger
		logger, _ = zap.NewProduction()
	}
	return logger
}
