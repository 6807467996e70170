// =============================================================================
// 📦 ExtractFlow 默认配置
// =============================================================================
package config

import "time"

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Compiler:  DefaultCompilerConfig(),
		Gate:      DefaultGateConfig(),
		Log:       DefaultLogConfig(),
		Telemetry: DefaultTelemetryConfig(),
		Metrics:   DefaultMetricsConfig(),
	}
}

// DefaultCompilerConfig 返回默认编译器配置
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{
		InstructionsMaxLength:        500,
		GeneralInstructionsMaxLength: 3000,
		PromptMode:                   "structure",
	}
}

// DefaultGateConfig 返回默认闸门配置（浅校验、串行）
func DefaultGateConfig() GateConfig {
	return GateConfig{
		DeepValidation: false,
		Concurrency:    1,
	}
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:            "info",
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		EnableCaller:     false,
		EnableStacktrace: false,
	}
}

// DefaultTelemetryConfig 返回默认遥测配置
func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		Enabled:         false,
		OTLPEndpoint:    "localhost:4317",
		ServiceName:     "extractflow",
		SampleRate:      1.0,
		Insecure:        true,
		ShutdownTimeout: 5 * time.Second,
	}
}

// DefaultMetricsConfig 返回默认指标配置
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "extractflow",
	}
}
