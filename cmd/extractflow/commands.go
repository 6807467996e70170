package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/BaSui01/extractflow/agent/declarative"
	"github.com/BaSui01/extractflow/compiler"
	"github.com/BaSui01/extractflow/gate"
	"github.com/BaSui01/extractflow/internal/ctxkeys"
	"github.com/BaSui01/extractflow/prompt"
	"github.com/BaSui01/extractflow/property"
	"github.com/BaSui01/extractflow/schema"
)

// maxRecordLine 是 JSONL 单行的最大字节数
const maxRecordLine = 16 << 20

func newFlagSet(name string, stderr io.Writer, common *commonOptions) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	common.register(fs)
	return fs
}

// parseFlags 解析参数，解析失败视为用法错误
func parseFlags(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return usagef("%s: %v", fs.Name(), err)
}

// withApp 构建 app，执行 fn，并在结束时写出指标
func withApp(common commonOptions, stdout io.Writer, fn func(ctx context.Context, a *app) error) (err error) {
	a, err := newApp(common, stdout)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.close(); err == nil {
			err = closeErr
		}
	}()
	return fn(ctxkeys.WithRunID(context.Background(), a.runID), a)
}

// =============================================================================
// 🧩 compile 命令
// =============================================================================

// compileOutput 是 compile 命令的输出
type compileOutput struct {
	RunID string `json:"runId"`
	compiler.Artifact
}

func runCompile(args []string, stdout, stderr io.Writer) error {
	var common commonOptions
	fs := newFlagSet("compile", stderr, &common)
	schemaPath := fs.String("schema", "", "Path to the schema file")
	asProperties := fs.Bool("properties", false, "Treat the schema file as a property list")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *schemaPath == "" {
		return usagef("compile: --schema is required")
	}

	return withApp(common, stdout, func(ctx context.Context, a *app) error {
		compiled, err := a.loadSchema(ctx, *schemaPath, *asProperties)
		if err != nil {
			return err
		}
		a.logger.Info("schema compiled",
			zap.String("fingerprint", compiled.Fingerprint()),
			zap.Int("fields", compiled.Metadata().FieldCount),
		)
		return a.writeJSON(compileOutput{RunID: a.runID, Artifact: compiled.Artifact()})
	})
}

// =============================================================================
// 📝 prompt 命令
// =============================================================================

func runPrompt(args []string, stdout, stderr io.Writer) error {
	var common commonOptions
	fs := newFlagSet("prompt", stderr, &common)
	schemaPath := fs.String("schema", "", "Path to the schema file")
	asProperties := fs.Bool("properties", false, "Treat the schema file as a property list")
	instructionsPath := fs.String("instructions", "", "Path to a general instructions text file")
	mode := fs.String("mode", "", "View embedded in the prompt: structure or guidance")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *schemaPath == "" {
		return usagef("prompt: --schema is required")
	}
	if *mode != "" && !prompt.Mode(*mode).Valid() {
		return usagef("prompt: --mode must be structure or guidance, got %q", *mode)
	}

	return withApp(common, stdout, func(ctx context.Context, a *app) error {
		compiled, err := a.loadSchema(ctx, *schemaPath, *asProperties)
		if err != nil {
			return err
		}

		var general string
		if *instructionsPath != "" {
			data, err := os.ReadFile(*instructionsPath)
			if err != nil {
				return fmt.Errorf("read instructions: %w", err)
			}
			general = string(data)
		}

		composerMode := prompt.Mode(a.cfg.Compiler.PromptMode)
		if *mode != "" {
			composerMode = prompt.Mode(*mode)
		}
		text, err := a.composer(composerMode).Compose(prompt.Request{
			GeneralInstructions: general,
			Schema:              compiled,
		})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(a.stdout, text)
		return err
	})
}

// =============================================================================
// 🤖 agents 命令
// =============================================================================

// agentsOutput 是 agents 命令的输出
type agentsOutput struct {
	RunID          string                        `json:"runId"`
	ExecutionOrder []declarative.AgentDefinition `json:"executionOrder"`
}

func runAgents(args []string, stdout, stderr io.Writer) error {
	var common commonOptions
	fs := newFlagSet("agents", stderr, &common)
	file := fs.String("file", "", "Path to the agent list")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *file == "" {
		return usagef("agents: --file is required")
	}
	format := declarative.DetectFormat(*file)
	if format == "" {
		return usagef("agents: unsupported file extension %q", filepath.Ext(*file))
	}

	return withApp(common, stdout, func(_ context.Context, a *app) error {
		data, err := os.ReadFile(*file)
		if err != nil {
			return fmt.Errorf("read agent list file: %w", err)
		}
		raw, err := declarative.DecodeRaw(data, format)
		if err != nil {
			return err
		}
		ordered, err := a.planner().Plan(raw)
		if err != nil {
			return err
		}
		return a.writeJSON(agentsOutput{RunID: a.runID, ExecutionOrder: ordered})
	})
}

// =============================================================================
// 🚧 gate 命令
// =============================================================================

// gateOutput 是 gate 命令的输出
type gateOutput struct {
	RunID   string       `json:"runId"`
	Summary gate.Summary `json:"summary"`
	*gate.Result
}

func runGate(args []string, stdout, stderr io.Writer) error {
	var common commonOptions
	fs := newFlagSet("gate", stderr, &common)
	recordsPath := fs.String("records", "", "Path to the records file (.json or .jsonl)")
	schemaPath := fs.String("schema", "", "Optional schema to check records against")
	asProperties := fs.Bool("properties", false, "Treat the schema file as a property list")
	deep := fs.Bool("deep", false, "Use full recursive validation")
	concurrency := fs.Int("concurrency", 0, "Records evaluated in parallel")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *recordsPath == "" {
		return usagef("gate: --records is required")
	}
	if *concurrency < 0 {
		return usagef("gate: --concurrency must not be negative")
	}

	return withApp(common, stdout, func(ctx context.Context, a *app) error {
		if *deep {
			a.cfg.Gate.DeepValidation = true
		}
		if *concurrency > 0 {
			a.cfg.Gate.Concurrency = *concurrency
		}

		var compiled *compiler.CompiledSchema
		if *schemaPath != "" {
			var err error
			if compiled, err = a.loadSchema(ctx, *schemaPath, *asProperties); err != nil {
				return err
			}
		}

		batch, err := readRecords(*recordsPath)
		if err != nil {
			return err
		}
		result := a.gate().Partition(ctx, batch, compiled)
		a.logger.Info("batch screened",
			zap.Int("valid", result.ValidCount),
			zap.Int("invalid", result.InvalidCount),
		)
		return a.writeJSON(gateOutput{RunID: a.runID, Summary: result.Summary(), Result: result})
	})
}

// =============================================================================
// 🔍 辅助函数
// =============================================================================

// loadSchema 读取 schema 文件（wire 树或属性列表）并编译
func (a *app) loadSchema(ctx context.Context, path string, asProperties bool) (*compiler.CompiledSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	format := declarative.DetectFormat(path)
	if format == "" {
		format = "json"
	}

	if asProperties {
		props, err := property.ParseList(data, format)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return a.compiler.CompileProperties(ctx, props)
	}

	var def any
	if format == "yaml" {
		def, err = schema.DecodeYAMLValue(data)
	} else {
		def, err = schema.DecodeJSONValue(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a.compiler.Compile(ctx, def)
}

// readRecords 读取 JSON 数组或 JSONL 记录批次
func readRecords(path string) ([]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read records file: %w", err)
	}

	if !strings.EqualFold(filepath.Ext(path), ".jsonl") {
		var batch []any
		if err := json.Unmarshal(data, &batch); err != nil {
			return nil, fmt.Errorf("%s: records must be a JSON array: %w", path, err)
		}
		return batch, nil
	}

	batch := make([]any, 0)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordLine)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		var record any
		if err := json.Unmarshal(text, &record); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		batch = append(batch, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read records file: %w", err)
	}
	return batch, nil
}

func (a *app) writeJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(a.stdout, string(data))
	return err
}
