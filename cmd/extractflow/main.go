// =============================================================================
// ExtractFlow 主入口
// =============================================================================
// 使用方法:
//
//	extractflow compile --schema invoice.json
//	extractflow compile --schema fields.yaml --properties
//	extractflow prompt  --schema invoice.json --instructions general.txt --mode guidance
//	extractflow agents  --file agents.yaml
//	extractflow gate    --schema invoice.json --records batch.jsonl --deep --concurrency 4
//	extractflow version
//
// =============================================================================
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// 📦 版本信息（构建时注入）
// =============================================================================

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// 退出码
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// =============================================================================
// 🎯 主函数
// =============================================================================

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return exitUsage
	}

	var err error
	switch args[0] {
	case "compile":
		err = runCompile(args[1:], stdout, stderr)
	case "prompt":
		err = runPrompt(args[1:], stdout, stderr)
	case "agents":
		err = runAgents(args[1:], stdout, stderr)
	case "gate":
		err = runGate(args[1:], stdout, stderr)
	case "version":
		printVersion(stdout)
		return exitOK
	case "help", "-h", "--help":
		printUsage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", args[0])
		printUsage(stderr)
		return exitUsage
	}

	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, flag.ErrHelp):
		return exitOK
	case errors.As(err, new(*usageError)):
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
}

// usageError 表示命令行参数错误
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// =============================================================================
// 📋 版本和帮助
// =============================================================================

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "ExtractFlow %s\n", Version)
	fmt.Fprintf(w, "  Build Time: %s\n", BuildTime)
	fmt.Fprintf(w, "  Git Commit: %s\n", GitCommit)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `ExtractFlow - schema compiler for structured extraction

Usage:
  extractflow <command> [options]

Commands:
  compile   Check and compile a schema, print metadata and views as JSON
  prompt    Compile a schema and print the extraction prompt
  agents    Validate an agent list and print its execution order
  gate      Partition a batch of records into valid and invalid
  version   Show version information
  help      Show this help message

Common options:
  --config <path>        Path to configuration file (YAML)
  --metrics-out <path>   Write Prometheus metrics to a textfile on exit

Options for 'compile':
  --schema <path>        Wire schema (.json, .yaml) or property list
  --properties           Treat --schema as a property list

Options for 'prompt':
  --schema <path>        Wire schema or property list
  --properties           Treat --schema as a property list
  --instructions <path>  General instructions text file
  --mode <mode>          structure or guidance

Options for 'agents':
  --file <path>          Agent list (.json, .yaml)

Options for 'gate':
  --records <path>       Records as a JSON array (.json) or one per line (.jsonl)
  --schema <path>        Optional schema to check records against
  --properties           Treat --schema as a property list
  --deep                 Use full recursive validation
  --concurrency <n>      Records evaluated in parallel

Examples:
  extractflow compile --schema invoice.json
  extractflow prompt --schema invoice.yaml --instructions general.txt
  extractflow agents --file agents.yaml
  extractflow gate --schema invoice.json --records batch.jsonl --deep
  extractflow version`)
}
