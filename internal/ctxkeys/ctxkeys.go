// Package ctxkeys 定义在 context 中传递的请求级标识。
package ctxkeys

import "context"

// contextKey 用于在 context 中存储值的键类型
type contextKey string

const (
	runIDKey         contextKey = "run_id"
	schemaVersionKey contextKey = "schema_version"
)

// WithRunID 设置 RunID
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunID 获取 RunID
func RunID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(runIDKey).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// WithSchemaVersion 设置调用方的 schema 版本标识
func WithSchemaVersion(ctx context.Context, version string) context.Context {
	return context.WithValue(ctx, schemaVersionKey, version)
}

// SchemaVersion 获取 schema 版本标识
func SchemaVersion(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(schemaVersionKey).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
