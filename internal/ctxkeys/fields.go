package ctxkeys

import (
	"context"

	"go.uber.org/zap"
)

// LogFields returns zap fields for the identifiers stored in ctx.
func LogFields(ctx context.Context) []zap.Field {
	var fields []zap.Field
	if id, ok := RunID(ctx); ok {
		fields = append(fields, zap.String("run_id", id))
	}
	if v, ok := SchemaVersion(ctx); ok {
		fields = append(fields, zap.String("schema_version", v))
	}
	return fields
}
