package fixtures

// MixedBatch 返回一个同时包含合法与非法候选记录的批次
func MixedBatch() []any {
	return []any{
		map[string]any{"a": float64(1)},
		"not an object",
		map[string]any{},
		nil,
		[]any{map[string]any{"a": float64(1)}},
		map[string]any{"b": "ok"},
	}
}
