// =============================================================================
// 📦 测试数据工厂 - Agent 列表测试数据
// =============================================================================
// 提供原始（未校验）的 Agent 列表，形状与解码后的 JSON 一致
// =============================================================================
package fixtures

import "fmt"

// =============================================================================
// 🤖 Agent 列表工厂
// =============================================================================

// AgentListRaw 返回三条合法的 Agent 定义，其中一条被禁用
func AgentListRaw() []any {
	return []any{
		map[string]any{
			"name":        "normalize-dates",
			"prompt":      "Rewrite every date as YYYY-MM-DD.",
			"order":       float64(2),
			"description": "Date normalization",
		},
		map[string]any{
			"name":    "dedupe-lines",
			"prompt":  "Merge duplicate line items.",
			"order":   float64(1),
			"enabled": true,
		},
		map[string]any{
			"name":    "translate",
			"prompt":  "Translate free text to English.",
			"order":   float64(3),
			"enabled": false,
		},
	}
}

// AgentListOfSize 返回 n 条合法且互不冲突的 Agent 定义
func AgentListOfSize(n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = map[string]any{
			"name":   fmt.Sprintf("agent-%d", i+1),
			"prompt": fmt.Sprintf("Step %d.", i+1),
			"order":  float64(i + 1),
		}
	}
	return out
}

// AgentListYAML 是 AgentListRaw 的 YAML 表示
const AgentListYAML = `
- name: normalize-dates
  prompt: Rewrite every date as YYYY-MM-DD.
  order: 2
  description: Date normalization
- name: dedupe-lines
  prompt: Merge duplicate line items.
  order: 1
  enabled: true
- name: translate
  prompt: Translate free text to English.
  order: 3
  enabled: false
`
