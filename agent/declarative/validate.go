package declarative

import (
	"math"
	"sort"
	"unicode/utf8"
)

// ValidateList checks an untrusted agent list and returns the typed
// definitions. The first violation wins. Missing enabled flags default to
// true.
func ValidateList(raw any) ([]AgentDefinition, error) {
	items, ok := asList(raw)
	if !ok {
		return nil, listError(ReasonNotArray, "expected an array of agents, got %s", describe(raw))
	}
	if len(items) > MaxAgents {
		return nil, listError(ReasonTooMany, "at most %d agents are allowed, got %d", MaxAgents, len(items))
	}

	defs := make([]AgentDefinition, 0, len(items))
	names := make(map[string]int, len(items))
	orders := make(map[int]int, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok || obj == nil {
			return nil, itemError(i, ReasonNotObject, "agent must be an object, got %s", describe(item))
		}
		for _, field := range []string{"name", "prompt", "order"} {
			if _, present := obj[field]; !present {
				return nil, itemError(i, ReasonMissingField, "missing required field %q", field)
			}
		}

		name, ok := obj["name"].(string)
		if !ok || name == "" || utf8.RuneCountInString(name) > MaxNameLength {
			return nil, itemError(i, ReasonInvalidName, "name must be a non-empty string of at most %d characters", MaxNameLength)
		}
		if prev, dup := names[name]; dup {
			return nil, itemError(i, ReasonDuplicateName, "duplicate agent name %q (also at index %d)", name, prev)
		}
		names[name] = i

		prompt, ok := obj["prompt"].(string)
		if !ok || prompt == "" || utf8.RuneCountInString(prompt) > MaxPromptLength {
			return nil, itemError(i, ReasonInvalidPrompt, "prompt must be a non-empty string of at most %d characters", MaxPromptLength)
		}

		order, ok := positiveInt(obj["order"])
		if !ok {
			return nil, itemError(i, ReasonInvalidOrder, "order must be a positive integer, got %s", describe(obj["order"]))
		}
		if prev, dup := orders[order]; dup {
			return nil, itemError(i, ReasonDuplicateOrder, "duplicate agent order %d (also at index %d)", order, prev)
		}
		orders[order] = i

		def := AgentDefinition{Name: name, Prompt: prompt, Order: order, Enabled: true}
		if v, present := obj["enabled"]; present {
			enabled, isBool := v.(bool)
			if !isBool {
				return nil, itemError(i, ReasonInvalidEnabled, "enabled must be a boolean, got %s", describe(v))
			}
			def.Enabled = enabled
		}
		if v, present := obj["description"]; present {
			desc, isString := v.(string)
			if !isString || utf8.RuneCountInString(desc) > MaxDescriptionLength {
				return nil, itemError(i, ReasonInvalidDescription, "description must be a string of at most %d characters", MaxDescriptionLength)
			}
			def.Description = desc
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// Sort returns the enabled agents ordered by ascending order. The input is
// not modified and is assumed to be valid.
func Sort(defs []AgentDefinition) []AgentDefinition {
	out := make([]AgentDefinition, 0, len(defs))
	for _, def := range defs {
		if def.Enabled {
			out = append(out, def)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func asList(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, v != nil
	case []map[string]any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out, v != nil
	}
	return nil, false
}

type floatLiteral interface {
	Float64() (float64, error)
}

func positiveInt(v any) (int, bool) {
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	case float64:
		f = n
	case floatLiteral:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if f < 1 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any, []map[string]any:
		return "array"
	case int, int64, uint64, float64, floatLiteral:
		return "number"
	}
	return "unsupported value"
}
