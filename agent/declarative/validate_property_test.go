package declarative

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func agentList(n int, enabled []bool) []any {
	out := make([]any, n)
	for i := range out {
		item := map[string]any{
			"name":   fmt.Sprintf("agent-%d", i),
			"prompt": "step",
			// Reverse the orders so that sorting has work to do.
			"order": float64(n - i),
		}
		if i < len(enabled) {
			item["enabled"] = enabled[i]
		}
		out[i] = item
	}
	return out
}

// Any list longer than the limit is rejected.
func TestProperty_TooManyAgentsRejected(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("lists above the limit are rejected", prop.ForAll(
		func(n int) bool {
			_, err := ValidateList(agentList(n, nil))
			listErr, ok := err.(*AgentListError)
			return ok && listErr.Reason == ReasonTooMany
		},
		gen.IntRange(MaxAgents+1, 50),
	))

	properties.TestingRun(t)
}

// Two agents sharing a name or an order are always rejected.
func TestProperty_DuplicatesRejected(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("duplicate name is rejected", prop.ForAll(
		func(n, i, j int) bool {
			i, j = i%n, j%n
			if i == j {
				j = (j + 1) % n
			}
			list := agentList(n, nil)
			list[j].(map[string]any)["name"] = list[i].(map[string]any)["name"]
			_, err := ValidateList(list)
			listErr, ok := err.(*AgentListError)
			return ok && listErr.Reason == ReasonDuplicateName
		},
		gen.IntRange(2, MaxAgents),
		gen.IntRange(0, 100),
		gen.IntRange(0, 100),
	))

	properties.Property("duplicate order is rejected", prop.ForAll(
		func(n, i, j int) bool {
			i, j = i%n, j%n
			if i == j {
				j = (j + 1) % n
			}
			list := agentList(n, nil)
			list[j].(map[string]any)["order"] = list[i].(map[string]any)["order"]
			_, err := ValidateList(list)
			listErr, ok := err.(*AgentListError)
			return ok && listErr.Reason == ReasonDuplicateOrder
		},
		gen.IntRange(2, MaxAgents),
		gen.IntRange(0, 100),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}

// Sort keeps exactly the enabled agents, in ascending order.
func TestProperty_SortEnabledAscending(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("sort returns enabled agents by order", prop.ForAll(
		func(n int, flags []bool) bool {
			enabled := flags[:n]
			defs, err := ValidateList(agentList(len(enabled), enabled))
			if err != nil {
				t.Logf("unexpected error: %v", err)
				return false
			}
			want := 0
			for _, e := range enabled {
				if e {
					want++
				}
			}
			sorted := Sort(defs)
			if len(sorted) != want {
				return false
			}
			for k, def := range sorted {
				if !def.Enabled {
					return false
				}
				if k > 0 && sorted[k-1].Order >= def.Order {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, MaxAgents),
		gen.SliceOfN(MaxAgents, gen.Bool()),
	))

	properties.TestingRun(t)
}
