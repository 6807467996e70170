package gate

import (
	"context"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// buildBatch turns generated kinds into the values a gate sees: objects
// with and without fields, scalars and nil.
func buildBatch(kinds []int, words []string) []any {
	batch := make([]any, len(kinds))
	for i, kind := range kinds {
		word := fmt.Sprintf("w%d", i)
		if i < len(words) {
			word = words[i]
		}
		switch kind {
		case 0:
			batch[i] = nil
		case 1:
			batch[i] = word
		case 2:
			batch[i] = map[string]any{}
		case 3:
			batch[i] = float64(len(word))
		default:
			batch[i] = map[string]any{"field": word, "n": float64(kind)}
		}
	}
	return batch
}

// Every record lands in exactly one partition and the counts agree.
func TestProperty_PartitionComplete(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("valid + invalid == batch size", prop.ForAll(
		func(kinds []int, words []string) bool {
			batch := buildBatch(kinds, words)
			r := New().Partition(context.Background(), batch, nil)
			return len(r.Valid)+len(r.Invalid) == len(batch) &&
				r.ValidCount == len(r.Valid) &&
				r.InvalidCount == len(r.Invalid) &&
				len(r.ValidationErrors) == r.InvalidCount
		},
		gen.SliceOf(gen.IntRange(0, 5)),
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("rejected records carry both markers", prop.ForAll(
		func(kinds []int, words []string) bool {
			batch := buildBatch(kinds, words)
			r := New().Partition(context.Background(), batch, nil)
			for _, rec := range r.Invalid {
				m, ok := rec.(map[string]any)
				if !ok || m[FieldSkipAgents] != true || m[FieldValidationError] == nil {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 5)),
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("parallel run matches sequential run", prop.ForAll(
		func(kinds []int, words []string, workers int) bool {
			batch := buildBatch(kinds, words)
			seq := New().Partition(context.Background(), batch, nil)
			par := New(WithConcurrency(workers)).Partition(context.Background(), batch, nil)
			return fmt.Sprint(seq) == fmt.Sprint(par)
		},
		gen.SliceOf(gen.IntRange(0, 5)),
		gen.SliceOf(gen.AlphaString()),
		gen.IntRange(2, 8),
	))

	properties.TestingRun(t)
}
