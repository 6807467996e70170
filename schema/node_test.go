package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImportance_Valid(t *testing.T) {
	tests := []struct {
		importance Importance
		want       bool
	}{
		{"", true},
		{ImportanceHigh, true},
		{ImportanceMedium, true},
		{ImportanceLow, true},
		{"urgent", false},
		{"HIGH", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.importance), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.importance.Valid())
		})
	}
}
