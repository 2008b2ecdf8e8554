package searcher

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRollWeights(t *testing.T) {
	t.Run("covering every two-dice total exactly once", func(t *testing.T) {
		require.Len(t, rollTotals, 11, "Two dice produce totals 2 through 12")
		for i, total := range rollTotals {
			require.Equal(t, i+2, total, "Totals should be ascending without gaps")
		}
	})

	t.Run("summing probabilities to one", func(t *testing.T) {
		sum := 0.0
		for _, total := range rollTotals {
			weight := rollWeights[total]
			require.Greater(t, weight, 0.0, "Every total should have positive probability")
			sum += weight
		}
		require.InDelta(t, 1.0, sum, 1e-12, "Roll distribution should be normalized")
	})

	t.Run("peaking at seven", func(t *testing.T) {
		require.Equal(t, 6.0/36.0, rollWeights[7], "Seven is the most likely total")
		require.Equal(t, 1.0/36.0, rollWeights[2], "Two is a corner case")
		require.Equal(t, 1.0/36.0, rollWeights[12], "Twelve is a corner case")
	})
}
