package mines

import (
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

// Generate places params.MineCount mines uniformly at random without
// replacement.
func Generate(params GameParams, r *rand.Rand) (*Board, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	rows, cols, mineCount := params.Unpack()

	/*
	 * Write down the list of possible mine locations, then pick n off the
	 * list at random, swapping the last candidate into the picked slot.
	 */
	candidates := make([]int, rows*cols)
	for i := range candidates {
		candidates[i] = i
	}
	placed := make([]Pos, 0, mineCount)
	k := len(candidates)
	for range mineCount {
		i := r.IntN(k)
		placed = append(placed, Pos{candidates[i] / cols, candidates[i] % cols})
		k--
		candidates[i] = candidates[k]
	}

	Log.WithFields(logrus.Fields{
		"params": params.String(),
	}).Debug("generated board")

	return NewBoard(rows, cols, placed)
}
