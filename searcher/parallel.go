package searcher

import (
	"math"
	"sync"
	"time"

	"catan/game"
)

// parallelRoot splits the root children over worker goroutines. Workers
// search independent state copies and fold results into shared best/alpha
// under a mutex. Tie-breaking follows legal-action order, matching the
// single-goroutine searcher; sibling pruning is weaker because alpha
// updates race with in-flight subtrees.
func (ab *AlphaBeta) parallelRoot(state *game.GameState, color game.Color, legal []game.Action, deadline time.Time) (game.Action, float64, map[game.Action]float64) {
	type result struct {
		index int
		value float64
	}

	var mutex sync.Mutex
	alpha := math.Inf(-1)
	results := make([]result, 0, len(legal))

	indexes := make(chan int)
	var waitGroup sync.WaitGroup
	workers := ab.goroutines
	if workers > len(legal) {
		workers = len(legal)
	}
	for worker := 0; worker < workers; worker++ {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			for index := range indexes {
				if !time.Now().Before(deadline) {
					ab.metrics.SetDeadlineHit()
					continue
				}
				mutex.Lock()
				currentAlpha := alpha
				mutex.Unlock()

				root := state.Copy()
				value, complete := ab.searchAction(root, legal[index], ab.maxDepth-1, currentAlpha, math.Inf(1), color, deadline)
				if !complete {
					ab.metrics.SetDeadlineHit()
					continue
				}

				mutex.Lock()
				results = append(results, result{index: index, value: value})
				if value > alpha {
					alpha = value
				}
				mutex.Unlock()
			}
		}()
	}
	for index := range legal {
		indexes <- index
	}
	close(indexes)
	waitGroup.Wait()

	if len(results) == 0 { // deadline before any child completed
		return legal[0], ab.evaluate(state, color), nil
	}

	values := make(map[game.Action]float64, len(results))
	bestIndex := -1
	bestValue := math.Inf(-1)
	for _, r := range results {
		values[legal[r.index]] = r.value
		if r.value > bestValue || (r.value == bestValue && r.index < bestIndex) {
			bestValue = r.value
			bestIndex = r.index
		}
	}
	return legal[bestIndex], bestValue, values
}
