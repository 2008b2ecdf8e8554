package searcher

// rollWeights maps each two-dice total to its probability. Out of the
// 36 equally likely ordered outcomes, a total t has 6-|t-7| of them.
var rollWeights = func() map[int]float64 {
	weights := make(map[int]float64, 11)
	for total := 2; total <= 12; total++ {
		combos := 6 - abs(total-7)
		weights[total] = float64(combos) / 36.0
	}
	return weights
}()

// rollTotals lists the chance outcomes in ascending order so chance
// nodes expand children in a reproducible sequence.
var rollTotals = []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
