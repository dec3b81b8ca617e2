package ml

// Fold is one forward-chaining split: the training prefix [0, TrainEnd) and
// the test window [TrainEnd, TestEnd). Test windows of successive folds
// cover later, non-overlapping slices while the training prefix grows.
type Fold struct {
	TrainEnd int
	TestEnd  int
}

// TimeSeriesSplit produces k contiguous time-ordered folds over n rows.
// Every test index is strictly greater than every train index of its fold,
// so no future information reaches training. Returns false when n cannot
// form k non-degenerate folds (each fold needs a test window of at least one
// row plus a non-empty training prefix).
func TimeSeriesSplit(n, k int) ([]Fold, bool) {
	if k < 1 || n < k+1 {
		return nil, false
	}
	testSize := n / (k + 1)
	if testSize < 1 {
		return nil, false
	}

	folds := make([]Fold, 0, k)
	for i := 0; i < k; i++ {
		trainEnd := n - (k-i)*testSize
		folds = append(folds, Fold{TrainEnd: trainEnd, TestEnd: trainEnd + testSize})
	}
	return folds, true
}
