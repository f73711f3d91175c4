package strategy

// SelectBest returns the evaluation with the highest edge. Candidates must be
// in enumeration order; on equal edges the earlier one is kept.
func SelectBest(evals []Evaluation) (Evaluation, bool) {
	if len(evals) == 0 {
		return Evaluation{}, false
	}
	best := evals[0]
	for _, e := range evals[1:] {
		if e.Edge > best.Edge {
			best = e
		}
	}
	return best, true
}
