package model

import "sort"

// accuracy scores the forest's hard predictions against the labels.
func accuracy(f *Forest, X [][]float64, y []int) float64 {
	if len(X) == 0 {
		return 0
	}
	hits := 0
	for i, x := range X {
		if f.Predict(x) == y[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(X))
}

func probabilities(f *Forest, X [][]float64) []float64 {
	probs := make([]float64, len(X))
	for i, x := range X {
		probs[i] = f.PredictProba(x)
	}
	return probs
}

// rankAUC computes the area under the ROC curve via the rank-sum
// identity: AUC = (R1 - n1(n1+1)/2) / (n1*n0), where R1 is the sum of
// the positive samples' ranks. Tied scores receive their average rank.
// Returns 0.5 when the labels contain a single class, since ranking
// quality is undefined there.
func rankAUC(scores []float64, y []int) float64 {
	n := len(scores)
	if n == 0 {
		return 0.5
	}

	pos := 0
	for _, v := range y {
		pos += v
	}
	neg := n - pos
	if pos == 0 || neg == 0 {
		return 0.5
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] < scores[order[b]]
	})

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && scores[order[j+1]] == scores[order[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1 // ranks are 1-based
		for k := i; k <= j; k++ {
			ranks[order[k]] = avg
		}
		i = j + 1
	}

	var posRankSum float64
	for i, v := range y {
		if v == 1 {
			posRankSum += ranks[i]
		}
	}

	return (posRankSum - float64(pos)*float64(pos+1)/2) / (float64(pos) * float64(neg))
}
