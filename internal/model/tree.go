package model

import (
	"math/rand"
	"sort"
)

// treeNode is one node of a serialized decision tree. Leaves carry the
// probability of label=1 among the training samples that reached them;
// internal nodes route on Feature <= Threshold to Left, else Right.
type treeNode struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t"`
	Left      int     `json:"l"`
	Right     int     `json:"r"`
	Leaf      bool    `json:"leaf"`
	Prob      float64 `json:"p"`
}

// Tree is a single CART classification tree.
type Tree struct {
	Nodes []treeNode `json:"nodes"`
}

// PredictProba returns the tree's estimate of P(label=1) for x.
func (t *Tree) PredictProba(x []float64) float64 {
	i := 0
	for !t.Nodes[i].Leaf {
		n := t.Nodes[i]
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return t.Nodes[i].Prob
}

type treeParams struct {
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int // features sampled per split
}

// grower builds one tree over a bootstrap sample.
type grower struct {
	X      [][]float64
	y      []int
	params treeParams
	rng    *rand.Rand

	nodes []treeNode

	// importances accumulates sample-weighted impurity decrease per
	// feature across all splits of this tree.
	importances []float64
}

// growTree fits a CART tree on the given sample indices and returns the
// tree plus its per-feature impurity-decrease contributions.
func growTree(X [][]float64, y []int, sampleIdx []int, params treeParams, rng *rand.Rand) (Tree, []float64) {
	g := &grower{
		X:           X,
		y:           y,
		params:      params,
		rng:         rng,
		importances: make([]float64, featureCount(X)),
	}
	g.build(sampleIdx, 0)
	return Tree{Nodes: g.nodes}, g.importances
}

func featureCount(X [][]float64) int {
	if len(X) == 0 {
		return 0
	}
	return len(X[0])
}

// build grows the subtree for the given samples and returns its node index.
func (g *grower) build(samples []int, depth int) int {
	pos := 0
	for _, i := range samples {
		pos += g.y[i]
	}
	prob := float64(pos) / float64(len(samples))

	idx := len(g.nodes)
	g.nodes = append(g.nodes, treeNode{Leaf: true, Prob: prob})

	if depth >= g.params.MaxDepth ||
		len(samples) < g.params.MinSamplesSplit ||
		pos == 0 || pos == len(samples) {
		return idx
	}

	best, ok := g.bestSplit(samples, prob)
	if !ok {
		return idx
	}

	g.importances[best.feature] += best.gain * float64(len(samples))

	left := g.build(best.left, depth+1)
	right := g.build(best.right, depth+1)

	g.nodes[idx] = treeNode{
		Feature:   best.feature,
		Threshold: best.threshold,
		Left:      left,
		Right:     right,
	}
	return idx
}

type split struct {
	feature   int
	threshold float64
	gain      float64
	left      []int
	right     []int
}

// bestSplit searches a random feature subset for the split with the
// largest Gini impurity decrease that respects MinSamplesLeaf.
func (g *grower) bestSplit(samples []int, parentProb float64) (split, bool) {
	parentGini := gini(parentProb)

	var best split
	found := false

	for _, feature := range g.sampleFeatures() {
		ordered := make([]int, len(samples))
		copy(ordered, samples)
		sort.SliceStable(ordered, func(a, b int) bool {
			return g.X[ordered[a]][feature] < g.X[ordered[b]][feature]
		})

		// Prefix positive counts over the ordered samples.
		leftPos := 0
		totalPos := 0
		for _, i := range ordered {
			totalPos += g.y[i]
		}

		n := len(ordered)
		for cut := 1; cut < n; cut++ {
			leftPos += g.y[ordered[cut-1]]

			lo := g.X[ordered[cut-1]][feature]
			hi := g.X[ordered[cut]][feature]
			if lo == hi {
				continue // no threshold separates identical values
			}
			if cut < g.params.MinSamplesLeaf || n-cut < g.params.MinSamplesLeaf {
				continue
			}

			leftGini := gini(float64(leftPos) / float64(cut))
			rightGini := gini(float64(totalPos-leftPos) / float64(n-cut))
			weighted := (float64(cut)*leftGini + float64(n-cut)*rightGini) / float64(n)

			gain := parentGini - weighted
			if gain <= 1e-12 {
				continue
			}

			if !found || gain > best.gain {
				found = true
				best = split{
					feature:   feature,
					threshold: (lo + hi) / 2,
					gain:      gain,
					left:      append([]int{}, ordered[:cut]...),
					right:     append([]int{}, ordered[cut:]...),
				}
			}
		}
	}

	return best, found
}

// sampleFeatures draws the random feature subset considered at a split.
func (g *grower) sampleFeatures() []int {
	total := featureCount(g.X)
	k := g.params.MaxFeatures
	if k <= 0 || k > total {
		k = total
	}

	perm := g.rng.Perm(total)
	return perm[:k]
}

// gini returns the binary Gini impurity 2p(1-p).
func gini(p float64) float64 {
	return 2 * p * (1 - p)
}
