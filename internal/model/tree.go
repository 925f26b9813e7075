package model

import (
	"math"
	"sort"
)

// Node is one node of a regression tree stored in flattened form. Leaf nodes
// carry the (already shrunken) output value; internal nodes route on
// feature <= threshold.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
	Leaf      bool    `json:"leaf"`
}

// treeParams bundles the regularization settings used while growing a tree.
type treeParams struct {
	maxDepth        int
	minChildSamples int
	lambda          float64
	learningRate    float64
}

// buildTree grows one depth-limited regression tree on the gradient/hessian
// pairs using exact greedy splits, and returns it in flattened form. Split
// gains are accumulated per feature into importance.
func buildTree(xs [][]float64, grad, hess []float64, idx []int, p treeParams, importance []float64) []Node {
	nodes := make([]Node, 0, 16)
	var grow func(indices []int, depth int) int
	grow = func(indices []int, depth int) int {
		g, h := sums(grad, hess, indices)

		self := len(nodes)
		nodes = append(nodes, Node{})

		if depth < p.maxDepth {
			if feat, thr, gain, left, right := bestSplit(xs, grad, hess, indices, p); gain > 0 {
				importance[feat] += gain
				nodes[self].Feature = feat
				nodes[self].Threshold = thr
				l := grow(left, depth+1)
				r := grow(right, depth+1)
				nodes[self].Left = l
				nodes[self].Right = r
				return self
			}
		}

		nodes[self].Leaf = true
		nodes[self].Value = -g / (h + p.lambda) * p.learningRate
		return self
	}
	grow(idx, 0)
	return nodes
}

// bestSplit scans every feature for the exact greedy split maximizing the
// regularized gain. Returns gain <= 0 when no admissible split exists.
func bestSplit(xs [][]float64, grad, hess []float64, indices []int, p treeParams) (feat int, thr, gain float64, left, right []int) {
	gTotal, hTotal := sums(grad, hess, indices)
	parentScore := score(gTotal, hTotal, p.lambda)

	feat = -1
	nFeatures := len(xs[indices[0]])
	ordered := make([]int, len(indices))

	for f := 0; f < nFeatures; f++ {
		copy(ordered, indices)
		sort.Slice(ordered, func(a, b int) bool { return xs[ordered[a]][f] < xs[ordered[b]][f] })

		gl, hl := 0.0, 0.0
		for i := 0; i < len(ordered)-1; i++ {
			row := ordered[i]
			gl += grad[row]
			hl += hess[row]

			// Only between distinct values is a threshold meaningful.
			cur, next := xs[row][f], xs[ordered[i+1]][f]
			if cur == next {
				continue
			}
			if i+1 < p.minChildSamples || len(ordered)-i-1 < p.minChildSamples {
				continue
			}

			g := score(gl, hl, p.lambda) + score(gTotal-gl, hTotal-hl, p.lambda) - parentScore
			if g > gain {
				gain = g
				feat = f
				thr = (cur + next) / 2
			}
		}
	}

	if feat < 0 {
		return -1, 0, 0, nil, nil
	}

	for _, row := range indices {
		if xs[row][feat] <= thr {
			left = append(left, row)
		} else {
			right = append(right, row)
		}
	}
	return feat, thr, gain, left, right
}

// predictTree walks the flattened tree for one feature vector.
func predictTree(nodes []Node, x []float64) float64 {
	i := 0
	for !nodes[i].Leaf {
		if x[nodes[i].Feature] <= nodes[i].Threshold {
			i = nodes[i].Left
		} else {
			i = nodes[i].Right
		}
	}
	return nodes[i].Value
}

func score(g, h, lambda float64) float64 {
	return g * g / (h + lambda)
}

func sums(grad, hess []float64, indices []int) (g, h float64) {
	for _, i := range indices {
		g += grad[i]
		h += hess[i]
	}
	return g, h
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
