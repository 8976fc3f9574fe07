package learn

import (
	"cmp"
	"slices"
)

// regressionTree is a CART tree split on squared error.
type regressionTree struct {
	nodes      []treeNode
	importance []float64
	maxDepth   int
}

type treeNode struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64
	left      int
	right     int
}

const minGain = 1e-12

func growTree(x [][]float64, y []float64, idx []int, p, maxDepth int) *regressionTree {
	t := &regressionTree{importance: make([]float64, p), maxDepth: maxDepth}
	t.build(x, y, idx, 0)
	return t
}

func (t *regressionTree) build(x [][]float64, y []float64, idx []int, depth int) int {
	sum, sumSq := 0.0, 0.0
	for _, i := range idx {
		sum += y[i]
		sumSq += y[i] * y[i]
	}
	n := float64(len(idx))
	parentSSE := sumSq - sum*sum/n
	pos := len(t.nodes)
	t.nodes = append(t.nodes, treeNode{leaf: true, value: sum / n})
	if depth >= t.maxDepth || len(idx) < 2 || parentSSE <= minGain {
		return pos
	}

	feature, threshold, sse, ok := bestSplit(x, y, idx, len(t.importance))
	if !ok || parentSSE-sse <= minGain {
		return pos
	}
	var left, right []int
	for _, i := range idx {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	t.importance[feature] += parentSSE - sse
	l := t.build(x, y, left, depth+1)
	r := t.build(x, y, right, depth+1)
	t.nodes[pos] = treeNode{feature: feature, threshold: threshold, left: l, right: r, value: sum / n}
	return pos
}

// bestSplit scans every feature for the threshold with the lowest summed
// child SSE. The first best split found wins ties.
func bestSplit(x [][]float64, y []float64, idx []int, p int) (feature int, threshold, sse float64, ok bool) {
	order := make([]int, len(idx))
	for f := 0; f < p; f++ {
		copy(order, idx)
		slices.SortStableFunc(order, func(a, b int) int { return cmp.Compare(x[a][f], x[b][f]) })

		totalSum, totalSq := 0.0, 0.0
		for _, i := range order {
			totalSum += y[i]
			totalSq += y[i] * y[i]
		}
		leftSum, leftSq := 0.0, 0.0
		for k := 1; k < len(order); k++ {
			prev := order[k-1]
			leftSum += y[prev]
			leftSq += y[prev] * y[prev]
			if x[prev][f] == x[order[k]][f] {
				continue
			}
			nl, nr := float64(k), float64(len(order)-k)
			rightSum, rightSq := totalSum-leftSum, totalSq-leftSq
			candidate := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)
			if !ok || candidate < sse {
				feature, sse, ok = f, candidate, true
				threshold = (x[prev][f] + x[order[k]][f]) / 2
			}
		}
	}
	return feature, threshold, sse, ok
}

func (t *regressionTree) predictRow(row []float64) float64 {
	n := t.nodes[0]
	for !n.leaf {
		if row[n.feature] <= n.threshold {
			n = t.nodes[n.left]
		} else {
			n = t.nodes[n.right]
		}
	}
	return n.value
}
