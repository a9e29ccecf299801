package forest

import (
	"math"
	"sort"
)

// treeNode is one node of a regression tree. Leaves carry the mean target
// of their training rows; internal nodes split on feature <= threshold.
type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	value     float64
	leaf      bool
}

// regressionTree is a single CART regressor built on a bootstrap sample.
type regressionTree struct {
	root *treeNode

	// importances accumulates the weighted impurity decrease per feature
	// over every split in the tree.
	importances []float64
}

// treeParams pins the growth limits shared by all trees of a forest.
type treeParams struct {
	maxDepth        int
	minSamplesSplit int
}

// growTree builds a regression tree over rows [indices] of X/y.
// totalSamples is the size of the bootstrap sample, used to weight
// impurity decreases for the importance accounting.
func growTree(X [][]float64, y []float64, indices []int, params treeParams) *regressionTree {
	tree := &regressionTree{importances: make([]float64, featureCount(X))}
	tree.root = tree.grow(X, y, indices, 0, params, len(indices))
	return tree
}

func featureCount(X [][]float64) int {
	if len(X) == 0 {
		return 0
	}
	return len(X[0])
}

// grow recursively builds the subtree for the given row set.
func (t *regressionTree) grow(X [][]float64, y []float64, indices []int, depth int, params treeParams, totalSamples int) *treeNode {
	mean, sse := meanAndSSE(y, indices)

	if depth >= params.maxDepth || len(indices) < params.minSamplesSplit || sse == 0 {
		return &treeNode{leaf: true, value: mean}
	}

	feature, threshold, gain, left, right := bestSplit(X, y, indices, sse)
	if gain <= 0 || len(left) == 0 || len(right) == 0 {
		return &treeNode{leaf: true, value: mean}
	}

	t.importances[feature] += gain * float64(len(indices)) / float64(totalSamples)

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      t.grow(X, y, left, depth+1, params, totalSamples),
		right:     t.grow(X, y, right, depth+1, params, totalSamples),
	}
}

// bestSplit scans every feature and candidate threshold for the split with
// the largest SSE reduction. Candidate thresholds are midpoints between
// consecutive distinct feature values, evaluated with a single sorted
// prefix-sum sweep per feature. Ties resolve to the first (lowest feature
// index, lowest threshold) candidate, keeping tree growth deterministic.
func bestSplit(X [][]float64, y []float64, indices []int, parentSSE float64) (feature int, threshold, gain float64, left, right []int) {
	feature = -1
	n := len(indices)

	order := make([]int, n)
	for f := 0; f < featureCount(X); f++ {
		copy(order, indices)
		sort.SliceStable(order, func(a, b int) bool {
			return X[order[a]][f] < X[order[b]][f]
		})

		// Prefix sweep: evaluate the SSE of the two halves after each
		// prefix of the sorted rows.
		var sumL, sumSqL float64
		sumR, sumSqR := 0.0, 0.0
		for _, idx := range order {
			sumR += y[idx]
			sumSqR += y[idx] * y[idx]
		}

		for i := 0; i < n-1; i++ {
			v := y[order[i]]
			sumL += v
			sumSqL += v * v
			sumR -= v
			sumSqR -= v * v

			cur, next := X[order[i]][f], X[order[i+1]][f]
			if cur == next {
				continue // no threshold separates equal values
			}

			nL, nR := float64(i+1), float64(n-i-1)
			sseL := sumSqL - sumL*sumL/nL
			sseR := sumSqR - sumR*sumR/nR
			g := parentSSE - sseL - sseR
			if g > gain {
				gain = g
				feature = f
				threshold = (cur + next) / 2
			}
		}
	}

	if feature < 0 {
		return -1, 0, 0, nil, nil
	}

	for _, idx := range indices {
		if X[idx][feature] <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}
	return feature, threshold, gain, left, right
}

// predict walks the tree for one feature vector.
func (t *regressionTree) predict(x []float64) float64 {
	node := t.root
	for !node.leaf {
		if x[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}

// meanAndSSE computes the mean and sum of squared errors of y over the
// given rows.
func meanAndSSE(y []float64, indices []int) (mean, sse float64) {
	if len(indices) == 0 {
		return 0, 0
	}
	for _, idx := range indices {
		mean += y[idx]
	}
	mean /= float64(len(indices))
	for _, idx := range indices {
		d := y[idx] - mean
		sse += d * d
	}
	if sse < 0 || math.IsNaN(sse) {
		sse = 0
	}
	return mean, sse
}
