package forest

import (
	"math/rand"
)

// forest is a bagged ensemble of regression trees. All randomness comes
// from the seed handed to growForest, so identical inputs grow identical
// forests.
type forest struct {
	trees []*regressionTree
}

// growForest builds treeCount trees, each on its own bootstrap sample.
// Tree i draws from a generator seeded with seed+i, so the ensemble is
// reproducible regardless of build order.
func growForest(X [][]float64, y []float64, treeCount int, params treeParams, seed int64) *forest {
	f := &forest{trees: make([]*regressionTree, treeCount)}
	n := len(X)

	for i := 0; i < treeCount; i++ {
		rng := rand.New(rand.NewSource(seed + int64(i)))
		sample := make([]int, n)
		for j := range sample {
			sample[j] = rng.Intn(n)
		}
		f.trees[i] = growTree(X, y, sample, params)
	}

	return f
}

// predict averages the per-tree predictions for one feature vector.
func (f *forest) predict(x []float64) float64 {
	sum := 0.0
	for _, tree := range f.trees {
		sum += tree.predict(x)
	}
	return sum / float64(len(f.trees))
}

// featureImportances averages the per-tree normalized impurity decreases.
// Trees that made no informative split contribute nothing. The result sums
// to 1 unless no tree split at all, in which case it is all zeros.
func (f *forest) featureImportances(featureCount int) []float64 {
	total := make([]float64, featureCount)
	informative := 0

	for _, tree := range f.trees {
		treeSum := 0.0
		for _, v := range tree.importances {
			treeSum += v
		}
		if treeSum <= 0 {
			continue
		}
		informative++
		for i, v := range tree.importances {
			total[i] += v / treeSum
		}
	}

	if informative == 0 {
		return total
	}
	for i := range total {
		total[i] /= float64(informative)
	}
	return total
}

// shuffledIndices returns 0..n-1 permuted by a generator seeded with seed.
func shuffledIndices(n int, seed int64) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(n, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
	return indices
}
