package learn

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// Fold is one train/test partition of row indices, both ascending.
type Fold struct {
	Train []int
	Test  []int
}

// KFold shuffles 0..n-1 with seed and deals it into k folds. The first n%k
// folds hold one extra row.
func KFold(n, k int, seed uint64) ([]Fold, error) {
	if k < 2 || k > n {
		return nil, fmt.Errorf("kfold: need 2 <= k <= n, got k=%d n=%d", k, n)
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	perm := rng.Perm(n)
	folds := make([]Fold, k)
	start := 0
	for f := range folds {
		size := n / k
		if f < n%k {
			size++
		}
		test := slices.Clone(perm[start : start+size])
		slices.Sort(test)
		inTest := make(map[int]bool, len(test))
		for _, i := range test {
			inTest[i] = true
		}
		train := make([]int, 0, n-size)
		for i := 0; i < n; i++ {
			if !inTest[i] {
				train = append(train, i)
			}
		}
		folds[f] = Fold{Train: train, Test: test}
		start += size
	}
	return folds, nil
}
