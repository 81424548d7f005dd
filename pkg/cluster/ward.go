// Package cluster implements hierarchical agglomerative clustering with
// Ward (minimum variance) linkage on Euclidean distance, and a flat cut of
// the resulting dendrogram by distance threshold.
package cluster

import (
	"fmt"
	"math"
)

// WardCut clusters the given vectors and returns a 1-based cluster id per
// vector. Two vectors share a cluster id exactly when every merge joining
// them happened at a linkage distance at or below threshold. Ids are
// assigned in order of first appearance over the input, so the partition is
// deterministic for a fixed input; the numbering carries no meaning across
// different inputs.
//
// An empty input yields a nil slice. All vectors must share the same
// non-zero dimensionality.
func WardCut(vectors [][]float32, threshold float64) ([]int, error) {
	n := len(vectors)
	if n == 0 {
		return nil, nil
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("vector 0 has zero dimension")
	}
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d has dimension %d, want %d", i, len(v), dim)
		}
	}
	if n == 1 {
		return []int{1}, nil
	}

	pts := make([][]float64, n)
	for i, v := range vectors {
		pts[i] = make([]float64, dim)
		for j, f := range v {
			pts[i][j] = float64(f)
		}
	}

	// Pairwise Euclidean distances between the initial singletons. Slot i
	// holds the cluster that absorbed everything merged into it; merged-away
	// slots go inactive.
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := euclidean(pts[i], pts[j])
			dist[i][j] = d
			dist[j][i] = d
		}
	}

	active := make([]bool, n)
	size := make([]int, n)
	for i := range active {
		active[i] = true
		size[i] = 1
	}

	type merge struct {
		a, b   int
		height float64
	}
	merges := make([]merge, 0, n-1)

	for step := 0; step < n-1; step++ {
		// Closest active pair, lowest indices on ties.
		bi, bj := -1, -1
		best := math.Inf(1)
		for i := 0; i < n; i++ {
			if !active[i] {
				continue
			}
			for j := i + 1; j < n; j++ {
				if !active[j] {
					continue
				}
				if dist[i][j] < best {
					best = dist[i][j]
					bi, bj = i, j
				}
			}
		}

		merges = append(merges, merge{a: bi, b: bj, height: best})

		// Lance-Williams update for Ward linkage: the merged cluster lives
		// in slot bi, slot bj goes inactive.
		ni := float64(size[bi])
		nj := float64(size[bj])
		dij := dist[bi][bj]
		for k := 0; k < n; k++ {
			if !active[k] || k == bi || k == bj {
				continue
			}
			nk := float64(size[k])
			dik := dist[bi][k]
			djk := dist[bj][k]
			d2 := ((ni+nk)*dik*dik + (nj+nk)*djk*djk - nk*dij*dij) / (ni + nj + nk)
			if d2 < 0 {
				d2 = 0
			}
			d := math.Sqrt(d2)
			dist[bi][k] = d
			dist[k][bi] = d
		}
		size[bi] += size[bj]
		active[bj] = false
	}

	// Flat cut: union every merge at or below the threshold.
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	for _, m := range merges {
		if m.height <= threshold {
			ra, rb := find(m.a), find(m.b)
			if ra != rb {
				parent[rb] = ra
			}
		}
	}

	ids := make([]int, n)
	next := 1
	numbered := make(map[int]int, n)
	for i := 0; i < n; i++ {
		root := find(i)
		id, ok := numbered[root]
		if !ok {
			id = next
			numbered[root] = id
			next++
		}
		ids[i] = id
	}
	return ids, nil
}

func euclidean(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return math.Sqrt(s)
}
