package cluster

import (
	"testing"
)

func TestWardCut_Empty(t *testing.T) {
	ids, err := WardCut(nil, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids != nil {
		t.Errorf("expected nil assignment for empty input, got %v", ids)
	}
}

func TestWardCut_Single(t *testing.T) {
	ids, err := WardCut([][]float32{{1, 2, 3}}, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 1 || ids[0] != 1 {
		t.Errorf("single vector should land in cluster 1, got %v", ids)
	}
}

func TestWardCut_DimensionMismatch(t *testing.T) {
	_, err := WardCut([][]float32{{1, 2}, {1, 2, 3}}, 1.0)
	if err == nil {
		t.Fatal("expected error for mismatched dimensions")
	}
}

func TestWardCut_TwoNearOneFar(t *testing.T) {
	// A and B are 0.1 apart, C is far from both; cutting at 1.0 must give
	// {A,B} and {C}.
	vectors := [][]float32{
		{0, 0},
		{0, 0.1},
		{5, 5},
	}
	ids, err := WardCut(vectors, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids[0] != ids[1] {
		t.Errorf("A and B should share a cluster, got %v", ids)
	}
	if ids[2] == ids[0] {
		t.Errorf("C should be separate, got %v", ids)
	}
	if got := distinct(ids); got != 2 {
		t.Errorf("expected 2 clusters, got %d (%v)", got, ids)
	}
}

func TestWardCut_IdenticalVectors(t *testing.T) {
	vectors := [][]float32{
		{1, 1, 1},
		{1, 1, 1},
		{1, 1, 1},
	}
	ids, err := WardCut(vectors, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids[0] != ids[1] || ids[1] != ids[2] {
		t.Errorf("identical vectors merge at distance zero, got %v", ids)
	}
}

func TestWardCut_DeterministicPartition(t *testing.T) {
	vectors := [][]float32{
		{0.1, 0.2}, {0.15, 0.22}, {3, 3}, {3.1, 2.9}, {-4, 1}, {0.12, 0.19},
	}
	first, err := WardCut(vectors, 1.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := WardCut(vectors, 1.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range first {
		for j := range first {
			if (first[i] == first[j]) != (second[i] == second[j]) {
				t.Fatalf("partitions differ between runs: %v vs %v", first, second)
			}
		}
	}
}

func TestWardCut_ThresholdMonotonicity(t *testing.T) {
	vectors := [][]float32{
		{0, 0}, {0.2, 0}, {1, 1}, {1.3, 0.9}, {5, 5}, {5.1, 4.8}, {-2, 3},
	}
	thresholds := []float64{0.1, 0.5, 1.0, 2.0, 5.0, 20.0}
	prev := len(vectors) + 1
	for _, th := range thresholds {
		ids, err := WardCut(vectors, th)
		if err != nil {
			t.Fatalf("threshold %v: unexpected error: %v", th, err)
		}
		got := distinct(ids)
		if got > prev {
			t.Errorf("cluster count rose from %d to %d when threshold grew to %v", prev, got, th)
		}
		prev = got
	}
	// A generous threshold collapses everything.
	ids, err := WardCut(vectors, 1e6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if distinct(ids) != 1 {
		t.Errorf("expected a single cluster at a huge threshold, got %v", ids)
	}
}

func TestWardCut_IDsStartAtOneInInputOrder(t *testing.T) {
	vectors := [][]float32{
		{0, 0}, {9, 9}, {0, 0.05},
	}
	ids, err := WardCut(vectors, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids[0] != 1 {
		t.Errorf("first vector should open cluster 1, got %v", ids)
	}
	if ids[1] != 2 {
		t.Errorf("first unseen cluster after it should be 2, got %v", ids)
	}
	if ids[2] != 1 {
		t.Errorf("third vector belongs with the first, got %v", ids)
	}
}

func distinct(ids []int) int {
	seen := map[int]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	return len(seen)
}
