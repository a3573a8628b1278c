package pagination

import (
	"math/rand"
	"testing"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		pageSize int
		want     []Window
	}{
		{
			name:     "two full pages plus remainder",
			total:    250,
			pageSize: 100,
			want:     []Window{{0, 100}, {100, 100}, {200, 50}},
		},
		{
			name:     "exact multiple has no trailing window",
			total:    200,
			pageSize: 100,
			want:     []Window{{0, 100}, {100, 100}},
		},
		{
			name:     "less than one page",
			total:    10,
			pageSize: 100,
			want:     []Window{{0, 10}},
		},
		{
			name:     "zero total",
			total:    0,
			pageSize: 100,
			want:     nil,
		},
		{
			name:     "negative total",
			total:    -5,
			pageSize: 100,
			want:     nil,
		},
		{
			name:     "invalid page size",
			total:    10,
			pageSize: 0,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Plan(tt.total, tt.pageSize)
			if len(got) != len(tt.want) {
				t.Fatalf("Plan(%d, %d) = %v, want %v", tt.total, tt.pageSize, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("window[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// TestPlan_Invariants checks contiguity, exact cover and no zero-length
// windows over a sweep of random inputs.
func TestPlan_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 2000; i++ {
		total := rng.Intn(1500)
		pageSize := rng.Intn(150) + 1

		plan := Plan(total, pageSize)

		next := 0
		for j, w := range plan {
			if w.Count <= 0 {
				t.Fatalf("Plan(%d, %d): zero-length window at %d", total, pageSize, j)
			}
			if w.Count > pageSize {
				t.Fatalf("Plan(%d, %d): window %d larger than page size", total, pageSize, j)
			}
			if w.Offset != next {
				t.Fatalf("Plan(%d, %d): window %d starts at %d, want %d", total, pageSize, j, w.Offset, next)
			}
			if j < len(plan)-1 && w.Count != pageSize {
				t.Fatalf("Plan(%d, %d): only the last window may be short", total, pageSize)
			}
			next = w.End()
		}
		if next != total || Total(plan) != total {
			t.Fatalf("Plan(%d, %d) covers [0,%d), want [0,%d)", total, pageSize, next, total)
		}
	}
}
