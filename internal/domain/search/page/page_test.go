package page

import (
	"slices"
	"testing"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		n, size, want int
	}{
		{0, 6, 0},
		{1, 6, 1},
		{6, 6, 1},
		{7, 6, 2},
		{8, 3, 3},
		{5, 0, 0},
	}
	for _, tc := range tests {
		if got := TotalPages(tc.n, tc.size); got != tc.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tc.n, tc.size, got, tc.want)
		}
	}
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	if got := Slice(items, 3, 1); !slices.Equal(got, []int{1, 2, 3}) {
		t.Errorf("page 1 = %v", got)
	}
	if got := Slice(items, 3, 3); !slices.Equal(got, []int{7, 8}) {
		t.Errorf("page 3 = %v", got)
	}
	if got := Slice(items, 3, 4); len(got) != 0 {
		t.Errorf("page 4 = %v, want empty", got)
	}
	if got := Slice(items, 3, 0); len(got) != 0 {
		t.Errorf("page 0 = %v, want empty", got)
	}
}

func TestSlice_PagesReconstructInput(t *testing.T) {
	for n := 0; n <= 13; n++ {
		items := make([]int, n)
		for i := range items {
			items[i] = i
		}
		for size := 1; size <= 7; size++ {
			var joined []int
			for p := 1; p <= TotalPages(n, size); p++ {
				part := Slice(items, size, p)
				if len(part) == 0 || len(part) > size {
					t.Fatalf("n=%d size=%d page %d has %d items", n, size, p, len(part))
				}
				joined = append(joined, part...)
			}
			if !slices.Equal(joined, items) {
				t.Fatalf("n=%d size=%d: pages join to %v", n, size, joined)
			}
		}
	}
}

func TestPager_Goto(t *testing.T) {
	p := NewPager(3)
	if p.Current() != 1 || p.Total() != 3 {
		t.Fatalf("unexpected pager %+v", p)
	}
	if !p.Goto(3) || p.Current() != 3 {
		t.Errorf("Goto(3) should move, current=%d", p.Current())
	}
	for _, n := range []int{0, -1, 4} {
		if p.Goto(n) {
			t.Errorf("Goto(%d) should be ignored", n)
		}
		if p.Current() != 3 {
			t.Errorf("current changed to %d after Goto(%d)", p.Current(), n)
		}
	}
}

func TestPager_EmptyResultStaysOnFirstPage(t *testing.T) {
	p := NewPager(0)
	if p.Goto(1) {
		t.Error("Goto(1) on empty set should be ignored")
	}
	if p.Current() != 1 {
		t.Errorf("current = %d, want 1", p.Current())
	}
}
