package lhdiff

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestFindUnchangedLines(t *testing.T) {
	tests := []struct {
		name       string
		old, new   []string
		unchanged  map[int]int
		oldChanged []int
		newChanged []int
	}{
		{
			name:       "both empty",
			unchanged:  map[int]int{},
			oldChanged: []int{},
			newChanged: []int{},
		},
		{
			name:       "old empty",
			new:        []string{"x", "y"},
			unchanged:  map[int]int{},
			oldChanged: []int{},
			newChanged: []int{1, 2},
		},
		{
			name:       "identical",
			old:        []string{"a", "b", "c"},
			new:        []string{"a", "b", "c"},
			unchanged:  map[int]int{1: 1, 2: 2, 3: 3},
			oldChanged: []int{},
			newChanged: []int{},
		},
		{
			name:       "modified and replaced",
			old:        []string{"line1", "line2", "line3", "line4"},
			new:        []string{"line1", "modified_line2", "line3", "line5"},
			unchanged:  map[int]int{1: 1, 3: 3},
			oldChanged: []int{2, 4},
			newChanged: []int{2, 4},
		},
		{
			name:       "swap prefers advancing new",
			old:        []string{"a", "b"},
			new:        []string{"b", "a"},
			unchanged:  map[int]int{2: 1},
			oldChanged: []int{1},
			newChanged: []int{2},
		},
		{
			name:       "duplicate matches latest",
			old:        []string{"a"},
			new:        []string{"a", "a"},
			unchanged:  map[int]int{1: 2},
			oldChanged: []int{},
			newChanged: []int{1},
		},
		{
			name:       "insertion in the middle",
			old:        []string{"a", "c"},
			new:        []string{"a", "b", "c"},
			unchanged:  map[int]int{1: 1, 2: 3},
			oldChanged: []int{},
			newChanged: []int{2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindUnchangedLines(tt.old, tt.new)
			if diff := cmp.Diff(tt.unchanged, got.Unchanged); diff != "" {
				t.Errorf("Unchanged mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.oldChanged, got.OldChanged.Sorted()); diff != "" {
				t.Errorf("OldChanged mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.newChanged, got.NewChanged.Sorted()); diff != "" {
				t.Errorf("NewChanged mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMergeBlocks(t *testing.T) {
	pairs := [][2]int{{0, 0}, {1, 1}, {3, 2}, {4, 3}, {6, 6}}
	want := []matchBlock{
		{oldStart: 0, newStart: 0, size: 2},
		{oldStart: 3, newStart: 2, size: 2},
		{oldStart: 6, newStart: 6, size: 1},
	}

	got := mergeBlocks(pairs)
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(matchBlock{})); diff != "" {
		t.Errorf("mergeBlocks() mismatch (-want +got):\n%s", diff)
	}
	if got := mergeBlocks(nil); got != nil {
		t.Errorf("mergeBlocks(nil) = %v, want nil", got)
	}
}

// lcsLength is a plain DP reference for the length of the LCS.
func lcsLength(a, b []string) int {
	prev := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		cur := make([]int, len(b)+1)
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev = cur
	}
	return prev[len(b)]
}

func randomLines(r *rand.Rand, n int) []string {
	alphabet := []string{"a", "b", "c", "d", "e"}
	lines := make([]string, n)
	for i := range lines {
		lines[i] = alphabet[r.Intn(len(alphabet))]
	}
	return lines
}

func TestFindUnchangedLines_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for iter := 0; iter < 200; iter++ {
		old := randomLines(r, r.Intn(20))
		new := randomLines(r, r.Intn(20))
		got := FindUnchangedLines(old, new)

		if len(got.Unchanged) != lcsLength(old, new) {
			t.Fatalf("%v vs %v: %d unchanged, LCS length %d", old, new, len(got.Unchanged), lcsLength(old, new))
		}

		// Order preserving and equal lines only.
		lastNew := 0
		for _, o := range rangeSet(len(old)).Sorted() {
			n, ok := got.Unchanged[o]
			if !ok {
				if !got.OldChanged.Has(o) {
					t.Fatalf("old line %d neither unchanged nor changed", o)
				}
				continue
			}
			if got.OldChanged.Has(o) {
				t.Fatalf("old line %d both unchanged and changed", o)
			}
			if n <= lastNew {
				t.Fatalf("%v vs %v: mapping %d->%d breaks order", old, new, o, n)
			}
			if old[o-1] != new[n-1] {
				t.Fatalf("mapped lines differ: %q vs %q", old[o-1], new[n-1])
			}
			lastNew = n
		}

		for n := 1; n <= len(new); n++ {
			if got.NewChanged.Has(n) == containsValue(got.Unchanged, n) {
				t.Fatalf("new line %d: changed=%v", n, got.NewChanged.Has(n))
			}
		}
	}
}

func containsValue(m map[int]int, v int) bool {
	for _, x := range m {
		if x == v {
			return true
		}
	}
	return false
}

func TestNewTable_HashesDoNotChangeResult(t *testing.T) {
	old := NewFileLines([]string{"a", "  b // x", "c", "d"}, Normalize)
	new := NewFileLines([]string{"b", "a", "c", "e", "d"}, Normalize)

	plain := FindUnchangedLines(old.NormalizedLines(), new.NormalizedLines())
	hashed := findUnchanged(newTable(old.NormalizedLines(), new.NormalizedLines(), old.hashes, new.hashes))

	if diff := cmp.Diff(plain, hashed, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("hashed table mismatch (-plain +hashed):\n%s", diff)
	}
}
