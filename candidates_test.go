package lhdiff

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestContextText(t *testing.T) {
	lines := []string{"l1", "l2", "l3", "l4", "l5", "l6"}

	tests := []struct {
		idx, window int
		want        string
	}{
		{idx: 0, window: 2, want: "l2 l3"},
		{idx: 2, window: 1, want: "l2 l4"},
		{idx: 5, window: 4, want: "l2 l3 l4 l5"},
		{idx: 3, window: 10, want: "l1 l2 l3 l5 l6"},
		{idx: 3, window: 0, want: ""},
	}

	for _, tt := range tests {
		if got := contextText(lines, tt.idx, tt.window); got != tt.want {
			t.Errorf("contextText(%d, %d) = %q, want %q", tt.idx, tt.window, got, tt.want)
		}
	}
}

func TestComputeLineFeatures(t *testing.T) {
	lines := []string{"public void method1()", "public void method2()", "int x = 5", "int y = 10"}

	got := ComputeLineFeatures(lines, NewLineSet(1, 3, 0, 9), 4)
	if len(got) != 2 {
		t.Fatalf("expected features for 2 in-range lines, got %v", got)
	}

	want := LineFeatures{
		Content: SimHash(Tokenize("int x = 5")),
		Context: SimHash(Tokenize("public void method1() public void method2() int y = 10")),
	}
	if got[3] != want {
		t.Errorf("features[3] = %+v, want %+v", got[3], want)
	}
}

func TestFingerprintSimilarity(t *testing.T) {
	a := LineFeatures{Content: 0, Context: 0}

	if got := fingerprintSimilarity(a, a); got != 1 {
		t.Errorf("identical features: got %v, want 1", got)
	}
	if got := fingerprintSimilarity(a, LineFeatures{Content: ^uint64(0), Context: ^uint64(0)}); got != 0 {
		t.Errorf("opposite features: got %v, want 0", got)
	}
	// 32 differing content bits, identical context: 0.6*0.5 + 0.4*1
	if got := fingerprintSimilarity(a, LineFeatures{Content: 0xffffffff}); got != 0.7 {
		t.Errorf("half content: got %v, want 0.7", got)
	}
}

func TestGenerateCandidates_Ranking(t *testing.T) {
	oldFeatures := map[int]LineFeatures{
		1: {Content: 0, Context: 0},
	}
	newFeatures := map[int]LineFeatures{
		7: {Content: 0x1, Context: 0},   // 1 bit off
		3: {Content: 0x3, Context: 0},   // 2 bits off
		5: {Content: 0x1, Context: 0},   // 1 bit off, ties with 7
		2: {Content: 0xff, Context: 0},  // 8 bits off
		9: {Content: 0, Context: 0xf},   // 4 context bits off
		4: {Content: 0, Context: 0},     // identical
		8: {Content: 0xf, Context: 0xf}, // 4 bits off in both
	}

	got := GenerateCandidates(oldFeatures, newFeatures, 15)
	want := CandidateSet{1: {4, 5, 7, 3, 9, 8, 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GenerateCandidates() mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateCandidates_TopK(t *testing.T) {
	oldFeatures := map[int]LineFeatures{1: {}, 2: {Content: ^uint64(0)}}
	newFeatures := map[int]LineFeatures{}
	for n := 1; n <= 20; n++ {
		newFeatures[n] = LineFeatures{Content: uint64(1) << n}
	}

	tests := []struct {
		k, want int
	}{
		{k: 15, want: 15},
		{k: 3, want: 3},
		{k: 50, want: 20},
		{k: 0, want: 0},
	}

	for _, tt := range tests {
		got := GenerateCandidates(oldFeatures, newFeatures, tt.k)
		for oldNum, cands := range got {
			if len(cands) != tt.want {
				t.Errorf("k=%d: line %d has %d candidates, want %d", tt.k, oldNum, len(cands), tt.want)
			}
		}
	}

	// All candidates tie, so they come out in line order.
	got := GenerateCandidates(oldFeatures, newFeatures, 3)
	if diff := cmp.Diff([]int{1, 2, 3}, got[1]); diff != "" {
		t.Errorf("tie order mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateCandidates_NoNewLines(t *testing.T) {
	got := GenerateCandidates(map[int]LineFeatures{1: {}, 2: {}}, nil, 15)
	if len(got) != 2 || len(got[1]) != 0 || len(got[2]) != 0 {
		t.Errorf("expected empty candidate lists, got %v", got)
	}
}
