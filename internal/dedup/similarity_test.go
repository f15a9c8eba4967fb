package dedup

import "testing"

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "fed cuts rates", "fed cuts rates", 1.0},
		{"both empty", "", "", 0},
		{"one empty", "fed cuts rates", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Similarity(tt.a, tt.b); got != tt.want {
				t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilarity_NearDuplicate(t *testing.T) {
	a := "fed cuts rates by 50 basis points"
	b := "fed cuts rates by 25 basis points"
	if got := Similarity(a, b); got < 0.8 {
		t.Errorf("Similarity() = %v, want >= 0.8 for near-identical headlines", got)
	}

	c := "local bakery wins county fair"
	if got := Similarity(a, c); got >= 0.8 {
		t.Errorf("Similarity() = %v, want < 0.8 for unrelated headlines", got)
	}
}

func TestSimilarity_Symmetric(t *testing.T) {
	a := "fed cuts rates by 50 basis points"
	b := "the federal reserve lowered its target"
	if Similarity(a, b) != Similarity(b, a) {
		t.Error("Similarity() not symmetric")
	}
}
