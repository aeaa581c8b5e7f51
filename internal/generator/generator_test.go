package generator

import "testing"

func TestPickEmpty(t *testing.T) {
	p := NewWithSeed(1)
	if got := p.Pick(nil); got != "" {
		t.Fatalf("expected empty pick, got %q", got)
	}
	if got := p.PickWeighted(nil, map[string]struct{}{"alif": {}}, 3); got != "" {
		t.Fatalf("expected empty weighted pick, got %q", got)
	}
}

func TestPickWeightedFavorsWeak(t *testing.T) {
	p := NewWithSeed(42)
	ids := []string{"alif", "ba", "ta", "tha"}
	weak := map[string]struct{}{"ta": {}}
	counts := map[string]int{}
	for i := 0; i < 4000; i++ {
		counts[p.PickWeighted(ids, weak, 9)]++
	}
	// ta carries weight 10 of a total 13.
	if counts["ta"] < 2500 {
		t.Fatalf("expected weak letter to dominate, got %v", counts)
	}
	for _, id := range ids {
		if counts[id] == 0 {
			t.Fatalf("expected every id to be picked at least once, got %v", counts)
		}
	}
}

func TestPickOtherAvoidsCurrent(t *testing.T) {
	p := NewWithSeed(7)
	ids := []string{"alif", "ba"}
	for i := 0; i < 50; i++ {
		if got := p.PickOther(ids, "alif", nil, 0); got != "ba" {
			t.Fatalf("expected ba, got %q", got)
		}
	}
	if got := p.PickOther([]string{"alif"}, "alif", nil, 0); got != "alif" {
		t.Fatalf("expected single id to be returned, got %q", got)
	}
}
