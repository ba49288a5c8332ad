package services

import (
	"itinerary-route-service/internal/domain"
	"slices"
	"testing"
)

func TestSelectVariantsExactSize(t *testing.T) {
	for _, n := range []int{1, 3, 5, 8} {
		pool := museumPool(3 * n)

		sels, _ := SelectVariants(pool, n)
		if len(sels) != 3 {
			t.Fatalf("n=%d: got %d selections, want 3", n, len(sels))
		}

		for _, s := range sels {
			if len(s.Candidates) != n {
				t.Fatalf("n=%d strategy=%s: got %d candidates, want %d", n, s.Strategy, len(s.Candidates), n)
			}
			seen := map[string]bool{}
			for _, c := range s.Candidates {
				if seen[c.ID] {
					t.Fatalf("n=%d strategy=%s: duplicate id %s", n, s.Strategy, c.ID)
				}
				seen[c.ID] = true
			}
		}
	}
}

func TestSelectVariantsUsedSetCarriesEarlierPicks(t *testing.T) {
	n := 4
	sels, final := SelectVariants(museumPool(2*n), n)

	closest, best, furthest := sels[0], sels[1], sels[2]
	if closest.Strategy != StrategyClosest || best.Strategy != StrategyBestRated || furthest.Strategy != StrategyFurthestGood {
		t.Fatalf("strategy order = %s,%s,%s", closest.Strategy, best.Strategy, furthest.Strategy)
	}

	if len(closest.UsedBefore) != 0 {
		t.Fatalf("closest used set = %v, want empty", closest.UsedBefore)
	}
	for _, c := range closest.Candidates {
		if !best.UsedBefore.Contains(c.ID) {
			t.Fatalf("best_rated used set missing %s", c.ID)
		}
	}
	for _, prev := range [][]domain.Candidate{closest.Candidates, best.Candidates} {
		for _, c := range prev {
			if !furthest.UsedBefore.Contains(c.ID) {
				t.Fatalf("furthest_good used set missing %s", c.ID)
			}
		}
	}
	for _, s := range sels {
		for _, c := range s.Candidates {
			if !final.Contains(c.ID) {
				t.Fatalf("final used set missing %s", c.ID)
			}
		}
	}
}

func TestSelectClosest(t *testing.T) {
	pool := []domain.Candidate{
		cand("c", 4.0, 300),
		cand("a", 4.0, 100),
		cand("d", 4.0, 400),
		cand("b", 4.0, 200),
	}

	got := ids(SelectClosest(pool, 2, domain.UsedSet{}))
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("got %v, want [a b]", got)
	}
}

func TestSelectBestRatedPrefersUnused(t *testing.T) {
	pool := []domain.Candidate{
		cand("top", 5.0, 100),
		cand("second", 4.8, 200),
		cand("third", 4.5, 300),
		cand("fourth", 4.0, 400),
	}

	got := ids(SelectBestRated(pool, 2, domain.UsedSet{"top": {}}))
	if len(got) != 2 || got[0] != "second" || got[1] != "third" {
		t.Fatalf("got %v, want [second third]", got)
	}
}

func TestSelectBestRatedBackfillsFromUsed(t *testing.T) {
	pool := []domain.Candidate{
		cand("a", 5.0, 100),
		cand("b", 4.0, 200),
		cand("c", 3.0, 300),
	}
	used := domain.UsedSet{"a": {}, "b": {}}

	got := ids(SelectBestRated(pool, 3, used))
	if len(got) != 3 || got[0] != "c" {
		t.Fatalf("got %v, want c first then backfill", got)
	}
}

func TestSelectFurthestGoodSkipsNearest(t *testing.T) {
	// 6 candidates, n=2: skip the 2 nearest, take the best rated of the rest.
	pool := []domain.Candidate{
		cand("n1", 5.0, 100),
		cand("n2", 5.0, 200),
		cand("f1", 3.6, 300),
		cand("f2", 4.9, 400),
		cand("f3", 4.2, 500),
		cand("f4", 3.9, 600),
	}

	got := ids(SelectFurthestGood(pool, 2, domain.UsedSet{}))
	if len(got) != 2 || got[0] != "f2" || got[1] != "f3" {
		t.Fatalf("got %v, want [f2 f3]", got)
	}
}

func TestSelectFurthestGoodBackfill(t *testing.T) {
	// a..f sit 100m apart; n=3 skips a, b, c and the middle band is [b, c).
	pool := []domain.Candidate{
		cand("a", 4.0, 100),
		cand("b", 3.0, 200),
		cand("c", 4.5, 300),
		cand("d", 4.8, 400),
		cand("e", 4.1, 500),
		cand("f", 3.9, 600),
	}

	tests := []struct {
		name string
		used []string
		want []string
	}{
		{"far candidates suffice", nil, []string{"d", "e", "f"}},
		{"middle band in distance order", []string{"d", "e"}, []string{"f", "b", "c"}},
		{"whole pool including used", []string{"a", "d", "e", "f"}, []string{"b", "c", "a"}},
		{"middle band skips used", []string{"b", "d", "e", "f"}, []string{"c", "a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			used := domain.UsedSet{}
			for _, id := range tt.used {
				used[id] = struct{}{}
			}

			got := ids(SelectFurthestGood(pool, 3, used))
			if !slices.Equal(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyStrategyDoesNotMutateInput(t *testing.T) {
	used := domain.UsedSet{"x": {}}
	picked, next := ApplyStrategy(SelectClosest, museumPool(4), 2, used)

	if len(used) != 1 {
		t.Fatalf("input used set mutated: %v", used)
	}
	if len(next) != 3 {
		t.Fatalf("next used set size = %d, want 3", len(next))
	}
	for _, c := range picked {
		if !next.Contains(c.ID) {
			t.Fatalf("next used set missing %s", c.ID)
		}
	}
}

func TestSelectVariantsShortfall(t *testing.T) {
	sels, _ := SelectVariants(museumPool(3), 5)
	for _, s := range sels {
		if len(s.Candidates) != 3 {
			t.Fatalf("strategy=%s: got %d, want 3", s.Strategy, len(s.Candidates))
		}
	}
}
