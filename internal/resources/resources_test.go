package resources

import "testing"

func TestLoad(t *testing.T) {
	all, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	counts := map[Category]int{}
	for _, r := range all {
		counts[r.Category]++
		if r.Name == "" {
			t.Errorf("resource without name: %+v", r)
		}
	}
	want := map[Category]int{CategoryCrisis: 3, CategoryMentalHealth: 6, CategorySupportGroup: 3}
	for c, n := range want {
		if counts[c] != n {
			t.Errorf("%s: got %d, want %d", c, counts[c], n)
		}
	}
	if all[0].Contact != "988" {
		t.Errorf("expected lifeline contact 988, got %q", all[0].Contact)
	}
}

func TestByCategory(t *testing.T) {
	all, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := len(ByCategory(all, "")); got != len(all) {
		t.Errorf("empty category: got %d, want %d", got, len(all))
	}
	for _, r := range ByCategory(all, CategorySupportGroup) {
		if r.Category != CategorySupportGroup {
			t.Errorf("unexpected category %s", r.Category)
		}
	}
	if got := ByCategory(all, "podcasts"); len(got) != 0 {
		t.Errorf("expected no podcasts, got %d", len(got))
	}
}

func TestParseUnknownCategory(t *testing.T) {
	_, err := Parse([]byte("- category: games\n  name: Chess club\n"))
	if err == nil {
		t.Error("expected error for unknown category")
	}
}
