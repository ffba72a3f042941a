package docs

import (
	"slices"
	"testing"
)

func TestTopicsAndGet(t *testing.T) {
	topics := Topics()
	for _, want := range []string{"config", "filters", "map", "stores"} {
		if !slices.Contains(topics, want) {
			t.Fatalf("expected topic %q in %v", want, topics)
		}
	}
	if _, ok := Get(" Filters "); !ok {
		t.Fatalf("expected topic lookup to ignore case and space")
	}
	if _, ok := Get("nope"); ok {
		t.Fatalf("expected unknown topic to miss")
	}
	if got := Title("stores"); got != "Storage backends" {
		t.Fatalf("unexpected title %q", got)
	}
}
