package partner

import "testing"

func TestIsValidCategory(t *testing.T) {
	for _, c := range Categories() {
		if !IsValidCategory(c) {
			t.Fatalf("expected %s to be valid", c)
		}
	}
	if IsValidCategory("astrophotography") {
		t.Fatal("expected unknown category to be invalid")
	}
	if IsValidCategory("") {
		t.Fatal("expected empty category to be invalid")
	}
}

func TestProfileHasCategory(t *testing.T) {
	p := Profile{Categories: []string{"wedding", "portrait"}}

	if !p.HasCategory("wedding") {
		t.Fatal("expected wedding to be offered")
	}
	if !p.HasCategory("WEDDING") {
		t.Fatal("expected category check to be case-insensitive")
	}
	if p.HasCategory("event") {
		t.Fatal("expected event to be missing")
	}
}
