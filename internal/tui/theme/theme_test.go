package theme

import "testing"

func TestByNameFallsBackToDefault(t *testing.T) {
	if got := ByName("no-such-theme"); got.Name != FlexokiDark.Name {
		t.Fatalf("ByName(unknown) = %q, want %q", got.Name, FlexokiDark.Name)
	}
	if got := ByName("tokyo-night"); got.Name != "tokyo-night" {
		t.Fatalf("ByName(tokyo-night) = %q", got.Name)
	}
}

func TestSetActive(t *testing.T) {
	defer SetActive(FlexokiDark.Name)

	SetActive("terminal")
	if Active.Name != "terminal" {
		t.Fatalf("Active = %q, want terminal", Active.Name)
	}
}

func TestNamesMatchesAll(t *testing.T) {
	names := Names()
	if len(names) != len(All) {
		t.Fatalf("len(Names) = %d, want %d", len(names), len(All))
	}
	for i, n := range names {
		if n != All[i].Name {
			t.Fatalf("Names[%d] = %q, want %q", i, n, All[i].Name)
		}
	}
}
