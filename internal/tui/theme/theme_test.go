package theme

import "testing"

func TestByNameFallsBackToFlexoki(t *testing.T) {
	if got := ByName("no-such-theme"); got.Name != FlexokiDark.Name {
		t.Errorf("ByName(unknown) = %q, want %q", got.Name, FlexokiDark.Name)
	}
	if got := ByName("tokyo-night"); got.Name != "tokyo-night" {
		t.Errorf("ByName(tokyo-night) = %q", got.Name)
	}
}

func TestSetActive(t *testing.T) {
	defer SetActive(FlexokiDark.Name)

	SetActive("catppuccin-mocha")
	if Active.Name != "catppuccin-mocha" {
		t.Errorf("Active = %q, want catppuccin-mocha", Active.Name)
	}
}

func TestNamesAndValid(t *testing.T) {
	names := Names()
	if len(names) != len(All) {
		t.Fatalf("Names() returned %d names, want %d", len(names), len(All))
	}
	for _, n := range names {
		if !Valid(n) {
			t.Errorf("Valid(%q) = false", n)
		}
	}
	if Valid("solarized") {
		t.Error("Valid(solarized) = true, want false")
	}
}
