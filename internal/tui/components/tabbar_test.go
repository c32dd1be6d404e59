package components

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTabIdxByKey(t *testing.T) {
	for i, tab := range Tabs {
		if got := TabIdxByKey(tab.Key); got != i {
			t.Errorf("TabIdxByKey(%q) = %d, want %d", tab.Key, got, i)
		}
	}
	if got := TabIdxByKey('z'); got != -1 {
		t.Errorf("TabIdxByKey('z') = %d, want -1", got)
	}
}

func TestRenderTabBarMatchesVisualWidths(t *testing.T) {
	for active := range Tabs {
		want := len(Tabs) - 1 // separators
		for i, tab := range Tabs {
			want += TabVisualWidth(tab, i == active)
		}

		out := RenderTabBar(active, want)
		if got := lipgloss.Width(out); got != want {
			t.Errorf("active=%d: tab bar width = %d, want %d", active, got, want)
		}
		if lipgloss.Height(out) != 1 {
			t.Errorf("active=%d: tab bar should be one row, got %d", active, lipgloss.Height(out))
		}
	}
}
