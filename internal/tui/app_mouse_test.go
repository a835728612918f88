package tui

import (
	"testing"

	"github.com/theirongolddev/brewburn/internal/tui/components"
)

func TestTabAtXMatchesTabWidths(t *testing.T) {
	a := App{}
	pos := 0
	for i, tab := range components.Tabs {
		w := len(tab.Name) + 2 // one column of padding each side
		if got := a.tabAtX(pos + w/2); got != i {
			t.Fatalf("x=%d -> tab=%d, want %d", pos+w/2, got, i)
		}
		if got := a.tabAtX(pos + w); i < len(components.Tabs)-1 && got != -1 {
			t.Fatalf("separator at x=%d -> tab=%d, want -1", pos+w, got)
		}
		pos += w + 1
	}
	if got := a.tabAtX(pos + 5); got != -1 {
		t.Fatalf("x past last tab -> %d, want -1", got)
	}
}
