package viz

import (
	"strings"
	"testing"
)

func TestSetTheme(t *testing.T) {
	defer SetTheme(ThemeNames()[0])

	SetTheme("ocean")
	if CurrentTheme.Name != "ocean" {
		t.Fatalf("expected ocean, got %s", CurrentTheme.Name)
	}

	SetTheme("no-such-theme")
	if CurrentTheme.Name != ThemeNames()[0] {
		t.Errorf("unknown theme should fall back to %s, got %s", ThemeNames()[0], CurrentTheme.Name)
	}
}

func TestNextTheme_Cycles(t *testing.T) {
	names := ThemeNames()
	defer SetTheme(names[0])

	SetTheme(names[0])
	for i := 1; i <= len(names); i++ {
		NextTheme()
		if want := names[i%len(names)]; CurrentTheme.Name != want {
			t.Fatalf("step %d: expected %s, got %s", i, want, CurrentTheme.Name)
		}
	}
}

func TestSeriesColor_Wraps(t *testing.T) {
	th := GetTheme("minimal")
	n := len(th.Palette)
	if th.SeriesColor(n+2) != th.Palette[2] {
		t.Errorf("series %d should reuse palette entry 2", n+2)
	}
	if (Theme{Value: "#123456"}).SeriesColor(3) != "#123456" {
		t.Error("empty palette should fall back to the value colour")
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		fraction float64
		filled   int
	}{
		{0, 0},
		{0.5, 10},
		{1, 20},
		{1.7, 20},
		{-1, 0},
	}
	for _, tt := range tests {
		bar := ProgressBar(tt.fraction, 20)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("ProgressBar(%v): %d filled cells, want %d", tt.fraction, got, tt.filled)
		}
		if got := strings.Count(bar, "█") + strings.Count(bar, "░"); got != 20 {
			t.Errorf("ProgressBar(%v): width %d, want 20", tt.fraction, got)
		}
	}
}
