package viz

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)

	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected dot 1, got %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("expected dot 8, got %U", c.Grid[0][1])
	}

	c.Set(-1, 0)
	c.Set(4, 0)
	c.Set(0, 4)
	if got := c.String(); got != string([]rune{0x2801, 0x2880})+"\n" {
		t.Errorf("out of range pixels changed the canvas: %q", got)
	}

	c.Clear()
	if strings.Trim(c.String(), "⠀\n") != "" {
		t.Error("expected a blank canvas after Clear")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(4, 1)
	c.DrawLine(0, 0, 7, 0)
	for col := 0; col < 4; col++ {
		if c.Grid[0][col] != 0x2809 {
			t.Errorf("cell %d: expected dots 1 and 4, got %U", col, c.Grid[0][col])
		}
	}
}

func TestCanvasRender(t *testing.T) {
	c := NewCanvas(2, 1)
	c.SetSeries(0, 0, 1)
	c.SetSeries(2, 0, 0)

	plain := c.Render(nil)
	if plain != c.String() {
		t.Error("render without palette should match String")
	}
	coloured := c.Render([]lipgloss.Color{"#ff0000", "#00ff00"})
	if !strings.ContainsRune(coloured, 0x2801) {
		t.Error("render dropped a dot")
	}
}

func TestRender3D_BoxIsVisible(t *testing.T) {
	c := NewCanvas(30, 12)
	Render3D(c, BoxWireframe(2, 0), NewCamera())

	set := 0
	for _, row := range c.Grid {
		for _, r := range row {
			if r != blank {
				set++
			}
		}
	}
	if set == 0 {
		t.Error("expected the box to cover some cells")
	}
	for _, row := range c.Grid {
		if row[0] != blank && row[len(row)-1] != blank {
			t.Error("box should not span the full canvas width")
		}
	}
}

func TestBoxWireframe_Edges(t *testing.T) {
	w := BoxWireframe(2, 3)
	if len(w.Edges) != 12 {
		t.Fatalf("expected 12 edges, got %d", len(w.Edges))
	}
	for _, e := range w.Edges {
		d := r3.Sub(e.End, e.Start)
		if r3.Norm(d) != 2 || e.Series != 3 {
			t.Errorf("edge %v -> %v (series %d)", e.Start, e.End, e.Series)
		}
	}
}
