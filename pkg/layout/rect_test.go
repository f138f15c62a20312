package layout

import (
	"encoding/json"
	"testing"
)

func TestMainAxis(t *testing.T) {
	tests := []struct {
		width, height int
		want          Axis
	}{
		{10, 20, AxisWidth},
		{20, 10, AxisHeight},
		{10, 10, AxisWidth}, // ties favour width
		{4, 1, AxisHeight},
	}

	for _, tt := range tests {
		if got := MainAxis(tt.width, tt.height); got != tt.want {
			t.Errorf("MainAxis(%d, %d) = %v, want %v", tt.width, tt.height, got, tt.want)
		}
	}
}

func TestAxisOther(t *testing.T) {
	if AxisWidth.Other() != AxisHeight || AxisHeight.Other() != AxisWidth {
		t.Error("Other() should swap width and height")
	}
}

func TestAxisJSON(t *testing.T) {
	data, err := json.Marshal(Rect{Width: 3, Height: 1, Main: AxisHeight})
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	want := `{"x":0,"y":0,"width":3,"height":1,"main":"height"}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var r Rect
	if err := json.Unmarshal(data, &r); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if r.Main != AxisHeight {
		t.Errorf("Main = %v, want height", r.Main)
	}

	if err := json.Unmarshal([]byte(`{"main":"depth"}`), &r); err == nil {
		t.Error("unknown axis should fail to decode")
	}
}

func TestRectContains(t *testing.T) {
	parent := Rect{X: 10, Y: 10, Width: 20, Height: 10}
	tests := []struct {
		name  string
		child Rect
		want  bool
	}{
		{"same", parent, true},
		{"inside", Rect{X: 12, Y: 12, Width: 5, Height: 5}, true},
		{"touching far edge", Rect{X: 25, Y: 15, Width: 5, Height: 5}, true},
		{"left of parent", Rect{X: 9, Y: 12, Width: 5, Height: 5}, false},
		{"past bottom", Rect{X: 12, Y: 16, Width: 5, Height: 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parent.Contains(tt.child); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.child, got, tt.want)
			}
		})
	}
}

func TestRectTranslate(t *testing.T) {
	r := Rect{X: 1, Y: 2, Width: 3, Height: 4, Main: AxisHeight}.Translate(10, 20)
	want := Rect{X: 11, Y: 22, Width: 3, Height: 4, Main: AxisHeight}
	if r != want {
		t.Errorf("Translate = %v, want %v", r, want)
	}
	if r.Right() != 14 || r.Bottom() != 26 {
		t.Errorf("Right/Bottom = %d/%d, want 14/26", r.Right(), r.Bottom())
	}
}

func TestFrameShrink(t *testing.T) {
	f := frame{w: 10, h: 10}
	if got := f.shrink(AxisHeight, 3); got != (frame{x: 0, y: 3, w: 10, h: 7}) {
		t.Errorf("shrink(height, 3) = %+v", got)
	}
	if got := f.shrink(AxisWidth, 4); got != (frame{x: 4, y: 0, w: 6, h: 10}) {
		t.Errorf("shrink(width, 4) = %+v", got)
	}
}
