package layout

import (
	"math/rand/v2"
	"reflect"
	"testing"
)

func TestSquarify(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		volumes       []int
		want          []Rect
	}{
		{
			name:    "single volume fills container",
			width:   10,
			height:  10,
			volumes: []int{100},
			want:    []Rect{{X: 0, Y: 0, Width: 10, Height: 10, Main: AxisWidth}},
		},
		{
			name:    "two equal volumes halve a square",
			width:   10,
			height:  10,
			volumes: []int{50, 50},
			want: []Rect{
				{X: 0, Y: 0, Width: 10, Height: 5, Main: AxisWidth},
				{X: 0, Y: 5, Width: 10, Height: 5, Main: AxisHeight},
			},
		},
		{
			name:    "wide container packs columns",
			width:   4,
			height:  1,
			volumes: []int{3, 1},
			want: []Rect{
				{X: 0, Y: 0, Width: 3, Height: 1, Main: AxisHeight},
				{X: 3, Y: 0, Width: 1, Height: 1, Main: AxisWidth},
			},
		},
		{
			name:    "improving volume joins the strip and last item snaps",
			width:   10,
			height:  10,
			volumes: []int{33, 33, 34},
			want: []Rect{
				{X: 0, Y: 0, Width: 10, Height: 3, Main: AxisWidth},
				{X: 0, Y: 3, Width: 9, Height: 3, Main: AxisHeight},
				{X: 0, Y: 6, Width: 10, Height: 4, Main: AxisHeight},
			},
		},
		{
			name:    "trailing zero volume",
			width:   10,
			height:  10,
			volumes: []int{100, 0},
			want: []Rect{
				{X: 0, Y: 0, Width: 10, Height: 10, Main: AxisWidth},
				{X: 0, Y: 10, Width: 10, Height: 0, Main: AxisHeight},
			},
		},
		{
			name:    "leading zero volume",
			width:   10,
			height:  10,
			volumes: []int{0, 100},
			want: []Rect{
				{X: 0, Y: 0, Width: 0, Height: 10, Main: AxisWidth},
				{X: 0, Y: 0, Width: 10, Height: 10, Main: AxisWidth},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Squarify(tt.width, tt.height, tt.volumes)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Squarify(%d, %d, %v) =\n  %v\nwant\n  %v", tt.width, tt.height, tt.volumes, got, tt.want)
			}
		})
	}
}

func TestSquarifyEmpty(t *testing.T) {
	if got := Squarify(10, 10, nil); got != nil {
		t.Errorf("Squarify(nil) = %v, want nil", got)
	}
}

func TestSquarifyAreaDrift(t *testing.T) {
	tests := []struct {
		width, height int
		volumes       []int
	}{
		{10, 10, []int{100}},
		{10, 10, []int{50, 50}},
		{4, 1, []int{3, 1}},
		{10, 10, []int{33, 33, 34}},
	}

	for _, tt := range tests {
		rects := Squarify(tt.width, tt.height, tt.volumes)
		total := 0
		for _, r := range rects {
			total += r.Area()
		}
		container := tt.width * tt.height
		if drift := container - total; drift < 0 || drift > len(tt.volumes) {
			t.Errorf("Squarify(%d, %d, %v) area drift = %d, want within [0, %d]",
				tt.width, tt.height, tt.volumes, drift, len(tt.volumes))
		}
	}
}

func TestSquarifyDoesNotReorder(t *testing.T) {
	// Small before large: the classical algorithm would sort, this one must not.
	rects := Squarify(10, 10, []int{10, 90})
	if rects[0].Area() >= rects[1].Area() {
		t.Errorf("first rect area %d should stay smaller than second %d", rects[0].Area(), rects[1].Area())
	}
	if rects[0].X != 0 || rects[0].Y != 0 {
		t.Errorf("first volume should be placed at the origin, got %v", rects[0])
	}
}

// TestSquarifyInvariants checks structural guarantees over random inputs
// produced the way callers produce them: weights scaled by Allocate.
func TestSquarifyInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))

	for iter := 0; iter < 500; iter++ {
		width := 1 + rng.IntN(400)
		height := 1 + rng.IntN(400)
		n := 1 + rng.IntN(20)
		weights := make([]int, n)
		for i := range weights {
			weights[i] = rng.IntN(100)
		}
		weights[rng.IntN(n)] += 1 // at least one positive weight

		areas, err := Allocate(width*height, weights)
		if err != nil {
			t.Fatalf("Allocate(%d, %v) error: %v", width*height, weights, err)
		}
		rects := Squarify(width, height, areas)
		container := Rect{Width: width, Height: height}

		if len(rects) != n {
			t.Fatalf("got %d rects for %d volumes", len(rects), n)
		}

		total := 0
		for i, r := range rects {
			if r.Width < 0 || r.Height < 0 {
				t.Fatalf("rect %d has negative size: %v (canvas %dx%d, areas %v)", i, r, width, height, areas)
			}
			if !container.Contains(r) {
				t.Fatalf("rect %d %v escapes %dx%d canvas (areas %v)", i, r, width, height, areas)
			}
			total += r.Area()
		}
		if total > width*height {
			t.Fatalf("total area %d exceeds canvas %d (areas %v)", total, width*height, areas)
		}

		for i := range rects {
			for j := i + 1; j < len(rects); j++ {
				if overlaps(rects[i], rects[j]) {
					t.Fatalf("rects %d %v and %d %v overlap (canvas %dx%d, areas %v)",
						i, rects[i], j, rects[j], width, height, areas)
				}
			}
		}
	}
}

func TestSquarifyDeterministic(t *testing.T) {
	volumes := []int{500, 300, 120, 80}
	a := Squarify(40, 25, volumes)
	b := Squarify(40, 25, volumes)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Squarify is not deterministic: %v vs %v", a, b)
	}
}

func TestAspectRatio(t *testing.T) {
	if got := aspectRatio(25, 10); got != 4 {
		t.Errorf("aspectRatio(25, 10) = %v, want 4", got)
	}
	if got := aspectRatio(0, 10); got <= 1e300 {
		t.Errorf("aspectRatio(0, 10) = %v, want +Inf", got)
	}
}

func overlaps(a, b Rect) bool {
	if a.Empty() || b.Empty() {
		return false
	}
	return a.X < b.Right() && b.X < a.Right() && a.Y < b.Bottom() && b.Y < a.Bottom()
}
