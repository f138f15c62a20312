package layout

// Squarify lays out volumes (integer pixel areas, normally produced by
// [Allocate]) inside a width×height container and returns one rectangle per
// volume, in input order.
//
// Volumes are consumed in a single pass without sorting or backtracking.
// The result is only meaningful when the volumes sum to at most
// width*height; Squarify does not validate its input.
func Squarify(width, height int, volumes []int) []Rect {
	if len(volumes) == 0 {
		return nil
	}

	rects := make([]Rect, 0, len(volumes))
	f := frame{w: width, h: height}
	s := openStrip(f, volumes[0])

	for _, v := range volumes[1:] {
		if r := aspectRatio(v, f.dim(s.main)); r < s.ratio {
			s.add(v, r)
			continue
		}
		var placed []Rect
		placed, f = s.close(f)
		rects = append(rects, placed...)
		s = openStrip(f, v)
	}

	placed, _ := s.close(f)
	snapToCorner(&placed[len(placed)-1], f)
	return append(rects, placed...)
}

// strip is the run of volumes currently being packed along one main axis.
type strip struct {
	main    Axis
	volumes []int
	total   int
	ratio   float64
}

func openStrip(f frame, v int) strip {
	main := f.main()
	return strip{
		main:    main,
		volumes: []int{v},
		total:   v,
		ratio:   aspectRatio(v, f.dim(main)),
	}
}

func (s *strip) add(v int, ratio float64) {
	s.volumes = append(s.volumes, v)
	s.total += v
	s.ratio = ratio
}

// close emits the strip's rectangles at the leading edge of f and returns
// them together with the frame that remains for the following strips.
func (s strip) close(f frame) ([]Rect, frame) {
	breadth := 0.0
	if l := f.dim(s.main); l > 0 {
		breadth = float64(s.total) / float64(l)
	}
	b := int(breadth)

	rects := make([]Rect, len(s.volumes))
	offset := 0
	for i, v := range s.volumes {
		extent := 0
		if breadth > 0 {
			extent = int(float64(v) / breadth)
		}
		r := Rect{Main: s.main}
		if s.main == AxisWidth {
			r.X, r.Y, r.Width, r.Height = f.x+offset, f.y, extent, b
		} else {
			r.X, r.Y, r.Width, r.Height = f.x, f.y+offset, b, extent
		}
		rects[i] = r
		offset += extent
	}
	return rects, f.shrink(s.main.Other(), b)
}

// aspectRatio is the single-item squareness proxy main / (v / main). A zero
// volume yields +Inf, which never improves a strip.
func aspectRatio(v, main int) float64 {
	m := float64(main)
	return m * m / float64(v)
}

// snapToCorner stretches r so that its far corner coincides with f's.
func snapToCorner(r *Rect, f frame) {
	r.Width = max(0, f.x+f.w-r.X)
	r.Height = max(0, f.y+f.h-r.Y)
}
