package tracker

import (
	"log"

	"github.com/Mailaender/eclipse.platform.swt/internal/platform"
)

// computeBounds returns the union of the rectangles, or false when there are
// none.
func computeBounds(rects []platform.Rect) (platform.Rect, bool) {
	if len(rects) == 0 {
		return platform.Rect{}, false
	}
	xMin, yMin := rects[0].X, rects[0].Y
	xMax, yMax := rects[0].X+rects[0].Width, rects[0].Y+rects[0].Height
	for _, r := range rects[1:] {
		if r.X < xMin {
			xMin = r.X
		}
		if r.Y < yMin {
			yMin = r.Y
		}
		if r.X+r.Width > xMax {
			xMax = r.X + r.Width
		}
		if r.Y+r.Height > yMax {
			yMax = r.Y + r.Height
		}
	}
	return platform.Rect{X: xMin, Y: yMin, Width: xMax - xMin, Height: yMax - yMin}, true
}

// computeProportions expresses each rectangle as percentages of the bounds.
// A degenerate bounds dimension maps every rectangle to the full extent in
// that axis so the geometry survives passing through zero size.
func computeProportions(rects []platform.Rect, bounds platform.Rect) []platform.Rect {
	result := make([]platform.Rect, len(rects))
	for i, r := range rects {
		x, width := 0, 100
		if bounds.Width != 0 {
			x = (r.X - bounds.X) * 100 / bounds.Width
			width = r.Width * 100 / bounds.Width
		}
		y, height := 0, 100
		if bounds.Height != 0 {
			y = (r.Y - bounds.Y) * 100 / bounds.Height
			height = r.Height * 100 / bounds.Height
		}
		result[i] = platform.Rect{X: x, Y: y, Width: width, Height: height}
	}
	return result
}

// moveRectangles translates the bounds and every rectangle, zeroing any delta
// component whose direction the style does not allow.
func (t *Tracker) moveRectangles(xChange, yChange int) {
	if !t.hasBounds {
		return
	}
	if xChange < 0 && t.style&Left == 0 {
		xChange = 0
	}
	if xChange > 0 && t.style&Right == 0 {
		xChange = 0
	}
	if yChange < 0 && t.style&Up == 0 {
		yChange = 0
	}
	if yChange > 0 && t.style&Down == 0 {
		yChange = 0
	}
	if xChange == 0 && yChange == 0 {
		return
	}
	t.bounds.X += xChange
	t.bounds.Y += yChange
	for i := range t.rectangles {
		t.rectangles[i].X += xChange
		t.rectangles[i].Y += yChange
	}
}

// resizeRectangles grows or shrinks the bounds by the delta and rebuilds the
// rectangles from their proportions. A delta that would take a dimension
// negative collapses it to zero, flips the controlled edge to the opposite
// side, and mirrors the proportions so the shapes track the crossing.
func (t *Tracker) resizeRectangles(xChange, yChange int) {
	if !t.hasBounds {
		return
	}

	// Claim at most one edge per change, x before y, unless the opposite
	// edge is already being dragged.
	if xChange < 0 && t.style&Left != 0 && t.orientation&Right == 0 {
		t.orientation |= Left
	} else if xChange > 0 && t.style&Right != 0 && t.orientation&Left == 0 {
		t.orientation |= Right
	} else if yChange < 0 && t.style&Up != 0 && t.orientation&Down == 0 {
		t.orientation |= Up
	} else if yChange > 0 && t.style&Down != 0 && t.orientation&Up == 0 {
		t.orientation |= Down
	}

	if t.orientation&Left != 0 {
		if xChange > t.bounds.Width {
			if t.style&Right == 0 {
				return
			}
			t.orientation |= Right
			t.orientation &^= Left
			t.bounds.X += t.bounds.Width
			xChange -= t.bounds.Width
			t.bounds.Width = 0
			t.mirrorProportionsX()
		}
	} else if t.orientation&Right != 0 {
		if t.bounds.Width < -xChange {
			if t.style&Left == 0 {
				return
			}
			t.orientation |= Left
			t.orientation &^= Right
			xChange += t.bounds.Width
			t.bounds.Width = 0
			t.mirrorProportionsX()
		}
	}
	if t.orientation&Up != 0 {
		if yChange > t.bounds.Height {
			if t.style&Down == 0 {
				return
			}
			t.orientation |= Down
			t.orientation &^= Up
			t.bounds.Y += t.bounds.Height
			yChange -= t.bounds.Height
			t.bounds.Height = 0
			t.mirrorProportionsY()
		}
	} else if t.orientation&Down != 0 {
		if t.bounds.Height < -yChange {
			if t.style&Up == 0 {
				return
			}
			t.orientation |= Up
			t.orientation &^= Down
			yChange += t.bounds.Height
			t.bounds.Height = 0
			t.mirrorProportionsY()
		}
	}

	if t.orientation&Left != 0 {
		t.bounds.X += xChange
		t.bounds.Width -= xChange
	} else if t.orientation&Right != 0 {
		t.bounds.Width += xChange
	}
	if t.orientation&Up != 0 {
		t.bounds.Y += yChange
		t.bounds.Height -= yChange
	} else if t.orientation&Down != 0 {
		t.bounds.Height += yChange
	}

	newRects := make([]platform.Rect, len(t.rectangles))
	for i, p := range t.proportions {
		newRects[i] = platform.Rect{
			X:      p.X*t.bounds.Width/100 + t.bounds.X,
			Y:      p.Y*t.bounds.Height/100 + t.bounds.Y,
			Width:  p.Width * t.bounds.Width / 100,
			Height: p.Height * t.bounds.Height / 100,
		}
	}
	t.rectangles = newRects
}

// A single rectangle's proportion is always the full extent, so mirroring it
// is the identity and is skipped.
const fullExtent = 100

func (t *Tracker) mirrorProportionsX() {
	if len(t.proportions) == 1 {
		p := t.proportions[0]
		if p.X != 0 || p.Width != fullExtent {
			log.Printf("tracker: single rectangle proportion not full extent: %+v", p)
		}
		return
	}
	for i := range t.proportions {
		t.proportions[i].X = 100 - t.proportions[i].X - t.proportions[i].Width
	}
}

func (t *Tracker) mirrorProportionsY() {
	if len(t.proportions) == 1 {
		p := t.proportions[0]
		if p.Y != 0 || p.Height != fullExtent {
			log.Printf("tracker: single rectangle proportion not full extent: %+v", p)
		}
		return
	}
	for i := range t.proportions {
		t.proportions[i].Y = 100 - t.proportions[i].Y - t.proportions[i].Height
	}
}
