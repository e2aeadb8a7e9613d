package solver

import "math"

// Window is a parabola fitted through three equally spaced samples taken at
// local coordinates x = -1, 0, 1.
type Window struct {
	Xe float64 // x of the vertex
	Ye float64 // value at the vertex

	// Roots is the number of zero crossings with |x| <= 1 (0, 1 or 2).
	Roots int
	// X1 and X2 are the crossings, X1 <= X2. With a single root in range
	// X1 holds it.
	X1, X2 float64
}

// FitQuadratic fits y = a*x^2 + b*x + h1 through (-1, h0), (0, h1), (1, h2)
// and locates its zero crossings inside the window.
//
// See http://www.stargazing.net/kepler/moonrise.html.
func FitQuadratic(h0, h1, h2 float64) Window {
	a := (h0+h2)/2 - h1
	b := (h2 - h0) / 2
	xe := -b / (2 * a)

	w := Window{
		Xe: xe,
		Ye: (a*xe+b)*xe + h1,
	}

	d := b*b - 4*a*h1
	if d < 0 {
		return w
	}

	dx := math.Sqrt(d) / (math.Abs(a) * 2)
	w.X1 = xe - dx
	w.X2 = xe + dx

	if math.Abs(w.X1) <= 1 {
		w.Roots++
	}
	if math.Abs(w.X2) <= 1 {
		w.Roots++
	}
	if w.X1 < -1 {
		w.X1 = w.X2
	}

	return w
}
