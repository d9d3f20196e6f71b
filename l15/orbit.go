package l15

import (
	"fmt"

	"github.com/jddeal/go-seviri/xrit"
)

// chebyshev evaluates sum(c[k]*T_k(x)) - c[0]/2 with x mapped from [a,b] onto [-1,1].
func chebyshev(x float64, c []float64, a, b float64) float64 {
	xp := (2*x - a - b) / (b - a)
	xp2 := 2 * xp

	var b0, b1, b2 float64
	for i := len(c) - 1; i >= 0; i-- {
		b2 = b1
		b1 = b0
		b0 = xp2*b1 - b2 + c[i]
	}
	return (b0 - b2) / 2
}

// Window returns the coefficient set whose [start, end) window contains t.
func (o *Orbit) Window(t xrit.CdsTime) (*OrbitCoef, error) {
	for i := range o.Coefs {
		c := &o.Coefs[i]
		if c.StartTime.IsZero() && c.EndTime.IsZero() {
			continue
		}
		if t.Sub(c.StartTime) >= 0 && t.Sub(c.EndTime) < 0 {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%v: %w", t, ErrNoOrbitWindow)
}

// Position of the satellite at t in earth centred coordinates (km).
func (o *Orbit) Position(t xrit.CdsTime) (x, y, z float64, err error) {
	c, err := o.Window(t)
	if err != nil {
		return 0, 0, 0, err
	}
	// seconds into the window, keeping milliseconds
	at := t.Sub(c.StartTime) * 86400
	b := c.EndTime.Sub(c.StartTime) * 86400
	return chebyshev(at, c.X[:], 0, b), chebyshev(at, c.Y[:], 0, b), chebyshev(at, c.Z[:], 0, b), nil
}
