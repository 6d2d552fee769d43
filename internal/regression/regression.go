package regression

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrDegenerate marks regression input that cannot support the fit:
// too few distinct x values for the basis, or a singular design matrix.
var ErrDegenerate = errors.New("degenerate regression input")

// Options holds the fit parameters.
type Options struct {
	Knots     int     // number of radial basis centers
	Bandwidth float64 // decay scale of each basis function, in x units
	GridSize  int     // number of points in the prediction grid
}

// DefaultOptions returns the report's standard fit parameters.
func DefaultOptions() Options {
	return Options{
		Knots:     4,
		Bandwidth: 50,
		GridSize:  100,
	}
}

// Validate checks that the parameters can produce a well-formed fit.
func (o Options) Validate() error {
	if o.Knots < 1 {
		return fmt.Errorf("knot count must be at least 1, got %d", o.Knots)
	}
	if o.Bandwidth <= 0 {
		return fmt.Errorf("bandwidth must be positive, got %g", o.Bandwidth)
	}
	if o.GridSize < 2 {
		return fmt.Errorf("grid size must be at least 2, got %d", o.GridSize)
	}
	return nil
}

// Point is one weighted observation.
type Point struct {
	X      float64
	Y      float64
	Weight float64
}

// Prediction is one point on the fitted curve.
type Prediction struct {
	X float64
	Y float64
}

// Model is a fitted radial-basis regression.
type Model struct {
	opts  Options
	knots []float64
	coef  []float64 // bias first, then one coefficient per knot
	xmin  float64
	xmax  float64
}

// Fit runs weighted least squares of y on a radial basis expansion of x.
// The design matrix has a constant bias column plus one column per knot,
// where column k is exp(-(x - knot_k)^2 / bandwidth^2) and the knots are
// evenly spaced over the observed x range. Weights enter by scaling each
// row and target by sqrt(weight), which reduces the problem to ordinary
// least squares on the scaled system.
// Reference: https://en.wikipedia.org/wiki/Weighted_least_squares
//
// There is no regularization. A singular or near-singular design, or
// fewer distinct x values than design columns, fails with ErrDegenerate.
func Fit(points []Point, opts Options) (*Model, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("regression options: %w", err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no observations", ErrDegenerate)
	}

	distinct := make(map[float64]struct{}, len(points))
	xmin, xmax := points[0].X, points[0].X
	for _, p := range points {
		if p.Weight <= 0 {
			return nil, fmt.Errorf("regression: non-positive weight %g at x=%g", p.Weight, p.X)
		}
		distinct[p.X] = struct{}{}
		xmin = math.Min(xmin, p.X)
		xmax = math.Max(xmax, p.X)
	}

	cols := opts.Knots + 1
	if len(distinct) < cols {
		return nil, fmt.Errorf("%w: %d distinct x values for %d design columns",
			ErrDegenerate, len(distinct), cols)
	}

	knots := spread(opts.Knots, xmin, xmax)

	design := mat.NewDense(len(points), cols, nil)
	target := mat.NewVecDense(len(points), nil)
	for i, p := range points {
		sw := math.Sqrt(p.Weight)
		design.Set(i, 0, sw)
		for k, knot := range knots {
			design.Set(i, k+1, sw*rbf(p.X, knot, opts.Bandwidth))
		}
		target.SetVec(i, sw*p.Y)
	}

	var beta mat.VecDense
	if err := beta.SolveVec(design, target); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDegenerate, err)
	}

	coef := make([]float64, cols)
	for i := range coef {
		coef[i] = beta.AtVec(i)
	}

	return &Model{
		opts:  opts,
		knots: knots,
		coef:  coef,
		xmin:  xmin,
		xmax:  xmax,
	}, nil
}

// rbf is the Gaussian radial basis value of x around a knot.
func rbf(x, knot, bandwidth float64) float64 {
	d := x - knot
	return math.Exp(-(d * d) / (bandwidth * bandwidth))
}

// spread places n values evenly across [lo, hi] inclusive. A single
// value lands in the middle.
func spread(n int, lo, hi float64) []float64 {
	if n == 1 {
		return []float64{lo + (hi-lo)/2}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// Predict evaluates the fitted curve at x.
func (m *Model) Predict(x float64) float64 {
	y := m.coef[0]
	for k, knot := range m.knots {
		y += m.coef[k+1] * rbf(x, knot, m.opts.Bandwidth)
	}
	return y
}

// Curve evaluates the model over an evenly spaced grid spanning the
// observed x range.
func (m *Model) Curve() []Prediction {
	grid := floats.Span(make([]float64, m.opts.GridSize), m.xmin, m.xmax)

	curve := make([]Prediction, len(grid))
	for i, x := range grid {
		curve[i] = Prediction{X: x, Y: m.Predict(x)}
	}
	return curve
}

// Knots returns a copy of the basis centers.
func (m *Model) Knots() []float64 {
	knots := make([]float64, len(m.knots))
	copy(knots, m.knots)
	return knots
}

// Coefficients returns a copy of the fitted coefficients, bias first.
func (m *Model) Coefficients() []float64 {
	coef := make([]float64, len(m.coef))
	copy(coef, m.coef)
	return coef
}
