package regression

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func linearPoints(xs []float64, intercept, slope float64, weights []float64) []Point {
	points := make([]Point, len(xs))
	for i, x := range xs {
		points[i] = Point{X: x, Y: intercept + slope*x, Weight: weights[i]}
	}
	return points
}

func TestFitRecoversLinearTrend(t *testing.T) {
	// Five observations against five design columns make the solve an
	// exact interpolation, and the knots land on data points, so the
	// fit must reproduce the line at every knot.
	xs := []float64{0, 30, 45, 60, 90}
	weights := []float64{2, 1, 3, 1, 5}
	points := linearPoints(xs, 2, 0.5, weights)

	opts := Options{Knots: 4, Bandwidth: 50, GridSize: 100}
	model, err := Fit(points, opts)
	require.NoError(t, err)

	knots := model.Knots()
	require.Len(t, knots, 4)
	assert.InDelta(t, 0.0, knots[0], 1e-12)
	assert.InDelta(t, 30.0, knots[1], 1e-12)
	assert.InDelta(t, 60.0, knots[2], 1e-12)
	assert.InDelta(t, 90.0, knots[3], 1e-12)

	for _, knot := range knots {
		want := 2 + 0.5*knot
		assert.InDelta(t, want, model.Predict(knot), 1e-3,
			"prediction at knot %g", knot)
	}
}

func TestFitRecoversKnownBasis(t *testing.T) {
	// Build targets from known coefficients over the exact basis the
	// fit will construct, then check the overdetermined solve gets the
	// coefficients back.
	xs := floats.Span(make([]float64, 11), 0, 100)
	opts := Options{Knots: 4, Bandwidth: 40, GridSize: 100}
	knots := floats.Span(make([]float64, 4), 0, 100)
	coef := []float64{1.5, -2, 4, 0.5, -1}

	points := make([]Point, len(xs))
	for i, x := range xs {
		y := coef[0]
		for k, knot := range knots {
			y += coef[k+1] * rbf(x, knot, opts.Bandwidth)
		}
		points[i] = Point{X: x, Y: y, Weight: float64(1 + i%3)}
	}

	model, err := Fit(points, opts)
	require.NoError(t, err)

	fitted := model.Coefficients()
	require.Len(t, fitted, 5)
	for i := range coef {
		assert.InDelta(t, coef[i], fitted[i], 1e-5)
	}
	for _, x := range []float64{7, 33, 58, 96} {
		y := coef[0]
		for k, knot := range knots {
			y += coef[k+1] * rbf(x, knot, opts.Bandwidth)
		}
		assert.InDelta(t, y, model.Predict(x), 1e-5)
	}
}

func TestFitIdempotent(t *testing.T) {
	xs := floats.Span(make([]float64, 20), 10, 500)
	points := make([]Point, len(xs))
	for i, x := range xs {
		points[i] = Point{X: x, Y: 5 + 0.02*x + math.Sin(x/40), Weight: float64(1 + i)}
	}

	first, err := Fit(points, DefaultOptions())
	require.NoError(t, err)
	second, err := Fit(points, DefaultOptions())
	require.NoError(t, err)

	// Same input, same solve, identical coefficients.
	assert.Equal(t, first.Coefficients(), second.Coefficients())
}

func TestFitTooFewDistinctValues(t *testing.T) {
	points := []Point{
		{X: 1, Y: 10, Weight: 1},
		{X: 2, Y: 20, Weight: 3},
		{X: 3, Y: 30, Weight: 1},
		{X: 3, Y: 35, Weight: 2},
	}

	_, err := Fit(points, DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestFitSingularDesign(t *testing.T) {
	// Two x values equidistant from the single midpoint knot give the
	// basis column a constant value, making it a multiple of the bias
	// column. The solve must report that instead of producing numbers.
	points := []Point{
		{X: 3, Y: 10, Weight: 1},
		{X: 4, Y: 10, Weight: 1},
	}

	_, err := Fit(points, Options{Knots: 1, Bandwidth: 5, GridSize: 10})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestFitNoObservations(t *testing.T) {
	_, err := Fit(nil, DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestFitNonPositiveWeight(t *testing.T) {
	points := []Point{
		{X: 1, Y: 10, Weight: 1},
		{X: 2, Y: 20, Weight: 0},
		{X: 3, Y: 30, Weight: 1},
		{X: 4, Y: 40, Weight: 1},
		{X: 5, Y: 50, Weight: 1},
	}

	_, err := Fit(points, DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weight")
}

func TestFitRejectsBadOptions(t *testing.T) {
	points := linearPoints(
		[]float64{0, 10, 20, 30, 40},
		1, 1,
		[]float64{1, 1, 1, 1, 1},
	)

	for _, opts := range []Options{
		{Knots: 0, Bandwidth: 50, GridSize: 100},
		{Knots: 4, Bandwidth: 0, GridSize: 100},
		{Knots: 4, Bandwidth: -3, GridSize: 100},
		{Knots: 4, Bandwidth: 50, GridSize: 1},
	} {
		_, err := Fit(points, opts)
		assert.Error(t, err, "options %+v", opts)
	}
}

func TestFitHeavyWeightPullsCurve(t *testing.T) {
	base := []Point{
		{X: 0, Y: 0, Weight: 1},
		{X: 10, Y: 1, Weight: 1},
		{X: 20, Y: 2, Weight: 1},
		{X: 30, Y: 30, Weight: 1}, // far off the trend
		{X: 40, Y: 4, Weight: 1},
		{X: 50, Y: 5, Weight: 1},
		{X: 60, Y: 6, Weight: 1},
	}
	opts := Options{Knots: 3, Bandwidth: 40, GridSize: 100}

	light, err := Fit(base, opts)
	require.NoError(t, err)

	heavy := make([]Point, len(base))
	copy(heavy, base)
	heavy[3].Weight = 1000

	pulled, err := Fit(heavy, opts)
	require.NoError(t, err)

	lightResidual := math.Abs(light.Predict(30) - 30)
	heavyResidual := math.Abs(pulled.Predict(30) - 30)
	assert.Less(t, heavyResidual, lightResidual)
}

func TestCurve(t *testing.T) {
	xs := floats.Span(make([]float64, 12), 100, 1500)
	points := make([]Point, len(xs))
	for i, x := range xs {
		points[i] = Point{X: x, Y: 10 + x/100, Weight: 2}
	}

	opts := Options{Knots: 4, Bandwidth: 500, GridSize: 100}
	model, err := Fit(points, opts)
	require.NoError(t, err)

	curve := model.Curve()
	require.Len(t, curve, 100)
	assert.InDelta(t, 100.0, curve[0].X, 1e-9)
	assert.InDelta(t, 1500.0, curve[len(curve)-1].X, 1e-9)

	// Evenly spaced grid.
	step := curve[1].X - curve[0].X
	for i := 1; i < len(curve); i++ {
		assert.InDelta(t, step, curve[i].X-curve[i-1].X, 1e-9)
	}

	// The curve is the model evaluated on the grid.
	for _, p := range []int{0, 17, 50, 99} {
		assert.Equal(t, model.Predict(curve[p].X), curve[p].Y)
	}
}

func TestSpreadSingleKnot(t *testing.T) {
	knots := spread(1, 10, 30)
	require.Len(t, knots, 1)
	assert.InDelta(t, 20.0, knots[0], 1e-12)
}
