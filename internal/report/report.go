package report

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/bartonicek/sql-example-report/internal/config"
	"github.com/bartonicek/sql-example-report/internal/dataset"
	"github.com/bartonicek/sql-example-report/internal/db"
	"github.com/bartonicek/sql-example-report/internal/distance"
	"github.com/bartonicek/sql-example-report/internal/queries"
	"github.com/bartonicek/sql-example-report/internal/regression"
)

// Report runs the full delay analysis: load the datasets into a fresh
// in-memory database, run the fixed query sequence, derive the airport
// distance table, and fit the delay/distance regression.
type Report struct {
	cfg *config.Config
}

// New creates a new Report instance
func New(cfg *config.Config) *Report {
	return &Report{cfg: cfg}
}

// Result holds everything a renderer needs from one run.
type Result struct {
	RunID       string
	GeneratedAt time.Time

	FlightCount int64
	TopRoutes   []queries.RouteCount
	WorstDep    []queries.CarrierDelay
	WorstArr    []queries.CarrierDelay
	Tightest    []queries.ScheduleRatio
	RouteStats  []queries.RouteStat

	DistanceCount int64
	DistanceHead  []distance.Entry

	// Points is the scatter input for the delay/distance fit. Curve is
	// nil when Points is empty and the fit was skipped.
	Points []queries.RegressionPoint
	Curve  []regression.Prediction
}

// Run executes the whole pipeline and returns the collected results.
// The database lives only for the duration of the call.
func (r *Report) Run(ctx context.Context) (*Result, error) {
	started := time.Now()

	flights, err := dataset.ReadFlightsFile(r.cfg.FlightsPath)
	if err != nil {
		return nil, err
	}
	airports, err := dataset.ReadAirportsFile(r.cfg.AirportsPath)
	if err != nil {
		return nil, err
	}

	database, err := db.Open()
	if err != nil {
		return nil, err
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	if err := database.InsertFlights(ctx, flights); err != nil {
		return nil, err
	}
	if err := database.InsertAirports(ctx, airports); err != nil {
		return nil, err
	}

	res := &Result{
		RunID:       uuid.New().String(),
		GeneratedAt: started.UTC(),
	}

	q := queries.NewQueries(database.Conn())
	if res.FlightCount, err = q.FlightCount(ctx); err != nil {
		return nil, err
	}
	if res.TopRoutes, err = q.TopRoutes(ctx); err != nil {
		return nil, err
	}
	if res.WorstDep, err = q.WorstCarriersByDepDelay(ctx); err != nil {
		return nil, err
	}
	if res.WorstArr, err = q.WorstCarriersByArrDelay(ctx); err != nil {
		return nil, err
	}
	if res.Tightest, err = q.TightestSchedules(ctx); err != nil {
		return nil, err
	}
	if res.RouteStats, err = q.RouteStats(ctx); err != nil {
		return nil, err
	}

	dist := distance.New(database.Conn())
	if err := dist.Build(ctx); err != nil {
		return nil, err
	}
	if res.DistanceCount, err = dist.Count(ctx); err != nil {
		return nil, err
	}
	if res.DistanceHead, err = dist.Head(ctx); err != nil {
		return nil, err
	}

	if res.Points, err = q.RegressionInput(ctx); err != nil {
		return nil, err
	}
	if len(res.Points) == 0 {
		// An empty join is data, not a failure. The scatter and curve
		// just come out empty.
		log.Println("No regression input, skipping delay/distance fit")
	} else {
		model, err := regression.Fit(fitPoints(res.Points), r.cfg.FitOptions())
		if err != nil {
			return nil, fmt.Errorf("delay/distance fit: %w", err)
		}
		res.Curve = model.Curve()
	}

	log.Printf("Report %s complete in %v", res.RunID, time.Since(started).Round(time.Millisecond))
	return res, nil
}

func fitPoints(input []queries.RegressionPoint) []regression.Point {
	points := make([]regression.Point, len(input))
	for i, p := range input {
		points[i] = regression.Point{X: p.Distance, Y: p.AvgDelay, Weight: p.Weight}
	}
	return points
}

// artifactPath makes sure the output directory exists and joins name
// onto it.
func (r *Report) artifactPath(name string) (string, error) {
	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return filepath.Join(r.cfg.OutputDir, name), nil
}
