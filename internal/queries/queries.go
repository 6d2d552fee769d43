package queries

import (
	"context"
	"database/sql"
	"fmt"
)

// Queries handles the fixed read-only statements of the delay report.
// Every method runs against tables loaded earlier in the same run, so
// none of them take parameters.
type Queries struct {
	db *sql.DB
}

// NewQueries creates a new Queries instance
func NewQueries(db *sql.DB) *Queries {
	return &Queries{db: db}
}

// RouteCount is one (origin, dest) route with its flight frequency.
type RouteCount struct {
	Origin  string
	Dest    string
	Flights int
}

// CarrierDelay is one carrier with its mean delay in minutes. Reported
// counts only the rows that had a delay value, since rows with missing
// delays do not contribute to the mean.
type CarrierDelay struct {
	Carrier   string
	MeanDelay float64
	Reported  int
}

// ScheduleRatio is one distinct (route, time-of-day) combination with
// its ratio to the route's median scheduled time.
type ScheduleRatio struct {
	Origin     string
	Dest       string
	FlightTime int
	MedianTime float64
	Ratio      float64
}

// RouteStat is the per-route delay aggregate. The delay means are nil
// when no flight on the route reported that delay.
type RouteStat struct {
	Origin      string
	Dest        string
	AvgDepDelay *float64
	AvgArrDelay *float64
	Flights     int
}

// RegressionPoint is one observation for the delay/distance fit:
// route distance, mean departure delay, and flight count as weight.
type RegressionPoint struct {
	Distance float64
	AvgDelay float64
	Weight   float64
}

// FlightCount returns the total number of loaded flight rows.
func (q *Queries) FlightCount(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, "SELECT count(*) FROM flights").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count flights: %w", err)
	}
	return count, nil
}

// TopRoutes returns the five most flown routes. Ties are broken by
// origin then dest so repeated runs print the same table.
func (q *Queries) TopRoutes(ctx context.Context) ([]RouteCount, error) {
	query := `
		SELECT origin, dest, count(*) AS flights
		FROM flights
		GROUP BY origin, dest
		ORDER BY flights DESC, origin, dest
		LIMIT 5
	`

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query top routes: %w", err)
	}
	defer rows.Close()

	var routes []RouteCount
	for rows.Next() {
		var r RouteCount
		if err := rows.Scan(&r.Origin, &r.Dest, &r.Flights); err != nil {
			return nil, fmt.Errorf("failed to scan route: %w", err)
		}
		routes = append(routes, r)
	}

	return routes, rows.Err()
}

// WorstCarriersByDepDelay returns the three carriers with the highest
// mean departure delay.
func (q *Queries) WorstCarriersByDepDelay(ctx context.Context) ([]CarrierDelay, error) {
	return q.worstCarriers(ctx, "dep_delay")
}

// WorstCarriersByArrDelay returns the three carriers with the highest
// mean arrival delay.
func (q *Queries) WorstCarriersByArrDelay(ctx context.Context) ([]CarrierDelay, error) {
	return q.worstCarriers(ctx, "arr_delay")
}

func (q *Queries) worstCarriers(ctx context.Context, column string) ([]CarrierDelay, error) {
	// avg() and count() both skip NULLs, so flights without a reported
	// delay never enter the mean. Carriers where every delay is missing
	// have no mean at all and are dropped by the HAVING clause.
	query := fmt.Sprintf(`
		SELECT carrier, avg(%[1]s) AS mean_delay, count(%[1]s) AS reported
		FROM flights
		GROUP BY carrier
		HAVING count(%[1]s) > 0
		ORDER BY mean_delay DESC, carrier
		LIMIT 3
	`, column)

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query worst carriers by %s: %w", column, err)
	}
	defer rows.Close()

	var carriers []CarrierDelay
	for rows.Next() {
		var c CarrierDelay
		if err := rows.Scan(&c.Carrier, &c.MeanDelay, &c.Reported); err != nil {
			return nil, fmt.Errorf("failed to scan carrier: %w", err)
		}
		carriers = append(carriers, c)
	}

	return carriers, rows.Err()
}

// TightestSchedules returns the ten (route, time-of-day) combinations
// whose scheduled time sits furthest below the route median. Time of
// day is hour*60 + minute over distinct combinations per route, and
// the median is computed as a window aggregate partitioned by route.
func (q *Queries) TightestSchedules(ctx context.Context) ([]ScheduleRatio, error) {
	query := `
		WITH route_times AS (
			SELECT DISTINCT origin, dest, hour * 60 + minute AS flight_time
			FROM flights
		)
		SELECT
			origin,
			dest,
			flight_time,
			median(flight_time) OVER (PARTITION BY origin, dest) AS median_time,
			flight_time / median(flight_time) OVER (PARTITION BY origin, dest) AS time_ratio
		FROM route_times
		ORDER BY time_ratio, origin, dest, flight_time
		LIMIT 10
	`

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule ratios: %w", err)
	}
	defer rows.Close()

	var ratios []ScheduleRatio
	for rows.Next() {
		var s ScheduleRatio
		if err := rows.Scan(&s.Origin, &s.Dest, &s.FlightTime, &s.MedianTime, &s.Ratio); err != nil {
			return nil, fmt.Errorf("failed to scan schedule ratio: %w", err)
		}
		ratios = append(ratios, s)
	}

	return ratios, rows.Err()
}

// RouteStats returns delay aggregates for every route, ordered worst
// first by mean departure delay.
func (q *Queries) RouteStats(ctx context.Context) ([]RouteStat, error) {
	query := `
		SELECT
			origin,
			dest,
			avg(dep_delay) AS avg_dep_delay,
			avg(arr_delay) AS avg_arr_delay,
			count(*) AS flights
		FROM flights
		GROUP BY origin, dest
		ORDER BY avg_dep_delay DESC NULLS LAST, origin, dest
	`

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query route stats: %w", err)
	}
	defer rows.Close()

	var stats []RouteStat
	for rows.Next() {
		var s RouteStat
		if err := rows.Scan(&s.Origin, &s.Dest, &s.AvgDepDelay, &s.AvgArrDelay, &s.Flights); err != nil {
			return nil, fmt.Errorf("failed to scan route stat: %w", err)
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// RegressionInput joins per-route delay aggregates with the distances
// table built earlier in the run. Routes with no reported departure
// delay carry no signal and are excluded; routes missing from the
// distance table (unknown airport codes) simply drop out of the join,
// so an empty result is not an error.
func (q *Queries) RegressionInput(ctx context.Context) ([]RegressionPoint, error) {
	query := `
		SELECT d.distance, f.avg_delay, f.flights
		FROM (
			SELECT origin, dest, avg(dep_delay) AS avg_delay, count(*) AS flights
			FROM flights
			GROUP BY origin, dest
			HAVING avg(dep_delay) IS NOT NULL
		) f
		JOIN distances d ON f.origin = d.origin AND f.dest = d.dest
		ORDER BY d.distance, f.origin, f.dest
	`

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query regression input: %w", err)
	}
	defer rows.Close()

	var points []RegressionPoint
	for rows.Next() {
		var p RegressionPoint
		if err := rows.Scan(&p.Distance, &p.AvgDelay, &p.Weight); err != nil {
			return nil, fmt.Errorf("failed to scan regression point: %w", err)
		}
		points = append(points, p)
	}

	return points, rows.Err()
}
