package report

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/bartonicek/sql-example-report/internal/distance"
	"github.com/bartonicek/sql-example-report/internal/queries"
)

// WriteText renders the result tables to w in the order the pipeline
// produced them.
func (r *Report) WriteText(w io.Writer, res *Result) {
	fmt.Fprintf(w, "Flight delay report %s\n", res.RunID)
	fmt.Fprintf(w, "Generated: %s\n", res.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Flights loaded: %d\n", res.FlightCount)

	renderTable(w, "Top routes by flight count", routeHeader, routeRows(res.TopRoutes))
	renderTable(w, "Worst carriers by mean departure delay", carrierHeader, carrierRows(res.WorstDep))
	renderTable(w, "Worst carriers by mean arrival delay", carrierHeader, carrierRows(res.WorstArr))
	renderTable(w, "Tightest schedules relative to route median", tightHeader, tightRows(res.Tightest))

	worst := worstRouteStats(res.RouteStats)
	renderTable(w,
		fmt.Sprintf("Routes by mean departure delay (%d routes, worst %d shown)", len(res.RouteStats), len(worst)),
		statHeader, statRows(worst))

	renderTable(w,
		fmt.Sprintf("Airport pair distances (%d pairs, first %d shown)", res.DistanceCount, len(res.DistanceHead)),
		distHeader, distRows(res.DistanceHead))

	if res.Curve == nil {
		fmt.Fprintln(w, "\nDelay/distance fit skipped: no routes with delay data and a known distance")
		return
	}
	fmt.Fprintf(w, "\nDelay/distance fit over %d routes (%d curve points)\n",
		len(res.Points), len(res.Curve))
}

func renderTable(w io.Writer, title string, header []string, rows [][]string) {
	fmt.Fprintf(w, "\n%s\n", title)
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.AppendBulk(rows)
	table.Render()
}

// Shared table content for the text and PDF renderers.

var (
	routeHeader   = []string{"Origin", "Dest", "Flights"}
	carrierHeader = []string{"Carrier", "Mean delay (min)", "Reported"}
	tightHeader   = []string{"Origin", "Dest", "Time of day", "Route median", "Ratio"}
	statHeader    = []string{"Origin", "Dest", "Mean dep delay (min)", "Mean arr delay (min)", "Flights"}
	distHeader    = []string{"Origin", "Origin name", "Dest", "Dest name", "Distance"}
)

// worstRouteStats caps the route table at its ten worst rows, which
// already lead the slice.
func worstRouteStats(stats []queries.RouteStat) []queries.RouteStat {
	if len(stats) > 10 {
		return stats[:10]
	}
	return stats
}

func routeRows(routes []queries.RouteCount) [][]string {
	rows := make([][]string, 0, len(routes))
	for _, route := range routes {
		rows = append(rows, []string{
			route.Origin, route.Dest, fmt.Sprintf("%d", route.Flights),
		})
	}
	return rows
}

func carrierRows(carriers []queries.CarrierDelay) [][]string {
	rows := make([][]string, 0, len(carriers))
	for _, c := range carriers {
		rows = append(rows, []string{
			c.Carrier,
			fmt.Sprintf("%.2f", c.MeanDelay),
			fmt.Sprintf("%d", c.Reported),
		})
	}
	return rows
}

func tightRows(ratios []queries.ScheduleRatio) [][]string {
	rows := make([][]string, 0, len(ratios))
	for _, s := range ratios {
		rows = append(rows, []string{
			s.Origin, s.Dest,
			fmt.Sprintf("%d", s.FlightTime),
			fmt.Sprintf("%.1f", s.MedianTime),
			fmt.Sprintf("%.3f", s.Ratio),
		})
	}
	return rows
}

func statRows(stats []queries.RouteStat) [][]string {
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{
			s.Origin, s.Dest,
			formatMean(s.AvgDepDelay),
			formatMean(s.AvgArrDelay),
			fmt.Sprintf("%d", s.Flights),
		})
	}
	return rows
}

// formatMean renders a possibly missing delay mean the way the source
// data spells missing values.
func formatMean(mean *float64) string {
	if mean == nil {
		return "NA"
	}
	return fmt.Sprintf("%.2f", *mean)
}

func distRows(entries []distance.Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Origin, e.OriginName, e.Dest, e.DestName,
			fmt.Sprintf("%.2f", e.Distance),
		})
	}
	return rows
}
