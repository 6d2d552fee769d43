package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
)

var flightColumns = []string{
	"carrier", "origin", "dest",
	"dep_time", "sched_dep_time", "dep_delay",
	"arr_time", "sched_arr_time", "arr_delay",
	"distance", "hour", "minute",
}

// ReadFlightsFile parses the flights CSV export at path.
func ReadFlightsFile(path string) ([]Flight, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open flights file: %w", err)
	}
	defer f.Close()

	flights, err := ReadFlights(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Printf("Flights parsed: %d rows (%s)", len(flights), path)
	return flights, nil
}

// ReadFlights parses flights CSV data. The header must contain every
// required column; delay and actual-time fields may be empty or "NA"
// and come back as nil pointers.
func ReadFlights(r io.Reader) ([]Flight, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read flights header: %w", err)
	}

	idx := makeIndex(header)
	if err := requireColumns(idx, flightColumns); err != nil {
		return nil, fmt.Errorf("flights: %w", err)
	}

	var flights []Flight
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("flights row %d: %w", row, err)
		}

		flight, err := parseFlight(record, idx, row)
		if err != nil {
			return nil, fmt.Errorf("flights %w", err)
		}
		flights = append(flights, flight)
	}

	return flights, nil
}

func parseFlight(record []string, idx map[string]int, row int) (Flight, error) {
	var f Flight

	f.Carrier = getField(record, idx, "carrier")
	f.Origin = getField(record, idx, "origin")
	f.Dest = getField(record, idx, "dest")
	if f.Carrier == "" {
		return Flight{}, fmt.Errorf("row %d: empty carrier", row)
	}
	if f.Origin == "" {
		return Flight{}, fmt.Errorf("row %d: empty origin", row)
	}
	if f.Dest == "" {
		return Flight{}, fmt.Errorf("row %d: empty dest", row)
	}

	var err error
	if f.DepTime, err = parseNullInt(record, idx, "dep_time", row); err != nil {
		return Flight{}, err
	}
	if f.SchedDepTime, err = parseInt(record, idx, "sched_dep_time", row); err != nil {
		return Flight{}, err
	}
	if f.DepDelay, err = parseNullFloat(record, idx, "dep_delay", row); err != nil {
		return Flight{}, err
	}
	if f.ArrTime, err = parseNullInt(record, idx, "arr_time", row); err != nil {
		return Flight{}, err
	}
	if f.SchedArrTime, err = parseInt(record, idx, "sched_arr_time", row); err != nil {
		return Flight{}, err
	}
	if f.ArrDelay, err = parseNullFloat(record, idx, "arr_delay", row); err != nil {
		return Flight{}, err
	}
	if f.Distance, err = parseFloat(record, idx, "distance", row); err != nil {
		return Flight{}, err
	}
	if f.Hour, err = parseInt(record, idx, "hour", row); err != nil {
		return Flight{}, err
	}
	if f.Minute, err = parseInt(record, idx, "minute", row); err != nil {
		return Flight{}, err
	}

	return f, nil
}
