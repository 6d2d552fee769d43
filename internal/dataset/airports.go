package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
)

var airportColumns = []string{"faa", "name", "lat", "lon"}

// ReadAirportsFile parses the airports CSV export at path.
func ReadAirportsFile(path string) ([]Airport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open airports file: %w", err)
	}
	defer f.Close()

	airports, err := ReadAirports(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Printf("Airports parsed: %d rows (%s)", len(airports), path)
	return airports, nil
}

// ReadAirports parses airports CSV data. Coordinates are required on
// every row since the distance table is built from them.
func ReadAirports(r io.Reader) ([]Airport, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read airports header: %w", err)
	}

	idx := makeIndex(header)
	if err := requireColumns(idx, airportColumns); err != nil {
		return nil, fmt.Errorf("airports: %w", err)
	}

	var airports []Airport
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("airports row %d: %w", row, err)
		}

		a := Airport{
			FAA:  getField(record, idx, "faa"),
			Name: getField(record, idx, "name"),
		}
		if a.FAA == "" {
			return nil, fmt.Errorf("airports row %d: empty faa", row)
		}
		if a.Lat, err = parseFloat(record, idx, "lat", row); err != nil {
			return nil, fmt.Errorf("airports %w", err)
		}
		if a.Lon, err = parseFloat(record, idx, "lon", row); err != nil {
			return nil, fmt.Errorf("airports %w", err)
		}
		airports = append(airports, a)
	}

	return airports, nil
}
