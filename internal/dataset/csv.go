package dataset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMissingColumn is returned when a file header lacks a column the
// loader needs. Extra columns are ignored.
var ErrMissingColumn = errors.New("missing required column")

// naValue is the missing-data sentinel used by the source exports.
const naValue = "NA"

func makeIndex(header []string) map[string]int {
	idx := make(map[string]int)
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func requireColumns(idx map[string]int, columns []string) error {
	for _, c := range columns {
		if _, ok := idx[c]; !ok {
			return fmt.Errorf("%w %q", ErrMissingColumn, c)
		}
	}
	return nil
}

func getField(record []string, idx map[string]int, field string) string {
	if i, ok := idx[field]; ok && i < len(record) {
		return strings.TrimSpace(record[i])
	}
	return ""
}

func isMissing(s string) bool {
	return s == "" || s == naValue
}

func parseInt(record []string, idx map[string]int, field string, row int) (int, error) {
	raw := getField(record, idx, field)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("row %d: bad %s value %q: %w", row, field, raw, err)
	}
	return v, nil
}

func parseFloat(record []string, idx map[string]int, field string, row int) (float64, error) {
	raw := getField(record, idx, field)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("row %d: bad %s value %q: %w", row, field, raw, err)
	}
	return v, nil
}

func parseNullInt(record []string, idx map[string]int, field string, row int) (*int, error) {
	raw := getField(record, idx, field)
	if isMissing(raw) {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("row %d: bad %s value %q: %w", row, field, raw, err)
	}
	return &v, nil
}

func parseNullFloat(record []string, idx map[string]int, field string, row int) (*float64, error) {
	raw := getField(record, idx, field)
	if isMissing(raw) {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("row %d: bad %s value %q: %w", row, field, raw, err)
	}
	return &v, nil
}
