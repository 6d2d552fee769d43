package distance

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartonicek/sql-example-report/internal/dataset"
	"github.com/bartonicek/sql-example-report/internal/db"
)

func newTestTable(t *testing.T, airports []dataset.Airport) *Table {
	t.Helper()

	database, err := db.Open()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	ctx := context.Background()
	require.NoError(t, database.EnsureSchema(ctx))
	require.NoError(t, database.InsertAirports(ctx, airports))

	table := New(database.Conn())
	require.NoError(t, table.Build(ctx))
	return table
}

var triangle = []dataset.Airport{
	{FAA: "AAA", Name: "Alpha Field", Lat: 0, Lon: 0},
	{FAA: "BBB", Name: "Bravo Field", Lat: 0, Lon: 3},
	{FAA: "CCC", Name: "Charlie Field", Lat: 4, Lon: 0},
}

func TestBuildCardinality(t *testing.T) {
	table := newTestTable(t, triangle)

	count, err := table.Count(context.Background())
	require.NoError(t, err)

	// Every ordered pair except the three self-pairs.
	assert.Equal(t, int64(6), count)
}

func TestBuildDistanceValues(t *testing.T) {
	table := newTestTable(t, triangle)

	entries, err := table.Entries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 6)

	byPair := make(map[string]Entry)
	for _, e := range entries {
		byPair[e.Origin+"-"+e.Dest] = e
	}

	// The 3-4-5 triangle in both directions.
	assert.InDelta(t, 3.0, byPair["AAA-BBB"].Distance, 1e-9)
	assert.InDelta(t, 4.0, byPair["AAA-CCC"].Distance, 1e-9)
	assert.InDelta(t, 3.0, byPair["BBB-AAA"].Distance, 1e-9)
	assert.InDelta(t, 5.0, byPair["BBB-CCC"].Distance, 1e-9)
	assert.InDelta(t, 4.0, byPair["CCC-AAA"].Distance, 1e-9)
	assert.InDelta(t, 5.0, byPair["CCC-BBB"].Distance, 1e-9)

	assert.Equal(t, "Alpha Field", byPair["AAA-BBB"].OriginName)
	assert.Equal(t, "Bravo Field", byPair["AAA-BBB"].DestName)
}

func TestBuildSymmetry(t *testing.T) {
	airports := []dataset.Airport{
		{FAA: "AAA", Name: "Alpha Field", Lat: 41.13, Lon: -80.62},
		{FAA: "BBB", Name: "Bravo Field", Lat: 32.46, Lon: -85.68},
		{FAA: "CCC", Name: "Charlie Field", Lat: 41.99, Lon: -114.66},
		{FAA: "DDD", Name: "Delta Field", Lat: 61.18, Lon: -149.98},
	}
	table := newTestTable(t, airports)

	entries, err := table.Entries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 12)

	byPair := make(map[string]float64)
	for _, e := range entries {
		byPair[e.Origin+"-"+e.Dest] = e.Distance
	}
	for _, e := range entries {
		mirror, ok := byPair[e.Dest+"-"+e.Origin]
		require.True(t, ok, "missing mirror pair for %s-%s", e.Origin, e.Dest)
		assert.InDelta(t, e.Distance, mirror, 1e-12)
	}
}

func TestBuildDropsSharedCoordinates(t *testing.T) {
	airports := []dataset.Airport{
		{FAA: "AAA", Name: "Alpha Field", Lat: 0, Lon: 0},
		{FAA: "BBB", Name: "Bravo Field", Lat: 0, Lon: 3},
		// Same coordinates as BBB. Both directed pairs between them
		// have distance zero and fall to the positive-distance filter.
		{FAA: "B22", Name: "Bravo Annex", Lat: 0, Lon: 3},
	}
	table := newTestTable(t, airports)

	entries, err := table.Entries(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	for _, e := range entries {
		assert.Greater(t, e.Distance, 0.0)
		assert.False(t, e.Origin == "BBB" && e.Dest == "B22")
		assert.False(t, e.Origin == "B22" && e.Dest == "BBB")
	}
}

func TestHead(t *testing.T) {
	var airports []dataset.Airport
	for i := 0; i < 5; i++ {
		airports = append(airports, dataset.Airport{
			FAA:  fmt.Sprintf("A%02d", i),
			Name: fmt.Sprintf("Field %d", i),
			Lat:  float64(i),
			Lon:  float64(i * 2),
		})
	}
	table := newTestTable(t, airports)

	head, err := table.Head(context.Background())
	require.NoError(t, err)
	require.Len(t, head, 10)

	// Code order, so the first rows all originate from A00.
	assert.Equal(t, "A00", head[0].Origin)
	assert.Equal(t, "A01", head[0].Dest)
}
