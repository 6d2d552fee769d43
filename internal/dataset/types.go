package dataset

// Flight is one row of the flights dataset. Pointer fields hold
// values that may be missing in the source data and load as NULL.
type Flight struct {
	Carrier      string
	Origin       string
	Dest         string
	DepTime      *int
	SchedDepTime int
	DepDelay     *float64
	ArrTime      *int
	SchedArrTime int
	ArrDelay     *float64
	Distance     float64
	Hour         int
	Minute       int
}

// Airport is one row of the airports dataset, keyed by FAA code.
type Airport struct {
	FAA  string
	Name string
	Lat  float64
	Lon  float64
}
