package domain

import "time"

// HistoricPoint is one stored row projected onto a single measurement.
type HistoricPoint struct {
	Sonde     SensorID
	Timestamp time.Time
	Value     float64
}

// SensorSeries holds parallel sequences of timestamps and values for one
// sonde, both ordered by ascending timestamp.
type SensorSeries struct {
	Dates  []time.Time
	Values []float64
}

// HistoricSeries maps sonde to its series for the requested measurement.
// Sondes without matching rows are absent.
type HistoricSeries map[SensorID]SensorSeries
