package usecases

import (
	"context"
	"errors"
	"time"

	"sonometre-server/internal/sensing/domain"
)

var (
	ErrInvalidRange       = errors.New("invalid time range")
	ErrNoSensors          = errors.New("no sensors selected")
	ErrUnknownSensor      = errors.New("unknown sensor")
	ErrUnknownMeasurement = errors.New("unknown measurement")

	errUnknown = errors.New("unknown error")
)

type SnapshotService interface {
	// AssembleSnapshot returns the latest known reading for every
	// configured sonde, filling sondes without data with sentinel values.
	AssembleSnapshot(ctx context.Context) (domain.Snapshot, error)
}

// HistoricQuery carries the untrusted parameters of a historic request.
// Measure is a raw name validated by the service against the allow-list.
type HistoricQuery struct {
	Start   time.Time
	End     time.Time
	Sondes  []domain.SensorID
	Measure string
}

type HistoryService interface {
	QueryHistoric(ctx context.Context, query HistoricQuery) (domain.HistoricSeries, domain.Measurement, error)
}

type IngestService interface {
	// RecordReading stores one reading at the given resolution and
	// publishes the data-ingested event consumed by the live broadcaster.
	RecordReading(ctx context.Context, reading domain.Reading, at time.Time, resolution domain.Resolution) error
}
