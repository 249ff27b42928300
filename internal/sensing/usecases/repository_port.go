package usecases

import (
	"context"
	"time"

	"sonometre-server/internal/sensing/domain"
)

// HistoricRowsQuery is the validated filter handed to the repository. All
// fields come from trusted code; Measure went through the allow-list.
type HistoricRowsQuery struct {
	Start      time.Time
	End        time.Time
	Sondes     []domain.SensorID
	Measure    domain.Measurement
	Resolution domain.Resolution
}

type ReadingRepository interface {
	// LatestBySonde returns at most limit rows from the real-time table,
	// ordered by descending sonde identifier.
	LatestBySonde(ctx context.Context, limit int) ([]domain.Reading, error)

	// HistoricRange returns matching historic rows projected onto the
	// query's measurement, ordered by ascending timestamp.
	HistoricRange(ctx context.Context, query HistoricRowsQuery) ([]domain.HistoricPoint, error)

	UpsertRealtime(ctx context.Context, reading domain.Reading, at time.Time) error
	AppendHistoric(ctx context.Context, reading domain.Reading, at time.Time, resolution domain.Resolution) error
}
