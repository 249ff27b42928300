package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"sonometre-server/internal/sensing/domain"
)

func NewSnapshotService(repository ReadingRepository, sensorCount int) *SimpleSnapshotService {
	return &SimpleSnapshotService{
		repository:  repository,
		sensorCount: sensorCount,
	}
}

var _ SnapshotService = (*SimpleSnapshotService)(nil)

type SimpleSnapshotService struct {
	repository  ReadingRepository
	sensorCount int
}

// AssembleSnapshot always yields exactly sensorCount entries. A sonde the
// store knows nothing about is a valid state, not an error.
func (s *SimpleSnapshotService) AssembleSnapshot(ctx context.Context) (domain.Snapshot, error) {
	readings, err := s.repository.LatestBySonde(ctx, s.sensorCount)
	if err != nil {
		slog.Error("fetching latest readings", slog.Any("error", err))
		return nil, fmt.Errorf("fetching latest readings: %w", errUnknown)
	}

	bySonde := make(map[domain.SensorID]domain.Reading, len(readings))
	for _, reading := range readings {
		bySonde[reading.Sonde] = reading
	}

	snapshot := make(domain.Snapshot, s.sensorCount)
	for i := 1; i <= s.sensorCount; i++ {
		id := domain.SensorID(i)
		if reading, ok := bySonde[id]; ok {
			snapshot[id] = reading
			continue
		}
		snapshot[id] = domain.MissingReading(id)
	}

	return snapshot, nil
}
