package usecases_test

import (
	"context"
	"time"

	"sonometre-server/internal/sensing/domain"
	"sonometre-server/internal/sensing/usecases"
)

type fakeReadingRepository struct {
	latestReadings []domain.Reading
	latestErr      error
	latestCalls    int

	historicPoints []domain.HistoricPoint
	historicErr    error
	historicCalls  int
	lastQuery      usecases.HistoricRowsQuery

	upsertErr     error
	upserted      []domain.Reading
	appendErr     error
	appended      []domain.Reading
	appendedAt    []time.Time
	appendedResos []domain.Resolution
}

var _ usecases.ReadingRepository = (*fakeReadingRepository)(nil)

func (f *fakeReadingRepository) LatestBySonde(ctx context.Context, limit int) ([]domain.Reading, error) {
	f.latestCalls++
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	return f.latestReadings, nil
}

func (f *fakeReadingRepository) HistoricRange(ctx context.Context, query usecases.HistoricRowsQuery) ([]domain.HistoricPoint, error) {
	f.historicCalls++
	f.lastQuery = query
	if f.historicErr != nil {
		return nil, f.historicErr
	}
	return f.historicPoints, nil
}

func (f *fakeReadingRepository) UpsertRealtime(ctx context.Context, reading domain.Reading, at time.Time) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, reading)
	return nil
}

func (f *fakeReadingRepository) AppendHistoric(ctx context.Context, reading domain.Reading, at time.Time, resolution domain.Resolution) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, reading)
	f.appendedAt = append(f.appendedAt, at)
	f.appendedResos = append(f.appendedResos, resolution)
	return nil
}
