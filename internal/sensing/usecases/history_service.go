package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sonometre-server/internal/sensing/domain"
)

func NewHistoryService(repository ReadingRepository, sensorCount int, nowFn func() time.Time) *SimpleHistoryService {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &SimpleHistoryService{
		repository:  repository,
		sensorCount: sensorCount,
		nowFn:       nowFn,
	}
}

var _ HistoryService = (*SimpleHistoryService)(nil)

type SimpleHistoryService struct {
	repository  ReadingRepository
	sensorCount int
	nowFn       func() time.Time
}

// QueryHistoric validates the request, selects the bucket resolution from
// the range's age and reshapes matching rows into per-sonde series. All
// validation happens before any repository call.
func (s *SimpleHistoryService) QueryHistoric(ctx context.Context, query HistoricQuery) (domain.HistoricSeries, domain.Measurement, error) {
	measure, err := s.validate(query)
	if err != nil {
		return nil, "", err
	}

	rowsQuery := HistoricRowsQuery{
		Start:      query.Start,
		End:        query.End,
		Sondes:     query.Sondes,
		Measure:    measure,
		Resolution: domain.ResolutionFor(query.Start, s.nowFn()),
	}

	points, err := s.repository.HistoricRange(ctx, rowsQuery)
	if err != nil {
		slog.Error("fetching historic rows",
			slog.Time("start", query.Start),
			slog.Time("end", query.End),
			slog.Any("error", err))
		return nil, "", fmt.Errorf("fetching historic rows: %w", errUnknown)
	}

	series := make(domain.HistoricSeries)
	for _, point := range points {
		entry := series[point.Sonde]
		entry.Dates = append(entry.Dates, point.Timestamp)
		entry.Values = append(entry.Values, point.Value)
		series[point.Sonde] = entry
	}

	return series, measure, nil
}

func (s *SimpleHistoryService) validate(query HistoricQuery) (domain.Measurement, error) {
	if query.End.Before(query.Start) {
		return "", ErrInvalidRange
	}

	if len(query.Sondes) == 0 {
		return "", ErrNoSensors
	}

	for _, sonde := range query.Sondes {
		if sonde < 1 || int(sonde) > s.sensorCount {
			return "", fmt.Errorf("%w: %d", ErrUnknownSensor, sonde)
		}
	}

	measure, ok := domain.ParseMeasurement(query.Measure)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMeasurement, query.Measure)
	}

	return measure, nil
}
