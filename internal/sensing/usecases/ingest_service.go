package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sonometre-server/internal/infra/async"
	"sonometre-server/internal/sensing/domain"
)

const (
	BrokerTopicReadings async.Topic = "readings"

	EventReadingIngested  = "reading_ingested"
	EventRefreshRequested = "refresh_requested"
)

func NewIngestService(repository ReadingRepository, broker async.Broker, sensorCount int) *SimpleIngestService {
	return &SimpleIngestService{
		repository:  repository,
		broker:      broker,
		sensorCount: sensorCount,
	}
}

var _ IngestService = (*SimpleIngestService)(nil)

type SimpleIngestService struct {
	repository  ReadingRepository
	broker      async.Broker
	sensorCount int
}

func (s *SimpleIngestService) RecordReading(ctx context.Context, reading domain.Reading, at time.Time, resolution domain.Resolution) error {
	if reading.Sonde < 1 || int(reading.Sonde) > s.sensorCount {
		return fmt.Errorf("%w: %d", ErrUnknownSensor, reading.Sonde)
	}

	if err := s.repository.UpsertRealtime(ctx, reading, at); err != nil {
		slog.Error("upserting real-time reading", slog.Int("sonde", int(reading.Sonde)), slog.Any("error", err))
		return errUnknown
	}

	if err := s.repository.AppendHistoric(ctx, reading, at, resolution); err != nil {
		slog.Error("appending historic reading", slog.Int("sonde", int(reading.Sonde)), slog.Any("error", err))
		return errUnknown
	}

	err := s.broker.Publish(ctx, BrokerTopicReadings, async.Message{
		Event: EventReadingIngested,
		Value: reading,
	})
	if err != nil && !errors.Is(err, async.ErrTopicNotFound) {
		slog.Warn("publishing reading ingested event", slog.Any("error", err))
	}

	return nil
}
