package persistence

import (
	"context"
	"fmt"
	"time"

	"sonometre-server/internal/infra/sql"
	"sonometre-server/internal/sensing/domain"
	"sonometre-server/internal/sensing/persistence/internal"
	"sonometre-server/internal/sensing/usecases"

	"gorm.io/gorm/clause"
)

func NewReadingRepository(orm sql.ORM) (*SimpleReadingRepository, error) {
	err := orm.AutoMigrate(&internal.RealtimeReading{}, &internal.HistoricReading{})
	if err != nil {
		return nil, fmt.Errorf("auto migrating: %w", err)
	}

	return &SimpleReadingRepository{orm: orm}, nil
}

var _ usecases.ReadingRepository = (*SimpleReadingRepository)(nil)

type SimpleReadingRepository struct {
	orm sql.ORM
}

func (s *SimpleReadingRepository) LatestBySonde(ctx context.Context, limit int) ([]domain.Reading, error) {
	var entities []internal.RealtimeReading
	err := s.orm.
		WithContext(ctx).
		Order("sonde DESC").
		Limit(limit).
		Find(&entities).
		Error()

	if err != nil {
		return nil, fmt.Errorf("database query: %w", err)
	}

	result := make([]domain.Reading, len(entities))
	for i, entity := range entities {
		result[i] = entity.ToDomain()
	}

	return result, nil
}

func (s *SimpleReadingRepository) HistoricRange(ctx context.Context, query usecases.HistoricRowsQuery) ([]domain.HistoricPoint, error) {
	sondes := make([]int, len(query.Sondes))
	for i, sonde := range query.Sondes {
		sondes[i] = int(sonde)
	}

	// query.Measure passed the allow-list, so Column is a fixed literal
	var entities []internal.HistoricReading
	err := s.orm.
		WithContext(ctx).
		Where("timestamp BETWEEN ? AND ?", query.Start, query.End).
		Where("sonde IN ?", sondes).
		Where("poids = ?", query.Resolution.Seconds()).
		Where(fmt.Sprintf("%s > 0", query.Measure.Column())).
		Order("timestamp ASC").
		Find(&entities).
		Error()

	if err != nil {
		return nil, fmt.Errorf("database query: %w", err)
	}

	result := make([]domain.HistoricPoint, len(entities))
	for i, entity := range entities {
		result[i] = domain.HistoricPoint{
			Sonde:     domain.SensorID(entity.Sonde),
			Timestamp: entity.Timestamp,
			Value:     entity.ValueOf(query.Measure),
		}
	}

	return result, nil
}

func (s *SimpleReadingRepository) UpsertRealtime(ctx context.Context, reading domain.Reading, at time.Time) error {
	entity := internal.FromReading(reading, at)
	err := s.orm.
		WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "sonde"}},
			UpdateAll: true,
		}).
		Create(&entity).
		Error()

	if err != nil {
		return fmt.Errorf("database upsert: %w", err)
	}

	return nil
}

func (s *SimpleReadingRepository) AppendHistoric(ctx context.Context, reading domain.Reading, at time.Time, resolution domain.Resolution) error {
	entity := internal.FromHistoricReading(reading, at, resolution)
	err := s.orm.
		WithContext(ctx).
		Create(&entity).
		Error()

	if err != nil {
		return fmt.Errorf("database insert: %w", err)
	}

	return nil
}
