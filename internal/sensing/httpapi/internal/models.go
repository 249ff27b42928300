package internal

import (
	"strconv"

	"sonometre-server/internal/sensing/domain"
)

// ReadingRequest mirrors the gateway payload. Fields are prefilled with the
// sentinel before decoding so an omitted measurement stays "no data" instead
// of a misleading zero.
type ReadingRequest struct {
	Sonde       int     `json:"sonde"`
	Temperature float64 `json:"temperature"`
	Humidite    float64 `json:"humidite"`
	CO2         float64 `json:"co2"`
	VOC         float64 `json:"compose_organic_volatile"`
	Decibels    float64 `json:"decibels"`
	Particules  float64 `json:"particules_fines"`
}

func NewReadingRequest() ReadingRequest {
	return ReadingRequest{
		Temperature: domain.SentinelValue,
		Humidite:    domain.SentinelValue,
		CO2:         domain.SentinelValue,
		VOC:         domain.SentinelValue,
		Decibels:    domain.SentinelValue,
		Particules:  domain.SentinelValue,
	}
}

func (r ReadingRequest) ToDomain() domain.Reading {
	return domain.Reading{
		Sonde:       domain.SensorID(r.Sonde),
		Temperature: r.Temperature,
		Humidity:    r.Humidite,
		CO2:         r.CO2,
		VOC:         r.VOC,
		Decibels:    r.Decibels,
		Particles:   r.Particules,
	}
}

type StatusResponse struct {
	Status string `json:"status"`
}

// ToHistoricResponse shapes series as {"<sonde>": {"dates": [...], "<measure>": [...]}}.
// Sondes that matched no rows are omitted entirely, matching the wire shape
// dashboards already consume.
func ToHistoricResponse(series domain.HistoricSeries, measure domain.Measurement, sondes []domain.SensorID) map[string]map[string]any {
	response := make(map[string]map[string]any, len(sondes))
	for _, sonde := range sondes {
		entry := series[sonde]
		if len(entry.Dates) == 0 {
			continue
		}
		response[strconv.Itoa(int(sonde))] = map[string]any{
			"dates":          entry.Dates,
			measure.String(): entry.Values,
		}
	}
	return response
}
