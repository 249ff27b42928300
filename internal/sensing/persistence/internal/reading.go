package internal

import (
	"time"

	"sonometre-server/internal/sensing/domain"
)

type RealtimeReading struct {
	Sonde       int       `json:"sonde" gorm:"primaryKey;column:sonde"`
	Temperature float64   `json:"temperature"`
	Humidite    float64   `json:"humidite" gorm:"column:humidite"`
	CO2         float64   `json:"co2" gorm:"column:co2"`
	VOC         float64   `json:"compose_organic_volatile" gorm:"column:compose_organic_volatile"`
	Decibels    float64   `json:"decibels"`
	Particules  float64   `json:"particules_fines" gorm:"column:particules_fines"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (RealtimeReading) TableName() string {
	return "sensor_data_real_time"
}

func (r RealtimeReading) ToDomain() domain.Reading {
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

func FromReading(value domain.Reading, at time.Time) RealtimeReading {
	return RealtimeReading{
		Sonde:       int(value.Sonde),
		Temperature: value.Temperature,
		Humidite:    value.Humidity,
		CO2:         value.CO2,
		VOC:         value.VOC,
		Decibels:    value.Decibels,
		Particules:  value.Particles,
		UpdatedAt:   at,
	}
}

type HistoricReading struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Sonde       int       `json:"sonde" gorm:"column:sonde;index"`
	Timestamp   time.Time `json:"timestamp" gorm:"index"`
	Poids       int       `json:"poids" gorm:"column:poids;index"`
	Temperature float64   `json:"temperature"`
	Humidite    float64   `json:"humidite" gorm:"column:humidite"`
	CO2         float64   `json:"co2" gorm:"column:co2"`
	VOC         float64   `json:"compose_organic_volatile" gorm:"column:compose_organic_volatile"`
	Decibels    float64   `json:"decibels"`
	Particules  float64   `json:"particules_fines" gorm:"column:particules_fines"`
}

func (HistoricReading) TableName() string {
	return "sensor_data_historic"
}

func (r HistoricReading) ValueOf(m domain.Measurement) float64 {
	switch m {
	case domain.MeasurementTemperature:
		return r.Temperature
	case domain.MeasurementHumidity:
		return r.Humidite
	case domain.MeasurementCO2:
		return r.CO2
	case domain.MeasurementVOC:
		return r.VOC
	case domain.MeasurementDecibels:
		return r.Decibels
	case domain.MeasurementParticles:
		return r.Particules
	}
	return domain.SentinelValue
}

func FromHistoricReading(value domain.Reading, at time.Time, resolution domain.Resolution) HistoricReading {
	return HistoricReading{
		Sonde:       int(value.Sonde),
		Timestamp:   at,
		Poids:       resolution.Seconds(),
		Temperature: value.Temperature,
		Humidite:    value.Humidity,
		CO2:         value.CO2,
		VOC:         value.VOC,
		Decibels:    value.Decibels,
		Particules:  value.Particles,
	}
}
