package domain

// SensorID identifies a sonde. Valid identifiers are 1..N where N is the
// configured sensor count.
type SensorID int

// SentinelValue marks "no data available". Distinct from a genuine zero.
const SentinelValue float64 = -1

// Reading is the set of measurements reported by one sonde.
type Reading struct {
	Sonde       SensorID `json:"sonde"`
	Temperature float64  `json:"temperature"`
	Humidity    float64  `json:"humidite"`
	CO2         float64  `json:"co2"`
	VOC         float64  `json:"compose_organic_volatile"`
	Decibels    float64  `json:"decibels"`
	Particles   float64  `json:"particules_fines"`
}

// MissingReading synthesizes a reading with every measurement set to the
// sentinel, representing a sonde the store has no data for.
func MissingReading(id SensorID) Reading {
	return Reading{
		Sonde:       id,
		Temperature: SentinelValue,
		Humidity:    SentinelValue,
		CO2:         SentinelValue,
		VOC:         SentinelValue,
		Decibels:    SentinelValue,
		Particles:   SentinelValue,
	}
}

func (r Reading) Value(m Measurement) float64 {
	switch m {
	case MeasurementTemperature:
		return r.Temperature
	case MeasurementHumidity:
		return r.Humidity
	case MeasurementCO2:
		return r.CO2
	case MeasurementVOC:
		return r.VOC
	case MeasurementDecibels:
		return r.Decibels
	case MeasurementParticles:
		return r.Particles
	}
	return SentinelValue
}

func (r *Reading) SetValue(m Measurement, value float64) {
	switch m {
	case MeasurementTemperature:
		r.Temperature = value
	case MeasurementHumidity:
		r.Humidity = value
	case MeasurementCO2:
		r.CO2 = value
	case MeasurementVOC:
		r.VOC = value
	case MeasurementDecibels:
		r.Decibels = value
	case MeasurementParticles:
		r.Particles = value
	}
}

// Snapshot maps every configured sonde to its latest known reading. It is
// assembled on demand and never persisted.
type Snapshot map[SensorID]Reading
