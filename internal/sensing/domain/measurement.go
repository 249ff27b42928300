package domain

// Measurement names a physical quantity reported by a sonde. The set is
// fixed: it doubles as the allow-list guarding which columns a historic
// query may select, so user input never reaches SQL unvalidated.
type Measurement string

const (
	MeasurementTemperature Measurement = "temperature"
	MeasurementHumidity    Measurement = "humidite"
	MeasurementCO2         Measurement = "co2"
	MeasurementVOC         Measurement = "compose_organic_volatile"
	MeasurementDecibels    Measurement = "decibels"
	MeasurementParticles   Measurement = "particules_fines"
)

var measurementColumns = map[Measurement]string{
	MeasurementTemperature: "temperature",
	MeasurementHumidity:    "humidite",
	MeasurementCO2:         "co2",
	MeasurementVOC:         "compose_organic_volatile",
	MeasurementDecibels:    "decibels",
	MeasurementParticles:   "particules_fines",
}

// Measurements returns the full set in stable order.
func Measurements() []Measurement {
	return []Measurement{
		MeasurementTemperature,
		MeasurementHumidity,
		MeasurementCO2,
		MeasurementVOC,
		MeasurementDecibels,
		MeasurementParticles,
	}
}

// ParseMeasurement validates a raw name against the allow-list.
func ParseMeasurement(value string) (Measurement, bool) {
	m := Measurement(value)
	if _, ok := measurementColumns[m]; !ok {
		return "", false
	}
	return m, true
}

// Column returns the SQL column backing the measurement. Only valid for
// measurements obtained through ParseMeasurement or the constants above.
func (m Measurement) Column() string {
	return measurementColumns[m]
}

func (m Measurement) String() string {
	return string(m)
}
