package steps

import (
	"fmt"
	"strconv"
	"time"
)

func (fc *FeatureContext) iRecordAReadingForSonde(sonde int, measure string, value float64) error {
	response, err := fc.apiDriver.RecordReading(sonde, measure, value)
	if err != nil {
		return err
	}
	fc.response = response
	return nil
}

func (fc *FeatureContext) aReadingExistsForSonde(sonde int, measure string, value float64) error {
	response, err := fc.apiDriver.RecordReading(sonde, measure, value)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("recording reading failed with status %d", response.StatusCode)
	}
	return nil
}

func (fc *FeatureContext) iRequestANotificationBroadcast() error {
	response, err := fc.apiDriver.Notify()
	if err != nil {
		return err
	}
	fc.response = response
	return nil
}

func (fc *FeatureContext) iQueryTodaysHistoricData(sonde int, measure string) error {
	end := time.Now().UTC()
	start := end.Add(-1 * time.Hour)
	response, err := fc.apiDriver.GetHistoricData(start, end, []int{sonde}, measure)
	if err != nil {
		return err
	}
	fc.response = response

	var data map[string]any
	if err := fc.decodeBody(response.Body, &data); err != nil {
		return err
	}
	fc.responseData = data
	return nil
}

func (fc *FeatureContext) theResponseShouldContainASeriesForSonde(sonde int) error {
	fc.require.Contains(fc.responseData, strconv.Itoa(sonde))

	entry, ok := fc.responseData[strconv.Itoa(sonde)].(map[string]any)
	fc.require.True(ok, "series entry should be an object")
	fc.require.Contains(entry, "dates")
	return nil
}

func (fc *FeatureContext) theSeriesForSondeShouldIncludeTheValue(sonde int, value float64) error {
	entry, ok := fc.responseData[strconv.Itoa(sonde)].(map[string]any)
	fc.require.True(ok, "series entry should be an object")

	for key, raw := range entry {
		if key == "dates" {
			continue
		}
		values, ok := raw.([]any)
		fc.require.True(ok, "series values should be an array")
		for _, item := range values {
			if number, ok := item.(float64); ok && number == value {
				return nil
			}
		}
	}

	return fmt.Errorf("value %v not found in series for sonde %d", value, sonde)
}
