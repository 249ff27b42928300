package driver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type APIDriver struct {
	baseURL string
	client  *http.Client
}

func NewAPIDriver(baseURL string) *APIDriver {
	return &APIDriver{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

func (d *APIDriver) GetHealthz() (*http.Response, error) {
	return d.client.Get(fmt.Sprintf("%s/healthz", d.baseURL))
}

func (d *APIDriver) Notify() (*http.Response, error) {
	return d.client.Post(fmt.Sprintf("%s/notify", d.baseURL), "application/json", nil)
}

func (d *APIDriver) RecordReading(sonde int, measure string, value float64) (*http.Response, error) {
	reqBody, err := json.Marshal(map[string]any{
		"sonde": sonde,
		measure: value,
	})
	if err != nil {
		panic(err)
	}
	return d.client.Post(fmt.Sprintf("%s/readings", d.baseURL), "application/json", bytes.NewBuffer(reqBody))
}

func (d *APIDriver) GetHistoricData(start, end time.Time, sondes []int, measure string) (*http.Response, error) {
	items := make([]string, len(sondes))
	for i, sonde := range sondes {
		items[i] = fmt.Sprintf("%d", sonde)
	}

	params := url.Values{}
	params.Set("start", start.Format(time.RFC3339))
	params.Set("end", end.Format(time.RFC3339))
	params.Set("sondes", strings.Join(items, ","))
	params.Set("measure", measure)

	return d.client.Get(fmt.Sprintf("%s/historic-data?%s", d.baseURL, params.Encode()))
}
