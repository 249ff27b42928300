package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"time"

	"sonometre-server/internal/sensing/domain"
	"sonometre-server/internal/sensing/httpapi"
	"sonometre-server/internal/sensing/usecases"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeHistoryService struct {
	series    domain.HistoricSeries
	measure   domain.Measurement
	err       error
	lastQuery usecases.HistoricQuery
	calls     int
}

func (f *fakeHistoryService) QueryHistoric(ctx context.Context, query usecases.HistoricQuery) (domain.HistoricSeries, domain.Measurement, error) {
	f.calls++
	f.lastQuery = query
	if f.err != nil {
		return nil, "", f.err
	}
	return f.series, f.measure, nil
}

var _ = Describe("HistoryController", func() {
	var service *fakeHistoryService
	var router *http.ServeMux
	var recorder *httptest.ResponseRecorder
	var params url.Values

	BeforeEach(func() {
		service = &fakeHistoryService{measure: domain.MeasurementDecibels}
		controller := httpapi.NewHistoryController(service)
		router = http.NewServeMux()
		controller.AddRoutes(router)
		recorder = httptest.NewRecorder()

		params = url.Values{}
		params.Set("start", "2024-03-15T10:00:00Z")
		params.Set("end", "2024-03-15T12:00:00Z")
		params.Set("sondes", "1,2")
		params.Set("measure", "decibels")
	})

	doRequest := func() {
		request := httptest.NewRequest(http.MethodGet, "/historic-data?"+params.Encode(), nil)
		router.ServeHTTP(recorder, request)
	}

	Context("GET /historic-data", func() {
		When("the query is valid", func() {
			BeforeEach(func() {
				when := time.Date(2024, 3, 15, 11, 0, 0, 0, time.UTC)
				service.series = domain.HistoricSeries{
					1: {Dates: []time.Time{when}, Values: []float64{42.5}},
				}
			})

			It("should pass the parsed parameters to the service", func() {
				doRequest()

				Expect(service.lastQuery.Start).Should(Equal(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)))
				Expect(service.lastQuery.End).Should(Equal(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)))
				Expect(service.lastQuery.Sondes).Should(Equal([]domain.SensorID{1, 2}))
				Expect(service.lastQuery.Measure).Should(Equal("decibels"))
			})

			It("should shape the response per sonde", func() {
				doRequest()

				Expect(recorder.Code).Should(Equal(http.StatusOK))

				var body map[string]map[string]any
				Expect(json.Unmarshal(recorder.Body.Bytes(), &body)).Should(Succeed())
				Expect(body).Should(HaveKey("1"))
				Expect(body["1"]).Should(HaveKey("dates"))
				Expect(body["1"]).Should(HaveKey("decibels"))
				Expect(body["1"]["decibels"]).Should(Equal([]any{42.5}))
				// sonde 2 matched no rows and is omitted from the response
				Expect(body).ShouldNot(HaveKey("2"))
			})
		})

		When("start uses unix seconds", func() {
			BeforeEach(func() {
				params.Set("start", "1710496800")
			})

			It("should parse the timestamp", func() {
				doRequest()

				Expect(recorder.Code).Should(Equal(http.StatusOK))
				Expect(service.lastQuery.Start).Should(Equal(time.Unix(1710496800, 0).UTC()))
			})
		})

		When("start is missing", func() {
			BeforeEach(func() {
				params.Del("start")
			})

			It("should reply 400 without calling the service", func() {
				doRequest()

				Expect(recorder.Code).Should(Equal(http.StatusBadRequest))
				Expect(service.calls).Should(BeZero())
			})
		})

		When("sondes is malformed", func() {
			BeforeEach(func() {
				params.Set("sondes", "1,two")
			})

			It("should reply 400 without calling the service", func() {
				doRequest()

				Expect(recorder.Code).Should(Equal(http.StatusBadRequest))
				Expect(service.calls).Should(BeZero())
			})
		})

		When("the service rejects the query", func() {
			BeforeEach(func() {
				service.err = usecases.ErrUnknownMeasurement
			})

			It("should reply 400", func() {
				doRequest()

				Expect(recorder.Code).Should(Equal(http.StatusBadRequest))
			})
		})

		When("the service fails", func() {
			BeforeEach(func() {
				service.err = context.DeadlineExceeded
			})

			It("should reply 500 with a generic message", func() {
				doRequest()

				Expect(recorder.Code).Should(Equal(http.StatusInternalServerError))
				Expect(recorder.Body.String()).ShouldNot(ContainSubstring("deadline"))
			})
		})
	})
})
