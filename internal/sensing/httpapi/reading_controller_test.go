package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"sonometre-server/internal/infra/async"
	"sonometre-server/internal/sensing/domain"
	"sonometre-server/internal/sensing/httpapi"
	"sonometre-server/internal/sensing/usecases"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeIngestService struct {
	err         error
	lastReading domain.Reading
	calls       int
}

func (f *fakeIngestService) RecordReading(ctx context.Context, reading domain.Reading, at time.Time, resolution domain.Resolution) error {
	f.calls++
	f.lastReading = reading
	return f.err
}

var _ = Describe("ReadingController", func() {
	var service *fakeIngestService
	var broker *async.MemoryBroker
	var router *http.ServeMux
	var recorder *httptest.ResponseRecorder

	BeforeEach(func() {
		service = &fakeIngestService{}
		broker = async.NewMemoryBroker()
		controller := httpapi.NewReadingController(service, broker)
		router = http.NewServeMux()
		controller.AddRoutes(router)
		recorder = httptest.NewRecorder()
	})

	Context("POST /readings", func() {
		When("the payload is complete", func() {
			It("should record the reading", func() {
				request := httptest.NewRequest(http.MethodPost, "/readings",
					strings.NewReader(`{"sonde":2,"decibels":42.5,"temperature":21.0}`))
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).Should(Equal(http.StatusCreated))
				Expect(service.lastReading.Sonde).Should(Equal(domain.SensorID(2)))
				Expect(service.lastReading.Decibels).Should(Equal(42.5))
				Expect(service.lastReading.Temperature).Should(Equal(21.0))
			})
		})

		When("a measurement is omitted", func() {
			It("should keep the sentinel for it", func() {
				request := httptest.NewRequest(http.MethodPost, "/readings",
					strings.NewReader(`{"sonde":1,"decibels":42.5}`))
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).Should(Equal(http.StatusCreated))
				Expect(service.lastReading.Decibels).Should(Equal(42.5))
				Expect(service.lastReading.Temperature).Should(Equal(domain.SentinelValue))
				Expect(service.lastReading.CO2).Should(Equal(domain.SentinelValue))
			})
		})

		When("the payload is not json", func() {
			It("should reply 400 without calling the service", func() {
				request := httptest.NewRequest(http.MethodPost, "/readings", strings.NewReader("not json"))
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).Should(Equal(http.StatusBadRequest))
				Expect(service.calls).Should(BeZero())
			})
		})

		When("the sonde is unknown", func() {
			BeforeEach(func() {
				service.err = usecases.ErrUnknownSensor
			})

			It("should reply 400", func() {
				request := httptest.NewRequest(http.MethodPost, "/readings",
					strings.NewReader(`{"sonde":99,"decibels":42.5}`))
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).Should(Equal(http.StatusBadRequest))
			})
		})
	})

	Context("POST /notify", func() {
		It("should publish a refresh event to subscribers", func() {
			subscription, _ := broker.Subscribe(usecases.BrokerTopicReadings)

			request := httptest.NewRequest(http.MethodPost, "/notify", nil)
			router.ServeHTTP(recorder, request)

			Expect(recorder.Code).Should(Equal(http.StatusOK))
			Eventually(subscription.Receiver).Should(Receive(
				HaveField("Event", usecases.EventRefreshRequested),
			))
		})

		It("should acknowledge even without subscribers", func() {
			request := httptest.NewRequest(http.MethodPost, "/notify", nil)
			router.ServeHTTP(recorder, request)

			Expect(recorder.Code).Should(Equal(http.StatusOK))

			var body map[string]string
			Expect(json.Unmarshal(recorder.Body.Bytes(), &body)).Should(Succeed())
			Expect(body).Should(HaveKeyWithValue("status", "success"))
		})
	})
})
