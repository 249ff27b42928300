package usecases_test

import (
	"context"
	"errors"
	"time"

	"sonometre-server/internal/infra/async"
	"sonometre-server/internal/sensing/domain"
	"sonometre-server/internal/sensing/usecases"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("IngestService", func() {
	var repository *fakeReadingRepository
	var broker *async.MemoryBroker
	var service *usecases.SimpleIngestService
	var ctx context.Context
	var reading domain.Reading
	var at time.Time

	BeforeEach(func() {
		repository = &fakeReadingRepository{}
		broker = async.NewMemoryBroker()
		service = usecases.NewIngestService(repository, broker, 5)
		ctx = context.TODO()
		reading = domain.MissingReading(2)
		reading.SetValue(domain.MeasurementDecibels, 42.5)
		at = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	})

	Context("RecordReading", func() {
		When("the reading is valid", func() {
			It("should persist both representations", func() {
				err := service.RecordReading(ctx, reading, at, domain.ResolutionRaw)

				Expect(err).ShouldNot(HaveOccurred())
				Expect(repository.upserted).Should(HaveLen(1))
				Expect(repository.appended).Should(HaveLen(1))
				Expect(repository.appendedResos[0]).Should(Equal(domain.ResolutionRaw))
			})

			It("should publish an ingestion event to subscribers", func() {
				subscription, _ := broker.Subscribe(usecases.BrokerTopicReadings)

				err := service.RecordReading(ctx, reading, at, domain.ResolutionRaw)

				Expect(err).ShouldNot(HaveOccurred())
				Eventually(subscription.Receiver).Should(Receive(And(
					HaveField("Event", usecases.EventReadingIngested),
					HaveField("Value", reading),
				)))
			})
		})

		When("nobody subscribed yet", func() {
			It("should still succeed", func() {
				err := service.RecordReading(ctx, reading, at, domain.ResolutionRaw)

				Expect(err).ShouldNot(HaveOccurred())
			})
		})

		When("the sonde is out of range", func() {
			BeforeEach(func() {
				reading.Sonde = 6
			})

			It("should reject the reading before touching the store", func() {
				err := service.RecordReading(ctx, reading, at, domain.ResolutionRaw)

				Expect(err).Should(MatchError(usecases.ErrUnknownSensor))
				Expect(repository.upserted).Should(BeEmpty())
			})
		})

		When("the realtime upsert fails", func() {
			BeforeEach(func() {
				repository.upsertErr = errors.New("connection refused")
			})

			It("should return an opaque error", func() {
				err := service.RecordReading(ctx, reading, at, domain.ResolutionRaw)

				Expect(err).Should(HaveOccurred())
				Expect(err.Error()).ShouldNot(ContainSubstring("connection refused"))
				Expect(repository.appended).Should(BeEmpty())
			})
		})
	})
})
