package usecases_test

import (
	"context"
	"errors"

	"sonometre-server/internal/sensing/domain"
	"sonometre-server/internal/sensing/usecases"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SnapshotService", func() {
	var repository *fakeReadingRepository
	var service *usecases.SimpleSnapshotService
	var ctx context.Context

	BeforeEach(func() {
		repository = &fakeReadingRepository{}
		service = usecases.NewSnapshotService(repository, 5)
		ctx = context.TODO()
	})

	Context("AssembleSnapshot", func() {
		When("the store has data for some sondes only", func() {
			BeforeEach(func() {
				reading := domain.MissingReading(2)
				reading.SetValue(domain.MeasurementDecibels, 42.5)
				repository.latestReadings = []domain.Reading{reading}
			})

			It("should fill the gaps with sentinel readings", func() {
				snapshot, err := service.AssembleSnapshot(ctx)

				Expect(err).ShouldNot(HaveOccurred())
				Expect(snapshot).Should(HaveLen(5))
				Expect(snapshot[2].Decibels).Should(Equal(42.5))
				Expect(snapshot[1]).Should(Equal(domain.MissingReading(1)))
				Expect(snapshot[5]).Should(Equal(domain.MissingReading(5)))
			})
		})

		When("the store is empty", func() {
			It("should yield a full sentinel snapshot", func() {
				snapshot, err := service.AssembleSnapshot(ctx)

				Expect(err).ShouldNot(HaveOccurred())
				Expect(snapshot).Should(HaveLen(5))
				for i := 1; i <= 5; i++ {
					Expect(snapshot[domain.SensorID(i)]).Should(Equal(domain.MissingReading(domain.SensorID(i))))
				}
			})
		})

		When("the repository fails", func() {
			BeforeEach(func() {
				repository.latestErr = errors.New("connection refused")
			})

			It("should return an opaque error", func() {
				snapshot, err := service.AssembleSnapshot(ctx)

				Expect(err).Should(HaveOccurred())
				Expect(snapshot).Should(BeNil())
				Expect(err.Error()).ShouldNot(ContainSubstring("connection refused"))
			})
		})
	})
})
