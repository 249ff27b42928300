package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"sonometre-server/internal/infra/async"
	"sonometre-server/internal/infra/httpserver"
	"sonometre-server/internal/sensing/domain"
	"sonometre-server/internal/sensing/httpapi/internal"
	"sonometre-server/internal/sensing/usecases"
)

const (
	recordReadingErrMessage = "failed to record reading"
)

func NewReadingController(service usecases.IngestService, broker async.Broker) *ReadingController {
	return &ReadingController{
		service: service,
		broker:  broker,
	}
}

var _ httpserver.Controller = (*ReadingController)(nil)

type ReadingController struct {
	service usecases.IngestService
	broker  async.Broker
}

func (c *ReadingController) AddRoutes(router *http.ServeMux) {
	router.Handle("POST /readings", c.recordReading())
	router.Handle("POST /notify", c.notify())
}

func (c *ReadingController) recordReading() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := internal.NewReadingRequest()
		err := httpserver.DecodeJSONBody(r, &body)
		if err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, recordReadingErrMessage)
			return
		}

		now := time.Now().UTC()
		err = c.service.RecordReading(r.Context(), body.ToDomain(), now, domain.ResolutionRaw)
		if err != nil {
			if errors.Is(err, usecases.ErrUnknownSensor) {
				httpserver.ReplyWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			slog.Error("recording reading", slog.String("error", err.Error()))
			httpserver.ReplyWithError(w, http.StatusInternalServerError, recordReadingErrMessage)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusCreated, internal.StatusResponse{Status: "success"})
	}
}

// notify triggers a broadcast of the current snapshot to all live clients.
// It always acknowledges, even when nobody is listening yet.
func (c *ReadingController) notify() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := c.broker.Publish(r.Context(), usecases.BrokerTopicReadings, async.Message{
			Event: usecases.EventRefreshRequested,
		})
		if err != nil && !errors.Is(err, async.ErrTopicNotFound) {
			slog.Warn("publishing refresh event", slog.String("error", err.Error()))
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.StatusResponse{Status: "success"})
	}
}
