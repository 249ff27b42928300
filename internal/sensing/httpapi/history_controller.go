package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"sonometre-server/internal/infra/httpserver"
	"sonometre-server/internal/sensing/domain"
	"sonometre-server/internal/sensing/httpapi/internal"
	"sonometre-server/internal/sensing/usecases"
)

const (
	historicQueryErrMessage = "failed to query historic data"
)

func NewHistoryController(service usecases.HistoryService) *HistoryController {
	return &HistoryController{service: service}
}

var _ httpserver.Controller = (*HistoryController)(nil)

type HistoryController struct {
	service usecases.HistoryService
}

func (c *HistoryController) AddRoutes(router *http.ServeMux) {
	router.Handle("GET /historic-data", c.historicData())
}

func (c *HistoryController) historicData() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, err := parseTimeParam(r, "start")
		if err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		end, err := parseTimeParam(r, "end")
		if err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		rawSondes, err := httpserver.GetQueryParamIntList(r, "sondes")
		if err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		sondes := make([]domain.SensorID, len(rawSondes))
		for i, sonde := range rawSondes {
			sondes[i] = domain.SensorID(sonde)
		}

		query := usecases.HistoricQuery{
			Start:   start,
			End:     end,
			Sondes:  sondes,
			Measure: httpserver.GetQueryParam(r, "measure"),
		}

		series, measure, err := c.service.QueryHistoric(r.Context(), query)
		if err != nil {
			if isBadHistoricQuery(err) {
				httpserver.ReplyWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			slog.Error("querying historic data", slog.String("error", err.Error()))
			httpserver.ReplyWithError(w, http.StatusInternalServerError, historicQueryErrMessage)
			return
		}

		response := internal.ToHistoricResponse(series, measure, sondes)
		httpserver.ReplyJSONResponse(w, http.StatusOK, response)
	}
}

func isBadHistoricQuery(err error) bool {
	return errors.Is(err, usecases.ErrInvalidRange) ||
		errors.Is(err, usecases.ErrNoSensors) ||
		errors.Is(err, usecases.ErrUnknownSensor) ||
		errors.Is(err, usecases.ErrUnknownMeasurement)
}

// parseTimeParam accepts RFC 3339 timestamps or unix seconds.
func parseTimeParam(r *http.Request, name string) (time.Time, error) {
	raw := httpserver.GetQueryParam(r, name)
	if raw == "" {
		return time.Time{}, errors.New(name + " is required")
	}

	if value, err := time.Parse(time.RFC3339, raw); err == nil {
		return value, nil
	}

	seconds, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, errors.New(name + " must be a RFC 3339 timestamp or unix seconds")
	}

	return time.Unix(seconds, 0).UTC(), nil
}
