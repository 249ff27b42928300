package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"strconv"
	"sync"
	"time"

	"sonometre-server/internal/infra/async"
	"sonometre-server/internal/infra/mqtt"
	"sonometre-server/internal/sensing/domain"
	"sonometre-server/internal/sensing/usecases"
)

const (
	_readingsTopic      = "sonometre/sondes/+/readings"
	_readingsQoS   byte = 0
)

// GatewayIntegrationWorker bridges the MQTT gateway into the ingest path.
// Each sonde publishes its readings on sonometre/sondes/<id>/readings.
func NewGatewayIntegrationWorker(
	mqttClient mqtt.Client,
	service usecases.IngestService,
) *GatewayIntegrationWorker {
	return &GatewayIntegrationWorker{
		mqttClient: mqttClient,
		service:    service,
	}
}

var _ async.Worker = (*GatewayIntegrationWorker)(nil)

type GatewayIntegrationWorker struct {
	mqttClient mqtt.Client
	service    usecases.IngestService
}

func (w *GatewayIntegrationWorker) Run(ctx context.Context, done func()) {
	slog.Info("gateway integration worker started")
	defer done()
	var wg sync.WaitGroup

	err := w.mqttClient.Subscribe(_readingsTopic, _readingsQoS, w.messageHandler(ctx, &wg))
	if err != nil {
		slog.Error("subscribing to readings topic", slog.String("topic", _readingsTopic), slog.Any("error", err))
		return
	}

	<-ctx.Done()
	slog.Warn("gateway integration worker cancelled")
	wg.Wait()
}

var topicRegex = regexp.MustCompile(`^sonometre/sondes/(\d+)/readings$`)

func (w *GatewayIntegrationWorker) messageHandler(ctx context.Context, wg *sync.WaitGroup) mqtt.MessageHandler {
	return func(client mqtt.Client, msg mqtt.Message) {
		slog.Info("message received",
			slog.String("topic", msg.Topic()),
			slog.Uint64("message_id", uint64(msg.MessageID())),
		)

		result := topicRegex.FindStringSubmatch(msg.Topic())
		if len(result) < 2 {
			slog.Error("invalid topic", slog.String("topic", msg.Topic()))
			return
		}

		sonde, err := strconv.Atoi(result[1])
		if err != nil {
			slog.Error("invalid sonde segment", slog.String("topic", msg.Topic()))
			return
		}

		wg.Add(1)
		go w.readingHandler(ctx, sonde, msg.Payload(), wg.Done)
	}
}

func (w *GatewayIntegrationWorker) readingHandler(ctx context.Context, sonde int, payload []byte, done func()) {
	defer done()

	reading := domain.MissingReading(domain.SensorID(sonde))
	if err := json.Unmarshal(payload, &reading); err != nil {
		slog.Error("unmarshaling reading payload", slog.Int("sonde", sonde), slog.Any("error", err))
		return
	}
	reading.Sonde = domain.SensorID(sonde)

	err := w.service.RecordReading(ctx, reading, time.Now().UTC(), domain.ResolutionRaw)
	if err != nil {
		slog.Error("recording gateway reading", slog.Int("sonde", sonde), slog.Any("error", err))
		return
	}

	slog.Debug("gateway reading recorded", slog.Int("sonde", sonde))
}

func (w *GatewayIntegrationWorker) Shutdown() {
	slog.Info("shutting down gateway integration worker")
	w.mqttClient.Disconnect()
}
