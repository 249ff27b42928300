//go:build wireinject
// +build wireinject

package wire

import (
	"sonometre-server/internal/infra/async"
	"sonometre-server/internal/infra/mqtt"
	"sonometre-server/internal/sensing/httpapi"
	"sonometre-server/internal/sensing/persistence"
	"sonometre-server/internal/sensing/usecases"
	"sonometre-server/internal/sensing/workers"

	"github.com/google/wire"
)

var ReadingRepositorySet = wire.NewSet(
	provideAppConfig,
	provideDatabase,
	persistence.NewReadingRepository,
	wire.Bind(new(usecases.ReadingRepository), new(*persistence.SimpleReadingRepository)),
)

func InitializeHistoryController() (*httpapi.HistoryController, error) {
	wire.Build(
		ReadingRepositorySet,
		provideSensorCount,
		provideNowFn,
		usecases.NewHistoryService,
		wire.Bind(new(usecases.HistoryService), new(*usecases.SimpleHistoryService)),
		httpapi.NewHistoryController,
	)
	return nil, nil
}

func InitializeReadingController(broker async.Broker) (*httpapi.ReadingController, error) {
	wire.Build(
		ReadingRepositorySet,
		provideSensorCount,
		usecases.NewIngestService,
		wire.Bind(new(usecases.IngestService), new(*usecases.SimpleIngestService)),
		httpapi.NewReadingController,
	)
	return nil, nil
}

func InitializeLiveWebSocketController(broker async.Broker) (*httpapi.LiveWebSocketController, error) {
	wire.Build(
		ReadingRepositorySet,
		provideSensorCount,
		usecases.NewSnapshotService,
		wire.Bind(new(usecases.SnapshotService), new(*usecases.SimpleSnapshotService)),
		httpapi.NewLiveWebSocketController,
	)
	return nil, nil
}

func InitializeGatewayIntegrationWorker(mqttClient mqtt.Client, broker async.Broker) (*workers.GatewayIntegrationWorker, error) {
	wire.Build(
		ReadingRepositorySet,
		provideSensorCount,
		usecases.NewIngestService,
		wire.Bind(new(usecases.IngestService), new(*usecases.SimpleIngestService)),
		workers.NewGatewayIntegrationWorker,
	)
	return nil, nil
}

func InitializeRefreshWorker(schedule string, broker async.Broker) (*workers.RefreshWorker, error) {
	wire.Build(
		workers.NewRefreshWorker,
	)
	return nil, nil
}
