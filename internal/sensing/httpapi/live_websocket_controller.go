package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"sonometre-server/internal/infra/async"
	"sonometre-server/internal/infra/httpserver"
	"sonometre-server/internal/sensing/usecases"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin for development
		// In production, you should validate the origin
		return true
	},
}

// LiveWebSocketController pushes the full snapshot to every connected client
// whenever a reading is ingested or a refresh is requested. The snapshot is
// assembled and marshaled once per event, so all clients of a given event see
// the same bytes.
type LiveWebSocketController struct {
	broker     async.Broker
	snapshots  usecases.SnapshotService
	clients    map[*websocket.Conn]bool
	clientsMux sync.RWMutex
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewLiveWebSocketController(broker async.Broker, snapshots usecases.SnapshotService) *LiveWebSocketController {
	ctx, cancel := context.WithCancel(context.Background())

	wsc := &LiveWebSocketController{
		broker:     broker,
		snapshots:  snapshots,
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		ctx:        ctx,
		cancel:     cancel,
	}

	// Start the hub
	go wsc.run()

	return wsc
}

var _ httpserver.Controller = (*LiveWebSocketController)(nil)

func (wsc *LiveWebSocketController) AddRoutes(router *http.ServeMux) {
	router.Handle("GET /ws/live", wsc.handleWebSocket())
}

func (wsc *LiveWebSocketController) handleWebSocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("websocket upgrade failed", slog.String("error", err.Error()))
			return
		}

		slog.Info("new websocket connection established", slog.String("remote_addr", r.RemoteAddr))

		select {
		case wsc.register <- conn:
		case <-wsc.ctx.Done():
			conn.Close()
			return
		}

		go wsc.handlePingPong(conn)
		go wsc.handleClient(conn)
	}
}

func (wsc *LiveWebSocketController) handleClient(conn *websocket.Conn) {
	defer func() {
		// The hub may already be gone; a cancelled context means nobody
		// will drain unregister.
		select {
		case wsc.unregister <- conn:
		case <-wsc.ctx.Done():
		}
		conn.Close()
	}()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("websocket read error", slog.String("error", err.Error()))
			} else {
				slog.Debug("websocket connection closed", slog.String("error", err.Error()))
			}
			break
		}
	}
}

func (wsc *LiveWebSocketController) handlePingPong(conn *websocket.Conn) {
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-wsc.ctx.Done():
			return
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (wsc *LiveWebSocketController) run() {
	subscription, err := wsc.broker.Subscribe(usecases.BrokerTopicReadings)
	if err != nil {
		slog.Error("failed to subscribe to readings", slog.String("error", err.Error()))
		return
	}
	defer wsc.broker.Unsubscribe(usecases.BrokerTopicReadings, subscription)

	for {
		select {
		case <-wsc.ctx.Done():
			return

		case client := <-wsc.register:
			wsc.clientsMux.Lock()
			wsc.clients[client] = true
			wsc.clientsMux.Unlock()
			slog.Info("websocket client registered", slog.Int("total_clients", wsc.ClientCount()))

			// New clients get the current snapshot right away.
			wsc.broadcastSnapshot(map[*websocket.Conn]bool{client: true})

		case client := <-wsc.unregister:
			wsc.clientsMux.Lock()
			if _, ok := wsc.clients[client]; ok {
				delete(wsc.clients, client)
				closeClient := func() {
					defer func() {
						if r := recover(); r != nil {
							slog.Warn("recovered from panic while closing websocket", slog.Any("panic", r))
						}
					}()
					client.Close()
				}
				closeClient()
			}
			wsc.clientsMux.Unlock()
			slog.Info("websocket client unregistered", slog.Int("total_clients", wsc.ClientCount()))

		case brokerMsg := <-subscription.Receiver:
			switch brokerMsg.Event {
			case usecases.EventReadingIngested, usecases.EventRefreshRequested:
				wsc.broadcastSnapshot(nil)
			}
		}
	}
}

// broadcastSnapshot assembles the snapshot once and writes the same payload
// to the given clients, or to every registered client when targets is nil.
// Runs on the hub goroutine so no event interleaves two deliveries.
func (wsc *LiveWebSocketController) broadcastSnapshot(targets map[*websocket.Conn]bool) {
	ctx, cancel := context.WithTimeout(wsc.ctx, 5*time.Second)
	defer cancel()

	snapshot, err := wsc.snapshots.AssembleSnapshot(ctx)
	if err != nil {
		slog.Error("assembling snapshot for broadcast", slog.String("error", err.Error()))
		return
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		slog.Error("marshaling snapshot", slog.String("error", err.Error()))
		return
	}

	wsc.clientsMux.Lock()
	defer wsc.clientsMux.Unlock()

	if targets == nil {
		targets = wsc.clients
	}

	for client := range targets {
		client.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := client.WriteMessage(websocket.TextMessage, payload); err != nil {
			slog.Error("failed to write snapshot to websocket client", slog.String("error", err.Error()))
			client.Close()
			delete(wsc.clients, client)
		}
	}
}

func (wsc *LiveWebSocketController) ClientCount() int {
	wsc.clientsMux.RLock()
	defer wsc.clientsMux.RUnlock()
	return len(wsc.clients)
}

func (wsc *LiveWebSocketController) Shutdown() {
	slog.Info("shutting down live websocket controller")
	wsc.cancel()

	wsc.clientsMux.Lock()
	for client := range wsc.clients {
		client.Close()
	}
	wsc.clients = make(map[*websocket.Conn]bool)
	wsc.clientsMux.Unlock()
}
