package httpserver

import "net/http"

type Controller interface {
	AddRoutes(*http.ServeMux)
}

// ShutdownableController is implemented by controllers holding long-lived
// resources (websocket hubs) that must be released on server shutdown.
type ShutdownableController interface {
	Controller
	Shutdown()
}
