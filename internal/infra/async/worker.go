package async

import "context"

type Worker interface {
	// Run blocks until the context is cancelled. done is invoked on exit.
	Run(context.Context, func())
	Shutdown()
}
