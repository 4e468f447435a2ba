// Package execution turns orders into fills, either against a simulated
// exchange or through a live broker session.
package execution

import "github.com/rxtech-lab/event-trading/internal/types"

// Handler consumes OrderEvents and produces FillEvents on the shared queue.
type Handler interface {
	// ExecuteOrder submits the order for execution. A simulated handler
	// fills synchronously; a live handler acknowledges submission and
	// delivers the fill asynchronously.
	ExecuteOrder(order types.OrderEvent) error
}
