//go:generate go run go.uber.org/mock/mockgen -source=broadcast_ports.go -destination=../../mocks/mock_broadcast_ports.go -package=mocks
package ports

import "github.com/vncsmyrnk/livepoll/internal/core/domain"

// Broadcaster pushes events to connected clients. Implementations must not
// block: delivery is best effort and ordered per connection only.
type Broadcaster interface {
	Broadcast(evt domain.Event)
	// Disconnect tells every connection bound to name to stop.
	Disconnect(name string)
}
