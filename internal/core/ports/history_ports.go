//go:generate go run go.uber.org/mock/mockgen -source=history_ports.go -destination=../../mocks/mock_history_ports.go -package=mocks
package ports

import (
	"context"

	"github.com/vncsmyrnk/livepoll/internal/core/domain"
)

type HistoryRepository interface {
	Append(ctx context.Context, entry domain.HistoryEntry) error
	Update(ctx context.Context, entry domain.HistoryEntry) error
	List(ctx context.Context) ([]domain.HistoryEntry, error)
}
