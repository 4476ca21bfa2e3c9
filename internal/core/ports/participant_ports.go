//go:generate go run go.uber.org/mock/mockgen -source=participant_ports.go -destination=../../mocks/mock_participant_ports.go -package=mocks
package ports

import "context"

// ParticipantRepository persists the set of registered participant names.
type ParticipantRepository interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, names []string) error
}
