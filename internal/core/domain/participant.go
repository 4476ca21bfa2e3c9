package domain

import (
	"strings"
	"time"
)

// Participant names are self-asserted and unique while connected.
type Participant struct {
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joinedAt"`
}

func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}
	return name, nil
}
