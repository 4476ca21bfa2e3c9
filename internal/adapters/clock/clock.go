package clock

import (
	"time"

	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

type Clock struct{}

func New() ports.Clock {
	return Clock{}
}

func (Clock) Now() time.Time {
	return time.Now().UTC()
}

func (Clock) AfterFunc(d time.Duration, f func()) ports.Timer {
	return time.AfterFunc(d, f)
}
