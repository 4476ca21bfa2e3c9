package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidName         = fmt.Errorf("%w: name is required", ErrInvalidInput)
	ErrInvalidTimeLimit    = fmt.Errorf("%w: time limit must be a positive number of seconds within range", ErrInvalidInput)
	ErrInvalidQuestion     = fmt.Errorf("%w: question needs text and at least two distinct options", ErrInvalidInput)
	ErrCorrectMaskMismatch = fmt.Errorf("%w: correct answers must match the options one to one", ErrInvalidInput)

	ErrInvalidOption       = errors.New("invalid option")
	ErrNoActiveRound       = errors.New("no active question")
	ErrDuplicateAnswer     = errors.New("answer already submitted")
	ErrRoundInProgress     = errors.New("wait until all participants have answered the current question before creating a new one")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrHistoryFrozen       = errors.New("history entry is closed")
	ErrHistoryNotFound     = errors.New("history entry not found")
)
