package bandit

import "errors"

var (
	// ErrUnknownArm is returned when an update targets a section with no arm.
	ErrUnknownArm = errors.New("unknown arm")

	ErrInvalidReward = errors.New("invalid reward")
	ErrNoRewards     = errors.New("no rewards given")
)
