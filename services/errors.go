package services

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTarget     = errors.New("invalid target type")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrCheckInTooSoon    = errors.New("already checked in to this venue in the last 24 hours")
	ErrTooFar            = errors.New("too far from the venue to check in")
	ErrInvalidTransition = errors.New("comment cannot move to that status")
)
