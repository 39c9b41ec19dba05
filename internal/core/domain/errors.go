package domain

import "errors"

var (
	ErrPollNotFound       = errors.New("poll not found")
	ErrVoteNotFound       = errors.New("user did not act on this poll")
	ErrInvalidPollID      = errors.New("invalid poll id")
	ErrInvalidUserID      = errors.New("invalid user id")
	ErrInvalidOption      = errors.New("invalid option for this poll")
	ErrAlreadyActed       = errors.New("user already voted or skipped this poll")
	ErrDailyLimitExceeded = errors.New("daily vote limit exceeded")
	ErrEmptyTitle         = errors.New("title cannot be empty")
	ErrTooFewOptions      = errors.New("poll must have at least 2 options")
	ErrInvalidTag         = errors.New("tags must be non-empty strings")
)
