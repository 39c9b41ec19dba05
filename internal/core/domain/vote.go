package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vote records a user's single action on a poll. A skip has IsSkip set and
// no OptionIndex.
type Vote struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	PollID      uuid.UUID `json:"poll_id"`
	OptionIndex *int      `json:"option_index"`
	IsSkip      bool      `json:"is_skip"`
	CreatedAt   time.Time `json:"created_at"`
}
