package domain

import "github.com/google/uuid"

type OptionCount struct {
	Option string `json:"option"`
	Count  int64  `json:"count"`
}

type PollStats struct {
	PollID uuid.UUID     `json:"poll_id"`
	Votes  []OptionCount `json:"votes"`
}
