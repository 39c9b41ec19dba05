package domain

// FeedPage is one page of the feed. TotalCount is nil when the count was
// not computed; pagination must rely on HasMore.
type FeedPage struct {
	Polls      []*Poll `json:"polls"`
	HasMore    bool    `json:"has_more"`
	TotalCount *int    `json:"total_count"`
}

// FeedSnapshot is a view over the cached most-recent polls.
// Truncated is set when the snapshot hit its size cap, meaning older polls
// exist only in the store.
type FeedSnapshot struct {
	Polls     []*Poll
	Truncated bool
}
