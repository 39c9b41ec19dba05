package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Poll struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Options   []string  `json:"options"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// HasAnyTag reports whether the poll carries at least one of tags.
// An empty tags list matches every poll.
func (p *Poll) HasAnyTag(tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, have := range p.Tags {
		for _, want := range tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// OptionLabel resolves an option index to its label. Indices outside the
// options sequence get a synthetic "Option N" label.
func (p *Poll) OptionLabel(index int) string {
	if index >= 0 && index < len(p.Options) {
		return p.Options[index]
	}
	return fmt.Sprintf("Option %d", index+1)
}
