// Package reply generates reply text for selected comments. Selection and
// composition are deliberately separate: swapping the canned composer for a
// generated one touches nothing in the selectors.
package reply

import (
	"errors"
	"hash/fnv"

	"github.com/La-Salida/hypnothera-community-manager/internal/community"
)

// Composer produces the reply body for a comment.
type Composer interface {
	Compose(c community.Comment) (string, error)
}

// Canned picks from a fixed list of friendly replies. The pick is keyed on
// the comment id, so the same comment always gets the same reply and
// neighboring comments spread across the list.
type Canned struct {
	replies []string
}

// defaults are used when the catalog defines no reply list.
var defaults = []string{
	"Thanks for sharing! This is exactly what this community is for.",
	"Great insight! Have you noticed any other patterns?",
	"Love this! Keep us posted on your progress.",
	"Thanks for being part of the community! 🎯",
	"This resonates with a lot of people here. Appreciate you sharing.",
	"Solid advice! Thanks for contributing to the discussion.",
}

func NewCanned(replies []string) *Canned {
	if len(replies) == 0 {
		replies = defaults
	}
	return &Canned{replies: replies}
}

func (c *Canned) Compose(comment community.Comment) (string, error) {
	if comment.ID == "" {
		return "", errors.New("composing reply: comment has no id")
	}
	h := fnv.New32a()
	h.Write([]byte(comment.ID))
	return c.replies[int(h.Sum32()%uint32(len(c.replies)))], nil
}
