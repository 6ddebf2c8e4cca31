package plan

import (
	"sort"
	"strings"

	"github.com/La-Salida/hypnothera-community-manager/internal/community"
)

// DefaultReplyQuota bounds how many comments get a reply per run.
const DefaultReplyQuota = 3

// Engagement picks up to quota unanswered comments, oldest first so
// long-waiting commenters are never starved. The account's own comments are
// never reply targets. Ties on timestamp break on ascending comment id.
func Engagement(comments []community.Comment, quota int, selfAuthor string) []Action {
	if quota <= 0 {
		quota = DefaultReplyQuota
	}

	var eligible []community.Comment
	for _, c := range comments {
		if c.HasReply {
			continue
		}
		if selfAuthor != "" && strings.EqualFold(c.Author, selfAuthor) {
			continue
		}
		eligible = append(eligible, c)
	}

	sort.Slice(eligible, func(i, j int) bool {
		if !eligible[i].PostedAt.Equal(eligible[j].PostedAt) {
			return eligible[i].PostedAt.Before(eligible[j].PostedAt)
		}
		return eligible[i].ID < eligible[j].ID
	})

	if len(eligible) > quota {
		eligible = eligible[:quota]
	}

	actions := make([]Action, 0, len(eligible))
	for _, c := range eligible {
		actions = append(actions, Action{
			Kind:      KindReply,
			CommentID: c.ID,
		})
	}
	return actions
}
