// Package comments reads recent community comments from the public Atom
// feed. It is the read-only half of community engagement; posting replies
// goes through the community.Poster.
package comments

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/La-Salida/hypnothera-community-manager/internal/community"
)

// FeedSource implements community.CommentSource over the comment feed at
// <base>/r/<community>/comments/.rss. No session is needed; the feed is
// public.
type FeedSource struct {
	parser  *gofeed.Parser
	feedURL string
	self    string
}

func NewFeedSource(baseURL, communityName, selfAuthor string) *FeedSource {
	base := strings.TrimRight(baseURL, "/")
	return &FeedSource{
		parser:  gofeed.NewParser(),
		feedURL: fmt.Sprintf("%s/r/%s/comments/.rss", base, communityName),
		self:    selfAuthor,
	}
}

func (f *FeedSource) FetchRecentComments(ctx context.Context, _ community.Session, limit int) ([]community.Comment, error) {
	feed, err := f.parser.ParseURLWithContext(f.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching comment feed: %w", err)
	}
	return f.fromFeed(feed, limit, time.Now()), nil
}

type entry struct {
	comment community.Comment
	thread  string
}

// fromFeed converts feed items to comments, oldest first. A comment counts
// as answered when the account itself commented later in the same thread;
// the flat feed does not expose reply nesting, so own participation is the
// signal that a thread no longer needs engagement.
func (f *FeedSource) fromFeed(feed *gofeed.Feed, limit int, now time.Time) []community.Comment {
	entries := make([]entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		posted := now
		if item.PublishedParsed != nil {
			posted = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			posted = *item.UpdatedParsed
		}

		id := item.GUID
		if id == "" {
			id = commentID(item.Link)
		}

		body := item.Content
		if body == "" {
			body = item.Description
		}

		entries = append(entries, entry{
			comment: community.Comment{
				ID:       id,
				Author:   authorName(item),
				Body:     truncate(stripHTML(body), 500),
				PostedAt: posted,
			},
			thread: threadID(item.Link),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].comment.PostedAt.Equal(entries[j].comment.PostedAt) {
			return entries[i].comment.PostedAt.Before(entries[j].comment.PostedAt)
		}
		return entries[i].comment.ID < entries[j].comment.ID
	})

	annotateReplies(entries, f.self)

	comments := make([]community.Comment, 0, len(entries))
	for _, e := range entries {
		comments = append(comments, e.comment)
	}
	if limit > 0 && len(comments) > limit {
		comments = comments[len(comments)-limit:]
	}
	return comments
}

// annotateReplies marks comments that precede a self-authored comment in the
// same thread. Entries must be sorted oldest first.
func annotateReplies(entries []entry, self string) {
	if self == "" {
		return
	}
	lastSelf := map[string]time.Time{}
	for _, e := range entries {
		if strings.EqualFold(e.comment.Author, self) && e.thread != "" {
			lastSelf[e.thread] = e.comment.PostedAt
		}
	}
	for i := range entries {
		t, ok := lastSelf[entries[i].thread]
		if ok && entries[i].thread != "" && entries[i].comment.PostedAt.Before(t) {
			entries[i].comment.HasReply = true
		}
	}
}

// threadID extracts the post id from a comment permalink
// (/r/<community>/comments/<post>/<slug>/<comment>/).
func threadID(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, p := range parts {
		if p == "comments" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

func authorName(item *gofeed.Item) string {
	if item.Author == nil {
		return ""
	}
	return strings.TrimPrefix(item.Author.Name, "/u/")
}

func commentID(link string) string {
	h := sha256.Sum256([]byte(link))
	return fmt.Sprintf("%x", h[:16])
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
