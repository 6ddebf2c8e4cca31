// Package community defines the contracts between the engine and the
// collaborators that actually talk to the community site. The engine never
// drives a browser itself; it hands fully-formed posts and replies to a
// Poster and reads comments from a CommentSource.
package community

import (
	"context"
	"time"
)

// Session is an opaque handle produced by a Dialer and passed back to every
// posting call.
type Session interface{}

// Credentials for the community account, plus an optional outbound proxy.
type Credentials struct {
	Username string
	Password string
	Proxy    string
}

// Post is a fully-rendered submission.
type Post struct {
	Title string
	Body  string
	Flair string
	Pin   bool
}

// Comment is a community comment as seen by the engine. Read-only: the
// engine only filters and ranks these.
type Comment struct {
	ID       string
	Author   string
	Body     string
	HasReply bool
	PostedAt time.Time
}

// Dialer establishes an authenticated session.
type Dialer interface {
	EstablishSession(ctx context.Context, creds Credentials) (Session, error)
}

// Poster submits posts and replies. Pin may fail with *PermissionError when
// the account lacks moderator rights; callers must treat that as a skip,
// never as fatal.
type Poster interface {
	Post(ctx context.Context, s Session, p Post) (postID string, err error)
	Reply(ctx context.Context, s Session, commentID, body string) (replyID string, err error)
	Pin(ctx context.Context, s Session, postID string) error
}

// CommentSource fetches recent comments from the community.
type CommentSource interface {
	FetchRecentComments(ctx context.Context, s Session, limit int) ([]Comment, error)
}
