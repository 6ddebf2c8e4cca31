package community

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
)

// Bridge implements Dialer and Poster by invoking an external helper
// command once per operation. The helper owns all browser mechanics and
// retry policy; this side only moves JSON across stdin/stdout.
//
// Protocol: the helper is called as `cmd [args...] <op>` with a JSON
// request on stdin and answers with a single JSON object on stdout.
type Bridge struct {
	Command string
	Args    []string
}

type bridgeSession struct {
	ID string
}

type bridgeRequest struct {
	Session   string `json:"session,omitempty"`
	Username  string `json:"username,omitempty"`
	Password  string `json:"password,omitempty"`
	Proxy     string `json:"proxy,omitempty"`
	Title     string `json:"title,omitempty"`
	Body      string `json:"body,omitempty"`
	Flair     string `json:"flair,omitempty"`
	CommentID string `json:"comment_id,omitempty"`
	PostID    string `json:"post_id,omitempty"`
}

type bridgeResponse struct {
	OK               bool   `json:"ok"`
	SessionID        string `json:"session_id,omitempty"`
	PostID           string `json:"post_id,omitempty"`
	ReplyID          string `json:"reply_id,omitempty"`
	Error            string `json:"error,omitempty"`
	PermissionDenied bool   `json:"permission_denied,omitempty"`
}

func (b *Bridge) run(ctx context.Context, op string, req bridgeRequest) (*bridgeResponse, error) {
	if b.Command == "" {
		return nil, fmt.Errorf("no bridge command configured")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding %s request: %w", op, err)
	}

	args := append(append([]string{}, b.Args...), op)
	cmd := exec.CommandContext(ctx, b.Command, args...)
	cmd.Stdin = bytes.NewReader(payload)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("running bridge %s: %w", op, err)
	}

	var resp bridgeResponse
	if err := json.Unmarshal(out, &resp); err != nil {
		return nil, fmt.Errorf("decoding bridge %s response: %w", op, err)
	}
	return &resp, nil
}

func (b *Bridge) EstablishSession(ctx context.Context, creds Credentials) (Session, error) {
	resp, err := b.run(ctx, "session", bridgeRequest{
		Username: creds.Username,
		Password: creds.Password,
		Proxy:    creds.Proxy,
	})
	if err != nil {
		return nil, &SessionError{Err: err}
	}
	if !resp.OK {
		return nil, &SessionError{Err: fmt.Errorf("%s", resp.Error)}
	}
	return bridgeSession{ID: resp.SessionID}, nil
}

func (b *Bridge) Post(ctx context.Context, s Session, p Post) (string, error) {
	resp, err := b.run(ctx, "post", bridgeRequest{
		Session: sessionID(s),
		Title:   p.Title,
		Body:    p.Body,
		Flair:   p.Flair,
	})
	if err != nil {
		return "", &PostError{Op: "post", Err: err}
	}
	if !resp.OK {
		return "", &PostError{Op: "post", Err: fmt.Errorf("%s", resp.Error)}
	}
	return resp.PostID, nil
}

func (b *Bridge) Reply(ctx context.Context, s Session, commentID, body string) (string, error) {
	resp, err := b.run(ctx, "reply", bridgeRequest{
		Session:   sessionID(s),
		CommentID: commentID,
		Body:      body,
	})
	if err != nil {
		return "", &PostError{Op: "reply", Err: err}
	}
	if !resp.OK {
		return "", &PostError{Op: "reply", Err: fmt.Errorf("%s", resp.Error)}
	}
	return resp.ReplyID, nil
}

func (b *Bridge) Pin(ctx context.Context, s Session, postID string) error {
	resp, err := b.run(ctx, "pin", bridgeRequest{
		Session: sessionID(s),
		PostID:  postID,
	})
	if err != nil {
		return &PostError{Op: "pin", Err: err}
	}
	if resp.PermissionDenied {
		return &PermissionError{Op: "pin"}
	}
	if !resp.OK {
		return &PostError{Op: "pin", Err: fmt.Errorf("%s", resp.Error)}
	}
	return nil
}

func sessionID(s Session) string {
	if bs, ok := s.(bridgeSession); ok {
		return bs.ID
	}
	return ""
}
