package community

import "fmt"

// SessionError means no authenticated session could be established. Fatal
// for the run: nothing gets posted and run state stays untouched.
type SessionError struct {
	Err error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("establishing session: %v", e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }

// PostError is a per-action submission failure. The run records it and
// moves on.
type PostError struct {
	Op  string
	Err error
}

func (e *PostError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PostError) Unwrap() error { return e.Err }

// PermissionError means the account lacks the rights for a moderator-only
// operation (pinning). Always downgraded to a skip.
type PermissionError struct {
	Op string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("%s: permission denied", e.Op)
}
