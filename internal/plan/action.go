// Package plan decides what a run should do: which weekly thread to post,
// which daily template to rotate to, and which comments deserve a reply.
// It emits Actions; dispatching them is the orchestrator's job.
package plan

// ActionKind tags what an Action will do when dispatched.
type ActionKind string

const (
	KindWeeklyThread ActionKind = "weekly_thread"
	KindDailyContent ActionKind = "daily_content"
	KindReply        ActionKind = "reply"
)

// Status of an Action after (or instead of) dispatch.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// Outcome is the recorded result of one Action.
type Outcome struct {
	Status Status
	Reason string
	PostID string
}

// Action is one unit of work for a run. The selector-built fields are never
// mutated after creation; only Outcome is filled in as the run proceeds.
type Action struct {
	Kind  ActionKind
	Title string
	Body  string
	Flair string
	Pin   bool

	// TemplateID is set for daily content, WeekKey for weekly threads,
	// CommentID for replies.
	TemplateID string
	WeekKey    string
	CommentID  string

	Outcome Outcome
}

// Pending reports whether the action still awaits dispatch.
func (a *Action) Pending() bool {
	return a.Outcome.Status == "" || a.Outcome.Status == StatusPending
}
