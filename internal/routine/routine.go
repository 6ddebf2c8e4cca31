// Package routine runs the daily community management routine: one
// invocation plans the day's actions, dispatches them through the community
// collaborators, and records the bookkeeping that keeps reruns idempotent.
package routine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/La-Salida/hypnothera-community-manager/internal/catalog"
	"github.com/La-Salida/hypnothera-community-manager/internal/community"
	"github.com/La-Salida/hypnothera-community-manager/internal/plan"
	"github.com/La-Salida/hypnothera-community-manager/internal/reply"
	"github.com/La-Salida/hypnothera-community-manager/internal/runstate"
)

// Phase tracks where a run is in its lifecycle.
type Phase string

const (
	PhaseIdle                Phase = "idle"
	PhaseStarted             Phase = "started"
	PhaseSessionEstablishing Phase = "session_establishing"
	PhaseSessionReady        Phase = "session_ready"
	PhaseExecuting           Phase = "executing"
	PhaseFinalizing          Phase = "finalizing"
	PhaseCompleted           Phase = "completed"
	PhaseAborted             Phase = "aborted"
)

// Counts aggregates action outcomes of one kind.
type Counts struct {
	Succeeded int
	Failed    int
	Skipped   int
}

// Summary is the always-produced report of a run.
type Summary struct {
	Date    string
	Phase   Phase
	DryRun  bool
	NoOp    bool
	Actions []plan.Action
	Counts  map[plan.ActionKind]Counts
	Err     error
}

// Orchestrator wires the engine together for one run.
type Orchestrator struct {
	Catalog     *catalog.Catalog
	Store       *runstate.Store
	Dialer      community.Dialer
	Poster      community.Poster
	Comments    community.CommentSource
	Composer    reply.Composer
	Credentials community.Credentials

	Log        *logrus.Logger
	ReplyQuota int
	FetchLimit int
	DryRun     bool

	// Now overrides the clock, for rehearsal and tests.
	Now func() time.Time
}

// Run executes the routine once. The summary is always non-nil; a non-nil
// error means the run aborted before any posting side effect (bad catalog,
// no session, broken state store). Dry runs skip the already-ran-today
// no-op guard so the day's plan can be rehearsed after the real run.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	today := time.Now()
	if o.Now != nil {
		today = o.Now()
	}
	log := o.logger()

	sum := &Summary{
		Date:   today.Format("2006-01-02"),
		Phase:  PhaseStarted,
		DryRun: o.DryRun,
		Counts: map[plan.ActionKind]Counts{},
	}

	st, err := o.Store.Load()
	if err != nil {
		return o.abort(sum, fmt.Errorf("loading run state: %w", err))
	}

	// Idempotence guard. Dry runs go through anyway so a rehearsal is
	// possible after the real run.
	if st.HasRunToday(today) && !o.DryRun {
		log.WithField("date", sum.Date).Info("already ran today, nothing to do")
		sum.NoOp = true
		sum.Phase = PhaseCompleted
		return sum, nil
	}

	actions, err := plan.Daily(o.Catalog, st, today)
	if err != nil {
		return o.abort(sum, err)
	}

	var sess community.Session
	if !o.DryRun {
		sum.Phase = PhaseSessionEstablishing
		sess, err = o.Dialer.EstablishSession(ctx, o.Credentials)
		if err != nil {
			var se *community.SessionError
			if !errors.As(err, &se) {
				err = &community.SessionError{Err: err}
			}
			return o.abort(sum, err)
		}
		sum.Phase = PhaseSessionReady
		log.Info("session established")
	}

	byID := map[string]community.Comment{}
	if o.Comments != nil {
		fetched, err := o.Comments.FetchRecentComments(ctx, sess, o.fetchLimit())
		if err != nil {
			// No comments this run; posting still proceeds.
			log.WithError(err).Warn("could not fetch comments, skipping engagement")
		} else {
			for _, c := range fetched {
				byID[c.ID] = c
			}
			actions = append(actions, plan.Engagement(fetched, o.replyQuota(), o.Credentials.Username)...)
		}
	}

	sum.Actions = actions
	sum.Phase = PhaseExecuting

	window := len(o.Catalog.DailyTemplates())
	dailySucceeded := false

	for i := range sum.Actions {
		a := &sum.Actions[i]

		if ctx.Err() != nil {
			if a.Pending() {
				a.Outcome = plan.Outcome{Status: plan.StatusSkipped, Reason: "run cancelled"}
			}
			continue
		}
		if !a.Pending() {
			// Pre-failed at planning time (template resolution).
			log.WithFields(logrus.Fields{"kind": a.Kind, "reason": a.Outcome.Reason}).Error("action failed before dispatch")
			continue
		}

		if o.DryRun {
			a.Outcome = plan.Outcome{Status: plan.StatusSucceeded, Reason: "dry-run"}
			log.WithFields(logrus.Fields{"kind": a.Kind, "title": a.Title, "comment": a.CommentID}).Info("dry-run: would dispatch")
			continue
		}

		// Narrow the duplicate-post window: another invocation may have
		// completed while this one was mid-flight.
		if fresh, err := o.Store.Load(); err == nil && fresh.HasRunToday(today) {
			a.Outcome = plan.Outcome{Status: plan.StatusSkipped, Reason: "another run completed today"}
			continue
		}

		switch a.Kind {
		case plan.KindWeeklyThread:
			o.dispatchWeekly(ctx, sess, a, st, today)
		case plan.KindDailyContent:
			if o.dispatchDaily(ctx, sess, a, st, window) {
				dailySucceeded = true
			}
		case plan.KindReply:
			o.dispatchReply(ctx, sess, a, byID[a.CommentID])
		}
	}

	sum.Phase = PhaseFinalizing
	if !o.DryRun && dailySucceeded {
		// The daily post is the minimum deliverable; weekly or reply
		// failures do not block marking the day as run.
		st.MarkRun(today)
		o.flush(st)
	}

	sum.Phase = PhaseCompleted
	tally(sum)
	log.WithFields(logrus.Fields{
		"succeeded": total(sum, plan.StatusSucceeded),
		"failed":    total(sum, plan.StatusFailed),
		"skipped":   total(sum, plan.StatusSkipped),
	}).Info("routine complete")
	return sum, nil
}

func (o *Orchestrator) dispatchWeekly(ctx context.Context, sess community.Session, a *plan.Action, st *runstate.RunState, today time.Time) {
	log := o.logger().WithField("title", a.Title)

	id, err := o.Poster.Post(ctx, sess, community.Post{Title: a.Title, Body: a.Body, Flair: a.Flair, Pin: a.Pin})
	if err != nil {
		a.Outcome = plan.Outcome{Status: plan.StatusFailed, Reason: err.Error()}
		log.WithError(err).Error("weekly thread failed")
		return
	}
	a.Outcome = plan.Outcome{Status: plan.StatusSucceeded, PostID: id}
	log.Info("posted weekly thread")

	if a.Pin {
		if err := o.Poster.Pin(ctx, sess, id); err != nil {
			var perm *community.PermissionError
			if errors.As(err, &perm) {
				a.Outcome.Reason = "pin skipped: no moderator rights"
				log.Warn("pin skipped: no moderator rights")
			} else {
				a.Outcome.Reason = fmt.Sprintf("pin failed: %v", err)
				log.WithError(err).Warn("pin failed")
			}
		} else {
			st.PinnedPostID = id
		}
	}

	st.MarkWeeklyPosted(today)
	o.flush(st)
}

func (o *Orchestrator) dispatchDaily(ctx context.Context, sess community.Session, a *plan.Action, st *runstate.RunState, window int) bool {
	log := o.logger().WithField("template", a.TemplateID)

	id, err := o.Poster.Post(ctx, sess, community.Post{Title: a.Title, Body: a.Body, Flair: a.Flair})
	if err != nil {
		a.Outcome = plan.Outcome{Status: plan.StatusFailed, Reason: err.Error()}
		log.WithError(err).Error("daily content failed")
		return false
	}
	a.Outcome = plan.Outcome{Status: plan.StatusSucceeded, PostID: id}
	log.Info("posted daily content")

	st.MarkTemplateUsed(a.TemplateID, window)
	o.flush(st)
	return true
}

func (o *Orchestrator) dispatchReply(ctx context.Context, sess community.Session, a *plan.Action, c community.Comment) {
	log := o.logger().WithField("comment", a.CommentID)

	body, err := o.Composer.Compose(c)
	if err != nil {
		a.Outcome = plan.Outcome{Status: plan.StatusFailed, Reason: err.Error()}
		log.WithError(err).Error("composing reply failed")
		return
	}

	id, err := o.Poster.Reply(ctx, sess, a.CommentID, body)
	if err != nil {
		a.Outcome = plan.Outcome{Status: plan.StatusFailed, Reason: err.Error()}
		log.WithError(err).Error("reply failed")
		return
	}
	a.Outcome = plan.Outcome{Status: plan.StatusSucceeded, PostID: id}
	log.Info("replied to comment")
}

// flush persists st. Save rewrites the whole state, so bookkeeping a
// concurrent invocation persisted since our Load is merged in first,
// keeping its last_run_date visible to the mid-run guard. The post already
// happened, so a failed save is logged rather than turned into an action
// failure.
func (o *Orchestrator) flush(st *runstate.RunState) {
	if fresh, err := o.Store.Load(); err == nil {
		st.Merge(fresh)
	}
	if err := o.Store.Save(st); err != nil {
		o.logger().WithError(err).Error("saving run state")
	}
}

func (o *Orchestrator) abort(sum *Summary, err error) (*Summary, error) {
	sum.Phase = PhaseAborted
	sum.Err = err
	o.logger().WithError(err).Error("run aborted")
	return sum, err
}

func (o *Orchestrator) replyQuota() int {
	if o.ReplyQuota > 0 {
		return o.ReplyQuota
	}
	return plan.DefaultReplyQuota
}

func (o *Orchestrator) fetchLimit() int {
	if o.FetchLimit > 0 {
		return o.FetchLimit
	}
	return 50
}

func (o *Orchestrator) logger() *logrus.Logger {
	if o.Log != nil {
		return o.Log
	}
	silent := logrus.New()
	silent.SetOutput(io.Discard)
	return silent
}

func tally(sum *Summary) {
	for _, a := range sum.Actions {
		c := sum.Counts[a.Kind]
		switch a.Outcome.Status {
		case plan.StatusSucceeded:
			c.Succeeded++
		case plan.StatusFailed:
			c.Failed++
		case plan.StatusSkipped:
			c.Skipped++
		}
		sum.Counts[a.Kind] = c
	}
}

func total(sum *Summary, status plan.Status) int {
	n := 0
	for _, a := range sum.Actions {
		if a.Outcome.Status == status {
			n++
		}
	}
	return n
}
