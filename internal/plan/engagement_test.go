package plan

import (
	"testing"
	"time"

	"github.com/La-Salida/hypnothera-community-manager/internal/community"
)

func TestEngagementUnansweredOldestFirst(t *testing.T) {
	t0 := time.Date(2026, 8, 24, 8, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)
	t2 := t0.Add(2 * time.Hour)

	comments := []community.Comment{
		{ID: "1", HasReply: false, PostedAt: t1},
		{ID: "2", HasReply: true, PostedAt: t2},
		{ID: "3", HasReply: false, PostedAt: t0},
	}

	actions := Engagement(comments, 3, "")
	if len(actions) != 2 {
		t.Fatalf("expected 2 reply actions, got %d", len(actions))
	}
	if actions[0].CommentID != "3" || actions[1].CommentID != "1" {
		t.Errorf("expected [3 1], got [%s %s]", actions[0].CommentID, actions[1].CommentID)
	}
}

func TestEngagementQuota(t *testing.T) {
	base := time.Date(2026, 8, 24, 8, 0, 0, 0, time.UTC)
	var comments []community.Comment
	for i := 0; i < 10; i++ {
		comments = append(comments, community.Comment{
			ID:       string(rune('a' + i)),
			PostedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	actions := Engagement(comments, 3, "")
	if len(actions) != 3 {
		t.Fatalf("expected quota of 3, got %d", len(actions))
	}
	for i, want := range []string{"a", "b", "c"} {
		if actions[i].CommentID != want {
			t.Errorf("position %d: expected %q, got %q", i, want, actions[i].CommentID)
		}
	}
}

func TestEngagementDefaultQuota(t *testing.T) {
	base := time.Now()
	var comments []community.Comment
	for i := 0; i < 5; i++ {
		comments = append(comments, community.Comment{
			ID:       string(rune('a' + i)),
			PostedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	if got := len(Engagement(comments, 0, "")); got != DefaultReplyQuota {
		t.Errorf("expected default quota %d, got %d", DefaultReplyQuota, got)
	}
}

func TestEngagementSkipsOwnComments(t *testing.T) {
	now := time.Now()
	comments := []community.Comment{
		{ID: "1", Author: "hypnothera_official", PostedAt: now},
		{ID: "2", Author: "someone", PostedAt: now.Add(time.Minute)},
	}

	actions := Engagement(comments, 3, "Hypnothera_Official")
	if len(actions) != 1 || actions[0].CommentID != "2" {
		t.Fatalf("expected only the other account's comment, got %+v", actions)
	}
}

func TestEngagementTieBreakOnID(t *testing.T) {
	now := time.Now()
	comments := []community.Comment{
		{ID: "b", PostedAt: now},
		{ID: "a", PostedAt: now},
	}

	actions := Engagement(comments, 2, "")
	if actions[0].CommentID != "a" || actions[1].CommentID != "b" {
		t.Errorf("expected id tie-break [a b], got [%s %s]", actions[0].CommentID, actions[1].CommentID)
	}
}

func TestEngagementNoEligibleComments(t *testing.T) {
	comments := []community.Comment{
		{ID: "1", HasReply: true, PostedAt: time.Now()},
	}
	if got := Engagement(comments, 3, ""); len(got) != 0 {
		t.Errorf("expected no actions, got %d", len(got))
	}
	if got := Engagement(nil, 3, ""); len(got) != 0 {
		t.Errorf("expected no actions for nil input, got %d", len(got))
	}
}
