package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/La-Salida/hypnothera-community-manager/internal/plan"
	"github.com/La-Salida/hypnothera-community-manager/internal/routine"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		err   bool
	}{
		{"", false},
		{"2026-08-24", false},
		{"24-08-2026", true},
		{"not-a-date", true},
	}

	for _, tt := range tests {
		got, err := parseDate(tt.input)
		if tt.err {
			if err == nil {
				t.Errorf("parseDate(%q): expected error, got %v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseDate(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if tt.input != "" && got.Format("2006-01-02") != tt.input {
			t.Errorf("parseDate(%q) = %v", tt.input, got)
		}
	}
}

func TestRenderSummary(t *testing.T) {
	sum := &routine.Summary{
		Date:  "2026-08-24",
		Phase: routine.PhaseCompleted,
		Actions: []plan.Action{
			{Kind: plan.KindWeeklyThread, Title: "Weekly Thread", Outcome: plan.Outcome{Status: plan.StatusSucceeded}},
			{Kind: plan.KindDailyContent, Title: "Tip: One", Outcome: plan.Outcome{Status: plan.StatusFailed, Reason: "submit failed"}},
			{Kind: plan.KindReply, CommentID: "t1_abc", Outcome: plan.Outcome{Status: plan.StatusSkipped, Reason: "run cancelled"}},
		},
		Counts: map[plan.ActionKind]routine.Counts{
			plan.KindWeeklyThread: {Succeeded: 1},
			plan.KindDailyContent: {Failed: 1},
			plan.KindReply:        {Skipped: 1},
		},
	}

	out := renderSummary(sum)
	for _, want := range []string{"Weekly Thread", "Tip: One", "t1_abc", "submit failed", "2026-08-24"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in summary output:\n%s", want, out)
		}
	}
}

func TestRenderSummaryNoOp(t *testing.T) {
	sum := &routine.Summary{Date: "2026-08-24", Phase: routine.PhaseCompleted, NoOp: true}
	out := renderSummary(sum)
	if !strings.Contains(out, "Already ran today") {
		t.Errorf("expected no-op notice, got:\n%s", out)
	}
}

func TestRenderSummaryAborted(t *testing.T) {
	sum := &routine.Summary{
		Date:  "2026-08-24",
		Phase: routine.PhaseAborted,
		Err:   errors.New("establishing session: login blocked"),
	}
	out := renderSummary(sum)
	if !strings.Contains(out, "Aborted") || !strings.Contains(out, "login blocked") {
		t.Errorf("expected abort reason, got:\n%s", out)
	}
}
