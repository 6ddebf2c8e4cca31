package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/La-Salida/hypnothera-community-manager/internal/plan"
	"github.com/La-Salida/hypnothera-community-manager/internal/routine"
)

var (
	colorGood = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"}
	colorBad  = lipgloss.AdaptiveColor{Light: "#D7263D", Dark: "#F25D94"}
	colorDim  = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}

	summaryTitleStyle = lipgloss.NewStyle().Bold(true)
	okStyle           = lipgloss.NewStyle().Foreground(colorGood)
	failStyle         = lipgloss.NewStyle().Foreground(colorBad)
	skipStyle         = lipgloss.NewStyle().Foreground(colorDim)
)

var kindLabels = map[plan.ActionKind]string{
	plan.KindWeeklyThread: "weekly thread",
	plan.KindDailyContent: "daily content",
	plan.KindReply:        "reply",
}

func renderSummary(sum *routine.Summary) string {
	var b strings.Builder

	header := fmt.Sprintf("Run %s", sum.Date)
	if sum.DryRun {
		header += " (dry run)"
	}
	b.WriteString(summaryTitleStyle.Render(header))
	b.WriteString("\n")

	switch {
	case sum.Phase == routine.PhaseAborted:
		b.WriteString(failStyle.Render(fmt.Sprintf("Aborted: %v", sum.Err)))
		b.WriteString("\n")
		return b.String()
	case sum.NoOp:
		b.WriteString(skipStyle.Render("Already ran today; nothing to do."))
		b.WriteString("\n")
		return b.String()
	}

	for _, a := range sum.Actions {
		b.WriteString("  ")
		b.WriteString(statusMark(a.Outcome.Status))
		b.WriteString(" ")
		b.WriteString(kindLabels[a.Kind])

		switch a.Kind {
		case plan.KindReply:
			b.WriteString(fmt.Sprintf(" to %s", a.CommentID))
		default:
			b.WriteString(fmt.Sprintf(": %s", a.Title))
		}
		if a.Outcome.Reason != "" && a.Outcome.Reason != "dry-run" {
			b.WriteString(skipStyle.Render(fmt.Sprintf(" (%s)", a.Outcome.Reason)))
		}
		b.WriteString("\n")
	}

	var succeeded, failed, skipped int
	for _, c := range sum.Counts {
		succeeded += c.Succeeded
		failed += c.Failed
		skipped += c.Skipped
	}
	b.WriteString(fmt.Sprintf("%s succeeded, %s failed, %s skipped\n",
		okStyle.Render(fmt.Sprint(succeeded)),
		failStyle.Render(fmt.Sprint(failed)),
		skipStyle.Render(fmt.Sprint(skipped))))

	return b.String()
}

func statusMark(s plan.Status) string {
	switch s {
	case plan.StatusSucceeded:
		return okStyle.Render("✓")
	case plan.StatusFailed:
		return failStyle.Render("✗")
	default:
		return skipStyle.Render("-")
	}
}
