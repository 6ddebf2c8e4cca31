package plan

import (
	"errors"
	"time"

	"github.com/La-Salida/hypnothera-community-manager/internal/catalog"
	"github.com/La-Salida/hypnothera-community-manager/internal/runstate"
)

// ErrEmptyCatalog means there are no daily templates to choose from. This is
// a configuration error and fatal for the run.
var ErrEmptyCatalog = errors.New("no daily content templates in catalog")

// Daily selects today's posting actions: at most one weekly thread (when the
// weekday has one scheduled and this week's slot is still open) followed by
// exactly one daily content item.
//
// Rotation: templates in the recency window are excluded; when the window
// covers the whole catalog it is cleared and selection retries once. Among
// the remaining candidates the first in declaration order wins, so the same
// state always yields the same choice.
func Daily(cat *catalog.Catalog, st *runstate.RunState, date time.Time) ([]Action, error) {
	var actions []Action

	if wt, ok := cat.WeeklyThreadFor(date.Weekday()); ok && !st.WeeklyPosted(date) {
		actions = append(actions, Action{
			Kind:    KindWeeklyThread,
			Title:   wt.Title,
			Body:    wt.Body,
			Flair:   wt.Flair,
			Pin:     wt.Pin,
			WeekKey: runstate.WeekKey(date),
		})
	}

	tpl, err := rotateDaily(cat, st)
	if err != nil {
		return nil, err
	}

	a := Action{
		Kind:       KindDailyContent,
		Flair:      tpl.Flair,
		TemplateID: tpl.ID,
	}
	title, body, err := cat.ResolveDaily(tpl, date)
	if err != nil {
		// Placeholder resolution is a per-action failure, not a run abort:
		// the action is emitted pre-failed so the summary reports it.
		a.Outcome = Outcome{Status: StatusFailed, Reason: err.Error()}
	} else {
		a.Title = title
		a.Body = body
	}

	return append(actions, a), nil
}

func rotateDaily(cat *catalog.Catalog, st *runstate.RunState) (catalog.DailyTemplate, error) {
	templates := cat.DailyTemplates()
	if len(templates) == 0 {
		return catalog.DailyTemplate{}, ErrEmptyCatalog
	}

	if tpl, ok := firstUnused(templates, st); ok {
		return tpl, nil
	}

	// Full cycle completed: reset the window and go around again.
	st.ClearTemplateWindow()
	tpl, _ := firstUnused(templates, st)
	return tpl, nil
}

func firstUnused(templates []catalog.DailyTemplate, st *runstate.RunState) (catalog.DailyTemplate, bool) {
	for _, tpl := range templates {
		if !st.TemplateRecentlyUsed(tpl.ID) {
			return tpl, true
		}
	}
	return catalog.DailyTemplate{}, false
}
