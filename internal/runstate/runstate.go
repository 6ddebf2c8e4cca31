package runstate

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// RunState is the bookkeeping that survives between invocations: the last
// completed run date, the daily-template rotation window, the weekly threads
// already posted this cycle, and the currently pinned post.
type RunState struct {
	LastRunDate       string
	RecentTemplateIDs []string
	UsedWeeklyKeys    []string
	PinnedPostID      string
}

// WeekKey identifies a weekly-thread slot: ISO week plus weekday.
func WeekKey(date time.Time) string {
	year, week := date.ISOWeek()
	return fmt.Sprintf("%d-W%02d/%s", year, week, strings.ToLower(date.Weekday().String()))
}

// HasRunToday reports whether a run already completed on date's calendar day.
func (s *RunState) HasRunToday(date time.Time) bool {
	return s.LastRunDate == date.Format(dateLayout)
}

// MarkRun records date as the last completed run day.
func (s *RunState) MarkRun(date time.Time) {
	s.LastRunDate = date.Format(dateLayout)
}

// MarkTemplateUsed appends id to the rotation window, dropping the oldest
// entries beyond window. Window should be the number of distinct daily
// templates so nothing repeats before the catalog has fully cycled.
func (s *RunState) MarkTemplateUsed(id string, window int) {
	s.RecentTemplateIDs = append(s.RecentTemplateIDs, id)
	if window > 0 && len(s.RecentTemplateIDs) > window {
		s.RecentTemplateIDs = s.RecentTemplateIDs[len(s.RecentTemplateIDs)-window:]
	}
}

// TemplateRecentlyUsed reports whether id is in the rotation window.
func (s *RunState) TemplateRecentlyUsed(id string) bool {
	for _, used := range s.RecentTemplateIDs {
		if used == id {
			return true
		}
	}
	return false
}

// ClearTemplateWindow resets the rotation window (full-cycle reset).
func (s *RunState) ClearTemplateWindow() {
	s.RecentTemplateIDs = nil
}

// MarkWeeklyPosted records that this week's thread for date's weekday went out.
func (s *RunState) MarkWeeklyPosted(date time.Time) {
	key := WeekKey(date)
	if s.weeklyPosted(key) {
		return
	}
	s.UsedWeeklyKeys = append(s.UsedWeeklyKeys, key)
}

// WeeklyPosted reports whether this week's thread for date's weekday was
// already posted.
func (s *RunState) WeeklyPosted(date time.Time) bool {
	return s.weeklyPosted(WeekKey(date))
}

// Merge folds in bookkeeping another invocation persisted while this state
// sat in memory, so saving s does not erase it. The later run date wins,
// weekly keys are unioned, and other's pin is adopted when s has none.
func (s *RunState) Merge(other *RunState) {
	if other.LastRunDate > s.LastRunDate {
		s.LastRunDate = other.LastRunDate
	}
	for _, k := range other.UsedWeeklyKeys {
		if !s.weeklyPosted(k) {
			s.UsedWeeklyKeys = append(s.UsedWeeklyKeys, k)
		}
	}
	if s.PinnedPostID == "" {
		s.PinnedPostID = other.PinnedPostID
	}
}

func (s *RunState) weeklyPosted(key string) bool {
	for _, k := range s.UsedWeeklyKeys {
		if k == key {
			return true
		}
	}
	return false
}
