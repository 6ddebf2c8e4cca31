package catalog

import (
	"fmt"
	"regexp"
	"time"
)

// MissingPlaceholderError reports a template placeholder with no supplied
// value. It is a per-action failure, never fatal for the run.
type MissingPlaceholderError struct {
	Name string
}

func (e *MissingPlaceholderError) Error() string {
	return fmt.Sprintf("template: no value for placeholder {%s}", e.Name)
}

var placeholderRe = regexp.MustCompile(`\{([a-z_]+)\}`)

// Render substitutes {name} placeholders in s from subs. Every placeholder
// in s must have a value.
func Render(s string, subs map[string]string) (string, error) {
	var missing string
	out := placeholderRe.ReplaceAllStringFunc(s, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := subs[name]
		if !ok {
			if missing == "" {
				missing = name
			}
			return m
		}
		return v
	})
	if missing != "" {
		return "", &MissingPlaceholderError{Name: missing}
	}
	return out, nil
}

// ResolveDaily fills tpl from the catalog's variant lists and returns the
// rendered title and body. The variant is indexed by day-of-year so the same
// date always resolves to the same content.
func (c *Catalog) ResolveDaily(tpl DailyTemplate, date time.Time) (title, body string, err error) {
	subs := map[string]string{}

	switch tpl.Kind {
	case KindTip:
		if tip, ok := pick(c.tips, date); ok {
			subs["tip_title"] = tip.Title
			subs["tip_content"] = tip.Body
		}
	case KindSuccessStory:
		if story, ok := pick(c.stories, date); ok {
			subs["story_title"] = story.Title
			subs["story_content"] = story.Body
		}
	case KindQuestion:
		if q, ok := pick(c.questions, date); ok {
			subs["question"] = q.Title
			subs["context"] = q.Context
		}
	case KindFeatureHighlight:
		if feat, ok := pick(c.features, date); ok {
			subs["feature_name"] = feat.Name
			subs["feature_description"] = feat.Description
		}
	}

	title, err = Render(tpl.Title, subs)
	if err != nil {
		return "", "", err
	}
	body, err = Render(tpl.Body, subs)
	if err != nil {
		return "", "", err
	}
	return title, body, nil
}

func pick[T any](items []T, date time.Time) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[date.YearDay()%len(items)], true
}
