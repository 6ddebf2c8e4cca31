package catalog

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalogFS embed.FS

// Kind identifies a daily content template family.
type Kind string

const (
	KindTip              Kind = "tip"
	KindSuccessStory     Kind = "success_story"
	KindQuestion         Kind = "question"
	KindFeatureHighlight Kind = "feature_highlight"
)

var validKinds = map[Kind]bool{
	KindTip:              true,
	KindSuccessStory:     true,
	KindQuestion:         true,
	KindFeatureHighlight: true,
}

// WeeklyThread is a recurring discussion post scheduled on a fixed weekday.
type WeeklyThread struct {
	Day   time.Weekday
	Title string
	Body  string
	Flair string
	Pin   bool
}

// DailyTemplate is one of the rotating daily post templates. Title and Body
// may contain {placeholder} markers resolved from the variant lists.
type DailyTemplate struct {
	ID    string
	Kind  Kind
	Title string
	Body  string
	Flair string
}

type Tip struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

type Question struct {
	Title   string `yaml:"title"`
	Context string `yaml:"context"`
}

type Feature struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type Story struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// Catalog is the immutable content library for a run.
type Catalog struct {
	weekly    map[time.Weekday]WeeklyThread
	daily     []DailyTemplate
	tips      []Tip
	questions []Question
	features  []Feature
	stories   []Story
	replies   []string
}

// LoadError reports an invalid content definition. It is fatal: a broken
// catalog aborts the run before any side effect.
type LoadError struct {
	Reason string
}

func (e *LoadError) Error() string {
	return "catalog: " + e.Reason
}

// file-level schema; parsed then validated into a Catalog
type catalogFile struct {
	WeeklyThreads  []weeklyThreadYAML  `yaml:"weekly_threads"`
	DailyTemplates []dailyTemplateYAML `yaml:"daily_templates"`
	Tips           []Tip               `yaml:"tips"`
	Questions      []Question          `yaml:"questions"`
	Features       []Feature           `yaml:"features"`
	Stories        []Story             `yaml:"stories"`
	Replies        []string            `yaml:"replies"`
}

type weeklyThreadYAML struct {
	Day   string `yaml:"day"`
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
	Flair string `yaml:"flair,omitempty"`
	Pin   bool   `yaml:"pin,omitempty"`
}

type dailyTemplateYAML struct {
	ID    string `yaml:"id,omitempty"`
	Kind  string `yaml:"kind"`
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
	Flair string `yaml:"flair,omitempty"`
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Load reads a catalog from path. An empty path loads the embedded default
// content library.
func Load(path string) (*Catalog, error) {
	if path == "" {
		data, err := defaultCatalogFS.ReadFile("default_catalog.yaml")
		if err != nil {
			return nil, fmt.Errorf("reading embedded catalog: %w", err)
		}
		return Parse(data)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	c := &Catalog{
		weekly:    make(map[time.Weekday]WeeklyThread, len(f.WeeklyThreads)),
		tips:      f.Tips,
		questions: f.Questions,
		features:  f.Features,
		stories:   f.Stories,
		replies:   f.Replies,
	}

	for i, w := range f.WeeklyThreads {
		day, ok := weekdays[strings.ToLower(w.Day)]
		if !ok {
			return nil, &LoadError{Reason: fmt.Sprintf("weekly thread %d: unknown day %q", i, w.Day)}
		}
		if w.Title == "" {
			return nil, &LoadError{Reason: fmt.Sprintf("weekly thread %q: title is required", w.Day)}
		}
		if _, dup := c.weekly[day]; dup {
			return nil, &LoadError{Reason: fmt.Sprintf("duplicate weekly thread for %s", w.Day)}
		}
		c.weekly[day] = WeeklyThread{
			Day:   day,
			Title: w.Title,
			Body:  w.Body,
			Flair: w.Flair,
			Pin:   w.Pin,
		}
	}

	seen := make(map[string]bool, len(f.DailyTemplates))
	for i, t := range f.DailyTemplates {
		kind := Kind(t.Kind)
		if !validKinds[kind] {
			return nil, &LoadError{Reason: fmt.Sprintf("daily template %d: unknown kind %q", i, t.Kind)}
		}
		id := t.ID
		if id == "" {
			id = t.Kind
		}
		if seen[id] {
			return nil, &LoadError{Reason: fmt.Sprintf("duplicate daily template id %q", id)}
		}
		seen[id] = true
		if t.Title == "" {
			return nil, &LoadError{Reason: fmt.Sprintf("daily template %q: title is required", id)}
		}
		c.daily = append(c.daily, DailyTemplate{
			ID:    id,
			Kind:  kind,
			Title: t.Title,
			Body:  t.Body,
			Flair: t.Flair,
		})
	}

	if len(c.daily) == 0 {
		return nil, &LoadError{Reason: "no daily templates defined"}
	}

	return c, nil
}

// WeeklyThreadFor returns the thread scheduled for day, if any.
func (c *Catalog) WeeklyThreadFor(day time.Weekday) (WeeklyThread, bool) {
	w, ok := c.weekly[day]
	return w, ok
}

// DailyTemplates returns the daily templates in declaration order.
func (c *Catalog) DailyTemplates() []DailyTemplate {
	out := make([]DailyTemplate, len(c.daily))
	copy(out, c.daily)
	return out
}

// Replies returns the canned reply bodies, if the catalog defines any.
func (c *Catalog) Replies() []string {
	out := make([]string, len(c.replies))
	copy(out, c.replies)
	return out
}
