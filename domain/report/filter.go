package report

import (
	"strings"
	"time"

	"github.com/example/influencer-planner/domain/task"
)

// Window is a date range inclusive of both endpoints at day granularity.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// TrailingWindow returns the window of the given number of days ending on
// the calendar day of now.
func TrailingWindow(now time.Time, days int) Window {
	if days < 1 {
		days = 1
	}
	end := startOfDay(now)
	return Window{Start: end.AddDate(0, 0, -(days - 1)), End: end}
}

// Contains reports whether the calendar day of t falls inside the window.
// Days are compared in the location of the window start.
func (w Window) Contains(t time.Time) bool {
	loc := w.Start.Location()
	day := startOfDay(t.In(loc))
	return !day.Before(startOfDay(w.Start)) && !day.After(startOfDay(w.End.In(loc)))
}

// Days returns each calendar day of the window in loc, oldest first.
func (w Window) Days(loc *time.Location) []time.Time {
	if loc == nil {
		loc = time.Local
	}
	first := startOfDay(w.Start.In(loc))
	last := startOfDay(w.End.In(loc))

	var days []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Filter narrows a record set. Zero-valued fields do not filter.
type Filter struct {
	Window   *Window
	Platform string
	Status   task.Status
	// Owner matches the owning user's ID or display name.
	Owner  string
	Search string
}

// Match reports whether r passes every set criterion.
// Records without any date always pass the window check.
func (f Filter) Match(r Record) bool {
	if f.Window != nil {
		if d := r.Date(); d != nil && !f.Window.Contains(*d) {
			return false
		}
	}
	if f.Platform != "" && !r.HasPlatform(f.Platform) {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.Owner != "" && r.UserID != f.Owner && r.Owner != f.Owner {
		return false
	}
	if f.Search != "" && !matchesSearch(r, strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// Apply returns the records matching f in input order.
func (f Filter) Apply(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// WithoutSearch returns a copy of f with the free-text term cleared.
func (f Filter) WithoutSearch() Filter {
	f.Search = ""
	return f
}

func matchesSearch(r Record, term string) bool {
	fields := []string{
		r.Title,
		r.TaskType,
		r.Owner,
		strings.Join(r.Platforms, ", "),
		string(r.Status),
		r.Status.Label(),
	}
	for _, v := range fields {
		if v != "" && strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}
