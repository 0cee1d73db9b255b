package report

import (
	"strings"
	"time"

	"github.com/example/influencer-planner/domain/task"
)

// DefaultWindowDays is the report window used when no range is given.
const DefaultWindowDays = 30

// DashboardWindowDays is the window of the dashboard completion line.
const DashboardWindowDays = 14

// MaxWindowDays caps the length of a requested report window.
const MaxWindowDays = 366

// DateLayout is the display layout for report dates.
const DateLayout = "02.01.2006"

var dateLayouts = []string{DateLayout, "2006-01-02"}

// Query holds the raw, untrusted report query values.
type Query struct {
	Start    string `query:"start" form:"start"`
	End      string `query:"end" form:"end"`
	Platform string `query:"platform" form:"platform"`
	Status   string `query:"status" form:"status"`
	Owner    string `query:"owner" form:"owner"`
	Search   string `query:"q" form:"q"`
}

// ParseQuery converts q into a Filter. The literal "all" and unknown
// statuses disable the corresponding criterion. Missing or unparsable dates
// fall back to the trailing default window ending on now. Windows longer than
// MaxWindowDays are cut to the MaxWindowDays ending on the requested end.
func ParseQuery(q Query, now time.Time, loc *time.Location) Filter {
	if loc == nil {
		loc = time.Local
	}
	def := TrailingWindow(now.In(loc), DefaultWindowDays)

	w := def
	start, okStart := parseDate(q.Start, loc)
	end, okEnd := parseDate(q.End, loc)
	switch {
	case okStart && okEnd:
		w = Window{Start: start, End: end}
	case okStart:
		w = Window{Start: start, End: def.End}
	case okEnd:
		w = Window{Start: end.AddDate(0, 0, -(DefaultWindowDays - 1)), End: end}
	}
	if w.End.Before(w.Start) {
		w = def
	}
	if earliest := startOfDay(w.End).AddDate(0, 0, -(MaxWindowDays - 1)); w.Start.Before(earliest) {
		w.Start = earliest
	}

	f := Filter{
		Window:   &w,
		Platform: optional(q.Platform),
		Owner:    optional(q.Owner),
		Search:   strings.TrimSpace(q.Search),
	}
	if s, ok := task.ParseStatus(q.Status); ok {
		f.Status = s
	}
	return f
}

func parseDate(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func optional(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "all") {
		return ""
	}
	return v
}
