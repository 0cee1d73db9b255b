package report

import (
	"time"

	"github.com/example/influencer-planner/domain/task"
	"github.com/example/influencer-planner/domain/user"
)

const (
	// DashboardTopN is the number of users on the dashboard workload chart.
	DashboardTopN = 5
	// ReportTopN is the number of users on the performance workload chart.
	ReportTopN = 10
)

// Dashboard is the chart data shown on the reports dashboard.
type Dashboard struct {
	StatusDistribution []StatusCount   `json:"statusDistribution"`
	Last14Days         []DayCount      `json:"last14Days"`
	PlatformWorkload   []PlatformCount `json:"platformWorkload"`
	InfluencerCounts   []UserCount     `json:"influencerCounts"`
}

// Build computes the dashboard charts over every record.
func Build(records []Record, roster []user.User, now time.Time, loc *time.Location) Dashboard {
	if loc == nil {
		loc = time.Local
	}
	w := TrailingWindow(now.In(loc), DashboardWindowDays)
	return Dashboard{
		StatusDistribution: StatusDistribution(records),
		Last14Days:         DailyCompletions(records, w, loc),
		PlatformWorkload:   PlatformWorkload(records, nil),
		InfluencerCounts:   UserWorkload(records, roster, DashboardTopN),
	}
}

// Row is one line of the performance table and CSV export.
type Row struct {
	ID          string      `json:"id"`
	StartAt     string      `json:"startAt"`
	Title       string      `json:"title"`
	Influencer  string      `json:"influencer"`
	Platform    string      `json:"platform"`
	Status      task.Status `json:"status"`
	StatusLabel string      `json:"statusLabel"`
}

// NewRow formats r for display.
func NewRow(r Record, loc *time.Location) Row {
	start := "-"
	if r.CreatedAt != nil {
		start = r.CreatedAt.In(loc).Format(DateLayout)
	}
	return Row{
		ID:          r.TaskID,
		StartAt:     start,
		Title:       r.Title,
		Influencer:  r.Owner,
		Platform:    r.PlatformList(),
		Status:      r.Status,
		StatusLabel: r.Status.Label(),
	}
}

// PerformanceOptions configures BuildPerformance.
type PerformanceOptions struct {
	Roster []user.User
	Now    time.Time
	Loc    *time.Location
	// Active is passed to KPIOptions.Active.
	Active []task.Status
}

// Performance is the full performance report.
type Performance struct {
	Start              string          `json:"start"`
	End                string          `json:"end"`
	KPIs               KPIs            `json:"kpi"`
	StatusDistribution []StatusCount   `json:"statusDistribution"`
	Days               []DayCount      `json:"days"`
	PlatformWorkload   []PlatformCount `json:"platformWorkload"`
	InfluencerWorkload []UserCount     `json:"influencerWorkload"`
	Rows               []Row           `json:"rows"`
}

// BuildPerformance filters records and computes the performance report.
// KPIs and charts use every criterion except the free-text search, which
// narrows only the table rows.
func BuildPerformance(records []Record, f Filter, opts PerformanceOptions) Performance {
	loc := opts.Loc
	if loc == nil {
		loc = time.Local
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	w := TrailingWindow(now.In(loc), DefaultWindowDays)
	if f.Window != nil {
		w = *f.Window
	} else {
		f.Window = &w
	}

	filtered := f.WithoutSearch().Apply(records)
	searched := filtered
	if f.Search != "" {
		searched = Filter{Search: f.Search}.Apply(filtered)
	}

	rows := make([]Row, len(searched))
	for i, r := range searched {
		rows[i] = NewRow(r, loc)
	}

	return Performance{
		Start:              w.Start.In(loc).Format(DateLayout),
		End:                w.End.In(loc).Format(DateLayout),
		KPIs:               Summarize(filtered, KPIOptions{Active: opts.Active, Now: now}),
		StatusDistribution: StatusDistribution(filtered),
		Days:               DailyCompletions(filtered, w, loc),
		PlatformWorkload:   PlatformWorkload(filtered, nil),
		InfluencerWorkload: UserWorkload(filtered, opts.Roster, ReportTopN),
		Rows:               rows,
	}
}
