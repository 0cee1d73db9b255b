package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/influencer-planner/domain/task"
)

func sampleRecords() []Record {
	return []Record{
		{TaskID: "a", UserID: "u1", Owner: "Ada", Title: "Spring reel", TaskType: "Reel",
			Status: task.StatusInProgress, DueDate: ptr(day0.AddDate(0, 0, 3)), Platforms: []string{"Instagram"}},
		{TaskID: "b", UserID: "u2", Owner: "Bo", Title: "Unboxing", TaskType: "Video",
			Status: task.StatusDone, CreatedAt: ptr(day0.AddDate(0, 0, -40)), Platforms: []string{"YouTube", "TikTok"}},
		{TaskID: "c", UserID: "u1", Owner: "Ada", Title: "Giveaway", TaskType: "Story",
			Status: task.StatusWaiting},
	}
}

func TestFilterMatch(t *testing.T) {
	records := sampleRecords()
	w := Window{Start: day0, End: day0.AddDate(0, 0, 29)}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"zero filter keeps everything", Filter{}, []string{"a", "b", "c"}},
		{"window uses due then created, undated passes", Filter{Window: &w}, []string{"a", "c"}},
		{"platform", Filter{Platform: "TikTok"}, []string{"b"}},
		{"status", Filter{Status: task.StatusWaiting}, []string{"c"}},
		{"owner by name", Filter{Owner: "Ada"}, []string{"a", "c"}},
		{"owner by id", Filter{Owner: "u2"}, []string{"b"}},
		{"search title case-insensitive", Filter{Search: "REEL"}, []string{"a"}},
		{"search platform list", Filter{Search: "youtube, tik"}, []string{"b"}},
		{"search status label", Filter{Search: "in progress"}, []string{"a"}},
		{"search raw status", Filter{Search: "in_progress"}, []string{"a"}},
		{"criteria compose", Filter{Owner: "Ada", Status: task.StatusDone}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []string
			for _, r := range tt.filter.Apply(records) {
				ids = append(ids, r.TaskID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestWindow(t *testing.T) {
	w := TrailingWindow(time.Date(2026, 3, 30, 18, 30, 0, 0, time.UTC), 30)
	assert.Equal(t, day0, w.Start)
	assert.Equal(t, time.Date(2026, 3, 30, 0, 0, 0, 0, time.UTC), w.End)
	assert.Len(t, w.Days(time.UTC), 30)

	assert.True(t, w.Contains(time.Date(2026, 3, 30, 23, 59, 0, 0, time.UTC)))
	assert.True(t, w.Contains(day0))
	assert.False(t, w.Contains(day0.Add(-time.Minute)))
}

func TestParseQuery(t *testing.T) {
	now := time.Date(2026, 3, 30, 12, 0, 0, 0, time.UTC)

	t.Run("explicit values", func(t *testing.T) {
		f := ParseQuery(Query{
			Start:    "01.03.2026",
			End:      "2026-03-05",
			Platform: "Instagram",
			Status:   "done",
			Owner:    "all",
			Search:   "  reel ",
		}, now, time.UTC)

		require.NotNil(t, f.Window)
		assert.Equal(t, day0, f.Window.Start)
		assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), f.Window.End)
		assert.Equal(t, "Instagram", f.Platform)
		assert.Equal(t, task.StatusDone, f.Status)
		assert.Empty(t, f.Owner)
		assert.Equal(t, "reel", f.Search)
	})

	t.Run("defaults", func(t *testing.T) {
		f := ParseQuery(Query{Start: "yesterday", Status: "all", Platform: "all"}, now, time.UTC)
		require.NotNil(t, f.Window)
		assert.Equal(t, TrailingWindow(now, DefaultWindowDays), *f.Window)
		assert.Empty(t, f.Status)
		assert.Empty(t, f.Platform)
	})

	t.Run("unknown status disables the criterion", func(t *testing.T) {
		f := ParseQuery(Query{Status: "tamamlandi"}, now, time.UTC)
		assert.Empty(t, f.Status)
	})

	t.Run("inverted range falls back", func(t *testing.T) {
		f := ParseQuery(Query{Start: "10.03.2026", End: "01.03.2026"}, now, time.UTC)
		assert.Equal(t, TrailingWindow(now, DefaultWindowDays), *f.Window)
	})

	t.Run("oversized range is cut to the maximum", func(t *testing.T) {
		f := ParseQuery(Query{Start: "01.01.0001", End: "31.12.9999"}, now, time.UTC)
		require.NotNil(t, f.Window)
		end := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, end, f.Window.End)
		assert.Equal(t, end.AddDate(0, 0, -(MaxWindowDays-1)), f.Window.Start)
		assert.Len(t, f.Window.Days(time.UTC), MaxWindowDays)

		perf := BuildPerformance(nil, f, PerformanceOptions{Now: now, Loc: time.UTC})
		assert.Len(t, perf.Days, MaxWindowDays)
	})

	t.Run("lone start far in the past", func(t *testing.T) {
		f := ParseQuery(Query{Start: "01.01.1990"}, now, time.UTC)
		assert.Len(t, f.Window.Days(time.UTC), MaxWindowDays)
		assert.Equal(t, TrailingWindow(now, DefaultWindowDays).End, f.Window.End)
	})

	t.Run("a full year is kept", func(t *testing.T) {
		f := ParseQuery(Query{Start: "2025-03-31", End: "2026-03-30"}, now, time.UTC)
		assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), f.Window.Start)
	})
}

func TestBuildPerformance(t *testing.T) {
	now := day0.AddDate(0, 0, 10)
	w := Window{Start: day0.AddDate(0, 0, -60), End: now}
	perf := BuildPerformance(sampleRecords(), Filter{Window: &w, Search: "giveaway"}, PerformanceOptions{
		Now: now,
		Loc: time.UTC,
	})

	assert.Equal(t, 3, perf.KPIs.Total)
	require.Len(t, perf.Rows, 1)
	assert.Equal(t, "c", perf.Rows[0].ID)
	assert.Equal(t, "-", perf.Rows[0].StartAt)
	assert.Equal(t, "-", perf.Rows[0].Platform)
	assert.Len(t, perf.Days, 71)
	assert.Len(t, perf.StatusDistribution, 4)
	assert.Equal(t, "31.12.2025", perf.Start)
}

func TestBuildDashboard(t *testing.T) {
	d := Build(nil, nil, day0, time.UTC)
	assert.Len(t, d.StatusDistribution, 4)
	assert.Len(t, d.Last14Days, DashboardWindowDays)
	assert.Len(t, d.PlatformWorkload, len(DefaultPlatforms))
	assert.Empty(t, d.InfluencerCounts)
}

func TestWriteCSV(t *testing.T) {
	rows := []Row{
		NewRow(Record{TaskID: "a", Title: "Reel; part 1", Owner: "Ada", CreatedAt: ptr(day0),
			Platforms: []string{"Instagram", "TikTok"}, Status: task.StatusDone}, time.UTC),
		NewRow(Record{TaskID: "b", Title: "Story", Owner: "Bo", Status: task.StatusWaiting}, time.UTC),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	want := "Date;Title;Influencer;Platform;Status\n" +
		"01.03.2026;\"Reel; part 1\";Ada;Instagram, TikTok;Done\n" +
		"-;Story;Bo;-;Waiting\n"
	assert.Equal(t, want, buf.String())
}
