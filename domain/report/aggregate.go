package report

import (
	"sort"
	"time"

	"github.com/example/influencer-planner/domain/task"
	"github.com/example/influencer-planner/domain/user"
)

// DefaultPlatforms are the platform labels charted by default.
var DefaultPlatforms = []string{"Instagram", "TikTok", "YouTube", "X"}

// StatusCount is one bucket of the status distribution.
type StatusCount struct {
	Status task.Status `json:"status"`
	Label  string      `json:"name"`
	Color  string      `json:"color"`
	Value  int         `json:"value"`
}

// DayCount is the number of completions on one calendar day.
type DayCount struct {
	Date  time.Time `json:"-"`
	Label string    `json:"date"`
	Count int       `json:"count"`
}

// PlatformCount is the number of tasks owned by users on one platform.
type PlatformCount struct {
	Platform string `json:"platform"`
	Count    int    `json:"count"`
}

// UserCount is the number of tasks owned by one user.
type UserCount struct {
	UserID string `json:"user_id"`
	Name   string `json:"influencer"`
	Count  int    `json:"count"`
}

// StatusDistribution counts records per known status, in display order.
// Unknown statuses fall into no bucket.
func StatusDistribution(records []Record) []StatusCount {
	statuses := task.Statuses()
	out := make([]StatusCount, len(statuses))
	index := make(map[task.Status]int, len(statuses))
	for i, s := range statuses {
		out[i] = StatusCount{Status: s, Label: s.Label(), Color: s.Color()}
		index[s] = i
	}
	for _, r := range records {
		if i, ok := index[r.Status]; ok {
			out[i].Value++
		}
	}
	return out
}

// DailyCompletions returns one entry per day of w, counting done records
// whose completion falls on that day in loc.
func DailyCompletions(records []Record, w Window, loc *time.Location) []DayCount {
	if loc == nil {
		loc = time.Local
	}
	days := w.Days(loc)
	out := make([]DayCount, len(days))
	index := make(map[string]int, len(days))
	for i, d := range days {
		key := d.Format(time.DateOnly)
		out[i] = DayCount{Date: d, Label: d.Format(DateLayout)}
		index[key] = i
	}
	for _, r := range records {
		if r.Status != task.StatusDone || r.CompletedAt == nil {
			continue
		}
		key := r.CompletedAt.In(loc).Format(time.DateOnly)
		if i, ok := index[key]; ok {
			out[i].Count++
		}
	}
	return out
}

// PlatformWorkload counts records per platform. A record whose owner is on
// several platforms counts once for each. A nil platforms slice selects
// DefaultPlatforms.
func PlatformWorkload(records []Record, platforms []string) []PlatformCount {
	if platforms == nil {
		platforms = DefaultPlatforms
	}
	out := make([]PlatformCount, len(platforms))
	for i, p := range platforms {
		out[i].Platform = p
		for _, r := range records {
			if r.HasPlatform(p) {
				out[i].Count++
			}
		}
	}
	return out
}

// UserWorkload counts records per owner, sorted by count descending. Ties keep
// roster order. Roster users without records are included with zero. When
// roster is nil owners appear in first-seen order. n <= 0 keeps every entry.
func UserWorkload(records []Record, roster []user.User, n int) []UserCount {
	var out []UserCount
	index := make(map[string]int)

	add := func(id, name string) int {
		if i, ok := index[id]; ok {
			return i
		}
		out = append(out, UserCount{UserID: id, Name: name})
		index[id] = len(out) - 1
		return len(out) - 1
	}

	for i := range roster {
		add(roster[i].ID, roster[i].FullName)
	}
	for _, r := range records {
		if roster != nil {
			if i, ok := index[r.UserID]; ok {
				out[i].Count++
			}
			continue
		}
		out[add(r.UserID, r.Owner)].Count++
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	if out == nil {
		out = []UserCount{}
	}
	return out
}
