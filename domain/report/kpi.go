package report

import (
	"math"
	"slices"
	"sort"
	"time"

	"github.com/example/influencer-planner/domain/task"
)

// DefaultActiveStatuses are the statuses counted as active when
// KPIOptions.Active is nil.
var DefaultActiveStatuses = []task.Status{task.StatusWaiting, task.StatusInProgress}

// KPIOptions configures Summarize.
type KPIOptions struct {
	// Active lists the statuses counted in KPIs.Active.
	Active []task.Status
	Now    time.Time
}

// KPIs is the scalar summary of a record set.
type KPIs struct {
	Total   int `json:"total"`
	Done    int `json:"done"`
	Active  int `json:"inProgress"`
	Overdue int `json:"overdue"`
	// AvgDays and MedianDays are completion latencies in whole days.
	AvgDays    int `json:"avg"`
	MedianDays int `json:"median"`
}

const day = 24 * time.Hour

// Summarize computes the KPIs of records. Every record counts toward Total,
// including ones with unknown statuses.
func Summarize(records []Record, opts KPIOptions) KPIs {
	active := opts.Active
	if active == nil {
		active = DefaultActiveStatuses
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	k := KPIs{Total: len(records)}
	var latencies []float64
	for _, r := range records {
		if r.Status == task.StatusDone {
			k.Done++
		}
		if slices.Contains(active, r.Status) {
			k.Active++
		}
		if r.Overdue(now) {
			k.Overdue++
		}
		if r.CreatedAt != nil && r.CompletedAt != nil {
			latencies = append(latencies, float64(r.CompletedAt.Sub(*r.CreatedAt))/float64(day))
		}
	}

	k.AvgDays = averageDays(latencies)
	k.MedianDays = medianDays(latencies)
	return k
}

func averageDays(values []float64) int {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return roundHalfUp(sum / float64(len(values)))
}

// medianDays takes the lower middle value for even-sized samples.
func medianDays(values []float64) int {
	if len(values) == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	sort.Float64s(sorted)
	return roundHalfUp(sorted[(len(sorted)-1)/2])
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
