package task

import "strings"

// Status is the lifecycle state of a task.
type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusInProgress Status = "in_progress"
	StatusPaused     Status = "paused"
	StatusDone       Status = "done"
)

// Display holds the presentation data attached to a status.
type Display struct {
	Label string `json:"label"`
	Class string `json:"class"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

var displays = map[Status]Display{
	StatusWaiting:    {Label: "Waiting", Class: "pending", Color: "#f59e0b", Icon: "hourglass_empty"},
	StatusInProgress: {Label: "In Progress", Class: "in-progress", Color: "#3b82f6", Icon: "play_circle"},
	StatusPaused:     {Label: "Paused", Class: "paused", Color: "#ef4444", Icon: "pause_circle"},
	StatusDone:       {Label: "Done", Class: "done", Color: "#22c55e", Icon: "check_circle"},
}

// unknownDisplay is used for values outside the enumeration (legacy rows).
var unknownDisplay = Display{Class: "pending", Color: "#9ca3af", Icon: "info"}

// Statuses returns every status in display order.
func Statuses() []Status {
	return []Status{StatusWaiting, StatusInProgress, StatusPaused, StatusDone}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, ok := displays[s]
	return ok
}

// Display returns the presentation data for s.
func (s Status) Display() Display {
	if d, ok := displays[s]; ok {
		return d
	}
	d := unknownDisplay
	d.Label = string(s)
	return d
}

// Label returns the human readable name. Unknown values are echoed back.
func (s Status) Label() string { return s.Display().Label }

// Class returns the CSS modifier used by badges.
func (s Status) Class() string { return s.Display().Class }

// Color returns the chart color.
func (s Status) Color() string { return s.Display().Color }

// Icon returns the material icon name.
func (s Status) Icon() string { return s.Display().Icon }

// ParseStatus converts untrusted input into a Status.
// Matching ignores case and accepts '-' or ' ' in place of '_'.
func ParseStatus(raw string) (Status, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	v = strings.NewReplacer("-", "_", " ", "_").Replace(v)
	s := Status(v)
	if !s.Valid() {
		return "", false
	}
	return s, true
}
