package notification

// ServiceListNotifications is the request-reply service serving the feed.
const ServiceListNotifications = "list-notifications"

// ListRequest selects feed entries.
type ListRequest struct {
	UserID string `json:"user_id,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// ListResponse holds feed entries, newest first.
type ListResponse struct {
	Notifications []Notification `json:"notifications"`
}
