package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// NotificationPort reads the feed.
type NotificationPort interface {
	List(ctx context.Context, userID string, limit int) ([]Notification, error)
}

// Adapter implements NotificationPort over the service container.
type Adapter struct {
	container mono.ServiceContainer
}

var _ NotificationPort = (*Adapter)(nil)

// NewAdapter creates an Adapter.
func NewAdapter(container mono.ServiceContainer) *Adapter {
	return &Adapter{container: container}
}

// List returns feed entries, newest first.
func (a *Adapter) List(ctx context.Context, userID string, limit int) ([]Notification, error) {
	req := ListRequest{UserID: userID, Limit: limit}
	var resp ListResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceListNotifications,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%s request failed: %w", ServiceListNotifications, err)
	}
	return resp.Notifications, nil
}
