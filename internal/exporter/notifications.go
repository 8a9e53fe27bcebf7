package exporter

import (
	"context"
	"fmt"

	"bpexport/internal/domain"
)

// Notifications exports the member's notifications, read and unread, newest
// first, NotificationsBatch per page.
func (e *Exporters) Notifications(ctx context.Context, email string, page int) (Page, error) {
	return harvest(ctx, e.host, email, page, NotificationsBatch,
		func(ctx context.Context, user domain.User, limit, offset int) ([]domain.Notification, error) {
			return e.host.Notifications(ctx, user.ID, limit, offset)
		},
		func(_ context.Context, _ domain.User, n domain.Notification) ([]Item, error) {
			content, err := e.hooks.FormatNotification(n)
			if err != nil {
				return nil, fmt.Errorf("format notification %d: %w", n.ID, err)
			}
			status := e.tr.T("Read")
			if n.IsNew {
				status = e.tr.T("Unread")
			}
			return []Item{{
				GroupID:    "bp_notifications",
				GroupLabel: e.tr.T("Notifications"),
				ItemID:     fmt.Sprintf("bp-notifications-%d", n.ID),
				Data: []Field{
					e.field("Notification Content", content),
					e.field("Notification Date", n.DateNotified),
					e.field("Status", status),
				},
			}}, nil
		})
}
