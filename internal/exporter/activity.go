package exporter

import (
	"context"
	"fmt"

	"bpexport/internal/domain"
)

// Activity exports the member's activity items, comments and hidden items
// included, ActivityBatch per page.
func (e *Exporters) Activity(ctx context.Context, email string, page int) (Page, error) {
	return harvest(ctx, e.host, email, page, ActivityBatch,
		func(ctx context.Context, user domain.User, limit, offset int) ([]domain.Activity, error) {
			return e.host.UserActivities(ctx, user.ID, limit, offset)
		},
		func(_ context.Context, _ domain.User, a domain.Activity) ([]Item, error) {
			description, err := e.hooks.DescribeActivity(a)
			if err != nil {
				return nil, fmt.Errorf("describe activity %d: %w", a.ID, err)
			}

			data := []Field{
				e.field("Activity Date", a.DateRecorded),
				e.field("Activity Description", description),
				e.field("Activity URL", e.host.ActivityPermalink(a)),
			}
			if a.Content != "" {
				data = append(data, e.field("Activity Content", a.Content))
			}

			item := Item{
				GroupID:    "bp_activity",
				GroupLabel: e.tr.T("Activity"),
				ItemID:     fmt.Sprintf("bp-activity-%d", a.ID),
				Data:       data,
			}
			return []Item{e.hooks.EnrichActivity(item, a)}, nil
		})
}
