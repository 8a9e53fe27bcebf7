package exporter

import (
	"context"
	"fmt"
	"strings"

	"bpexport/internal/domain"
)

// Messages exports the messages the member wrote, paging over the threads in
// their sent box, MessagesBatch threads per page.
func (e *Exporters) Messages(ctx context.Context, email string, page int) (Page, error) {
	return harvest(ctx, e.host, email, page, MessagesBatch,
		func(ctx context.Context, user domain.User, limit, offset int) ([]domain.Thread, error) {
			return e.host.SentThreads(ctx, user.ID, limit, offset)
		},
		func(ctx context.Context, user domain.User, th domain.Thread) ([]Item, error) {
			links := make([]string, 0, len(th.Recipients))
			for _, id := range th.Recipients {
				if id == user.ID {
					continue
				}
				link, err := e.host.UserLink(ctx, id)
				if err != nil {
					return nil, err
				}
				if link != "" {
					links = append(links, link)
				}
			}
			recipients := strings.Join(links, ", ")
			threadURL := e.host.ThreadURL(user, th.ID)

			var items []Item
			for _, m := range th.Messages {
				if m.SenderID != user.ID {
					continue
				}
				items = append(items, Item{
					GroupID:    "bp_messages",
					GroupLabel: e.tr.T("Private Messages"),
					ItemID:     fmt.Sprintf("bp-messages-%d", m.ID),
					Data: []Field{
						e.field("Message Subject", m.Subject),
						e.field("Message Content", m.Body),
						e.field("Date Sent", m.DateSent),
						e.field("Recipients", recipients),
						e.field("Thread URL", threadURL),
					},
				})
			}
			return items, nil
		})
}
