package exporter

import (
	"context"
	"fmt"

	"bpexport/internal/domain"
)

// XProfile exports every extended profile field of the member as one item.
// Profile data is not paginated.
func (e *Exporters) XProfile(ctx context.Context, email string, _ int) (Page, error) {
	return single(ctx, e.host, email, func(ctx context.Context, user domain.User) (Item, error) {
		fields, err := e.host.ProfileFields(ctx, user.ID)
		if err != nil {
			return Item{}, err
		}
		data := make([]Field, 0, len(fields))
		for _, f := range fields {
			// Field names are member-facing content, not labels.
			data = append(data, Field{Name: f.Name, Value: f.Value})
		}
		return Item{
			GroupID:    "bp_xprofile",
			GroupLabel: e.tr.T("Extended Profile Data"),
			ItemID:     fmt.Sprintf("bp-xprofile-%d", user.ID),
			Data:       data,
		}, nil
	})
}
