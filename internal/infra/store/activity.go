package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"bpexport/internal/domain"
)

// activity types whose permalink is the stored primary link
var primaryLinkTypes = map[string]bool{
	"new_blog_post":    true,
	"new_blog_comment": true,
	"new_forum_topic":  true,
	"new_forum_post":   true,
}

// UserActivities returns the member's activities, hidden items and comments
// included, spam excluded, newest first.
func (s *Store) UserActivities(ctx context.Context, userID int64, limit, offset int) ([]domain.Activity, error) {
	rows, err := s.query(ctx, page(
		s.sb.Select("id", "user_id", "component", "type",
			"COALESCE(action, '')", "COALESCE(content, '')", "COALESCE(primary_link, '')",
			"item_id", "date_recorded").
			From(s.table("bp_activity")).
			Where(sq.Eq{"user_id": userID, "is_spam": 0}).
			OrderBy("date_recorded DESC", "id DESC"),
		limit, offset))
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer rows.Close()

	var out []domain.Activity
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(&a.ID, &a.UserID, &a.Component, &a.Type,
			&a.Action, &a.Content, &a.PrimaryLink, &a.ItemID, &a.DateRecorded); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ActivityPermalink returns the single-activity URL. Comments link to their
// parent item, blog and forum items to their primary link.
func (s *Store) ActivityPermalink(a domain.Activity) string {
	switch {
	case primaryLinkTypes[a.Type] && a.PrimaryLink != "":
		return a.PrimaryLink
	case a.Type == "activity_comment":
		return fmt.Sprintf("%s/activity/p/%d/#acomment-%d", s.site, a.ItemID, a.ID)
	default:
		return fmt.Sprintf("%s/activity/p/%d/", s.site, a.ID)
	}
}
