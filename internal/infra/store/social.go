package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"bpexport/internal/domain"
)

func friendshipPredicate(userID int64, f domain.FriendshipFilter) sq.Sqlizer {
	confirmed := 0
	if f.Confirmed {
		confirmed = 1
	}
	switch {
	case f.InitiatorIsUser:
		return sq.Eq{"is_confirmed": confirmed, "initiator_user_id": userID}
	case f.FriendIsUser:
		return sq.Eq{"is_confirmed": confirmed, "friend_user_id": userID}
	default:
		return sq.And{
			sq.Eq{"is_confirmed": confirmed},
			sq.Or{sq.Eq{"initiator_user_id": userID}, sq.Eq{"friend_user_id": userID}},
		}
	}
}

// Friendships returns the member's friendship rows matching filter.
func (s *Store) Friendships(ctx context.Context, userID int64, filter domain.FriendshipFilter, limit, offset int) ([]domain.Friendship, error) {
	rows, err := s.query(ctx, page(
		s.sb.Select("id", "initiator_user_id", "friend_user_id", "is_confirmed", "date_created").
			From(s.table("bp_friends")).
			Where(friendshipPredicate(userID, filter)).
			OrderBy("id"),
		limit, offset))
	if err != nil {
		return nil, fmt.Errorf("query friendships: %w", err)
	}
	defer rows.Close()

	var out []domain.Friendship
	for rows.Next() {
		var f domain.Friendship
		var confirmed int
		if err := rows.Scan(&f.ID, &f.InitiatorID, &f.FriendID, &confirmed, &f.DateCreated); err != nil {
			return nil, err
		}
		f.IsConfirmed = confirmed != 0
		out = append(out, f)
	}
	return out, rows.Err()
}

// Notifications returns the member's notifications, read and unread, newest
// first.
func (s *Store) Notifications(ctx context.Context, userID int64, limit, offset int) ([]domain.Notification, error) {
	rows, err := s.query(ctx, page(
		s.sb.Select("id", "user_id", "item_id", "secondary_item_id",
			"component_name", "component_action", "date_notified", "is_new").
			From(s.table("bp_notifications")).
			Where(sq.Eq{"user_id": userID}).
			OrderBy("date_notified DESC", "id DESC"),
		limit, offset))
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var isNew int
		if err := rows.Scan(&n.ID, &n.UserID, &n.ItemID, &n.SecondaryItemID,
			&n.ComponentName, &n.ComponentAction, &n.DateNotified, &isNew); err != nil {
			return nil, err
		}
		n.IsNew = isNew != 0
		out = append(out, n)
	}
	return out, rows.Err()
}
