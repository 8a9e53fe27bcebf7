package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"bpexport/internal/domain"
)

func membershipPredicate(userID int64, typ domain.MembershipType) (sq.Sqlizer, error) {
	switch typ {
	case domain.MembershipConfirmed:
		return sq.Eq{"user_id": userID, "is_confirmed": 1, "is_banned": 0}, nil
	case domain.MembershipPendingRequest:
		return sq.Eq{"user_id": userID, "is_confirmed": 0, "inviter_id": 0}, nil
	case domain.MembershipReceivedInvite:
		return sq.And{
			sq.Eq{"user_id": userID, "is_confirmed": 0},
			sq.NotEq{"inviter_id": []int64{0, userID}},
		}, nil
	case domain.MembershipSentInvite:
		return sq.Eq{"inviter_id": userID, "is_confirmed": 0}, nil
	default:
		return nil, fmt.Errorf("unknown membership type %q", typ)
	}
}

// Memberships returns the member's group membership rows matching typ.
func (s *Store) Memberships(ctx context.Context, userID int64, typ domain.MembershipType, limit, offset int) ([]domain.Membership, error) {
	pred, err := membershipPredicate(userID, typ)
	if err != nil {
		return nil, err
	}
	rows, err := s.query(ctx, page(
		s.sb.Select("id", "group_id", "user_id", "inviter_id",
			"is_admin", "is_mod", "is_confirmed", "date_modified").
			From(s.table("bp_groups_members")).
			Where(pred).
			OrderBy("id"),
		limit, offset))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", typ, err)
	}
	defer rows.Close()

	var out []domain.Membership
	for rows.Next() {
		var m domain.Membership
		var admin, mod, confirmed int
		if err := rows.Scan(&m.ID, &m.GroupID, &m.UserID, &m.InviterID,
			&admin, &mod, &confirmed, &m.DateModified); err != nil {
			return nil, err
		}
		m.IsAdmin, m.IsMod, m.IsConfirmed = admin != 0, mod != 0, confirmed != 0
		out = append(out, m)
	}
	return out, rows.Err()
}

// Group loads one group. Unknown ids return domain.ErrGroupNotFound.
func (s *Store) Group(ctx context.Context, groupID int64) (domain.Group, error) {
	var g domain.Group
	err := s.queryRow(ctx,
		s.sb.Select("id", "creator_id", "name", "slug").
			From(s.table("bp_groups")).
			Where(sq.Eq{"id": groupID}),
		&g.ID, &g.CreatorID, &g.Name, &g.Slug)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Group{}, fmt.Errorf("%w: %d", domain.ErrGroupNotFound, groupID)
	}
	if err != nil {
		return domain.Group{}, fmt.Errorf("load group %d: %w", groupID, err)
	}
	return g, nil
}

// GroupURL returns the group's home page.
func (s *Store) GroupURL(g domain.Group) string {
	return s.site + "/groups/" + g.Slug + "/"
}
