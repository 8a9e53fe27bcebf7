package exporter

import (
	"context"
	"errors"
	"fmt"

	"bpexport/internal/domain"
)

// GroupRole labels the member's role in g: creator, then admin, then
// moderator, else member.
func GroupRole(user domain.User, g domain.Group, m domain.Membership) string {
	switch {
	case g.CreatorID == user.ID:
		return "Creator"
	case m.IsAdmin:
		return "Admin"
	case m.IsMod:
		return "Moderator"
	default:
		return "Member"
	}
}

type membershipView struct {
	typ        domain.MembershipType
	groupID    string
	groupLabel string
	itemPrefix string
	// perInvitee adds the invited member to the item id, since one member
	// may invite several others to the same group.
	perInvitee bool
	fields     func(ctx context.Context, user domain.User, g domain.Group, m domain.Membership) ([]Field, error)
}

func (e *Exporters) memberships(ctx context.Context, email string, page int, v membershipView) (Page, error) {
	return harvest(ctx, e.host, email, page, GroupsBatch,
		func(ctx context.Context, user domain.User, limit, offset int) ([]domain.Membership, error) {
			return e.host.Memberships(ctx, user.ID, v.typ, limit, offset)
		},
		func(ctx context.Context, user domain.User, m domain.Membership) ([]Item, error) {
			g, err := e.host.Group(ctx, m.GroupID)
			if errors.Is(err, domain.ErrGroupNotFound) {
				g = domain.Group{ID: m.GroupID}
			} else if err != nil {
				return nil, err
			}

			data := []Field{
				e.field("Group Name", g.Name),
				e.field("Group URL", e.host.GroupURL(g)),
			}
			extra, err := v.fields(ctx, user, g, m)
			if err != nil {
				return nil, err
			}
			itemID := fmt.Sprintf("%s-%d", v.itemPrefix, g.ID)
			if v.perInvitee {
				itemID = fmt.Sprintf("%s-%d", itemID, m.UserID)
			}
			return []Item{{
				GroupID:    v.groupID,
				GroupLabel: e.tr.T(v.groupLabel),
				ItemID:     itemID,
				Data:       append(data, extra...),
			}}, nil
		})
}

// GroupMemberships exports the member's confirmed group memberships.
func (e *Exporters) GroupMemberships(ctx context.Context, email string, page int) (Page, error) {
	return e.memberships(ctx, email, page, membershipView{
		typ:        domain.MembershipConfirmed,
		groupID:    "bp_groups_memberships",
		groupLabel: "Group Memberships",
		itemPrefix: "bp-group-membership",
		fields: func(ctx context.Context, user domain.User, g domain.Group, m domain.Membership) ([]Field, error) {
			var data []Field
			if m.InviterID != 0 {
				link, err := e.host.UserLink(ctx, m.InviterID)
				if err != nil {
					return nil, err
				}
				data = append(data, e.field("Invited By", link))
			}
			data = append(data,
				e.field("Group Role", e.tr.T(GroupRole(user, g, m))),
				e.field("Date Joined", m.DateModified),
			)
			return data, nil
		},
	})
}

// GroupPendingRequests exports the member's unanswered requests to join groups.
func (e *Exporters) GroupPendingRequests(ctx context.Context, email string, page int) (Page, error) {
	return e.memberships(ctx, email, page, membershipView{
		typ:        domain.MembershipPendingRequest,
		groupID:    "bp_groups_pending_requests",
		groupLabel: "Pending Group Membership Requests",
		itemPrefix: "bp-group-pending-request",
		fields: func(_ context.Context, _ domain.User, _ domain.Group, m domain.Membership) ([]Field, error) {
			return []Field{e.field("Date Sent", m.DateModified)}, nil
		},
	})
}

// GroupPendingSentInvitations exports open invitations the member sent.
func (e *Exporters) GroupPendingSentInvitations(ctx context.Context, email string, page int) (Page, error) {
	return e.memberships(ctx, email, page, membershipView{
		typ:        domain.MembershipSentInvite,
		groupID:    "bp_groups_pending_sent_invitations",
		groupLabel: "Pending Group Invitations (Sent)",
		itemPrefix: "bp-group-pending-sent-invitation",
		perInvitee: true,
		fields: func(ctx context.Context, _ domain.User, _ domain.Group, m domain.Membership) ([]Field, error) {
			link, err := e.host.UserLink(ctx, m.UserID)
			if err != nil {
				return nil, err
			}
			return []Field{
				e.field("Sent To", link),
				e.field("Date Sent", m.DateModified),
			}, nil
		},
	})
}

// GroupPendingReceivedInvitations exports open invitations the member received.
func (e *Exporters) GroupPendingReceivedInvitations(ctx context.Context, email string, page int) (Page, error) {
	return e.memberships(ctx, email, page, membershipView{
		typ:        domain.MembershipReceivedInvite,
		groupID:    "bp_groups_pending_received_invitations",
		groupLabel: "Pending Group Invitations (Received)",
		itemPrefix: "bp-group-pending-received-invitation",
		fields: func(ctx context.Context, _ domain.User, _ domain.Group, m domain.Membership) ([]Field, error) {
			link, err := e.host.UserLink(ctx, m.InviterID)
			if err != nil {
				return nil, err
			}
			return []Field{
				e.field("Invited By", link),
				e.field("Date Sent", m.DateModified),
			}, nil
		},
	})
}
