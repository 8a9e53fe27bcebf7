package exporter

import (
	"context"
	"fmt"

	"bpexport/internal/domain"
)

func (e *Exporters) friendships(filter domain.FriendshipFilter) func(ctx context.Context, user domain.User, limit, offset int) ([]domain.Friendship, error) {
	return func(ctx context.Context, user domain.User, limit, offset int) ([]domain.Friendship, error) {
		return e.host.Friendships(ctx, user.ID, filter, limit, offset)
	}
}

// Friends exports the member's confirmed friendships.
func (e *Exporters) Friends(ctx context.Context, email string, page int) (Page, error) {
	return harvest(ctx, e.host, email, page, FriendsBatch,
		e.friendships(domain.FriendshipFilter{Confirmed: true}),
		func(ctx context.Context, user domain.User, f domain.Friendship) ([]Item, error) {
			friendID, initiator := f.FriendID, true
			if f.InitiatorID != user.ID {
				friendID, initiator = f.InitiatorID, false
			}
			link, err := e.host.UserLink(ctx, friendID)
			if err != nil {
				return nil, err
			}
			return []Item{{
				GroupID:    "bp_friends",
				GroupLabel: e.tr.T("Friends"),
				ItemID:     fmt.Sprintf("bp-friends-%d", friendID),
				Data: []Field{
					e.field("Friend", link),
					e.field("Initiated By Me", e.yesNo(initiator)),
					e.field("Friendship Date", f.DateCreated),
				},
			}}, nil
		})
}

// FriendsPendingSentRequests exports unconfirmed requests the member initiated.
func (e *Exporters) FriendsPendingSentRequests(ctx context.Context, email string, page int) (Page, error) {
	return harvest(ctx, e.host, email, page, FriendsBatch,
		e.friendships(domain.FriendshipFilter{InitiatorIsUser: true}),
		func(ctx context.Context, _ domain.User, f domain.Friendship) ([]Item, error) {
			link, err := e.host.UserLink(ctx, f.FriendID)
			if err != nil {
				return nil, err
			}
			return []Item{{
				GroupID:    "bp_friends_pending_sent_requests",
				GroupLabel: e.tr.T("Pending Friend Requests (Sent)"),
				ItemID:     fmt.Sprintf("bp-friends-pending-sent-request-%d", f.FriendID),
				Data: []Field{
					e.field("Recipient", link),
					e.field("Date Sent", f.DateCreated),
				},
			}}, nil
		})
}

// FriendsPendingReceivedRequests exports unconfirmed requests sent to the member.
func (e *Exporters) FriendsPendingReceivedRequests(ctx context.Context, email string, page int) (Page, error) {
	return harvest(ctx, e.host, email, page, FriendsBatch,
		e.friendships(domain.FriendshipFilter{FriendIsUser: true}),
		func(ctx context.Context, _ domain.User, f domain.Friendship) ([]Item, error) {
			link, err := e.host.UserLink(ctx, f.InitiatorID)
			if err != nil {
				return nil, err
			}
			return []Item{{
				GroupID:    "bp_friends_pending_received_requests",
				GroupLabel: e.tr.T("Pending Friend Requests (Received)"),
				ItemID:     fmt.Sprintf("bp-friends-pending-received-request-%d", f.InitiatorID),
				Data: []Field{
					e.field("Requester", link),
					e.field("Date Sent", f.DateCreated),
				},
			}}, nil
		})
}
