package exporter

import (
	"context"
	"fmt"
	"strings"

	"bpexport/internal/domain"
)

type fakeHost struct {
	active        map[string]bool
	users         []domain.User
	meta          map[int64]map[string]string
	activities    map[int64][]domain.Activity
	profile       map[int64][]domain.ProfileField
	threads       map[int64][]domain.Thread
	groups        map[int64]domain.Group
	members       []domain.Membership
	friendships   []domain.Friendship
	notifications map[int64][]domain.Notification

	err     error
	lookups int
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		active: map[string]bool{
			ComponentSettings: true, ComponentActivity: true, ComponentXProfile: true,
			ComponentMessages: true, ComponentGroups: true, ComponentFriends: true,
			ComponentNotifications: true,
		},
		users: []domain.User{
			{ID: 1, Email: "alice@example.org", Nicename: "alice", DisplayName: "Alice"},
			{ID: 2, Email: "bob@example.org", Nicename: "bob", DisplayName: "Bob"},
			{ID: 3, Email: "carol@example.org", Nicename: "carol", DisplayName: "Carol"},
		},
		meta:          map[int64]map[string]string{},
		activities:    map[int64][]domain.Activity{},
		profile:       map[int64][]domain.ProfileField{},
		threads:       map[int64][]domain.Thread{},
		groups:        map[int64]domain.Group{},
		notifications: map[int64][]domain.Notification{},
	}
}

func window[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

func (h *fakeHost) IsComponentActive(name string) bool { return h.active[name] }

func (h *fakeHost) FindUserByEmail(_ context.Context, email string) (domain.User, bool, error) {
	h.lookups++
	for _, u := range h.users {
		if strings.EqualFold(u.Email, email) {
			return u, true, nil
		}
	}
	return domain.User{}, false, nil
}

func (h *fakeHost) UserLink(_ context.Context, id int64) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	for _, u := range h.users {
		if u.ID == id {
			return fmt.Sprintf("<a href=\"/members/%s/\">%s</a>", u.Nicename, u.DisplayName), nil
		}
	}
	return "", nil
}

func (h *fakeHost) UserMeta(_ context.Context, id int64, key string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return h.meta[id][key], nil
}

func (h *fakeHost) UserActivities(_ context.Context, id int64, limit, offset int) ([]domain.Activity, error) {
	if h.err != nil {
		return nil, h.err
	}
	return window(h.activities[id], limit, offset), nil
}

func (h *fakeHost) ActivityPermalink(a domain.Activity) string {
	return fmt.Sprintf("/activity/p/%d/", a.ID)
}

func (h *fakeHost) ProfileFields(_ context.Context, id int64) ([]domain.ProfileField, error) {
	if h.err != nil {
		return nil, h.err
	}
	return h.profile[id], nil
}

func (h *fakeHost) SentThreads(_ context.Context, id int64, limit, offset int) ([]domain.Thread, error) {
	if h.err != nil {
		return nil, h.err
	}
	return window(h.threads[id], limit, offset), nil
}

func (h *fakeHost) ThreadURL(u domain.User, threadID int64) string {
	return fmt.Sprintf("/members/%s/messages/view/%d/", u.Nicename, threadID)
}

func (h *fakeHost) Memberships(_ context.Context, id int64, typ domain.MembershipType, limit, offset int) ([]domain.Membership, error) {
	if h.err != nil {
		return nil, h.err
	}
	var out []domain.Membership
	for _, m := range h.members {
		var match bool
		switch typ {
		case domain.MembershipConfirmed:
			match = m.UserID == id && m.IsConfirmed
		case domain.MembershipPendingRequest:
			match = m.UserID == id && !m.IsConfirmed && m.InviterID == 0
		case domain.MembershipReceivedInvite:
			match = m.UserID == id && !m.IsConfirmed && m.InviterID != 0 && m.InviterID != id
		case domain.MembershipSentInvite:
			match = m.InviterID == id && !m.IsConfirmed
		}
		if match {
			out = append(out, m)
		}
	}
	return window(out, limit, offset), nil
}

func (h *fakeHost) Group(_ context.Context, id int64) (domain.Group, error) {
	g, ok := h.groups[id]
	if !ok {
		return domain.Group{}, domain.ErrGroupNotFound
	}
	return g, nil
}

func (h *fakeHost) GroupURL(g domain.Group) string {
	return "/groups/" + g.Slug + "/"
}

func (h *fakeHost) Friendships(_ context.Context, id int64, f domain.FriendshipFilter, limit, offset int) ([]domain.Friendship, error) {
	if h.err != nil {
		return nil, h.err
	}
	var out []domain.Friendship
	for _, fr := range h.friendships {
		if fr.IsConfirmed != f.Confirmed {
			continue
		}
		switch {
		case f.InitiatorIsUser && fr.InitiatorID != id:
			continue
		case f.FriendIsUser && fr.FriendID != id:
			continue
		case !f.InitiatorIsUser && !f.FriendIsUser && fr.InitiatorID != id && fr.FriendID != id:
			continue
		}
		out = append(out, fr)
	}
	return window(out, limit, offset), nil
}

func (h *fakeHost) Notifications(_ context.Context, id int64, limit, offset int) ([]domain.Notification, error) {
	if h.err != nil {
		return nil, h.err
	}
	return window(h.notifications[id], limit, offset), nil
}

var _ Host = (*fakeHost)(nil)

func fieldValue(item Item, name string) (string, bool) {
	for _, f := range item.Data {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

func fieldNames(item Item) []string {
	names := make([]string, len(item.Data))
	for i, f := range item.Data {
		names[i] = f.Name
	}
	return names
}
