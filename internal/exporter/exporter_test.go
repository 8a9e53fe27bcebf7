package exporter

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"bpexport/internal/domain"
)

func registeredSet(t *testing.T, h *fakeHost, hooks *Hooks) *Set {
	t.Helper()
	set := NewSet()
	Register(set, New(h, hooks, nil))
	return set
}

func TestUnknownEmail_EveryExporterReturnsEmptyDonePage(t *testing.T) {
	h := newFakeHost()
	set := registeredSet(t, h, nil)
	require.Equal(t, 12, set.Len())

	for _, e := range set.Entries() {
		t.Run(e.Key, func(t *testing.T) {
			p, err := e.Callback(context.Background(), "nobody@example.org", 1)
			require.NoError(t, err)
			assert.True(t, p.Done)
			assert.NotNil(t, p.Data)
			assert.Empty(t, p.Data)
		})
	}
}

func TestEmptyEmail_SkipsLookup(t *testing.T) {
	h := newFakeHost()
	p, err := New(h, nil, nil).Activity(context.Background(), "   ", 1)
	require.NoError(t, err)
	assert.True(t, p.Done)
	assert.Equal(t, 0, h.lookups)
}

func TestEmailIsTrimmed(t *testing.T) {
	h := newFakeHost()
	h.activities[1] = []domain.Activity{{ID: 9, Type: "activity_update"}}

	p, err := New(h, nil, nil).Activity(context.Background(), "  alice@example.org\n", 1)
	require.NoError(t, err)
	require.Len(t, p.Data, 1)
	assert.Equal(t, "bp-activity-9", p.Data[0].ItemID)
}

func TestWindow(t *testing.T) {
	limit, offset := Window(3, 20)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 40, offset)

	_, offset = Window(0, 20)
	assert.Equal(t, 0, offset)
	_, offset = Window(-4, 20)
	assert.Equal(t, 0, offset)
}

func activities(n int) []domain.Activity {
	out := make([]domain.Activity, n)
	for i := range out {
		out[i] = domain.Activity{ID: int64(i + 1), Type: "activity_update", DateRecorded: "2018-05-01 10:00:00"}
	}
	return out
}

func TestPagination_DoneIffFetchedBelowBatch(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		total := rapid.IntRange(0, 4*ActivityBatch).Draw(t, "total")
		page := rapid.IntRange(1, 6).Draw(t, "page")

		h := newFakeHost()
		h.activities[1] = activities(total)

		p, err := New(h, nil, nil).Activity(context.Background(), "alice@example.org", page)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, offset := Window(page, ActivityBatch)
		fetched := total - offset
		if fetched < 0 {
			fetched = 0
		}
		if fetched > ActivityBatch {
			fetched = ActivityBatch
		}
		if len(p.Data) != fetched {
			t.Fatalf("expected %d items, got %d", fetched, len(p.Data))
		}
		if p.Done != (fetched < ActivityBatch) {
			t.Fatalf("done=%v with %d fetched", p.Done, fetched)
		}
	})
}

func TestPagination_BatchSizesPerCategory(t *testing.T) {
	ctx := context.Background()
	h := newFakeHost()
	e := New(h, nil, nil)

	for i := 0; i < GroupsBatch; i++ {
		gid := int64(100 + i)
		h.groups[gid] = domain.Group{ID: gid, Name: fmt.Sprintf("G%d", i), Slug: fmt.Sprintf("g%d", i)}
		h.members = append(h.members, domain.Membership{ID: gid, GroupID: gid, UserID: 1, IsConfirmed: true})
	}
	for i := 0; i < FriendsBatch; i++ {
		h.friendships = append(h.friendships, domain.Friendship{ID: int64(i + 1), InitiatorID: 1, FriendID: int64(1000 + i), IsConfirmed: true})
	}
	for i := 0; i < MessagesBatch; i++ {
		h.threads[1] = append(h.threads[1], domain.Thread{ID: int64(i + 1), Recipients: []int64{1, 2}})
	}

	tests := []struct {
		name string
		cb   Callback
	}{
		{"groups", e.GroupMemberships},
		{"friends", e.Friends},
		{"messages", e.Messages},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			first, err := tc.cb(ctx, "alice@example.org", 1)
			require.NoError(t, err)
			assert.False(t, first.Done, "a full batch is never the last page")

			second, err := tc.cb(ctx, "alice@example.org", 2)
			require.NoError(t, err)
			assert.True(t, second.Done)
			assert.Empty(t, second.Data)
		})
	}
}

func TestSettings_DefaultsAndStoredValues(t *testing.T) {
	h := newFakeHost()
	h.meta[1] = map[string]string{
		"notification_activity_new_reply":   "no",
		"notification_messages_new_message": "yes",
		"notification_groups_group_updated": "never",
	}

	p, err := New(h, nil, nil).Settings(context.Background(), "alice@example.org", 7)
	require.NoError(t, err)
	assert.True(t, p.Done)
	require.Len(t, p.Data, 1)

	item := p.Data[0]
	assert.Equal(t, "bp_settings", item.GroupID)
	assert.Equal(t, "Settings", item.GroupLabel)
	assert.Equal(t, "bp-settings-1", item.ItemID)
	assert.Len(t, item.Data, 8)

	v, _ := fieldValue(item, "Receive email when a member mentions you in an update?")
	assert.Equal(t, "Yes", v, "missing value defaults to yes")
	v, _ = fieldValue(item, "Receive email when a member replies to an update or comment you've posted?")
	assert.Equal(t, "No", v)
	v, _ = fieldValue(item, "Receive email when a member sends you a new message?")
	assert.Equal(t, "Yes", v)
	v, _ = fieldValue(item, "Receive email when group information is updated?")
	assert.Equal(t, "No", v, "any value other than yes is No")

	_, ok := fieldValue(item, "Receive group invitations from my friends only?")
	assert.False(t, ok)
}

func TestSettings_ComponentGatingAndNouveauFlag(t *testing.T) {
	h := newFakeHost()
	h.active = map[string]bool{ComponentSettings: true, ComponentFriends: true, ComponentNouveau: true}
	h.meta[1] = map[string]string{restrictInvitesMetaKey: "1"}

	p, err := New(h, nil, nil).Settings(context.Background(), "alice@example.org", 1)
	require.NoError(t, err)
	require.Len(t, p.Data, 1)
	assert.Equal(t, []string{
		"Receive email when a member invites you to join a group?",
		"Receive group invitations from my friends only?",
	}, fieldNames(p.Data[0]))
	v, _ := fieldValue(p.Data[0], "Receive group invitations from my friends only?")
	assert.Equal(t, "Yes", v)

	h.meta[1][restrictInvitesMetaKey] = ""
	p, err = New(h, nil, nil).Settings(context.Background(), "alice@example.org", 1)
	require.NoError(t, err)
	v, _ = fieldValue(p.Data[0], "Receive group invitations from my friends only?")
	assert.Equal(t, "No", v)
}

func TestGroupRole_Precedence(t *testing.T) {
	user := domain.User{ID: 1}
	tests := []struct {
		name string
		g    domain.Group
		m    domain.Membership
		want string
	}{
		{"creator wins over admin", domain.Group{CreatorID: 1}, domain.Membership{IsAdmin: true, IsMod: true}, "Creator"},
		{"admin wins over moderator", domain.Group{CreatorID: 2}, domain.Membership{IsAdmin: true, IsMod: true}, "Admin"},
		{"moderator", domain.Group{CreatorID: 2}, domain.Membership{IsMod: true}, "Moderator"},
		{"member", domain.Group{CreatorID: 2}, domain.Membership{}, "Member"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, GroupRole(user, tc.g, tc.m))
		})
	}
}

func TestGroupMemberships_Fields(t *testing.T) {
	h := newFakeHost()
	h.groups[10] = domain.Group{ID: 10, CreatorID: 1, Name: "Hikers", Slug: "hikers"}
	h.groups[11] = domain.Group{ID: 11, CreatorID: 3, Name: "Cooks", Slug: "cooks"}
	h.members = []domain.Membership{
		{ID: 1, GroupID: 10, UserID: 1, IsAdmin: true, IsConfirmed: true, DateModified: "2018-01-01 00:00:00"},
		{ID: 2, GroupID: 11, UserID: 1, InviterID: 3, IsConfirmed: true, DateModified: "2018-02-01 00:00:00"},
		{ID: 3, GroupID: 12, UserID: 1, IsConfirmed: true},
	}

	p, err := New(h, nil, nil).GroupMemberships(context.Background(), "alice@example.org", 1)
	require.NoError(t, err)
	require.Len(t, p.Data, 3)
	assert.True(t, p.Done)

	first := p.Data[0]
	assert.Equal(t, "bp-group-membership-10", first.ItemID)
	assert.Equal(t, []string{"Group Name", "Group URL", "Group Role", "Date Joined"}, fieldNames(first))
	role, _ := fieldValue(first, "Group Role")
	assert.Equal(t, "Creator", role)

	second := p.Data[1]
	assert.Equal(t, []string{"Group Name", "Group URL", "Invited By", "Group Role", "Date Joined"}, fieldNames(second))
	inviter, _ := fieldValue(second, "Invited By")
	assert.Contains(t, inviter, "Carol")

	missing := p.Data[2]
	assert.Equal(t, "bp-group-membership-12", missing.ItemID)
	name, _ := fieldValue(missing, "Group Name")
	assert.Equal(t, "", name)
}

func TestGroupVariants_SelectDisjointRows(t *testing.T) {
	h := newFakeHost()
	for _, id := range []int64{20, 21, 22, 23} {
		h.groups[id] = domain.Group{ID: id, CreatorID: 3, Slug: fmt.Sprint(id)}
	}
	h.members = []domain.Membership{
		{ID: 1, GroupID: 20, UserID: 1, IsConfirmed: true},
		{ID: 2, GroupID: 21, UserID: 1},
		{ID: 3, GroupID: 22, UserID: 1, InviterID: 2},
		{ID: 4, GroupID: 23, UserID: 2, InviterID: 1},
	}
	e := New(h, nil, nil)
	ctx := context.Background()

	check := func(cb Callback, wantID string, extra string) {
		t.Helper()
		p, err := cb(ctx, "alice@example.org", 1)
		require.NoError(t, err)
		require.Len(t, p.Data, 1)
		assert.Equal(t, wantID, p.Data[0].ItemID)
		if extra != "" {
			_, ok := fieldValue(p.Data[0], extra)
			assert.True(t, ok, "expected field %q", extra)
		}
	}
	check(e.GroupMemberships, "bp-group-membership-20", "Group Role")
	check(e.GroupPendingRequests, "bp-group-pending-request-21", "Date Sent")
	check(e.GroupPendingReceivedInvitations, "bp-group-pending-received-invitation-22", "Invited By")
	check(e.GroupPendingSentInvitations, "bp-group-pending-sent-invitation-23-2", "Sent To")
}

func TestGroupPendingSentInvitations_OneItemPerInvitee(t *testing.T) {
	h := newFakeHost()
	h.groups[20] = domain.Group{ID: 20, CreatorID: 1, Name: "Hikers", Slug: "hikers"}
	h.members = []domain.Membership{
		{ID: 1, GroupID: 20, UserID: 2, InviterID: 1, DateModified: "2018-01-01 00:00:00"},
		{ID: 2, GroupID: 20, UserID: 3, InviterID: 1, DateModified: "2018-01-02 00:00:00"},
	}
	set := NewSet()
	set.Add("sent", "Sent", New(h, nil, nil).GroupPendingSentInvitations)

	p, err := set.Call(context.Background(), "sent", "alice@example.org", 1)
	require.NoError(t, err)
	require.Len(t, p.Data, 2)
	assert.Equal(t, "bp-group-pending-sent-invitation-20-2", p.Data[0].ItemID)
	assert.Equal(t, "bp-group-pending-sent-invitation-20-3", p.Data[1].ItemID)

	r, err := Collect(context.Background(), set, "alice@example.org", 0)
	require.NoError(t, err)
	require.Len(t, r.Groups, 1)
	require.Len(t, r.Groups[0].Items, 2)
	for _, item := range r.Groups[0].Items {
		assert.Equal(t, []string{"Group Name", "Group URL", "Sent To", "Date Sent"}, fieldNames(item))
	}
}

func TestMessages_OnlyOwnMessagesWithOtherRecipients(t *testing.T) {
	h := newFakeHost()
	h.threads[1] = []domain.Thread{{
		ID:         7,
		Recipients: []int64{1, 2, 3},
		Messages: []domain.Message{
			{ID: 1, SenderID: 2, Subject: "Hi"},
			{ID: 2, SenderID: 1, Subject: "Re: Hi", Body: "hello", DateSent: "2018-03-01 09:00:00"},
			{ID: 3, SenderID: 3, Subject: "Re: Hi"},
			{ID: 4, SenderID: 1, Subject: "Re: Hi", Body: "again"},
			{ID: 5, SenderID: 2, Subject: "Re: Hi"},
		},
	}}

	p, err := New(h, nil, nil).Messages(context.Background(), "alice@example.org", 1)
	require.NoError(t, err)
	require.Len(t, p.Data, 2)
	assert.True(t, p.Done)

	for i, want := range []string{"bp-messages-2", "bp-messages-4"} {
		item := p.Data[i]
		assert.Equal(t, want, item.ItemID)
		assert.Equal(t, "bp_messages", item.GroupID)
		assert.Equal(t, []string{"Message Subject", "Message Content", "Date Sent", "Recipients", "Thread URL"}, fieldNames(item))
		recipients, _ := fieldValue(item, "Recipients")
		assert.Equal(t, `<a href="/members/bob/">Bob</a>, <a href="/members/carol/">Carol</a>`, recipients)
		url, _ := fieldValue(item, "Thread URL")
		assert.Equal(t, "/members/alice/messages/view/7/", url)
	}
}

func TestFriends_PendingSentAndReceivedAreExclusive(t *testing.T) {
	h := newFakeHost()
	h.friendships = []domain.Friendship{
		{ID: 1, InitiatorID: 1, FriendID: 2, DateCreated: "2018-04-01 00:00:00"},
		{ID: 2, InitiatorID: 3, FriendID: 1, DateCreated: "2018-04-02 00:00:00"},
	}
	e := New(h, nil, nil)
	ctx := context.Background()

	sent, err := e.FriendsPendingSentRequests(ctx, "alice@example.org", 1)
	require.NoError(t, err)
	received, err := e.FriendsPendingReceivedRequests(ctx, "alice@example.org", 1)
	require.NoError(t, err)
	confirmed, err := e.Friends(ctx, "alice@example.org", 1)
	require.NoError(t, err)

	require.Len(t, sent.Data, 1)
	require.Len(t, received.Data, 1)
	assert.Empty(t, confirmed.Data)

	assert.Equal(t, "bp-friends-pending-sent-request-2", sent.Data[0].ItemID)
	recipient, _ := fieldValue(sent.Data[0], "Recipient")
	assert.Contains(t, recipient, "Bob")

	assert.Equal(t, "bp-friends-pending-received-request-3", received.Data[0].ItemID)
	requester, _ := fieldValue(received.Data[0], "Requester")
	assert.Contains(t, requester, "Carol")
}

func TestFriends_InitiatedByMe(t *testing.T) {
	h := newFakeHost()
	h.friendships = []domain.Friendship{
		{ID: 1, InitiatorID: 1, FriendID: 2, IsConfirmed: true},
		{ID: 2, InitiatorID: 3, FriendID: 1, IsConfirmed: true},
	}
	p, err := New(h, nil, nil).Friends(context.Background(), "alice@example.org", 1)
	require.NoError(t, err)
	require.Len(t, p.Data, 2)

	assert.Equal(t, "bp-friends-2", p.Data[0].ItemID)
	v, _ := fieldValue(p.Data[0], "Initiated By Me")
	assert.Equal(t, "Yes", v)

	assert.Equal(t, "bp-friends-3", p.Data[1].ItemID)
	v, _ = fieldValue(p.Data[1], "Initiated By Me")
	assert.Equal(t, "No", v)
}

func TestActivity_DescriptionContentAndEnrichers(t *testing.T) {
	h := newFakeHost()
	h.activities[1] = []domain.Activity{
		{ID: 1, Component: "groups", Type: "joined_group", Action: "Alice joined Hikers"},
		{ID: 2, Component: "activity", Type: "activity_update", Content: "hello world"},
		{ID: 3, Component: "blogs", Type: "new_blog_post", Action: "stored action"},
	}
	hooks := NewHooks()
	hooks.RegisterActivityFormatter("blogs", "new_blog_post", func(a domain.Activity) (string, error) {
		return fmt.Sprintf("formatted %d", a.ID), nil
	})
	hooks.AddActivityEnricher(func(item Item, a domain.Activity) Item {
		item.Data = append(item.Data, Field{Name: "Component", Value: a.Component})
		return item
	})
	hooks.AddActivityEnricher(func(item Item, a domain.Activity) Item {
		item.Data = append(item.Data, Field{Name: "Order", Value: fmt.Sprint(len(item.Data))})
		return item
	})

	p, err := New(h, hooks, nil).Activity(context.Background(), "alice@example.org", 1)
	require.NoError(t, err)
	require.Len(t, p.Data, 3)

	d, _ := fieldValue(p.Data[0], "Activity Description")
	assert.Equal(t, "Alice joined Hikers", d)
	assert.Equal(t, []string{"Activity Date", "Activity Description", "Activity URL", "Component", "Order"}, fieldNames(p.Data[0]))
	order, _ := fieldValue(p.Data[0], "Order")
	assert.Equal(t, "4", order, "enrichers run in registration order")

	d, _ = fieldValue(p.Data[1], "Activity Description")
	assert.Equal(t, "activity_update", d, "falls back to the type")
	c, ok := fieldValue(p.Data[1], "Activity Content")
	assert.True(t, ok)
	assert.Equal(t, "hello world", c)

	d, _ = fieldValue(p.Data[2], "Activity Description")
	assert.Equal(t, "formatted 3", d)
	u, _ := fieldValue(p.Data[2], "Activity URL")
	assert.Equal(t, "/activity/p/3/", u)
}

func TestActivity_FormatterErrorPropagates(t *testing.T) {
	h := newFakeHost()
	h.activities[1] = []domain.Activity{{ID: 1, Component: "x", Type: "y"}}
	boom := errors.New("boom")
	hooks := NewHooks()
	hooks.RegisterActivityFormatter("x", "y", func(domain.Activity) (string, error) { return "", boom })

	_, err := New(h, hooks, nil).Activity(context.Background(), "alice@example.org", 1)
	assert.ErrorIs(t, err, boom)
}

func TestNotifications_FormattersAndFallback(t *testing.T) {
	h := newFakeHost()
	h.notifications[1] = []domain.Notification{
		{ID: 1, ComponentName: "friends", ComponentAction: "friendship_request", IsNew: true, DateNotified: "2018-05-01 00:00:00"},
		{ID: 2, ComponentName: "xprofile", ComponentAction: "updated"},
		{ID: 3, ComponentName: "custom", ComponentAction: "custom_action"},
	}
	hooks := NewHooks()
	hooks.RegisterNotificationFormatter("friends", func(n domain.Notification) (string, error) {
		return "You have a friendship request", nil
	})
	hooks.RegisterNotificationFormatter("profile", func(n domain.Notification) (string, error) {
		return "profile " + n.ComponentAction, nil
	})
	hooks.AddNotificationFilter(func(content string, n domain.Notification) string {
		return content + "!"
	})

	p, err := New(h, hooks, nil).Notifications(context.Background(), "alice@example.org", 1)
	require.NoError(t, err)
	require.Len(t, p.Data, 3)

	c, _ := fieldValue(p.Data[0], "Notification Content")
	assert.Equal(t, "You have a friendship request", c)
	s, _ := fieldValue(p.Data[0], "Status")
	assert.Equal(t, "Unread", s)

	c, _ = fieldValue(p.Data[1], "Notification Content")
	assert.Equal(t, "profile updated", c, "xprofile resolves to the profile formatter")
	s, _ = fieldValue(p.Data[1], "Status")
	assert.Equal(t, "Read", s)

	c, _ = fieldValue(p.Data[2], "Notification Content")
	assert.Equal(t, "custom_action!", c)
	assert.Equal(t, "bp-notifications-3", p.Data[2].ItemID)
}

func TestXProfile_NotPaginated(t *testing.T) {
	h := newFakeHost()
	h.profile[1] = []domain.ProfileField{
		{FieldID: 1, Name: "Name", Value: "Alice"},
		{FieldID: 2, Name: "Hobbies", Value: "hiking, cooking"},
	}
	p, err := New(h, nil, nil).XProfile(context.Background(), "alice@example.org", 3)
	require.NoError(t, err)
	assert.True(t, p.Done)
	require.Len(t, p.Data, 1)
	assert.Equal(t, "bp-xprofile-1", p.Data[0].ItemID)
	assert.Equal(t, "Extended Profile Data", p.Data[0].GroupLabel)
	assert.Equal(t, []Field{{"Name", "Alice"}, {"Hobbies", "hiking, cooking"}}, p.Data[0].Data)
}

func TestIdempotence_SameInputSameOutput(t *testing.T) {
	h := newFakeHost()
	h.activities[1] = activities(60)
	h.groups[10] = domain.Group{ID: 10, CreatorID: 1, Name: "Hikers", Slug: "hikers"}
	h.members = []domain.Membership{{ID: 1, GroupID: 10, UserID: 1, IsConfirmed: true}}
	h.friendships = []domain.Friendship{{ID: 1, InitiatorID: 1, FriendID: 2, IsConfirmed: true}}
	set := registeredSet(t, h, nil)

	for _, e := range set.Entries() {
		for page := 1; page <= 2; page++ {
			a, err := e.Callback(context.Background(), "alice@example.org", page)
			require.NoError(t, err)
			b, err := e.Callback(context.Background(), "alice@example.org", page)
			require.NoError(t, err)
			assert.Equal(t, a, b, "%s page %d", e.Key, page)
		}
	}
}

func TestStorageErrorsPropagateWithKey(t *testing.T) {
	h := newFakeHost()
	boom := errors.New("connection reset")
	h.err = boom
	set := registeredSet(t, h, nil)

	for _, e := range set.Entries() {
		_, err := e.Callback(context.Background(), "alice@example.org", 1)
		require.Error(t, err, e.Key)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), e.Key)
	}
}

type upper struct{}

func (upper) T(msg string) string { return "T:" + msg }

func TestTranslatorAppliesToLabels(t *testing.T) {
	h := newFakeHost()
	h.friendships = []domain.Friendship{{ID: 1, InitiatorID: 1, FriendID: 2, IsConfirmed: true}}

	p, err := New(h, nil, upper{}).Friends(context.Background(), "alice@example.org", 1)
	require.NoError(t, err)
	require.Len(t, p.Data, 1)
	assert.Equal(t, "T:Friends", p.Data[0].GroupLabel)
	assert.Equal(t, "bp_friends", p.Data[0].GroupID)
	v, ok := fieldValue(p.Data[0], "T:Initiated By Me")
	assert.True(t, ok)
	assert.Equal(t, "T:Yes", v)
}
