package exporter

type registration struct {
	key          string
	friendlyName string
	callback     Callback
}

// Register adds the BuddyPress exporters of every active component to set.
// Keys already claimed by another registrant are left alone. It returns the
// number of exporters added.
func Register(set *Set, e *Exporters) int {
	gated := []struct {
		component string
		exporters []registration
	}{
		{ComponentSettings, []registration{
			{"buddypress-settings", "BuddyPress Settings Data", e.Settings},
		}},
		{ComponentActivity, []registration{
			{"buddypress-activity", "BuddyPress Activity Data", e.Activity},
		}},
		{ComponentXProfile, []registration{
			{"buddypress-xprofile", "BuddyPress XProfile Data", e.XProfile},
		}},
		{ComponentMessages, []registration{
			{"buddypress-messages", "BuddyPress Messages", e.Messages},
		}},
		{ComponentGroups, []registration{
			{"buddypress-groups-memberships", "BuddyPress Group Memberships", e.GroupMemberships},
			{"buddypress-groups-pending-requests", "BuddyPress Pending Group Membership Requests", e.GroupPendingRequests},
			{"buddypress-groups-pending-received-invitations", "BuddyPress Pending Group Invitations (Received)", e.GroupPendingReceivedInvitations},
			{"buddypress-groups-pending-sent-invitations", "BuddyPress Pending Group Invitations (Sent)", e.GroupPendingSentInvitations},
		}},
		{ComponentFriends, []registration{
			{"buddypress-friends", "BuddyPress Friends", e.Friends},
			{"buddypress-friends-pending-sent-requests", "BuddyPress Friend Requests (Sent)", e.FriendsPendingSentRequests},
			{"buddypress-friends-pending-received-requests", "BuddyPress Friend Requests (Received)", e.FriendsPendingReceivedRequests},
		}},
		{ComponentNotifications, []registration{
			{"buddypress-notifications", "BuddyPress Notifications Data", e.Notifications},
		}},
	}

	added := 0
	for _, g := range gated {
		if !e.host.IsComponentActive(g.component) {
			continue
		}
		for _, r := range g.exporters {
			if set.Add(r.key, e.tr.T(r.friendlyName), named(r.key, r.callback)) {
				added++
			}
		}
	}
	return added
}
