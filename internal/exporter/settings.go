package exporter

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"bpexport/internal/domain"
)

// restrictInvitesMetaKey stores the Nouveau "friends only" invitation choice.
const restrictInvitesMetaKey = "_bp_nouveau_restrict_invites_to_friends"

type preference struct {
	label string
	key   string
}

// preferences lists the email notification preferences of the active
// components. The group invitation preference is gated on friends.
func (e *Exporters) preferences() []preference {
	var prefs []preference
	if e.host.IsComponentActive(ComponentActivity) {
		prefs = append(prefs,
			preference{"Receive email when a member mentions you in an update?", "notification_activity_new_mention"},
			preference{"Receive email when a member replies to an update or comment you've posted?", "notification_activity_new_reply"},
		)
	}
	if e.host.IsComponentActive(ComponentMessages) {
		prefs = append(prefs,
			preference{"Receive email when a member sends you a new message?", "notification_messages_new_message"},
		)
	}
	if e.host.IsComponentActive(ComponentFriends) {
		prefs = append(prefs,
			preference{"Receive email when a member invites you to join a group?", "notification_groups_invite"},
		)
	}
	if e.host.IsComponentActive(ComponentGroups) {
		prefs = append(prefs,
			preference{"Receive email when group information is updated?", "notification_groups_group_updated"},
			preference{"Receive email when you are promoted to a group administrator or moderator?", "notification_groups_admin_promoted"},
			preference{"Receive email when a member requests to join a private group for which you are an admin?", "notification_groups_membership_request"},
			preference{"Receive email when your request to join a group has been approved or denied?", "notification_membership_request_completed"},
		)
	}
	return prefs
}

// Settings exports the member's notification preferences as one item.
// Preferences without a stored value default to "yes". The page number is
// ignored.
func (e *Exporters) Settings(ctx context.Context, email string, _ int) (Page, error) {
	return single(ctx, e.host, email, func(ctx context.Context, user domain.User) (Item, error) {
		data := []Field{}
		for _, p := range e.preferences() {
			stored, err := e.host.UserMeta(ctx, user.ID, p.key)
			if err != nil {
				return Item{}, fmt.Errorf("read %s: %w", p.key, err)
			}
			if stored == "" {
				stored = "yes"
			}
			data = append(data, e.field(p.label, e.yesNo(stored == "yes")))
		}

		if e.host.IsComponentActive(ComponentNouveau) {
			stored, err := e.host.UserMeta(ctx, user.ID, restrictInvitesMetaKey)
			if err != nil {
				return Item{}, fmt.Errorf("read %s: %w", restrictInvitesMetaKey, err)
			}
			n, _ := strconv.Atoi(strings.TrimSpace(stored))
			data = append(data, e.field("Receive group invitations from my friends only?", e.yesNo(n != 0)))
		}

		return Item{
			GroupID:    "bp_settings",
			GroupLabel: e.tr.T("Settings"),
			ItemID:     fmt.Sprintf("bp-settings-%d", user.ID),
			Data:       data,
		}, nil
	})
}
