package exporter

import (
	"context"

	"bpexport/internal/domain"
)

// Component names used for activation checks.
const (
	ComponentSettings      = "settings"
	ComponentActivity      = "activity"
	ComponentXProfile      = "xprofile"
	ComponentMessages      = "messages"
	ComponentGroups        = "groups"
	ComponentFriends       = "friends"
	ComponentNotifications = "notifications"
	// ComponentNouveau is the Nouveau template pack, which adds the
	// "friends only" group invitation preference.
	ComponentNouveau = "nouveau"
)

// Directory resolves members and renders links to their profiles.
type Directory interface {
	IsComponentActive(name string) bool
	FindUserByEmail(ctx context.Context, email string) (domain.User, bool, error)
	// UserLink returns an HTML anchor to the member's profile, or "" when the
	// member no longer exists.
	UserLink(ctx context.Context, userID int64) (string, error)
}

// SettingsSource reads stored member preferences.
type SettingsSource interface {
	UserMeta(ctx context.Context, userID int64, key string) (string, error)
}

// ActivitySource reads a member's activity stream, including hidden items
// and comments.
type ActivitySource interface {
	UserActivities(ctx context.Context, userID int64, limit, offset int) ([]domain.Activity, error)
	ActivityPermalink(a domain.Activity) string
}

// ProfileSource reads extended profile data.
type ProfileSource interface {
	ProfileFields(ctx context.Context, userID int64) ([]domain.ProfileField, error)
}

// MessageSource reads the threads in a member's sent box.
type MessageSource interface {
	SentThreads(ctx context.Context, userID int64, limit, offset int) ([]domain.Thread, error)
	ThreadURL(user domain.User, threadID int64) string
}

// GroupSource reads group membership rows and groups.
type GroupSource interface {
	Memberships(ctx context.Context, userID int64, typ domain.MembershipType, limit, offset int) ([]domain.Membership, error)
	// Group returns domain.ErrGroupNotFound for unknown ids.
	Group(ctx context.Context, groupID int64) (domain.Group, error)
	GroupURL(g domain.Group) string
}

// FriendSource reads friendship rows.
type FriendSource interface {
	Friendships(ctx context.Context, userID int64, filter domain.FriendshipFilter, limit, offset int) ([]domain.Friendship, error)
}

// NotificationSource reads member notifications, newest first.
type NotificationSource interface {
	Notifications(ctx context.Context, userID int64, limit, offset int) ([]domain.Notification, error)
}

// Host is every capability the exporters need from the community site.
type Host interface {
	Directory
	SettingsSource
	ActivitySource
	ProfileSource
	MessageSource
	GroupSource
	FriendSource
	NotificationSource
}
