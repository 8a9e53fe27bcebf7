package domain

// User is a site member resolved from an email address.
type User struct {
	ID          int64
	Email       string
	Nicename    string
	DisplayName string
}

// Activity is one row of the activity stream.
type Activity struct {
	ID           int64
	UserID       int64
	Component    string
	Type         string
	Action       string
	Content      string
	PrimaryLink  string
	ItemID       int64
	DateRecorded string
}

// ProfileField is one extended profile value, already formatted for display.
type ProfileField struct {
	FieldID int64
	Name    string
	Value   string
}

// Message is one private message within a thread.
type Message struct {
	ID       int64
	ThreadID int64
	SenderID int64
	Subject  string
	Body     string
	DateSent string
}

// Thread is a private message conversation with its participants.
type Thread struct {
	ID         int64
	Recipients []int64
	Messages   []Message
}

// Group is a BuddyPress user group.
type Group struct {
	ID        int64
	CreatorID int64
	Name      string
	Slug      string
}

// MembershipType selects one of the membership table predicates.
type MembershipType string

const (
	MembershipConfirmed      MembershipType = "membership"
	MembershipPendingRequest MembershipType = "pending_request"
	MembershipReceivedInvite MembershipType = "pending_received_invitation"
	MembershipSentInvite     MembershipType = "pending_sent_invitation"
)

// Membership is one row of the group members table.
type Membership struct {
	ID           int64
	GroupID      int64
	UserID       int64
	InviterID    int64
	IsAdmin      bool
	IsMod        bool
	IsConfirmed  bool
	DateModified string
}

// Friendship links an initiator and a friend.
type Friendship struct {
	ID          int64
	InitiatorID int64
	FriendID    int64
	IsConfirmed bool
	DateCreated string
}

// FriendshipFilter narrows a friendship query. With neither side fixed, rows
// where the user is on either side match.
type FriendshipFilter struct {
	Confirmed       bool
	InitiatorIsUser bool
	FriendIsUser    bool
}

// Notification is one member notification.
type Notification struct {
	ID              int64
	UserID          int64
	ItemID          int64
	SecondaryItemID int64
	ComponentName   string
	ComponentAction string
	DateNotified    string
	IsNew           bool
}
