package notifications

import "community_pledge_system/internal/store/models"

type Kind string

const (
	// KindDirectMessage opens a direct conversation with a member.
	KindDirectMessage Kind = "direct_message"
	// KindAdminMessage posts to the admin-audience channel, optionally with
	// threaded detail messages.
	KindAdminMessage Kind = "admin_message"
	// KindEditMessage rewrites a previously posted message in place,
	// removing its action buttons and appending an audit line.
	KindEditMessage Kind = "edit_message"
	// KindRefreshPromotion re-renders a stored promotional post.
	KindRefreshPromotion Kind = "refresh_promotion"
	// KindRefreshMemberView re-renders a member's personalized project view.
	KindRefreshMemberView Kind = "refresh_member_view"
)

// Button is a chat action attached to a notification, routed back to the
// bot as "action:value".
type Button struct {
	Label  string
	Action string
	Value  string
}

// MessageRef points at an existing chat message.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// Intent is one computed notification. Computing intents is pure; delivery
// is the dispatcher's job and is best-effort.
type Intent struct {
	Kind      Kind
	MemberID  string
	ChatID    int64
	MessageID int
	Text      string
	Thread    []string
	Buttons   []Button
	Project   *models.Project
}

// Messenger delivers intents through the chat platform. Implementations live
// with the presentation layer; the fan-out never talks to the platform
// directly.
type Messenger interface {
	SendDirect(memberID, text string, buttons []Button) error
	SendChannel(chatID int64, text string, thread []string, buttons []Button) error
	EditMessage(chatID int64, messageID int, text string) error
	RefreshPromotion(chatID int64, messageID int, project *models.Project) error
	RefreshMemberView(memberID string) error
}
