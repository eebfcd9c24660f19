package commands

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"community_pledge_system/internal/notifications"
)

// Draft accumulates a project through a multi-step conversation before it is
// committed to the store.
type Draft struct {
	ProjectID   string
	Field       string
	Title       string
	Description string
	ImageURL    string
	Total       int
}

// Session is the per-member conversation state. It lives in memory only;
// losing it on restart just means a member restarts their current command.
type Session struct {
	MemberID         string
	IsAdmin          bool
	LastCommand      string
	LastCommandState string
	Draft            *Draft

	// Callback points at the message whose button produced the current
	// update, nil for plain messages.
	Callback *notifications.MessageRef
}

func (s *Session) Reset() {
	s.LastCommand = ""
	s.LastCommandState = ""
	s.Draft = nil
}

type Command interface {
	CanHandle(command string) bool
	Handle(command, arguments string, session *Session, chatID int64) []tgbotapi.Chattable
}
