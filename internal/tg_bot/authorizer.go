package tgbot

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"community_pledge_system/internal/tg_bot/handlers"
)

// adminAuthorizer answers admin checks with a chat-member lookup against the
// admin group. Lookups are cached briefly so a burst of button presses does
// not hammer the API.
type adminAuthorizer struct {
	bot          *tgbotapi.BotAPI
	adminGroupID int64
	cache        *gocache.Cache
	logger       *zap.SugaredLogger
}

func NewAdminAuthorizer(bot *tgbotapi.BotAPI, adminGroupID int64, logger *zap.SugaredLogger) handlers.Authorizer {
	return &adminAuthorizer{
		bot:          bot,
		adminGroupID: adminGroupID,
		cache:        gocache.New(5*time.Minute, 10*time.Minute),
		logger:       logger,
	}
}

func (a *adminAuthorizer) IsAdmin(userID int64) bool {
	key := fmt.Sprintf("admin:%d", userID)
	if cached, ok := a.cache.Get(key); ok {
		return cached.(bool)
	}

	member, err := a.bot.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: a.adminGroupID,
			UserID: userID,
		},
	})
	if err != nil {
		a.logger.Warnw("failed to check admin group membership", "user", userID, "error", err)
		return false
	}

	isAdmin := member.Status == "creator" || member.Status == "administrator" || member.Status == "member"
	a.cache.Set(key, isAdmin, gocache.DefaultExpiration)
	return isAdmin
}
