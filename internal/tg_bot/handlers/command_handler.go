package handlers

import (
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"community_pledge_system/internal/notifications"
	"community_pledge_system/internal/tg_bot/commands"
)

type CommandHandler interface {
	Handle(update tgbotapi.Update) []tgbotapi.Chattable
}

// Authorizer answers whether a member belongs to the admin group.
type Authorizer interface {
	IsAdmin(userID int64) bool
}

type pledgeBotCommandHandler struct {
	authorizer Authorizer
	logger     *zap.SugaredLogger
	commands   []commands.Command

	mu       sync.Mutex
	sessions map[int64]*commands.Session
}

func NewPledgeBotCommandHandler(
	authorizer Authorizer,
	logger *zap.SugaredLogger,
	botCommands []commands.Command,
) CommandHandler {
	return &pledgeBotCommandHandler{
		authorizer: authorizer,
		logger:     logger,
		commands:   botCommands,
		sessions:   make(map[int64]*commands.Session),
	}
}

func (h *pledgeBotCommandHandler) Handle(update tgbotapi.Update) []tgbotapi.Chattable {
	message := update.Message
	callbackQuery := update.CallbackQuery

	if message == nil && callbackQuery == nil {
		h.logger.Warn("received unknown update")
		return []tgbotapi.Chattable{}
	}

	var (
		chatID       int64
		telegramUser *tgbotapi.User
	)

	if message != nil {
		chatID = message.Chat.ID
		telegramUser = message.From
	} else {
		chatID = callbackQuery.Message.Chat.ID
		telegramUser = callbackQuery.From
	}

	if telegramUser == nil || telegramUser.IsBot {
		return []tgbotapi.Chattable{}
	}

	// Conversations only happen in private chats. Button presses on
	// promoted channel posts still arrive here and are routed, with the
	// response going to the member directly.
	if message != nil && message.Chat.ID != telegramUser.ID {
		return []tgbotapi.Chattable{}
	}

	session := h.session(telegramUser.ID)
	session.IsAdmin = h.authorizer.IsAdmin(telegramUser.ID)
	session.Callback = nil

	if callbackQuery != nil {
		h.logger.Infow("received callback query", "data", callbackQuery.Data, "member", session.MemberID)
		return h.handleCallbackQuery(callbackQuery, session)
	}

	if message.IsCommand() {
		h.logger.Infow("received command", "command", message.Command(), "member", session.MemberID)
		return h.handleCommand(message.Command(), message.CommandArguments(), session, chatID)
	}

	if session.LastCommand != "" {
		h.logger.Infow("received conversation input", "command", session.LastCommand, "member", session.MemberID)
		return h.handleConversationInput(message.Text, session, chatID)
	}

	h.logger.Warnw("received message outside a conversation", "member", session.MemberID)
	return []tgbotapi.Chattable{}
}

func (h *pledgeBotCommandHandler) session(userID int64) *commands.Session {
	h.mu.Lock()
	defer h.mu.Unlock()

	session, ok := h.sessions[userID]
	if !ok {
		session = &commands.Session{MemberID: strconv.FormatInt(userID, 10)}
		h.sessions[userID] = session
	}
	return session
}

func (h *pledgeBotCommandHandler) handleCommand(command, arguments string, session *commands.Session, chatID int64) []tgbotapi.Chattable {
	for _, handler := range h.commands {
		if handler.CanHandle(command) {
			session.Reset()
			session.LastCommand = command
			return handler.Handle(command, arguments, session, chatID)
		}
	}

	h.logger.Warnw("received unknown command", "command", command)
	return []tgbotapi.Chattable{}
}

func (h *pledgeBotCommandHandler) handleConversationInput(text string, session *commands.Session, chatID int64) []tgbotapi.Chattable {
	command := strings.Split(session.LastCommand, ":")[0]

	for _, handler := range h.commands {
		if handler.CanHandle(command) {
			return handler.Handle(command, text, session, chatID)
		}
	}

	h.logger.Errorf("received input for unknown command: %s", command)
	return []tgbotapi.Chattable{}
}

func (h *pledgeBotCommandHandler) handleCallbackQuery(callbackQuery *tgbotapi.CallbackQuery, session *commands.Session) []tgbotapi.Chattable {
	parts := strings.SplitN(callbackQuery.Data, ":", 2)
	command := parts[0]
	arguments := ""
	if len(parts) > 1 {
		arguments = parts[1]
	}

	if callbackQuery.Message != nil {
		session.Callback = &notifications.MessageRef{
			ChatID:    callbackQuery.Message.Chat.ID,
			MessageID: callbackQuery.Message.MessageID,
		}
	}

	// Responses to channel button presses go to the member's private chat.
	chatID, err := strconv.ParseInt(session.MemberID, 10, 64)
	if err != nil {
		h.logger.Errorw("failed to parse member id", "member", session.MemberID, "error", err)
		return []tgbotapi.Chattable{}
	}

	for _, handler := range h.commands {
		if handler.CanHandle(command) {
			session.LastCommand = command
			return handler.Handle(command, arguments, session, chatID)
		}
	}

	h.logger.Errorw("received unknown callback query", "data", callbackQuery.Data)
	return []tgbotapi.Chattable{}
}
