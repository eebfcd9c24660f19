package tgbot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"community_pledge_system/configs"
	"community_pledge_system/internal/tg_bot/handlers"
)

type bot struct {
	api     *tgbotapi.BotAPI
	handler handlers.CommandHandler
}

type Bot interface {
	Start(config configs.PledgeBotConfig, logger *zap.SugaredLogger)
}

func NewBot(api *tgbotapi.BotAPI, handler handlers.CommandHandler) Bot {
	return &bot{api: api, handler: handler}
}

func (b *bot) Start(config configs.PledgeBotConfig, logger *zap.SugaredLogger) {
	b.api.Debug = config.App.IsDevEnvironment()

	update := tgbotapi.NewUpdate(0)
	update.Timeout = config.Bot.UpdateTimeout

	logger.Info("bot started")
	for u := range b.api.GetUpdatesChan(update) {
		if u.CallbackQuery != nil {
			if _, err := b.api.Request(tgbotapi.NewCallback(u.CallbackQuery.ID, "")); err != nil {
				logger.Errorf("failed to answer callback query: %v", err)
			}
		}

		for _, message := range b.handler.Handle(u) {
			if _, err := b.api.Send(message); err != nil {
				logger.Errorf("failed to send message: %v", err)
			}
		}
	}
}
