package tgbot

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"community_pledge_system/internal/notifications"
	"community_pledge_system/internal/store/models"
	"community_pledge_system/internal/store/repositories"
	tgbot "community_pledge_system/internal/tg_bot/extension"
)

// messenger delivers notification intents through the Telegram API. It also
// posts promotional messages, which share the rendering and button layout
// with promotion refreshes.
type messenger struct {
	bot               *tgbotapi.BotAPI
	projectRepository repositories.ProjectRepository
	logger            *zap.SugaredLogger
}

// Messenger is the delivery side of the notification fan-out plus the
// promotional posting used by the promote command.
type Messenger interface {
	notifications.Messenger
	Promote(chatID int64, project *models.Project) (int, error)
}

func NewMessenger(bot *tgbotapi.BotAPI, projectRepository repositories.ProjectRepository, logger *zap.SugaredLogger) Messenger {
	return &messenger{
		bot:               bot,
		projectRepository: projectRepository,
		logger:            logger,
	}
}

func (m *messenger) SendDirect(memberID, text string, buttons []notifications.Button) error {
	chatID, err := strconv.ParseInt(memberID, 10, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid member id %q", memberID)
	}

	message := tgbot.Markdown(chatID, text)
	if len(buttons) > 0 {
		message.ReplyMarkup = intentMarkup(buttons)
	}

	_, err = m.bot.Send(message)
	return err
}

func (m *messenger) SendChannel(chatID int64, text string, thread []string, buttons []notifications.Button) error {
	message := tgbot.Markdown(chatID, text)
	if len(buttons) > 0 {
		message.ReplyMarkup = intentMarkup(buttons)
	}

	sent, err := m.bot.Send(message)
	if err != nil {
		return err
	}

	for _, detail := range thread {
		reply := tgbot.Markdown(chatID, detail)
		reply.ReplyToMessageID = sent.MessageID
		if _, err := m.bot.Send(reply); err != nil {
			return err
		}
	}

	return nil
}

func (m *messenger) EditMessage(chatID int64, messageID int, text string) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown

	_, err := m.bot.Send(edit)
	return err
}

// RefreshPromotion re-renders a promoted post in place, keeping the donation
// actions attached.
func (m *messenger) RefreshPromotion(chatID int64, messageID int, project *models.Project) error {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID,
		tgbot.RenderProject(project), promotionMarkup(project))
	edit.ParseMode = tgbotapi.ModeMarkdown

	_, err := m.bot.Send(edit)
	return err
}

// RefreshMemberView sends the member an up-to-date summary of their pledges.
func (m *messenger) RefreshMemberView(memberID string) error {
	chatID, err := strconv.ParseInt(memberID, 10, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid member id %q", memberID)
	}

	projects, err := m.projectRepository.GetMany()
	if err != nil {
		return err
	}

	text := "*Your pledges*\n"
	pledged := 0
	for _, project := range projects {
		amount := project.PledgeFor(memberID)
		if amount == 0 || project.ReconciledAt != 0 {
			continue
		}

		pledged++
		text += fmt.Sprintf("• %s: %s of %s (%s pledged so far)\n",
			project.Title, tgbot.Money(amount), tgbot.Money(project.Total), tgbot.Money(project.PledgeTotal()))
	}

	if pledged == 0 {
		return nil
	}

	_, err = m.bot.Send(tgbot.Markdown(chatID, text))
	return err
}

func (m *messenger) Promote(chatID int64, project *models.Project) (int, error) {
	message := tgbot.Markdown(chatID, tgbot.RenderProject(project))
	message.ReplyMarkup = promotionMarkup(project)

	sent, err := m.bot.Send(message)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

func intentMarkup(buttons []notifications.Button) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, button := range buttons {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbot.CallbackButton(button.Label, button.Action, button.Value),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func promotionMarkup(project *models.Project) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbot.CallbackButton("10%", "donate10", project.ID),
		tgbot.CallbackButton("20%", "donate20", project.ID),
		tgbot.CallbackButton("Rest", "donate_rest", project.ID),
		tgbot.CallbackButton("Custom", "donate", project.ID),
	))
}
