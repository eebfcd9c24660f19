package commands

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"community_pledge_system/internal/lifecycle"
	"community_pledge_system/internal/notifications"
	"community_pledge_system/internal/store/repositories"
	tgbot "community_pledge_system/internal/tg_bot/extension"
)

const (
	donateCommandName     = "donate"
	donate10CommandName   = "donate10"
	donate20CommandName   = "donate20"
	donateRestCommandName = "donate_rest"

	waitingForAmountState = "waiting_for_amount"
)

type donateCommand struct {
	engine            lifecycle.Engine
	projectRepository repositories.ProjectRepository
	fanout            *notifications.Fanout
	dispatcher        *notifications.Dispatcher
	logger            *zap.SugaredLogger
}

func NewDonateCommand(
	engine lifecycle.Engine,
	projectRepository repositories.ProjectRepository,
	fanout *notifications.Fanout,
	dispatcher *notifications.Dispatcher,
	logger *zap.SugaredLogger,
) Command {
	return &donateCommand{
		engine:            engine,
		projectRepository: projectRepository,
		fanout:            fanout,
		dispatcher:        dispatcher,
		logger:            logger,
	}
}

func (c *donateCommand) CanHandle(command string) bool {
	switch command {
	case donateCommandName, donate10CommandName, donate20CommandName, donateRestCommandName:
		return true
	}
	return false
}

func (c *donateCommand) Handle(command, arguments string, session *Session, chatID int64) []tgbotapi.Chattable {
	if session.LastCommandState == waitingForAmountState {
		return c.handleAmount(arguments, session, chatID)
	}

	switch command {
	case donate10CommandName:
		return c.pledge(arguments, "10", true, session, chatID)
	case donate20CommandName:
		return c.pledge(arguments, "20", true, session, chatID)
	case donateRestCommandName:
		return c.pledge(arguments, lifecycle.RemainingKeyword, false, session, chatID)
	case donateCommandName:
		if arguments == "" {
			return c.listProjects(chatID)
		}
		return c.askForAmount(arguments, session, chatID)
	}

	c.logger.Errorf("received unknown donate command: %s", command)
	return []tgbotapi.Chattable{tgbot.DefaultErrorMessage(chatID)}
}

// listProjects shows the approved projects still seeking donations with the
// standard donation actions.
func (c *donateCommand) listProjects(chatID int64) []tgbotapi.Chattable {
	projects, err := c.projectRepository.GetMany()
	if err != nil {
		c.logger.Errorw("failed to get projects", "error", err)
		return []tgbotapi.Chattable{tgbot.DefaultErrorMessage(chatID)}
	}

	var messages []tgbotapi.Chattable
	for _, project := range projects {
		if !project.Approved || project.Funded() {
			continue
		}

		message := tgbot.Markdown(chatID, tgbot.RenderProject(project))
		message.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
			tgbot.CallbackButton("10%", donate10CommandName, project.ID),
			tgbot.CallbackButton("20%", donate20CommandName, project.ID),
			tgbot.CallbackButton("Rest", donateRestCommandName, project.ID),
			tgbot.CallbackButton("Custom", donateCommandName, project.ID),
		))
		messages = append(messages, message)
	}

	if len(messages) == 0 {
		messages = append(messages, tgbotapi.NewMessage(chatID,
			"No projects are seeking donations right now. Maybe create one?"))
	}
	return messages
}

func (c *donateCommand) askForAmount(projectID string, session *Session, chatID int64) []tgbotapi.Chattable {
	session.Draft = &Draft{ProjectID: projectID}
	session.LastCommand = donateCommandName
	session.LastCommandState = waitingForAmountState

	return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID,
		"How much would you like to pledge? Whole dollars only. This replaces any amount you've pledged to this project before.")}
}

func (c *donateCommand) handleAmount(amount string, session *Session, chatID int64) []tgbotapi.Chattable {
	projectID := session.Draft.ProjectID
	session.Reset()
	return c.pledge(projectID, amount, false, session, chatID)
}

func (c *donateCommand) pledge(projectID, amount string, percentage bool, session *Session, chatID int64) []tgbotapi.Chattable {
	result, err := c.engine.Pledge(projectID, amount, session.MemberID, percentage)
	if err != nil {
		var invalidAmount *lifecycle.InvalidAmountError
		switch {
		case errors.As(err, &invalidAmount):
			return []tgbotapi.Chattable{tgbot.ErrorMessage(chatID, invalidAmount.Error())}
		case errors.Is(err, lifecycle.ErrNotApproved):
			return []tgbotapi.Chattable{tgbot.ErrorMessage(chatID, "This project isn't open for donations yet.")}
		case errors.Is(err, repositories.ErrProjectNotFound):
			return []tgbotapi.Chattable{tgbot.ErrorMessage(chatID, "That project no longer exists.")}
		}

		c.logger.Errorw("failed to record pledge", "project", projectID, "error", err)
		return []tgbotapi.Chattable{tgbot.DefaultErrorMessage(chatID)}
	}

	// The donor's confirmation is part of the fan-out, so nothing extra is
	// sent from here.
	c.dispatcher.Dispatch(c.fanout.PledgeRecorded(result.Project, session.MemberID, result.Amount, result.NewlyFunded))
	return []tgbotapi.Chattable{}
}
