package commands

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"community_pledge_system/internal/lifecycle"
	"community_pledge_system/internal/notifications"
	tgbot "community_pledge_system/internal/tg_bot/extension"
)

const (
	createProjectCommandName = "create"

	waitingForTitleState       = "waiting_for_title"
	waitingForTotalState       = "waiting_for_total"
	waitingForDescriptionState = "waiting_for_description"
	waitingForImageState       = "waiting_for_image"
	waitingForConfirmState     = "waiting_for_confirm"

	skipImageAnswer = "Skip"
	confirmYes      = "Yes"
	confirmNo       = "No, start again"
)

type createProjectCommand struct {
	engine     lifecycle.Engine
	fanout     *notifications.Fanout
	dispatcher *notifications.Dispatcher
	logger     *zap.SugaredLogger
}

func NewCreateProjectCommand(
	engine lifecycle.Engine,
	fanout *notifications.Fanout,
	dispatcher *notifications.Dispatcher,
	logger *zap.SugaredLogger,
) Command {
	return &createProjectCommand{
		engine:     engine,
		fanout:     fanout,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (c *createProjectCommand) CanHandle(command string) bool {
	return command == createProjectCommandName
}

func (c *createProjectCommand) Handle(command, arguments string, session *Session, chatID int64) []tgbotapi.Chattable {
	if command == createProjectCommandName && session.LastCommandState == "" {
		return c.begin(session, chatID)
	}

	switch session.LastCommandState {
	case waitingForTitleState:
		return c.handleTitle(arguments, session, chatID)
	case waitingForTotalState:
		return c.handleTotal(arguments, session, chatID)
	case waitingForDescriptionState:
		return c.handleDescription(arguments, session, chatID)
	case waitingForImageState:
		return c.handleImage(arguments, session, chatID)
	case waitingForConfirmState:
		return c.handleConfirm(arguments, session, chatID)
	default:
		c.logger.Errorf("session has unknown state: %s", session.LastCommandState)
		return []tgbotapi.Chattable{tgbot.DefaultErrorMessage(chatID)}
	}
}

func (c *createProjectCommand) begin(session *Session, chatID int64) []tgbotapi.Chattable {
	session.Draft = &Draft{}
	session.LastCommandState = waitingForTitleState

	return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID,
		"Let's set up a new project. What should it be called?")}
}

func (c *createProjectCommand) handleTitle(title string, session *Session, chatID int64) []tgbotapi.Chattable {
	fields := lifecycle.ProjectFields{Title: &title}
	if err := fields.Validate(false); err != nil {
		return []tgbotapi.Chattable{tgbot.ErrorMessage(chatID, err.Error())}
	}

	session.Draft.Title = title
	session.LastCommandState = waitingForTotalState

	return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID,
		"How much will it cost in total? Whole dollars only.")}
}

func (c *createProjectCommand) handleTotal(amount string, session *Session, chatID int64) []tgbotapi.Chattable {
	total, err := lifecycle.ValidateAmount(amount)
	if err != nil {
		return []tgbotapi.Chattable{tgbot.ErrorMessage(chatID, err.Error())}
	}

	session.Draft.Total = total
	session.LastCommandState = waitingForDescriptionState

	return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID,
		"Describe the project. What is it, why does the space need it, and what happens once it's funded? The more detail the better.")}
}

func (c *createProjectCommand) handleDescription(description string, session *Session, chatID int64) []tgbotapi.Chattable {
	fields := lifecycle.ProjectFields{Description: &description}
	if err := fields.Validate(false); err != nil {
		return []tgbotapi.Chattable{tgbot.ErrorMessage(chatID, err.Error())}
	}

	session.Draft.Description = description
	session.LastCommandState = waitingForImageState

	message := tgbotapi.NewMessage(chatID, "Got a link to an image of the project? Paste it here, or skip this step.")
	message.ReplyMarkup = tgbotapi.NewOneTimeReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(skipImageAnswer)),
	)
	return []tgbotapi.Chattable{message}
}

func (c *createProjectCommand) handleImage(imageURL string, session *Session, chatID int64) []tgbotapi.Chattable {
	if !strings.EqualFold(imageURL, skipImageAnswer) {
		session.Draft.ImageURL = imageURL
	}
	session.LastCommandState = waitingForConfirmState

	messageText := "Here's what we have:\n\n"
	messageText += fmt.Sprintf("Title: %s\n", session.Draft.Title)
	messageText += fmt.Sprintf("Total: %s\n", tgbot.Money(session.Draft.Total))
	messageText += fmt.Sprintf("Description: %s\n", session.Draft.Description)
	if session.Draft.ImageURL != "" {
		messageText += fmt.Sprintf("Image: %s\n", session.Draft.ImageURL)
	}
	messageText += "\nAll correct? It will still need admin approval before it shows up on the public list."

	message := tgbotapi.NewMessage(chatID, messageText)
	message.ReplyMarkup = tgbotapi.NewOneTimeReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(confirmYes),
			tgbotapi.NewKeyboardButton(confirmNo),
		),
	)
	return []tgbotapi.Chattable{message}
}

func (c *createProjectCommand) handleConfirm(answer string, session *Session, chatID int64) []tgbotapi.Chattable {
	if answer != confirmYes {
		return c.begin(session, chatID)
	}

	projectID, err := c.engine.NewProjectID()
	if err != nil {
		c.logger.Errorw("failed to generate project id", "error", err)
		return []tgbotapi.Chattable{tgbot.DefaultErrorMessage(chatID)}
	}

	draft := session.Draft
	fields := lifecycle.ProjectFields{
		Title:       &draft.Title,
		Description: &draft.Description,
		Total:       &draft.Total,
	}
	if draft.ImageURL != "" {
		fields.ImageURL = &draft.ImageURL
	}

	project, err := c.engine.Create(projectID, fields, session.MemberID)
	if err != nil {
		c.logger.Errorw("failed to create project", "error", err)
		return []tgbotapi.Chattable{tgbot.ErrorMessage(chatID, err.Error())}
	}

	session.Reset()
	c.dispatcher.Dispatch(c.fanout.ProjectCreated(project))

	return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID,
		fmt.Sprintf("%q has been created and sent to the admins for approval. I'll let you know once it has been reviewed.", project.Title))}
}
