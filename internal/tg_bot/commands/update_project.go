package commands

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"community_pledge_system/internal/lifecycle"
	"community_pledge_system/internal/notifications"
	"community_pledge_system/internal/store/repositories"
	tgbot "community_pledge_system/internal/tg_bot/extension"
)

const (
	updateProjectCommandName = "update"

	waitingForFieldState = "waiting_for_field"
	waitingForValueState = "waiting_for_value"

	fieldTitle       = "Title"
	fieldTotal       = "Total"
	fieldDescription = "Description"
	fieldImage       = "Image"
)

type updateProjectCommand struct {
	engine            lifecycle.Engine
	projectRepository repositories.ProjectRepository
	fanout            *notifications.Fanout
	dispatcher        *notifications.Dispatcher
	logger            *zap.SugaredLogger
}

func NewUpdateProjectCommand(
	engine lifecycle.Engine,
	projectRepository repositories.ProjectRepository,
	fanout *notifications.Fanout,
	dispatcher *notifications.Dispatcher,
	logger *zap.SugaredLogger,
) Command {
	return &updateProjectCommand{
		engine:            engine,
		projectRepository: projectRepository,
		fanout:            fanout,
		dispatcher:        dispatcher,
		logger:            logger,
	}
}

func (c *updateProjectCommand) CanHandle(command string) bool {
	return command == updateProjectCommandName
}

func (c *updateProjectCommand) Handle(command, arguments string, session *Session, chatID int64) []tgbotapi.Chattable {
	if command == updateProjectCommandName && session.LastCommandState == "" {
		if arguments != "" {
			return c.beginEdit(arguments, session, chatID)
		}
		return c.listEditable(session, chatID)
	}

	switch session.LastCommandState {
	case waitingForFieldState:
		return c.handleField(arguments, session, chatID)
	case waitingForValueState:
		return c.handleValue(arguments, session, chatID)
	default:
		c.logger.Errorf("session has unknown state: %s", session.LastCommandState)
		return []tgbotapi.Chattable{tgbot.DefaultErrorMessage(chatID)}
	}
}

// listEditable offers the projects the member may edit: their own unapproved
// projects, or every unapproved project for admins.
func (c *updateProjectCommand) listEditable(session *Session, chatID int64) []tgbotapi.Chattable {
	projects, err := c.projectRepository.GetMany()
	if err != nil {
		c.logger.Errorw("failed to get projects", "error", err)
		return []tgbotapi.Chattable{tgbot.DefaultErrorMessage(chatID)}
	}

	var buttons []tgbotapi.InlineKeyboardButton
	for _, project := range projects {
		if project.Approved {
			continue
		}
		if !session.IsAdmin && project.CreatedBy != session.MemberID {
			continue
		}
		buttons = append(buttons, tgbot.CallbackButton(project.Title, updateProjectCommandName, project.ID))
	}

	if len(buttons) == 0 {
		return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID,
			"You have no projects that can be updated. Projects can only be changed before they are approved.")}
	}

	message := tgbotapi.NewMessage(chatID, "Which project would you like to update?")
	message.ReplyMarkup = tgbot.InlineButtons(buttons...)
	return []tgbotapi.Chattable{message}
}

func (c *updateProjectCommand) beginEdit(projectID string, session *Session, chatID int64) []tgbotapi.Chattable {
	project, err := c.projectRepository.GetOne(projectID)
	if err != nil {
		c.logger.Errorw("failed to get project", "project", projectID, "error", err)
		return []tgbotapi.Chattable{tgbot.ErrorMessage(chatID, "That project no longer exists.")}
	}

	if !session.IsAdmin && project.CreatedBy != session.MemberID {
		return []tgbotapi.Chattable{tgbot.ErrorMessage(chatID, "Only the project creator can update this project.")}
	}

	session.Draft = &Draft{ProjectID: projectID}
	session.LastCommand = updateProjectCommandName
	session.LastCommandState = waitingForFieldState

	message := tgbotapi.NewMessage(chatID, fmt.Sprintf("What would you like to change about %q?", project.Title))
	message.ReplyMarkup = tgbotapi.NewOneTimeReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(fieldTitle),
			tgbotapi.NewKeyboardButton(fieldTotal),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(fieldDescription),
			tgbotapi.NewKeyboardButton(fieldImage),
		),
	)
	return []tgbotapi.Chattable{message}
}

func (c *updateProjectCommand) handleField(field string, session *Session, chatID int64) []tgbotapi.Chattable {
	var prompt string
	switch field {
	case fieldTitle:
		prompt = "What should the new title be?"
	case fieldTotal:
		prompt = "What should the new total cost be? Whole dollars only."
	case fieldDescription:
		prompt = "What should the new description be?"
	case fieldImage:
		prompt = "Paste a link to the new project image."
	default:
		return []tgbotapi.Chattable{tgbot.ErrorMessage(chatID, fmt.Sprintf("Unknown field: %s.", field))}
	}

	session.Draft.Field = field
	session.LastCommandState = waitingForValueState

	return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, prompt)}
}

func (c *updateProjectCommand) handleValue(value string, session *Session, chatID int64) []tgbotapi.Chattable {
	fields := lifecycle.ProjectFields{}

	switch session.Draft.Field {
	case fieldTitle:
		fields.Title = &value
	case fieldTotal:
		total, err := lifecycle.ValidateAmount(value)
		if err != nil {
			return []tgbotapi.Chattable{tgbot.ErrorMessage(chatID, err.Error())}
		}
		fields.Total = &total
	case fieldDescription:
		fields.Description = &value
	case fieldImage:
		fields.ImageURL = &value
	}

	result, err := c.engine.Update(session.Draft.ProjectID, fields, session.MemberID)
	if err != nil {
		if errors.Is(err, lifecycle.ErrEditLocked) {
			session.Reset()
			return []tgbotapi.Chattable{tgbot.ErrorMessage(chatID,
				"This project has been approved in the meantime and can no longer be edited.")}
		}
		return []tgbotapi.Chattable{tgbot.ErrorMessage(chatID, err.Error())}
	}

	session.Reset()
	c.dispatcher.Dispatch(c.fanout.ProjectUpdated(result.Old, result.New, session.MemberID))

	return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID,
		fmt.Sprintf("%q has been updated.", result.New.Title))}
}
