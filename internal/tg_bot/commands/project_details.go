package commands

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"community_pledge_system/internal/store/repositories"
	tgbot "community_pledge_system/internal/tg_bot/extension"
)

const projectDetailsCommandName = "details"

type projectDetailsCommand struct {
	projectRepository repositories.ProjectRepository
	logger            *zap.SugaredLogger
}

func NewProjectDetailsCommand(projectRepository repositories.ProjectRepository, logger *zap.SugaredLogger) Command {
	return &projectDetailsCommand{
		projectRepository: projectRepository,
		logger:            logger,
	}
}

func (c *projectDetailsCommand) CanHandle(command string) bool {
	return command == projectDetailsCommandName
}

// Handle shows the admin detail view with the full pledge breakdown and the
// admin actions. Donor information is confidential, so non-admins are turned
// away.
func (c *projectDetailsCommand) Handle(command, arguments string, session *Session, chatID int64) []tgbotapi.Chattable {
	session.Reset()

	if !session.IsAdmin {
		return []tgbotapi.Chattable{tgbot.ErrorMessage(chatID, "Project details are only available to admins.")}
	}

	project, err := c.projectRepository.GetOne(arguments)
	if err != nil {
		c.logger.Errorw("failed to get project", "project", arguments, "error", err)
		return []tgbotapi.Chattable{tgbot.ErrorMessage(chatID, "That project no longer exists.")}
	}

	message := tgbot.Markdown(chatID, tgbot.RenderProjectDetails(project))

	var buttons []tgbotapi.InlineKeyboardButton
	if project.Approved {
		buttons = append(buttons, tgbot.CallbackButton("Unapprove", unapproveCommandName, project.ID))
	} else {
		buttons = append(buttons,
			tgbot.CallbackButton("Approve project", approveCommandName, project.ID),
			tgbot.CallbackButton("Approve + DGR", approveAsDGRCommandName, project.ID),
		)
	}
	if project.Funded() && project.InvoicesSentAt == 0 {
		buttons = append(buttons, tgbot.CallbackButton("Send invoices", sendInvoicesCommandName, project.ID))
	}
	buttons = append(buttons, tgbot.CallbackButton("Delete", deleteProjectCommandName, project.ID))

	message.ReplyMarkup = tgbot.InlineButtons(buttons...)
	return []tgbotapi.Chattable{message}
}
