package commands

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"community_pledge_system/internal/notifications"
	"community_pledge_system/internal/store/repositories"
	tgbot "community_pledge_system/internal/tg_bot/extension"
)

const requestApprovalCommandName = "request_approval"

type requestApprovalCommand struct {
	projectRepository repositories.ProjectRepository
	fanout            *notifications.Fanout
	dispatcher        *notifications.Dispatcher
	logger            *zap.SugaredLogger
}

func NewRequestApprovalCommand(
	projectRepository repositories.ProjectRepository,
	fanout *notifications.Fanout,
	dispatcher *notifications.Dispatcher,
	logger *zap.SugaredLogger,
) Command {
	return &requestApprovalCommand{
		projectRepository: projectRepository,
		fanout:            fanout,
		dispatcher:        dispatcher,
		logger:            logger,
	}
}

func (c *requestApprovalCommand) CanHandle(command string) bool {
	return command == requestApprovalCommandName
}

func (c *requestApprovalCommand) Handle(command, arguments string, session *Session, chatID int64) []tgbotapi.Chattable {
	session.Reset()

	project, err := c.projectRepository.GetOne(arguments)
	if err != nil {
		c.logger.Errorw("failed to get project", "project", arguments, "error", err)
		return []tgbotapi.Chattable{tgbot.ErrorMessage(chatID, "That project no longer exists.")}
	}

	if project.Approved {
		return []tgbotapi.Chattable{tgbot.ErrorMessage(chatID, "This project has already been approved.")}
	}

	c.dispatcher.Dispatch(c.fanout.ApprovalRequested(project, session.MemberID))
	return []tgbotapi.Chattable{}
}
