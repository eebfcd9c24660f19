package commands

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"community_pledge_system/internal/invoicing"
	"community_pledge_system/internal/lifecycle"
	"community_pledge_system/internal/notifications"
	"community_pledge_system/internal/store/repositories"
	tgbot "community_pledge_system/internal/tg_bot/extension"
)

const (
	approveCommandName       = "approve"
	approveAsDGRCommandName  = "approve_as_dgr"
	unapproveCommandName     = "unapprove"
	deleteProjectCommandName = "delete"
	sendInvoicesCommandName  = "send_invoices"
)

// adminActionsCommand routes the admin-only callback actions. The handler
// has already checked admin-group membership before any of these run, the
// check here is the backstop.
type adminActionsCommand struct {
	engine            lifecycle.Engine
	projectRepository repositories.ProjectRepository
	workflow          *invoicing.Workflow
	fanout            *notifications.Fanout
	dispatcher        *notifications.Dispatcher
	logger            *zap.SugaredLogger
}

func NewAdminActionsCommand(
	engine lifecycle.Engine,
	projectRepository repositories.ProjectRepository,
	workflow *invoicing.Workflow,
	fanout *notifications.Fanout,
	dispatcher *notifications.Dispatcher,
	logger *zap.SugaredLogger,
) Command {
	return &adminActionsCommand{
		engine:            engine,
		projectRepository: projectRepository,
		workflow:          workflow,
		fanout:            fanout,
		dispatcher:        dispatcher,
		logger:            logger,
	}
}

func (c *adminActionsCommand) CanHandle(command string) bool {
	switch command {
	case approveCommandName, approveAsDGRCommandName, unapproveCommandName,
		deleteProjectCommandName, sendInvoicesCommandName:
		return true
	}
	return false
}

func (c *adminActionsCommand) Handle(command, arguments string, session *Session, chatID int64) []tgbotapi.Chattable {
	session.Reset()

	if !session.IsAdmin {
		return []tgbotapi.Chattable{tgbot.ErrorMessage(chatID, "This action is only available to admins.")}
	}

	switch command {
	case approveCommandName:
		return c.approve(arguments, false, session, chatID)
	case approveAsDGRCommandName:
		return c.approve(arguments, true, session, chatID)
	case unapproveCommandName:
		return c.unapprove(arguments, chatID)
	case deleteProjectCommandName:
		return c.delete(arguments, chatID)
	case sendInvoicesCommandName:
		return c.sendInvoices(arguments, chatID)
	}

	c.logger.Errorf("received unknown admin action: %s", command)
	return []tgbotapi.Chattable{tgbot.DefaultErrorMessage(chatID)}
}

func (c *adminActionsCommand) approve(projectID string, asDGR bool, session *Session, chatID int64) []tgbotapi.Chattable {
	project, err := c.engine.Approve(projectID, asDGR)
	if err != nil {
		c.logger.Errorw("failed to approve project", "project", projectID, "error", err)
		return []tgbotapi.Chattable{tgbot.DefaultErrorMessage(chatID)}
	}

	c.dispatcher.Dispatch(c.fanout.ProjectApproved(project, session.MemberID, session.Callback))

	return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID,
		fmt.Sprintf("%q has been approved.", project.Title))}
}

func (c *adminActionsCommand) unapprove(projectID string, chatID int64) []tgbotapi.Chattable {
	project, err := c.engine.Unapprove(projectID)
	if err != nil {
		c.logger.Errorw("failed to unapprove project", "project", projectID, "error", err)
		return []tgbotapi.Chattable{tgbot.DefaultErrorMessage(chatID)}
	}

	return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID,
		fmt.Sprintf("%q is no longer approved and has been removed from the public list. Pledges and DGR status are kept.", project.Title))}
}

func (c *adminActionsCommand) delete(projectID string, chatID int64) []tgbotapi.Chattable {
	project, err := c.projectRepository.GetOne(projectID)
	if err != nil {
		c.logger.Errorw("failed to get project", "project", projectID, "error", err)
		return []tgbotapi.Chattable{tgbot.ErrorMessage(chatID, "That project no longer exists.")}
	}

	if err := c.engine.Delete(projectID); err != nil {
		c.logger.Errorw("failed to delete project", "project", projectID, "error", err)
		return []tgbotapi.Chattable{tgbot.DefaultErrorMessage(chatID)}
	}

	return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID,
		fmt.Sprintf("%q has been deleted.", project.Title))}
}

func (c *adminActionsCommand) sendInvoices(projectID string, chatID int64) []tgbotapi.Chattable {
	outcome, err := c.workflow.SendInvoices(projectID)
	if err != nil {
		c.logger.Warnw("invoicing did not complete", "project", projectID, "error", err)
	}

	return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID, outcome)}
}
