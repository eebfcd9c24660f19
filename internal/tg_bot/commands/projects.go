package commands

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"community_pledge_system/configs"
	"community_pledge_system/internal/store/models"
	"community_pledge_system/internal/store/repositories"
	tgbot "community_pledge_system/internal/tg_bot/extension"
)

const projectsCommandName = "projects"

type projectsCommand struct {
	appConfig         configs.App
	projectRepository repositories.ProjectRepository
	logger            *zap.SugaredLogger
}

func NewProjectsCommand(appConfig configs.App, projectRepository repositories.ProjectRepository, logger *zap.SugaredLogger) Command {
	return &projectsCommand{
		appConfig:         appConfig,
		projectRepository: projectRepository,
		logger:            logger,
	}
}

func (c *projectsCommand) CanHandle(command string) bool {
	return command == projectsCommandName
}

func (c *projectsCommand) Handle(command, arguments string, session *Session, chatID int64) []tgbotapi.Chattable {
	session.Reset()

	projects, err := c.projectRepository.GetMany()
	if err != nil {
		c.logger.Errorw("failed to get projects", "error", err)
		return []tgbotapi.Chattable{tgbot.DefaultErrorMessage(chatID)}
	}

	var (
		seeking        []*models.Project
		recentlyFunded []*models.Project
		pending        []*models.Project
	)

	for _, project := range projects {
		switch {
		case !project.Approved:
			pending = append(pending, project)
		case project.Funded():
			if !project.Old(c.appConfig.AgeOutThresholdDays) {
				recentlyFunded = append(recentlyFunded, project)
			}
		default:
			seeking = append(seeking, project)
		}
	}

	messages := []tgbotapi.Chattable{tgbot.Markdown(chatID, "*Projects seeking donations*")}

	if len(seeking) == 0 {
		messages = append(messages, tgbotapi.NewMessage(chatID, "No projects are seeking donations right now. Maybe create one?"))
	}
	for _, project := range seeking {
		messages = append(messages, c.projectCard(project, session, chatID))
	}

	if len(recentlyFunded) > 0 {
		messages = append(messages, tgbot.Markdown(chatID, "*Recently funded*"))
		for _, project := range recentlyFunded {
			messages = append(messages, tgbot.Markdown(chatID, tgbot.RenderProject(project)))
		}
	}

	messages = append(messages, c.pendingSection(pending, session, chatID)...)
	return messages
}

// projectCard renders one approved project with its donation actions, plus
// the admin detail action for admins.
func (c *projectsCommand) projectCard(project *models.Project, session *Session, chatID int64) tgbotapi.Chattable {
	message := tgbot.Markdown(chatID, tgbot.RenderProject(project))

	donateRow := tgbotapi.NewInlineKeyboardRow(
		tgbot.CallbackButton("10%", donate10CommandName, project.ID),
		tgbot.CallbackButton("20%", donate20CommandName, project.ID),
		tgbot.CallbackButton("Rest", donateRestCommandName, project.ID),
		tgbot.CallbackButton("Custom", donateCommandName, project.ID),
	)

	rows := [][]tgbotapi.InlineKeyboardButton{donateRow}
	if session.IsAdmin {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbot.CallbackButton("Details", projectDetailsCommandName, project.ID),
		))
	}

	message.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	return message
}

// pendingSection lists unapproved projects: all of them for admins with the
// approval actions, the member's own with a request-approval action
// otherwise.
func (c *projectsCommand) pendingSection(pending []*models.Project, session *Session, chatID int64) []tgbotapi.Chattable {
	var messages []tgbotapi.Chattable

	if session.IsAdmin {
		if len(pending) == 0 {
			return nil
		}

		messages = append(messages, tgbot.Markdown(chatID, "*Awaiting approval*"))
		for _, project := range pending {
			message := tgbot.Markdown(chatID, tgbot.RenderProject(project))
			message.ReplyMarkup = tgbot.InlineButtons(
				tgbot.CallbackButton("Approve project", approveCommandName, project.ID),
				tgbot.CallbackButton("Approve + DGR", approveAsDGRCommandName, project.ID),
			)
			messages = append(messages, message)
		}
		return messages
	}

	var own []*models.Project
	for _, project := range pending {
		if project.CreatedBy == session.MemberID {
			own = append(own, project)
		}
	}
	if len(own) == 0 {
		return nil
	}

	messages = append(messages, tgbot.Markdown(chatID, "*Your projects awaiting approval*"))
	for _, project := range own {
		message := tgbot.Markdown(chatID, tgbot.RenderProject(project))
		message.ReplyMarkup = tgbot.InlineButtons(
			tgbot.CallbackButton("Request approval", requestApprovalCommandName, project.ID),
			tgbot.CallbackButton("Update", updateProjectCommandName, project.ID),
		)
		messages = append(messages, message)
	}
	return messages
}
