package commands

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"community_pledge_system/configs"
	"community_pledge_system/internal/store/models"
	"community_pledge_system/internal/store/repositories"
	tgbot "community_pledge_system/internal/tg_bot/extension"
)

const promoteCommandName = "promote"

// Promoter posts a promotional message and reports where it landed, so the
// promotion can be refreshed when pledges change.
type Promoter interface {
	Promote(chatID int64, project *models.Project) (messageID int, err error)
}

type promoteCommand struct {
	appConfig         configs.App
	projectRepository repositories.ProjectRepository
	promoter          Promoter
	logger            *zap.SugaredLogger
}

func NewPromoteCommand(
	appConfig configs.App,
	projectRepository repositories.ProjectRepository,
	promoter Promoter,
	logger *zap.SugaredLogger,
) Command {
	return &promoteCommand{
		appConfig:         appConfig,
		projectRepository: projectRepository,
		promoter:          promoter,
		logger:            logger,
	}
}

func (c *promoteCommand) CanHandle(command string) bool {
	return command == promoteCommandName
}

func (c *promoteCommand) Handle(command, arguments string, session *Session, chatID int64) []tgbotapi.Chattable {
	session.Reset()

	project, err := c.projectRepository.GetOne(arguments)
	if err != nil {
		c.logger.Errorw("failed to get project", "project", arguments, "error", err)
		return []tgbotapi.Chattable{tgbot.ErrorMessage(chatID, "That project no longer exists.")}
	}

	if !project.Approved {
		return []tgbotapi.Chattable{tgbot.ErrorMessage(chatID, "Projects need to be approved before they can be promoted.")}
	}
	if !session.IsAdmin && project.CreatedBy != session.MemberID {
		return []tgbotapi.Chattable{tgbot.ErrorMessage(chatID, "Only the project creator can promote this project.")}
	}

	messageID, err := c.promoter.Promote(c.appConfig.CommunityChannelID, project)
	if err != nil {
		c.logger.Errorw("failed to promote project", "project", project.ID, "error", err)
		return []tgbotapi.Chattable{tgbot.DefaultErrorMessage(chatID)}
	}

	_, err = c.projectRepository.Mutate(project.ID, func(p *models.Project) error {
		p.Promotions = append(p.Promotions, models.Promotion{
			ChatID:    c.appConfig.CommunityChannelID,
			MessageID: messageID,
		})
		return nil
	})
	if err != nil {
		c.logger.Errorw("failed to record promotion", "project", project.ID, "error", err)
	}

	return []tgbotapi.Chattable{tgbotapi.NewMessage(chatID,
		fmt.Sprintf("%q has been promoted. The post will keep itself up to date as pledges come in.", project.Title))}
}
