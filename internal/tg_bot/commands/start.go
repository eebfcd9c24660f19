package commands

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"community_pledge_system/configs"
)

const startCommandName = "start"

type startCommand struct {
	appConfig configs.App
	logger    *zap.SugaredLogger
}

func NewStartCommand(appConfig configs.App, logger *zap.SugaredLogger) Command {
	return &startCommand{
		appConfig: appConfig,
		logger:    logger,
	}
}

func (c *startCommand) CanHandle(command string) bool {
	return command == startCommandName
}

func (c *startCommand) Handle(command, arguments string, session *Session, chatID int64) []tgbotapi.Chattable {
	session.Reset()

	messageText := fmt.Sprintf(`
Hi! I'm the crowdfunding bot for %s, and here's what I can do:

/projects - see the projects currently seeking donations and pledge towards them.
/create - propose a new project with a funding goal.
/update - change the details of a project you created that hasn't been approved yet.
/donate - pledge towards a project directly.

Everyone has different ideas about what the space needs. If yours isn't listed yet, create it!
`, c.appConfig.CommunityName)

	message := tgbotapi.NewMessage(chatID, messageText)
	return []tgbotapi.Chattable{message}
}
