package main

import (
	"time"

	"github.com/go-co-op/gocron"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"community_pledge_system/configs"
	"community_pledge_system/internal/di"
	"community_pledge_system/internal/invoicing"
	"community_pledge_system/internal/notifications"
	"community_pledge_system/internal/services"
	"community_pledge_system/internal/store"
	"community_pledge_system/internal/store/repositories"
	tgbot "community_pledge_system/internal/tg_bot"
)

func main() {
	s := gocron.NewScheduler(time.UTC)

	config, err := configs.LoadReconciliationServiceConfig()
	logger := di.NewLogger(config.Logger)

	if err != nil {
		logger.Fatalw("failed to load config", "error", err)
	}
	logger.Info("config loaded")

	logger.Info("opening stores")
	projectStore, err := store.OpenProjectStore(config.Store.ProjectsPath, config.Store.Bootstrap, logger)
	if err != nil {
		logger.Fatalw("failed to open project store", "error", err)
	}
	memberStore, err := store.OpenMemberStore(config.Store.MembersPath, logger)
	if err != nil {
		logger.Fatalw("failed to open member store", "error", err)
	}
	logger.Info("stores opened")

	api, err := tgbotapi.NewBotAPI(config.Bot.Token)
	if err != nil {
		logger.Fatalw("failed to create bot", "error", err)
	}

	s.Cron(config.Cron).Do(func() {
		logger.Info("starting reconciliation sweep")

		projectRepository := repositories.NewProjectRepository(projectStore)
		memberRepository := repositories.NewMemberRepository(memberStore)
		tidyhq := services.NewTidyHQService(config.TidyHQ.BaseURL, config.TidyHQ.Token)
		dispatcher := notifications.NewDispatcher(tgbot.NewMessenger(api, projectRepository, logger), logger)

		workflow := invoicing.NewWorkflow(
			projectRepository, memberRepository, tidyhq, dispatcher, config.App, config.TidyHQ, logger)

		if err := workflow.Reconcile(config.IncludeUnpaid); err != nil {
			logger.Errorw("reconciliation sweep failed", "error", err)
			return
		}

		logger.Info("reconciliation sweep finished")
	})

	s.StartBlocking()
}
