package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"community_pledge_system/configs"
	"community_pledge_system/internal/di"
	"community_pledge_system/internal/invoicing"
	"community_pledge_system/internal/lifecycle"
	"community_pledge_system/internal/notifications"
	"community_pledge_system/internal/services"
	"community_pledge_system/internal/store"
	"community_pledge_system/internal/store/repositories"
	tgbot "community_pledge_system/internal/tg_bot"
	"community_pledge_system/internal/tg_bot/commands"
	"community_pledge_system/internal/tg_bot/handlers"
)

func main() {
	config, err := configs.LoadPledgeBotConfig()
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

	go func() {
		logger.Info("setting up health check server")
		settingUpHealthCheckServer(logger)
	}()

	logger.Info("creating bot")
	api, err := tgbotapi.NewBotAPI(config.Bot.Token)
	if err != nil {
		logger.Fatalw("failed to create bot", "error", err)
	}

	projectRepository := repositories.NewProjectRepository(projectStore)
	memberRepository := repositories.NewMemberRepository(memberStore)

	messenger := tgbot.NewMessenger(api, projectRepository, logger)
	dispatcher := notifications.NewDispatcher(messenger, logger)
	fanout := notifications.NewFanout(config.App.AdminChannelID, config.App.TaxInfoURL)

	engine := lifecycle.NewEngine(projectRepository, logger)
	tidyhq := services.NewTidyHQService(config.TidyHQ.BaseURL, config.TidyHQ.Token)
	workflow := invoicing.NewWorkflow(
		projectRepository, memberRepository, tidyhq, dispatcher, config.App, config.TidyHQ, logger)

	authorizer := tgbot.NewAdminAuthorizer(api, config.App.AdminGroupID, logger)

	logger.Info("starting bot")
	tgbot.NewBot(
		api,
		handlers.NewPledgeBotCommandHandler(authorizer, logger,
			[]commands.Command{
				commands.NewStartCommand(config.App, logger),
				commands.NewProjectsCommand(config.App, projectRepository, logger),
				commands.NewCreateProjectCommand(engine, fanout, dispatcher, logger),
				commands.NewUpdateProjectCommand(engine, projectRepository, fanout, dispatcher, logger),
				commands.NewDonateCommand(engine, projectRepository, fanout, dispatcher, logger),
				commands.NewPromoteCommand(config.App, projectRepository, messenger, logger),
				commands.NewProjectDetailsCommand(projectRepository, logger),
				commands.NewRequestApprovalCommand(projectRepository, fanout, dispatcher, logger),
				commands.NewAdminActionsCommand(engine, projectRepository, workflow, fanout, dispatcher, logger),
			},
		),
	).Start(config, logger)
}

func settingUpHealthCheckServer(logger *zap.SugaredLogger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/pledge-bot/healthcheck", healthCheckHandler)

	server := &http.Server{Addr: ":8080", Handler: mux}

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Errorw("failed to start http server", "error", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Errorw("failed to shutdown http server", "error", err)
		return
	}

	logger.Info("shutting down")
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("I'm alive"))
}
