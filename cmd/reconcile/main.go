package main

import (
	"fmt"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

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
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var includeUnpaid bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Match TidyHQ invoices against funded projects",
		Long: `Reconcile walks every project that has met its funding goal but has not
been reconciled yet, matches TidyHQ invoices back to it and marks the
project as reconciled once the paid total covers the funding target.
A summary is posted to the admin channel for every reconciled project.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(includeUnpaid)
		},
	}

	cmd.Flags().BoolVar(&includeUnpaid, "include-unpaid", false,
		"also report projects with outstanding unpaid invoices")

	return cmd
}

func run(includeUnpaid bool) error {
	config, err := configs.LoadReconciliationServiceConfig()
	logger := di.NewLogger(config.Logger)

	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	projectStore, err := store.OpenProjectStore(config.Store.ProjectsPath, config.Store.Bootstrap, logger)
	if err != nil {
		return err
	}
	memberStore, err := store.OpenMemberStore(config.Store.MembersPath, logger)
	if err != nil {
		return err
	}

	api, err := tgbotapi.NewBotAPI(config.Bot.Token)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	projectRepository := repositories.NewProjectRepository(projectStore)
	memberRepository := repositories.NewMemberRepository(memberStore)
	tidyhq := services.NewTidyHQService(config.TidyHQ.BaseURL, config.TidyHQ.Token)
	dispatcher := notifications.NewDispatcher(tgbot.NewMessenger(api, projectRepository, logger), logger)

	workflow := invoicing.NewWorkflow(
		projectRepository, memberRepository, tidyhq, dispatcher, config.App, config.TidyHQ, logger)

	return workflow.Reconcile(includeUnpaid)
}
