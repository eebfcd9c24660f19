package configs

type TidyHQ struct {
	Token             string `env:"TIDYHQ_TOKEN,notEmpty"`
	BaseURL           string `env:"TIDYHQ_BASE_URL" envDefault:"https://api.tidyhq.com/v1"`
	DGRCategoryID     int    `env:"TIDYHQ_DGR_CATEGORY,notEmpty"`
	ProjectCategoryID int    `env:"TIDYHQ_PROJECT_CATEGORY,notEmpty"`
	TelegramIDFieldID string `env:"TIDYHQ_TELEGRAM_ID_FIELD,notEmpty"`
}
