package configs

type Logger struct {
	AppName string `env:"LOGGER_APP_NAME" envDefault:"pledge_bot"`
	URL     string `env:"LOGGER_LOKI_URL"`
}
