package configs

type App struct {
	Environment         string `env:"ENVIRONMENT,notEmpty"`
	CommunityName       string `env:"COMMUNITY_NAME" envDefault:"the community"`
	AdminChannelID      int64  `env:"ADMIN_CHANNEL_ID,notEmpty"`
	AdminGroupID        int64  `env:"ADMIN_GROUP_ID,notEmpty"`
	CommunityChannelID  int64  `env:"COMMUNITY_CHANNEL_ID"`
	AgeOutThresholdDays int    `env:"AGE_OUT_THRESHOLD" envDefault:"30"`
	TaxInfoURL          string `env:"TAX_INFO_URL"`
}

func (c App) IsDevEnvironment() bool {
	return c.Environment == "dev"
}
