package configs

type Store struct {
	ProjectsPath string `env:"PROJECTS_PATH" envDefault:"projects.json"`
	MembersPath  string `env:"MEMBERS_PATH" envDefault:"tidymembers.json"`
	Bootstrap    bool   `env:"STORE_BOOTSTRAP" envDefault:"false"`
}
