package cfg

type Cfg struct {
	// Content configuration
	ContentDir string
	SiteConfig string

	// Storage configuration
	DBPath string

	// Application configuration
	Port              string
	BaseUrl           string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
