package cfg

type Cfg struct {
	// HTTP server
	Port string

	// Storage
	DBPath string

	// Ingestion
	FeedsDir          string
	ArticleLimit      int
	PacingDelay       int // seconds between entries
	FetchTimeout      int // seconds per content fetch
	SchedulerInterval int // seconds between passes

	// Classification service
	OllamaURL  string
	LLMModel   string
	LLMTimeout int // seconds per classification call

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
