package config

const (
	envDB          = "VBSTATS_DB"
	envDataDir     = "VBSTATS_DATA_DIR"
	envOutDir      = "VBSTATS_OUT_DIR"
	envTeam        = "VBSTATS_TEAM"
	envWorkers     = "VBSTATS_WORKERS"
	envFormat      = "VBSTATS_FORMAT"
	envLogLevel    = "VBSTATS_LOG_LEVEL"
	envMetricsFile = "VBSTATS_METRICS_FILE"
	envAnthropic   = "ANTHROPIC_API_KEY"

	defaultDataDir  = "data"
	defaultOutDir   = "results"
	defaultTeam     = "TSC"
	defaultWorkers  = 4
	defaultFormat   = "pdf"
	defaultLogLevel = "info"
)
