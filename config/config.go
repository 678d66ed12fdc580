package config

import (
	"circounter/counter"
	"circounter/version"
	"flag"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds circounter runtime configuration.
type Config struct {
	LogLevel             string `yaml:"log_level"`
	LogFilePath          string `yaml:"log_file"`
	Port                 int    `yaml:"port"`
	DatabaseURL          string `yaml:"database_url"`
	SQLitePragmasEnabled bool   `yaml:"sqlite_pragmas_enabled"`
	SQLiteBusyTimeoutMS  int    `yaml:"sqlite_busy_timeout_ms"`
	SQLiteJournalMode    string `yaml:"sqlite_journal_mode"`
	SQLiteSynchronous    string `yaml:"sqlite_synchronous"`
	SQLiteForeignKeys    bool   `yaml:"sqlite_foreign_keys"`
	SQLiteMaxOpenConns   int    `yaml:"sqlite_max_open_conns"`
	SQLiteMaxIdleConns   int    `yaml:"sqlite_max_idle_conns"`
	SQLiteConnMaxIdleSec int    `yaml:"sqlite_conn_max_idle_seconds"`
	SQLiteConnMaxLifeSec int    `yaml:"sqlite_conn_max_lifetime_seconds"`
	CLIMode              bool   `yaml:"cli_mode"`
	CLIServer            string `yaml:"cli_server"` // Server URL for CLI mode

	// Range applied when a bare integer is stored as a counter
	CounterDefaultStart    int64 `yaml:"counter_default_start"`
	CounterDefaultCycleLen int64 `yaml:"counter_default_cycle_len"`
	// Keep the first persisted default range even if the settings above change
	CounterPinDefaults bool `yaml:"counter_pin_defaults"`

	MaxErrorLogs  int `yaml:"max_error_logs"`
	ListPageLimit int `yaml:"list_page_limit"`
}

// Settings is the global configuration instance populated from environment variables, an optional file and flags.
var Settings *Config

func init() {
	Settings = Default()
}

// Default returns a configuration built from environment variables and built-in defaults.
func Default() *Config {
	return &Config{
		LogLevel:             getEnv("LOG_LEVEL", "INFO"),
		LogFilePath:          getEnv("LOG_FILE", "./circounter.log"),
		Port:                 getEnvInt("PORT", 7790),
		DatabaseURL:          getEnv("DATABASE_URL", "circounter.db"),
		SQLitePragmasEnabled: getEnvBool("SQLITE_PRAGMAS_ENABLED", true),
		SQLiteBusyTimeoutMS:  getEnvInt("SQLITE_BUSY_TIMEOUT_MS", 5000),
		SQLiteJournalMode:    getEnv("SQLITE_JOURNAL_MODE", "WAL"),
		SQLiteSynchronous:    getEnv("SQLITE_SYNCHRONOUS", "NORMAL"),
		SQLiteForeignKeys:    getEnvBool("SQLITE_FOREIGN_KEYS", true),
		SQLiteMaxOpenConns:   getEnvInt("SQLITE_MAX_OPEN_CONNS", 1),
		SQLiteMaxIdleConns:   getEnvInt("SQLITE_MAX_IDLE_CONNS", 1),
		SQLiteConnMaxIdleSec: getEnvInt("SQLITE_CONN_MAX_IDLE_SECONDS", 300),
		SQLiteConnMaxLifeSec: getEnvInt("SQLITE_CONN_MAX_LIFETIME_SECONDS", 0),
		CLIMode:              getEnvBool("CLI_MODE", false),
		CLIServer:            getEnv("CLI_SERVER", "http://localhost:7790"),

		CounterDefaultStart:    getEnvInt64("COUNTER_DEFAULT_START", 0),
		CounterDefaultCycleLen: getEnvInt64("COUNTER_DEFAULT_CYCLE_LEN", 100),
		CounterPinDefaults:     getEnvBool("COUNTER_PIN_DEFAULTS", true),

		MaxErrorLogs:  getEnvInt("MAX_ERROR_LOGS", 100),
		ListPageLimit: getEnvInt("LIST_PAGE_LIMIT", 100),
	}
}

// CounterRange returns the window used for counters built from a bare integer.
func (c *Config) CounterRange() counter.Range {
	return counter.Range{Start: c.CounterDefaultStart, CycleLen: c.CounterDefaultCycleLen}
}

// LoadFile overlays the YAML file at path onto cfg. Keys missing from the
// file keep their current value.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// ParseFlags parses command-line flags, applies an optional config file and any flag overrides to Settings.
// It handles --help (prints usage and exits) and --version (prints build info and exits).
func ParseFlags() {
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "circounter - circular counter store\n\n")
		fmt.Fprintf(out, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintln(out, "Options:")
		flag.PrintDefaults()
		fmt.Fprintln(out, "\nEnvironment variables:")
		fmt.Fprintln(out, "  CONFIG_FILE                       YAML config file applied before flags")
		fmt.Fprintln(out, "  LOG_LEVEL                         Log level (DEBUG, INFO, WARN, ERROR)")
		fmt.Fprintln(out, "  LOG_FILE                          Log file path (default ./circounter.log)")
		fmt.Fprintln(out, "  PORT                              HTTP server port (default 7790)")
		fmt.Fprintln(out, "  DATABASE_URL                      SQLite database path (default circounter.db)")
		fmt.Fprintln(out, "  SQLITE_PRAGMAS_ENABLED            Enable SQLite PRAGMAs (true/false, default true)")
		fmt.Fprintln(out, "  SQLITE_BUSY_TIMEOUT_MS            SQLite busy_timeout in milliseconds (default 5000)")
		fmt.Fprintln(out, "  SQLITE_JOURNAL_MODE               SQLite journal_mode (default WAL)")
		fmt.Fprintln(out, "  SQLITE_SYNCHRONOUS                SQLite synchronous (default NORMAL)")
		fmt.Fprintln(out, "  SQLITE_FOREIGN_KEYS               Enable SQLite foreign_keys (true/false, default true)")
		fmt.Fprintln(out, "  SQLITE_MAX_OPEN_CONNS             SQLite MaxOpenConns (default 1)")
		fmt.Fprintln(out, "  SQLITE_MAX_IDLE_CONNS             SQLite MaxIdleConns (default 1)")
		fmt.Fprintln(out, "  SQLITE_CONN_MAX_IDLE_SECONDS      SQLite ConnMaxIdleTime in seconds (default 300)")
		fmt.Fprintln(out, "  SQLITE_CONN_MAX_LIFETIME_SECONDS  SQLite ConnMaxLifetime in seconds (default 0)")
		fmt.Fprintln(out, "  COUNTER_DEFAULT_START             Window start for counters created from an integer (default 0)")
		fmt.Fprintln(out, "  COUNTER_DEFAULT_CYCLE_LEN         Window length for counters created from an integer (default 100)")
		fmt.Fprintln(out, "  COUNTER_PIN_DEFAULTS              Keep the first persisted default window (true/false, default true)")
		fmt.Fprintln(out, "  MAX_ERROR_LOGS                    Maximum in-memory error logs (default 100)")
		fmt.Fprintln(out, "  LIST_PAGE_LIMIT                   Maximum page size for list endpoints (default 100)")
	}

	configFile := flag.String("config", os.Getenv("CONFIG_FILE"), "YAML config file (overrides CONFIG_FILE)")
	port := flag.Int("port", Settings.Port, "HTTP server port (overrides PORT)")
	db := flag.String("db", Settings.DatabaseURL, "SQLite database path (overrides DATABASE_URL)")
	logLevel := flag.String("log-level", Settings.LogLevel, "Log level: DEBUG, INFO, WARN, ERROR (overrides LOG_LEVEL)")
	logFile := flag.String("log-file", Settings.LogFilePath, "Log file path (overrides LOG_FILE)")
	defaultStart := flag.Int64("counter-default-start", Settings.CounterDefaultStart, "Window start for counters created from an integer (overrides COUNTER_DEFAULT_START)")
	defaultCycleLen := flag.Int64("counter-default-cycle-len", Settings.CounterDefaultCycleLen, "Window length for counters created from an integer (overrides COUNTER_DEFAULT_CYCLE_LEN)")
	cliMode := flag.Bool("cli", Settings.CLIMode, "Run in CLI mode (HTTP client only, no database)")
	cliServer := flag.String("server", Settings.CLIServer, "Server URL for CLI mode")

	showHelp := flag.Bool("help", false, "Show help and exit")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Println(version.GetBuildInfo())
		os.Exit(0)
	}

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *configFile != "" {
		if err := LoadFile(Settings, *configFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}

	// Only flags given explicitly win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			Settings.Port = *port
		case "db":
			Settings.DatabaseURL = *db
		case "log-level":
			Settings.LogLevel = *logLevel
		case "log-file":
			Settings.LogFilePath = *logFile
		case "counter-default-start":
			Settings.CounterDefaultStart = *defaultStart
		case "counter-default-cycle-len":
			Settings.CounterDefaultCycleLen = *defaultCycleLen
		case "cli":
			Settings.CLIMode = *cliMode
		case "server":
			Settings.CLIServer = *cliServer
		}
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
