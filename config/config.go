package config

import (
	"flag"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds every knob that does not belong in the stdin/stdout
// protocol itself: logging verbosity, the optional snapshot store, and
// the bulk-insertion worker pool size. Grounded on the teacher's
// config.Config, generalized from FTS storage/dump paths to this
// domain's concerns.
type Config struct {
	Env            string `yaml:"env" env-default:"local"`
	LogLevel       string `yaml:"log_level" env-default:"info"`
	SnapshotPath   string `yaml:"snapshot_path" env-default:""`
	WarmStart      bool   `yaml:"warm_start" env-default:"false"`
	Workers        int    `yaml:"workers" env-default:"1"`
	DictionaryPath string `yaml:"dictionary_path" env-default:""`
}

// MustLoad resolves configuration from (in priority order) command-line
// flags, then an optional config file, then built-in defaults, matching
// the teacher's MustLoad priority (flag > env > default). Unlike the
// teacher, a missing config file is not fatal here: every field has a
// workable default and the protocol must run from stdin/stdout alone
// with zero configuration.
func MustLoad() *Config {
	configPathFlag := flag.String("config", "", "Path to the config file")
	logLevelFlag := flag.String("log-level", "", "Log level: debug, info, warn, error")
	logFormatFlag := flag.String("log-format", "", "Log format: text or json (overrides env-derived default)")
	snapshotFlag := flag.String("snapshot", "", "Path to an optional word-snapshot store")
	warmStartFlag := flag.Bool("warm-start", false, "Seed the dictionary from the snapshot store (instead of --dictionary) before reading stdin")
	workersFlag := flag.Int("workers", 0, "Worker pool size for bulk dictionary insertion (default 1)")
	dictionaryFlag := flag.String("dictionary", "", "Path to a bulk dictionary file (one word per line, optionally .gz)")
	flag.Parse()

	var cfg Config
	if configPath := *configPathFlag; configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
				panic("error loading config file: " + err.Error())
			}
		}
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}

	if *logLevelFlag != "" {
		cfg.LogLevel = *logLevelFlag
	}
	if *logFormatFlag != "" {
		cfg.Env = logFormatEnv(*logFormatFlag)
	}
	if *snapshotFlag != "" {
		cfg.SnapshotPath = *snapshotFlag
	}
	if *warmStartFlag {
		cfg.WarmStart = true
	}
	if *workersFlag != 0 {
		cfg.Workers = *workersFlag
	}
	if *dictionaryFlag != "" {
		cfg.DictionaryPath = *dictionaryFlag
	}

	return &cfg
}

// logFormatEnv maps the --log-format flag onto the Env values setupLogger
// switches on (text for "local", JSON for "dev"/"prod"), so a bare
// --log-format flag works without a config file at all.
func logFormatEnv(format string) string {
	if format == "json" {
		return "dev"
	}
	return "local"
}
