package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/kirsle/configdir"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const (
	configRoot            = "mtlist"
	defaultConfigFileName = "mtlist.yaml"
	envPrefix             = "MTLIST"

	DefaultURL    = "http://servers.minetest.net/list"
	DefaultTarget = "servers_table"
)

var (
	ErrInvalidConfig  = errors.New("invalid config")
	errConfigNotFound = errors.New("config path does not exist")
)

type RunMode string

const (
	ModeProd  RunMode = "prod"
	ModeDebug RunMode = "debug"
	ModeTest  RunMode = "test"
)

// Config is the application configuration.
type Config struct {
	Listen    string        `yaml:"listen" split_words:"true"`
	Interval  time.Duration `yaml:"interval" split_words:"true"`
	Timeout   time.Duration `yaml:"timeout" split_words:"true"`
	MoreURL   string        `yaml:"more_url" split_words:"true"`
	OutputDir string        `yaml:"output_dir" split_words:"true"`
	LogLevel  string        `yaml:"log_level" split_words:"true"`
	RunMode   RunMode       `yaml:"run_mode" split_words:"true"`
	Render    Options       `yaml:"render" split_words:"true"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Listen:   ":8080",
		Interval: time.Minute,
		Timeout:  10 * time.Second,
		MoreURL:  "/more",
		LogLevel: "info",
		RunMode:  ModeProd,
		Render: Options{
			URL:    DefaultURL,
			Target: DefaultTarget,
		},
	}
}

// DefaultPath is where the config file is looked up when none is given.
func DefaultPath() string {
	return filepath.Join(configdir.LocalConfig(configRoot), defaultConfigFileName)
}

// Validate checks the values the service cannot run without.
func (c Config) Validate() error {
	u, errURL := url.Parse(c.Render.URL)
	if errURL != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.Wrapf(ErrInvalidConfig, "url: %q", c.Render.URL)
	}
	if c.Render.Target == "" {
		return errors.Wrap(ErrInvalidConfig, "target is empty")
	}
	if !strings.HasPrefix(c.MoreURL, "/") {
		return errors.Wrapf(ErrInvalidConfig, "more_url must be a path: %q", c.MoreURL)
	}
	if c.Interval <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "interval: %s", c.Interval)
	}
	if c.Render.Limit < 0 || c.Render.ClientsMin < 0 {
		return errors.Wrap(ErrInvalidConfig, "limit and clients_min must not be negative")
	}
	switch c.RunMode {
	case ModeProd, ModeDebug, ModeTest:
	default:
		return errors.Wrapf(ErrInvalidConfig, "run_mode: %q", c.RunMode)
	}
	return nil
}

// Load builds the configuration from defaults, the yaml file, a .env file,
// MTLIST_ environment variables and finally explicitly set flags, in that
// order of precedence.
func Load(args []string) (Config, error) {
	cfg := Default()

	flags := pflag.NewFlagSet(configRoot, pflag.ContinueOnError)
	configPath := flags.StringP("config", "c", "", "path to the config file")
	envFile := flags.String("env-file", ".env", "optional dotenv file")
	listen := flags.StringP("listen", "l", cfg.Listen, "http listen address")
	endpoint := flags.StringP("url", "u", cfg.Render.URL, "directory endpoint")
	interval := flags.DurationP("interval", "i", cfg.Interval, "refresh interval")
	outputDir := flags.StringP("output-dir", "o", "", "also write rendered regions to this directory")
	logLevel := flags.String("log-level", cfg.LogLevel, "log level")
	limit := flags.Int("limit", 0, "maximum number of rows")
	clientsMin := flags.Int("clients-min", 0, "minimum number of clients")
	noRefresh := flags.Bool("no-refresh", false, "fetch once")
	if errParse := flags.Parse(args); errParse != nil {
		return cfg, errors.Wrap(errParse, "Failed to parse flags")
	}

	path := *configPath
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if errRead := readFilePath(path, &cfg); errRead != nil {
		if explicit || !errors.Is(errRead, errConfigNotFound) {
			return cfg, errRead
		}
	}

	if errEnv := godotenv.Load(*envFile); errEnv != nil && !os.IsNotExist(errors.Cause(errEnv)) {
		return cfg, errors.Wrapf(errEnv, "Failed to read %s", *envFile)
	}
	if errEnv := envconfig.Process(envPrefix, &cfg); errEnv != nil {
		return cfg, errors.Wrap(errEnv, "Failed to load environment")
	}
	// PORT is honoured the way hosting platforms expect.
	if port := os.Getenv("PORT"); port != "" && os.Getenv(envPrefix+"_LISTEN") == "" {
		cfg.Listen = ":" + port
	}

	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "listen":
			cfg.Listen = *listen
		case "url":
			cfg.Render.URL = *endpoint
		case "interval":
			cfg.Interval = *interval
		case "output-dir":
			cfg.OutputDir = *outputDir
		case "log-level":
			cfg.LogLevel = *logLevel
		case "limit":
			cfg.Render.Limit = *limit
		case "clients-min":
			cfg.Render.ClientsMin = *clientsMin
		case "no-refresh":
			cfg.Render.NoRefresh = *noRefresh
		}
	})

	if cfg.OutputDir != "" {
		expanded, errExpand := homedir.Expand(cfg.OutputDir)
		if errExpand != nil {
			return cfg, errors.Wrapf(errExpand, "Failed to expand %s", cfg.OutputDir)
		}
		cfg.OutputDir = expanded
	}

	return cfg, cfg.Validate()
}

func readFilePath(path string, cfg *Config) error {
	expanded, errExpand := homedir.Expand(path)
	if errExpand != nil {
		return errors.Wrapf(errExpand, "Failed to expand %s", path)
	}
	body, errRead := os.ReadFile(expanded)
	if errRead != nil {
		if os.IsNotExist(errRead) {
			return errors.Wrap(errConfigNotFound, expanded)
		}
		return errors.Wrapf(errRead, "Failed to read config %s", expanded)
	}
	if errDecode := yaml.Unmarshal(body, cfg); errDecode != nil {
		return errors.Wrapf(errDecode, "Failed to decode config %s", expanded)
	}
	return nil
}

// String renders the effective config for startup logging.
func (c Config) String() string {
	return fmt.Sprintf("url=%s target=%s listen=%s interval=%s limit=%d clients_min=%d no_refresh=%t",
		c.Render.URL, c.Render.Target, c.Listen, c.Interval, c.Render.Limit, c.Render.ClientsMin, c.Render.NoRefresh)
}
