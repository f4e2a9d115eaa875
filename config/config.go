package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/CIDgravity/snakelet"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// config structure
type Config struct {
	API    APIConfig    `mapstructure:"API"`
	Tasks  TasksConfig  `mapstructure:"TASKS"`
	Logs   LogsConfig   `mapstructure:"LOGS"`
	Github GithubConfig `mapstructure:"GITHUB"`
	Score  ScoreConfig  `mapstructure:"SCORE"`
}

type APIConfig struct {
	ListenPort string `mapstructure:"ListenPort"`
}

type TasksConfig struct {
	MaxParallelTasksAllowed int `mapstructure:"MaxParallelTasksAllowed"` // concurrent pipeline runs
}

type LogsConfig struct {
	Level            string `mapstructure:"Level"` // error | warn | info | debug | trace - case insensitive
	OutputLogsAsJSON bool   `mapstructure:"OutputLogsAsJSON"`
}

type GithubConfig struct {
	Token                   string `mapstructure:"Token"`
	BaseURL                 string `mapstructure:"BaseURL"`
	SearchRequestsPerMinute int    `mapstructure:"SearchRequestsPerMinute"` // used when github rate limits can't be loaded
}

// ScoreConfig holds the popularity score weights
// they are read once at startup and never modified afterwards
type ScoreConfig struct {
	StarsWeight         float64 `mapstructure:"StarsWeight"`
	ForksWeight         float64 `mapstructure:"ForksWeight"`
	RecencyWeight       float64 `mapstructure:"RecencyWeight"`
	RecencyHalfLifeDays int     `mapstructure:"RecencyHalfLifeDays"`
}

// Load will read the configuration file and apply environment overrides
// if path is empty, config/config.toml is searched next to the binary then in the working directory
func Load(path string) (*Config, error) {
	configFilePath := path

	if configFilePath == "" {
		var err error
		configFilePath, err = findConfigFile()

		if err != nil {
			return nil, err
		}
	}

	// load default and config file content
	cfg := GetDefault()
	_, err := snakelet.InitAndLoad(cfg, configFilePath)

	if err != nil {
		return nil, err
	}

	// .env is optional, variables already set in the environment take precedence
	_ = godotenv.Load(".env")
	applyEnvironment(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func findConfigFile() (string, error) {
	dir, err := filepath.Abs(filepath.Dir(os.Args[0]))

	if err != nil {
		return "", err
	}

	configFilePath := dir + "/config/config.toml"

	if _, err := os.Stat(configFilePath); errors.Is(err, os.ErrNotExist) {
		if _, err := os.Stat("config/config.toml"); errors.Is(err, os.ErrNotExist) {
			return "", err
		}

		return "config/config.toml", nil
	}

	return configFilePath, nil
}

// applyEnvironment overrides secrets and endpoints from environment variables
func applyEnvironment(cfg *Config) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.Github.Token = token
	}

	if baseURL := os.Getenv("GITHUB_API_URL"); baseURL != "" {
		cfg.Github.BaseURL = baseURL
	}
}

// Validate checks the values that would prevent the server from starting
func (c Config) Validate() error {
	if strings.TrimSpace(c.API.ListenPort) == "" {
		return errors.New("API.ListenPort must not be empty")
	}

	if c.Tasks.MaxParallelTasksAllowed <= 0 {
		return fmt.Errorf("TASKS.MaxParallelTasksAllowed must be positive, got %d", c.Tasks.MaxParallelTasksAllowed)
	}

	if _, err := logrus.ParseLevel(strings.TrimSpace(c.Logs.Level)); err != nil {
		return fmt.Errorf("LOGS.Level must be one of error, warn, info, debug or trace, got %q", c.Logs.Level)
	}

	if c.Github.BaseURL != "" {
		u, err := url.Parse(c.Github.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("GITHUB.BaseURL is not a valid url: %q", c.Github.BaseURL)
		}
	}

	return nil
}

// GetDefault
func GetDefault() *Config {
	return &Config{
		API: APIConfig{
			ListenPort: "5000",
		},
		Tasks: TasksConfig{
			MaxParallelTasksAllowed: 8,
		},
		Logs: LogsConfig{
			Level:            "debug",
			OutputLogsAsJSON: false,
		},
		Github: GithubConfig{
			SearchRequestsPerMinute: 10,
		},
		Score: ScoreConfig{
			StarsWeight:         0.6,
			ForksWeight:         0.25,
			RecencyWeight:       0.15,
			RecencyHalfLifeDays: 90,
		},
	}
}
