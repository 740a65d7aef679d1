package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/mcdev12/wordrace/go/internal/game/events"
	"github.com/mcdev12/wordrace/go/internal/game/orchestrator"
	"github.com/mcdev12/wordrace/go/internal/game/resolver"
	"github.com/mcdev12/wordrace/go/internal/game/scoring"
	"github.com/mcdev12/wordrace/go/internal/models"
	"github.com/mcdev12/wordrace/go/internal/teams"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Config is read from config.yaml and then overridden from the environment.
type Config struct {
	Server   ServerConfig  `yaml:"server"`
	LogLevel string        `yaml:"log_level" env:"LOG_LEVEL"`
	Game     GameConfig    `yaml:"game"`
	Content  ContentConfig `yaml:"content"`
	Gemini   GeminiConfig  `yaml:"gemini"`
	NATS     NATSConfig    `yaml:"nats"`
	Teams    teams.Rules   `yaml:"teams"`
}

type ServerConfig struct {
	Port string `yaml:"port" env:"PORT"`
}

type GameConfig struct {
	TotalRounds    int             `yaml:"total_rounds" env:"GAME_TOTAL_ROUNDS"`
	Mode           models.GameMode `yaml:"mode" env:"GAME_MODE"`
	QuizEnabled    bool            `yaml:"quiz_enabled" env:"GAME_QUIZ_ENABLED"`
	RoundSeconds   int             `yaml:"round_seconds" env:"GAME_ROUND_SECONDS"`
	QuizSeconds    int             `yaml:"quiz_seconds" env:"GAME_QUIZ_SECONDS"`
	PollInterval   time.Duration   `yaml:"poll_interval" env:"GAME_POLL_INTERVAL"`
	ResultDisplay  time.Duration   `yaml:"result_display" env:"GAME_RESULT_DISPLAY"`
	Reward         RewardConfig    `yaml:"reward"`
	DirectReward   int             `yaml:"direct_reward" env:"GAME_DIRECT_REWARD"`
	Bonus          BonusConfig     `yaml:"bonus"`
	JudgeTimeout   time.Duration   `yaml:"judge_timeout" env:"GAME_JUDGE_TIMEOUT"`
	ContentTimeout time.Duration   `yaml:"content_timeout" env:"GAME_CONTENT_TIMEOUT"`
}

type RewardConfig struct {
	Correct   int `yaml:"correct" env:"GAME_REWARD_CORRECT"`
	Incorrect int `yaml:"incorrect" env:"GAME_REWARD_INCORRECT"`
}

type BonusConfig struct {
	Probability float64 `yaml:"probability" env:"GAME_BONUS_PROBABILITY"`
	Multiplier  int     `yaml:"multiplier" env:"GAME_BONUS_MULTIPLIER"`
}

type ContentConfig struct {
	PoolPath string `yaml:"pool_path" env:"CONTENT_POOL_PATH"`
}

type GeminiConfig struct {
	APIKey     string `yaml:"api_key" env:"GEMINI_API_KEY"`
	BaseURL    string `yaml:"base_url" env:"GEMINI_BASE_URL"`
	TextModel  string `yaml:"text_model" env:"GEMINI_TEXT_MODEL"`
	ImageModel string `yaml:"image_model" env:"GEMINI_IMAGE_MODEL"`
}

type NATSConfig struct {
	URL     string `yaml:"url" env:"NATS_URL"`
	Subject string `yaml:"subject" env:"NATS_SUBJECT"`
}

func defaultConfig() Config {
	rewards := scoring.DefaultRewardTable()
	bonus := scoring.DefaultBonusPolicy()
	oc := orchestrator.DefaultConfig()

	return Config{
		Server:   ServerConfig{Port: "8080"},
		LogLevel: "info",
		Game: GameConfig{
			TotalRounds:    3,
			Mode:           models.GameModeTrace,
			QuizEnabled:    true,
			RoundSeconds:   int(oc.RoundDuration / time.Second),
			QuizSeconds:    int(oc.QuizDuration / time.Second),
			PollInterval:   oc.PollInterval,
			ResultDisplay:  oc.ResultDisplay,
			Reward:         RewardConfig{Correct: rewards.Correct, Incorrect: rewards.Incorrect},
			DirectReward:   scoring.DefaultDirectPoints,
			Bonus:          BonusConfig{Probability: bonus.Probability, Multiplier: bonus.Multiplier},
			JudgeTimeout:   resolver.DefaultJudgeTimeout,
			ContentTimeout: oc.ContentTimeout,
		},
		Content: ContentConfig{PoolPath: "data/rounds.yaml"},
		NATS:    NATSConfig{Subject: events.DefaultNATSConfig().SubjectPrefix},
		Teams:   teams.DefaultRules(),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// loadConfig layers the YAML file at path and then the environment over the
// defaults. A missing file is not an error.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Warn().Str("path", path).Msg("config file not found, using defaults")
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := env.Parse(&config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) validate() error {
	if err := c.defaultGame().Validate(); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	if c.Game.RoundSeconds <= 0 || c.Game.QuizSeconds <= 0 {
		return fmt.Errorf("game: round_seconds and quiz_seconds must be positive")
	}
	if c.Game.Bonus.Probability < 0 || c.Game.Bonus.Probability > 1 {
		return fmt.Errorf("game: bonus probability %v out of range", c.Game.Bonus.Probability)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

func (c *Config) logLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// defaultGame is the start configuration offered to the UI.
func (c *Config) defaultGame() models.GameConfig {
	return models.GameConfig{
		TotalRounds: c.Game.TotalRounds,
		Mode:        c.Game.Mode,
		QuizEnabled: c.Game.QuizEnabled,
	}
}

func (c *Config) orchestratorConfig() orchestrator.Config {
	bonus := scoring.DefaultBonusPolicy()
	bonus.Probability = c.Game.Bonus.Probability
	bonus.Multiplier = c.Game.Bonus.Multiplier

	return orchestrator.Config{
		RoundDuration:  time.Duration(c.Game.RoundSeconds) * time.Second,
		QuizDuration:   time.Duration(c.Game.QuizSeconds) * time.Second,
		PollInterval:   c.Game.PollInterval,
		ContentTimeout: c.Game.ContentTimeout,
		ResultDisplay:  c.Game.ResultDisplay,
		Rewards: scoring.RewardTable{
			Correct:   c.Game.Reward.Correct,
			Incorrect: c.Game.Reward.Incorrect,
		},
		DirectPoints: c.Game.DirectReward,
		Bonus:        bonus,
	}
}

func (c *Config) natsConfig() events.NATSConfig {
	nc := events.DefaultNATSConfig()
	nc.URL = c.NATS.URL
	if c.NATS.Subject != "" {
		nc.SubjectPrefix = c.NATS.Subject
	}
	return nc
}
