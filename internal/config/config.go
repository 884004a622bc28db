package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/tictactoe-rl/internal/apperror"
)

type Config struct {
	LogLevel string   `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	Seed     uint64   `yaml:"seed" env:"SEED" env-default:"0"`
	Training Training `yaml:"training"`
	Agents   Agents   `yaml:"agents"`
	Report   Report   `yaml:"report"`
	Redis    Redis    `yaml:"redis"`
	HTTP     HTTP     `yaml:"http"`
}

type Training struct {
	Episodes     int  `yaml:"episodes" env:"TRAINING_EPISODES" env-default:"10000"`
	EvalEpisodes int  `yaml:"eval-episodes" env:"TRAINING_EVAL_EPISODES" env-default:"100"`
	EvalEvery    int  `yaml:"eval-every" env:"TRAINING_EVAL_EVERY" env-default:"100"`
	ShowBoard    bool `yaml:"show-board" env:"TRAINING_SHOW_BOARD" env-default:"false"`
	DemoGames    int  `yaml:"demo-games" env:"TRAINING_DEMO_GAMES" env-default:"3"`
}

type Agents struct {
	X Agent `yaml:"x" env-prefix:"AGENT_X_"`
	O Agent `yaml:"o" env-prefix:"AGENT_O_"`
}

// Agent holds the learning parameters of one side.
type Agent struct {
	Alpha   float64 `yaml:"alpha" env:"ALPHA" env-default:"0.1"`
	Gamma   float64 `yaml:"gamma" env:"GAMMA" env-default:"0.9"`
	Epsilon float64 `yaml:"epsilon" env:"EPSILON" env-default:"0.5"`
	Delta   float64 `yaml:"delta" env:"DELTA" env-default:"0.0001"`
}

type Report struct {
	CSVPath  string `yaml:"csv-path" env:"REPORT_CSV_PATH" env-default:""`
	HTMLPath string `yaml:"html-path" env:"REPORT_HTML_PATH" env-default:""`
}

type Redis struct {
	Enabled bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host    string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type HTTP struct {
	Enabled bool   `yaml:"enabled" env:"HTTP_ENABLED" env-default:"false"`
	Port    string `yaml:"port" env:"HTTP_PORT" env-default:"9090"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Load reads the file, applies env overrides and validates the result.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) Validate() error {
	if that.Training.Episodes <= 0 {
		return fmt.Errorf("%w: training.episodes must be positive, got %d", apperror.ErrInvalidConfig, that.Training.Episodes)
	}
	if that.Training.EvalEvery <= 0 {
		return fmt.Errorf("%w: training.eval-every must be positive, got %d", apperror.ErrInvalidConfig, that.Training.EvalEvery)
	}
	if that.Training.EvalEpisodes < 0 {
		return fmt.Errorf("%w: training.eval-episodes must not be negative", apperror.ErrInvalidConfig)
	}
	if that.Training.DemoGames < 0 {
		return fmt.Errorf("%w: training.demo-games must not be negative", apperror.ErrInvalidConfig)
	}

	for side, agent := range map[string]Agent{"x": that.Agents.X, "o": that.Agents.O} {
		if err := agent.Validate(); err != nil {
			return fmt.Errorf("agents.%s: %w", side, err)
		}
	}

	switch that.LogLevel {
	case "debug", "info":
	default:
		return fmt.Errorf("%w: unknown log-level %q", apperror.ErrInvalidConfig, that.LogLevel)
	}

	return nil
}

func (that Agent) Validate() error {
	switch {
	case that.Alpha <= 0 || that.Alpha > 1:
		return fmt.Errorf("%w: alpha must be in (0, 1], got %v", apperror.ErrInvalidConfig, that.Alpha)
	case that.Gamma < 0 || that.Gamma > 1:
		return fmt.Errorf("%w: gamma must be in [0, 1], got %v", apperror.ErrInvalidConfig, that.Gamma)
	case that.Epsilon < 0 || that.Epsilon > 1:
		return fmt.Errorf("%w: epsilon must be in [0, 1], got %v", apperror.ErrInvalidConfig, that.Epsilon)
	case that.Delta < 0:
		return fmt.Errorf("%w: delta must not be negative, got %v", apperror.ErrInvalidConfig, that.Delta)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
