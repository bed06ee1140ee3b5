package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	OpponentRandom = "random"
	OpponentThreat = "threat"
)

var (
	ErrInvalidBoardSize = errors.New("board width and height must be positive")
	ErrUnknownOpponent  = errors.New("unknown opponent")
	ErrInvalidAnimation = errors.New("animation must have a positive frame delay and a falling piece must move")
)

type Config struct {
	LogLevel string `yaml:"log-level" env:"CONNECTFOUR_LOG_LEVEL" env-default:"info"`
	LogFile  string `yaml:"log-file" env:"CONNECTFOUR_LOG_FILE" env-default:"connectfour.log"`
	Opponent string `yaml:"opponent" env:"CONNECTFOUR_OPPONENT" env-default:"random"`

	// OpponentFirst has no env-default: cleanenv would overwrite an explicit false with it.
	OpponentFirst bool       `yaml:"opponent-first" env:"CONNECTFOUR_OPPONENT_FIRST"`
	Board         Board      `yaml:"board"`
	Animation     Animation  `yaml:"animation"`
	Scoreboard    Scoreboard `yaml:"scoreboard"`
	Redis         Redis      `yaml:"redis"`
}

type Board struct {
	Width  int `yaml:"width" env:"CONNECTFOUR_BOARD_WIDTH" env-default:"7"`
	Height int `yaml:"height" env:"CONNECTFOUR_BOARD_HEIGHT" env-default:"6"`
}

// Animation - falling piece parameters, in rows and frames.
type Animation struct {
	FrameDelay      time.Duration `yaml:"frame-delay" env:"CONNECTFOUR_FRAME_DELAY" env-default:"60ms"`
	InitialVelocity float64       `yaml:"initial-velocity" env:"CONNECTFOUR_INITIAL_VELOCITY" env-default:"0.16"`
	Gravity         float64       `yaml:"gravity" env:"CONNECTFOUR_GRAVITY" env-default:"0.006"`
}

type Scoreboard struct {
	Enabled bool `yaml:"enabled" env:"CONNECTFOUR_SCOREBOARD" env-default:"false"`
}

type Redis struct {
	Host string `yaml:"host" env:"CONNECTFOUR_REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"CONNECTFOUR_REDIS_PORT" env-default:"6379"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// Load - reads the config file at path, or only the environment when the file does not exist.
func Load(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	} else if err = cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) Validate() error {
	if that.Board.Width <= 0 || that.Board.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidBoardSize, that.Board.Width, that.Board.Height)
	}

	switch that.Opponent {
	case OpponentRandom, OpponentThreat:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOpponent, that.Opponent)
	}

	return that.Animation.Validate()
}

// Validate - a piece must reach its row in a finite number of frames.
func (that *Animation) Validate() error {
	if that.FrameDelay <= 0 {
		return fmt.Errorf("%w: frame-delay %s", ErrInvalidAnimation, that.FrameDelay)
	}

	if that.InitialVelocity < 0 || that.Gravity < 0 || (that.InitialVelocity == 0 && that.Gravity == 0) {
		return fmt.Errorf("%w: initial-velocity %g, gravity %g", ErrInvalidAnimation, that.InitialVelocity, that.Gravity)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
