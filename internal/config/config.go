package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

type Config struct {
	LogLevel   string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string        `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string        `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Starter    string        `yaml:"starter" env:"STARTER" env-default:"player"`
	AIDelay    time.Duration `yaml:"ai-delay" env:"AI_DELAY" env-default:"300ms"`
	MatchTTL   time.Duration `yaml:"match-ttl" env:"MATCH_TTL" env-default:"1h"`
	Redis      Redis         `yaml:"redis"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// MustLoad - load all configurations in config.yml file, falling back to
// the environment when the file does not exist.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("could not read environment: %w", err)
		}
	} else if err = cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}

	if _, err := config.StarterSide(); err != nil {
		return nil, err
	}

	return config, nil
}

// StarterSide - who moves first in a new match.
func (that *Config) StarterSide() (entity.Side, error) {
	side, err := entity.ParseSide(that.Starter)
	if err != nil {
		return 0, fmt.Errorf("config starter: %w", err)
	}

	return side, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
