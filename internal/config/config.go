package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

type Config struct {
	LogLevel   string        `yaml:"log-level"   env:"TICTACTOE_LOG_LEVEL"   env-default:"info"`
	HTTPPort   string        `yaml:"http-port"   env:"TICTACTOE_HTTP_PORT"   env-default:"9090"`
	SocketPort string        `yaml:"socket-port" env:"TICTACTOE_SOCKET_PORT" env-default:"9091"`
	Storage    string        `yaml:"storage"     env:"TICTACTOE_STORAGE"     env-default:"memory"`
	SessionTTL time.Duration `yaml:"session-ttl" env:"TICTACTOE_SESSION_TTL" env-default:"24h"`
	StaticDir  string        `yaml:"static-dir"  env:"TICTACTOE_STATIC_DIR"`
	Redis      Redis         `yaml:"redis"`
	Sound      Sound         `yaml:"sound"`
}

type Redis struct {
	Host string `yaml:"host" env:"TICTACTOE_REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"TICTACTOE_REDIS_PORT" env-default:"6379"`
}

type Sound struct {
	URL    string `yaml:"url"    env:"TICTACTOE_SOUND_URL"    env-default:"tada.mp3"`
	Volume int    `yaml:"volume" env:"TICTACTOE_SOUND_VOLUME" env-default:"50"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Load reads the yaml file at path, applies env overrides and validates the result.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

func (that *Config) validate() error {
	switch that.Storage {
	case StorageMemory, StorageRedis:
	default:
		return fmt.Errorf("unknown storage %q", that.Storage)
	}

	if that.SessionTTL < 0 {
		return fmt.Errorf("negative session-ttl %s", that.SessionTTL)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	if that.Host == "" || that.Port == "" {
		return ""
	}

	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
