package env

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Address        string        `env:"VLCRC_ADDRESS,default=127.0.0.1"`
	Port           int           `env:"VLCRC_PORT,default=50000"`
	Timeout        time.Duration `env:"VLCRC_TIMEOUT,default=100ms"`
	ConnectTimeout time.Duration `env:"VLCRC_CONNECT_TIMEOUT,default=1s"`

	// Prompt the player prints after each response. Empty means the client
	// default.
	Prompt string `env:"VLCRC_PROMPT"`

	LogLevel  string `env:"VLCRC_LOG_LEVEL,default=warn"`
	LogFormat string `env:"VLCRC_LOG_FORMAT,default=console"`

	DebugHTTP bool `env:"VLCRC_DEBUG_HTTP"`
}

// LoadConfig reads .env.local, when there is one, and then the environment.
func LoadConfig(ctx context.Context) (*Config, error) {
	config := Config{}

	if err := godotenv.Load(".env.local"); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if err := envconfig.Process(ctx, &config); err != nil {
		return nil, err
	}

	return &config, nil
}
