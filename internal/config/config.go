package config

import (
	"io/fs"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	AppEnv string `envconfig:"APP_ENV" default:"dev"`
	Port   string `envconfig:"PORT" default:"5000"`

	// Origin allowed to call the API with credentials (the SPA).
	ClientOrigin string `envconfig:"CLIENT_ORIGIN" default:"http://localhost:5173"`

	DBDSN string `envconfig:"DB_DSN" required:"true"`

	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"168h"`

	BcryptCost int `envconfig:"BCRYPT_COST" default:"12"`

	StripeSecretKey string `envconfig:"STRIPE_SECRET_KEY" required:"true"`

	StoragePath string `envconfig:"STORAGE_PATH" default:"./data"`

	// Empty AMQPURL disables event publishing.
	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"court-rental.events"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	// DotEnvLoaded is false when no .env file was found. The logger does not
	// exist yet while loading, so main reports it.
	DotEnvLoaded bool `ignored:"true"`
}

// IsProduction reports whether APP_ENV is "prod".
func (c *Config) IsProduction() bool {
	return c.AppEnv == PROD_STRING
}

// HTTPAddr is the listen address derived from PORT.
func (c *Config) HTTPAddr() string {
	return ":" + c.Port
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	return load(".env")
}

func load(dotenv string) (*Config, error) {
	loaded := true
	if err := godotenv.Load(dotenv); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, "read %s", dotenv)
		}
		loaded = false
	}

	cfg := &Config{DotEnvLoaded: loaded}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, errors.Wrap(err, "process env config")
	}

	if cfg.JWTTTL <= 0 {
		return nil, errors.Newf("invalid JWT_TTL %s", cfg.JWTTTL)
	}

	return cfg, nil
}
