// Package config reads the storefront settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Port      int    `envconfig:"PORT" default:"3000"`
	BasePath  string `envconfig:"BASE_PATH" default:"/hw/store"`
	StaticDir string `envconfig:"STATIC_DIR" default:"dist"`

	DatabaseDriver string `envconfig:"DATABASE_DRIVER" default:"sqlite3"`
	DatabaseURL    string `envconfig:"DATABASE_URL" default:"hwstore.db"`

	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	CartTTL       time.Duration `envconfig:"CART_TTL" default:"24h"`

	APIURL      string `envconfig:"API_URL"`
	CartSession string `envconfig:"CART_SESSION"`

	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"text"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads an optional .env file (variables already set win) and then the
// environment.
func Load(envFiles ...string) (Config, error) {
	var cfg Config
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		err := godotenv.Load(f)
		if err != nil && !os.IsNotExist(err) {
			return cfg, errors.Wrapf(err, "load %s", f)
		}
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, errors.Wrap(err, "process env")
	}
	if err := cfg.normalize(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	if c.Port <= 0 || c.Port > 65535 {
		return errors.Errorf("PORT out of range: %d", c.Port)
	}
	c.BasePath = "/" + strings.Trim(c.BasePath, "/")
	if c.BasePath == "/" {
		c.BasePath = ""
	}
	if c.APIURL == "" {
		c.APIURL = "http://localhost:" + strconv.Itoa(c.Port) + c.BasePath
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	if c.CartTTL <= 0 {
		return errors.New("CART_TTL must be positive")
	}
	return nil
}

// InitLogging applies LOG_LEVEL and LOG_FORMAT (text or json) to the standard logrus logger.
func (c Config) InitLogging() error {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return errors.Wrap(err, "LOG_LEVEL")
	}
	log.SetLevel(level)
	switch strings.ToLower(c.LogFormat) {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return errors.Errorf("unknown LOG_FORMAT %q", c.LogFormat)
	}
	return nil
}
