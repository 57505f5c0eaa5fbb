package config

import (
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT"`
		Host    string `env:"POSTGRES_HOST"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	}
	Telegram struct {
		User    int64  `env:"TELEGRAM_USER"`
		Token   string `env:"TELEGRAM_TOKEN"`
		Channel string `env:"TELEGRAM_CHANNEL"`
	}
	Twitter struct {
		MirrorHost string `env:"TWITTER_MIRROR_HOST" env-default:"fixupx.com"`
	}
	Render struct {
		Timeout  time.Duration `env:"RENDER_TIMEOUT" env-default:"20s"`
		Sessions int64         `env:"RENDER_SESSIONS" env-default:"2"`
	}
	Fetcher struct {
		Concurrency int           `env:"FETCHER_CONCURRENCY" env-default:"4"`
		Timeout     time.Duration `env:"FETCHER_TIMEOUT" env-default:"30s"`
		Retries     uint64        `env:"FETCHER_RETRIES" env-default:"2"`
		MaxBytes    int64         `env:"FETCHER_MAX_BYTES" env-default:"52428800"`
	}
	History struct {
		RetentionDays int `env:"HISTORY_RETENTION_DAYS" env-default:"30"`
	}
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}
