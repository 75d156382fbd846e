package config

import (
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	Port         string
	DBDSN        string
	LogFile      string
	LogLevel     string
	RateLimitMax int
	BodyLimit    int
	SeedDemo     bool
}

func Load() Config {
	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_DSN", "storefront.db") // sqlite file in project root
	v.SetDefault("LOG_FILE", "./storefront.log")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("RATE_LIMIT_MAX", 60) // requests per minute per IP
	v.SetDefault("BODY_LIMIT_BYTES", 1<<20)
	v.SetDefault("SEED_DEMO", true)
	v.AutomaticEnv()

	return Config{
		Port:         v.GetString("PORT"),
		DBDSN:        v.GetString("DB_DSN"),
		LogFile:      v.GetString("LOG_FILE"),
		LogLevel:     v.GetString("LOG_LEVEL"),
		RateLimitMax: v.GetInt("RATE_LIMIT_MAX"),
		BodyLimit:    v.GetInt("BODY_LIMIT_BYTES"),
		SeedDemo:     v.GetBool("SEED_DEMO"),
	}
}

// Fields renders the config for the startup log line.
func (c Config) Fields() []zap.Field {
	return []zap.Field{
		zap.String("port", c.Port),
		zap.String("db_dsn", c.DBDSN),
		zap.String("log_file", c.LogFile),
		zap.String("log_level", c.LogLevel),
		zap.Int("rate_limit_max", c.RateLimitMax),
		zap.Int("body_limit", c.BodyLimit),
		zap.Bool("seed_demo", c.SeedDemo),
	}
}
