package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the runtime configuration of the weather service.
type Config struct {
	Port     string
	LogLevel string
	DBPath   string
	Weather  WeatherConfig
}

type WeatherConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// DefaultDBPath is the sqlite file used when db.path is empty.
const DefaultDBPath = "app.db"

const (
	defaultPort    = "8080"
	defaultBaseURL = "https://api.weatherapi.com/v1"
	defaultTimeout = 10 * time.Second
)

// Load reads config.yml from the given directories (first match wins), then
// applies environment overrides such as WEATHER_API_KEY or PORT. A missing
// config file or .env is not an error.
func Load(dirs ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	for _, d := range dirs {
		v.AddConfigPath(d)
	}

	v.SetDefault("port", defaultPort)
	v.SetDefault("log.level", "info")
	v.SetDefault("db.path", DefaultDBPath)
	v.SetDefault("weather.api_key", "")
	v.SetDefault("weather.base_url", defaultBaseURL)
	v.SetDefault("weather.timeout", defaultTimeout)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Port:     v.GetString("port"),
		LogLevel: v.GetString("log.level"),
		DBPath:   v.GetString("db.path"),
		Weather: WeatherConfig{
			APIKey:  v.GetString("weather.api_key"),
			BaseURL: v.GetString("weather.base_url"),
			Timeout: v.GetDuration("weather.timeout"),
		},
	}
	if cfg.Weather.Timeout <= 0 {
		return nil, fmt.Errorf("weather.timeout must be positive, got %s", cfg.Weather.Timeout)
	}
	return cfg, nil
}
