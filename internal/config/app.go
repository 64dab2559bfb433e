package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type HTTPServer struct {
	Port string `mapstructure:"port"`
}

type DbServer struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Pass     string `mapstructure:"pass"`
	Name     string `mapstructure:"name"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (config *DbServer) GetConnectionStr() string {
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=disable",
		config.User, config.Pass, config.Host, config.Port, config.Name,
	)
}

type HTTPClient struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

type CountriesAPI struct {
	BaseURL string `mapstructure:"base_url"`
}

type RatesAPI struct {
	BaseURL string `mapstructure:"base_url"`
}

type Refresh struct {
	IntervalSeconds int `mapstructure:"interval_seconds"`
}

type Cache struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

type Logging struct {
	Level string `mapstructure:"level"`
}

type AppConfig struct {
	HTTPServer   HTTPServer   `mapstructure:"http_server"`
	DbServer     DbServer     `mapstructure:"db_server"`
	HTTPClient   HTTPClient   `mapstructure:"http_client"`
	CountriesAPI CountriesAPI `mapstructure:"countries_api"`
	RatesAPI     RatesAPI     `mapstructure:"rates_api"`
	Refresh      Refresh      `mapstructure:"refresh"`
	Cache        Cache        `mapstructure:"cache"`
	Logging      Logging      `mapstructure:"logging"`
}

func Init() (*AppConfig, error) {
	var cfg AppConfig

	// .env is optional outside local development
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	viper.SetConfigFile("config.yaml")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	viper.SetDefault("http_server.port", "8080")
	viper.SetDefault("db_server.max_conns", 10)
	viper.SetDefault("http_client.timeout_seconds", 10)
	viper.SetDefault("countries_api.base_url", "https://restcountries.com/v2/all?fields=name,capital,region,population,flag,currencies")
	viper.SetDefault("rates_api.base_url", "https://open.er-api.com/v6/latest/USD")
	viper.SetDefault("refresh.interval_seconds", 0)
	viper.SetDefault("cache.max_bytes", 8<<20)
	viper.SetDefault("logging.level", "info")

	// db server env vars
	_ = viper.BindEnv("db_server.host", "DB_HOST")
	_ = viper.BindEnv("db_server.port", "DB_PORT")
	_ = viper.BindEnv("db_server.user", "DB_USER")
	_ = viper.BindEnv("db_server.pass", "DB_PASS")
	_ = viper.BindEnv("db_server.name", "DB_NAME")
	_ = viper.BindEnv("db_server.max_conns", "DB_MAX_CONNS")

	// http server/client env vars
	_ = viper.BindEnv("http_server.port", "HTTP_PORT")
	_ = viper.BindEnv("http_client.timeout_seconds", "HTTP_CLIENT_TIMEOUT_SECONDS")

	// upstream sources env vars
	_ = viper.BindEnv("countries_api.base_url", "COUNTRIES_API_BASE_URL")
	_ = viper.BindEnv("rates_api.base_url", "RATES_API_BASE_URL")

	_ = viper.BindEnv("refresh.interval_seconds", "REFRESH_INTERVAL_SECONDS")
	_ = viper.BindEnv("logging.level", "LOG_LEVEL")

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &cfg, nil
}
