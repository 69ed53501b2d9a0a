package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultEnv           = "local"
	defaultLogLevel      = "info"
	defaultConfigDir     = ".krauzzzz"
	defaultEndpoint      = "https://api.airtable.com/v0"
	defaultToleranceMS   = 2000
	defaultRemoteTimeout = 30
)

// Config — конфигурация клиента. Учётные данные сервера могут быть
// пустыми: клиент тогда работает только с локальным кэшем.
type Config struct {
	Env       string `mapstructure:"app_env"`
	LogLevel  string `mapstructure:"log_level"`
	ConfigDir string `mapstructure:"config_dir"`
	DataPath  string `mapstructure:"data_path"`

	Endpoint string `mapstructure:"airtable_endpoint"`
	BaseID   string `mapstructure:"airtable_base_id"`
	APIKey   string `mapstructure:"airtable_api_key"`

	// SyncTolerance — допуск при сравнении меток времени локальной и
	// удалённой записи. Разница меньше допуска считается "уже
	// синхронизировано" и гасит дрожание часов.
	SyncTolerance time.Duration `mapstructure:"sync_tolerance"`

	RemoteTimeout time.Duration `mapstructure:"remote_timeout"`
}

// MustLoad загружает конфигурацию клиента
func MustLoad() *Config {
	// Подхватываем .env, если он есть рядом или уровнем выше
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = "../.env"
	}
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Printf("Ошибка загрузки .env файла: %v\n", err)
		}
	}

	viper.AutomaticEnv()

	// Значения по умолчанию
	viper.SetDefault("APP_ENV", defaultEnv)
	viper.SetDefault("LOG_LEVEL", defaultLogLevel)
	viper.SetDefault("CONFIG_DIR", defaultConfigDir)
	viper.SetDefault("AIRTABLE_ENDPOINT", defaultEndpoint)
	viper.SetDefault("SYNC_TOLERANCE_MS", defaultToleranceMS)
	viper.SetDefault("REMOTE_TIMEOUT_SECONDS", defaultRemoteTimeout)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		configDir = filepath.Join(homeDir, configDir)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		fmt.Printf("Ошибка создания директории конфигурации: %v\n", err)
	}

	// .env в директории данных (туда пишет команда token)
	if dirEnv := filepath.Join(configDir, ".env"); fileExists(dirEnv) {
		if err := godotenv.Load(dirEnv); err != nil {
			fmt.Printf("Ошибка загрузки .env файла: %v\n", err)
		}
	}

	config := &Config{
		Env:           viper.GetString("APP_ENV"),
		LogLevel:      viper.GetString("LOG_LEVEL"),
		ConfigDir:     configDir,
		DataPath:      filepath.Join(configDir, "cache.db"),
		Endpoint:      viper.GetString("AIRTABLE_ENDPOINT"),
		BaseID:        viper.GetString("AIRTABLE_BASE_ID"),
		APIKey:        viper.GetString("AIRTABLE_API_KEY"),
		SyncTolerance: time.Duration(viper.GetInt("SYNC_TOLERANCE_MS")) * time.Millisecond,
		RemoteTimeout: time.Duration(viper.GetInt("REMOTE_TIMEOUT_SECONDS")) * time.Second,
	}

	if err := config.validate(); err != nil {
		panic(fmt.Sprintf("Ошибка конфигурации: %v", err))
	}

	return config
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (c *Config) validate() error {
	if c.ConfigDir == "" {
		return fmt.Errorf("config_dir не может быть пустым")
	}
	if c.SyncTolerance < 0 {
		return fmt.Errorf("sync_tolerance не может быть отрицательным")
	}
	return nil
}

// IsProd проверяет, prod ли окружение
func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

// IsLocal проверяет, local ли окружение
func (c *Config) IsLocal() bool {
	return c.Env == "local" || c.Env == ""
}
