package main

import (
	"fmt"
	"strings"
	"time"

	"nextgen_download_bot/internal/repository"

	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
)

type Config struct {
	Database repository.Config `yaml:"database"`
	Server   ServerConfig      `yaml:"server"`

	Telegram   TelegramConfig   `yaml:"telegram"`
	Quota      QuotaConfig      `yaml:"quota"`
	Downloader DownloaderConfig `yaml:"downloader"`

	LogLevel string `yaml:"logLevel"`
}

type ServerConfig struct {
	Host       string `yaml:"host"`
	Port       string `yaml:"port"`
	AdminToken string `yaml:"adminToken"`
}

type TelegramConfig struct {
	BotToken        string  `yaml:"botToken"`
	ChannelID       int64   `yaml:"channelId"`
	ChannelUsername string  `yaml:"channelUsername"`
	Admins          []int64 `yaml:"admins"`
}

type QuotaConfig struct {
	FreeLimit int `yaml:"freeLimit"`
}

type DownloaderConfig struct {
	YTDLPPath      string        `yaml:"ytdlpPath"`
	Format         string        `yaml:"format"`
	Timeout        time.Duration `yaml:"timeout"`
	InstagramProxy string        `yaml:"instagramProxy"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(configName)
	viper.AddConfigPath(configPath)
	viper.SetConfigType(configFormat)

	viper.SetDefault("database.path", "nextgen_bot.db")
	viper.SetDefault("server.host", "127.0.0.1")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("quota.freeLimit", 5)
	viper.SetDefault("downloader.ytdlpPath", "yt-dlp")
	viper.SetDefault("downloader.timeout", 2*time.Minute)
	viper.SetDefault("logLevel", "info")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Telegram.BotToken == "" {
		return nil, fmt.Errorf("telegram.botToken is required")
	}

	return &cfg, nil
}
