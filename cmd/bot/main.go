package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"nextgen_download_bot/internal/api"
	"nextgen_download_bot/internal/bot"
	"nextgen_download_bot/internal/downloader"
	"nextgen_download_bot/internal/repository"
	"nextgen_download_bot/internal/service"
	"nextgen_download_bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	repo, err := repository.New(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	tgAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		zapLogger.Fatal("Failed to initialize telegram api", zap.Error(err))
	}

	membership := bot.NewMembershipClient(tgAPI, cfg.Telegram.ChannelID)
	userService := service.NewUserService(repo)
	referralService := service.NewReferralService(repo, repo, membership)
	quotaService := service.NewQuotaService(repo, repo, referralService, cfg.Quota.FreeLimit)
	statsService := service.NewStatsService(repo)
	svc := service.NewService(userService, quotaService, referralService, statsService)

	instagram, err := downloader.NewInstagram(cfg.Downloader.InstagramProxy)
	if err != nil {
		zapLogger.Fatal("Failed to initialize instagram downloader", zap.Error(err))
	}
	ytdlp := downloader.NewYTDLP(cfg.Downloader.YTDLPPath, cfg.Downloader.Format)
	chain := downloader.NewChain(instagram, ytdlp)

	b := bot.New(tgAPI, svc, chain, bot.Config{
		ChannelID:       cfg.Telegram.ChannelID,
		ChannelUsername: cfg.Telegram.ChannelUsername,
		Admins:          cfg.Telegram.Admins,
		DownloadTimeout: cfg.Downloader.Timeout,
	})

	router := gin.New()
	router.Use(gin.Recovery())
	api.NewHealthRoute(router)
	a := router.Group("/api/v1")
	api.NewStatsRoutes(a, statsService, cfg.Server.AdminToken)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	go func() {
		zapLogger.Info("Starting ops server", zap.String("addr", addr))
		if err := router.Run(addr); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start ops server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b.Start(ctx)
}
