// Package bot is the Telegram-facing surface: long-polling update loop,
// command and callback handlers, and the live channel-membership check.
package bot

import (
	"context"
	"time"

	"nextgen_download_bot/internal/downloader"
	"nextgen_download_bot/internal/service"
	"nextgen_download_bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Config struct {
	ChannelID       int64
	ChannelUsername string
	Admins          []int64
	DownloadTimeout time.Duration
}

type Bot struct {
	api    *tgbotapi.BotAPI
	svc    *service.Service
	chain  *downloader.Chain
	cfg    Config
	admins map[int64]struct{}
}

// New wires the bot over an already authorized API client. The admin
// allow-list comes from configuration and is fixed for the process lifetime.
func New(api *tgbotapi.BotAPI, svc *service.Service, chain *downloader.Chain, cfg Config) *Bot {
	if cfg.DownloadTimeout <= 0 {
		cfg.DownloadTimeout = 2 * time.Minute
	}
	admins := make(map[int64]struct{}, len(cfg.Admins))
	for _, id := range cfg.Admins {
		admins[id] = struct{}{}
	}
	return &Bot{
		api:    api,
		svc:    svc,
		chain:  chain,
		cfg:    cfg,
		admins: admins,
	}
}

func (b *Bot) isAdmin(userID int64) bool {
	_, ok := b.admins[userID]
	return ok
}

// Start consumes updates until ctx is cancelled. Downloads run in their own
// goroutines so one slow extraction does not stall other chats.
func (b *Bot) Start(ctx context.Context) {
	log := logger.Logger()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	log.Info("bot started",
		zap.String("username", b.api.Self.UserName),
		zap.String("channel", b.cfg.ChannelUsername))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			log.Info("bot stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}
	if update.Message == nil {
		return
	}

	msg := update.Message
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	b.handleTextMessage(ctx, msg)
}

// MembershipClient answers service-layer membership lookups with a live
// GetChatMember call; results are never served from a cache here.
type MembershipClient struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewMembershipClient(api *tgbotapi.BotAPI, chatID int64) *MembershipClient {
	return &MembershipClient{api: api, chatID: chatID}
}

func (c *MembershipClient) IsMember(_ context.Context, userID int64) (bool, error) {
	member, err := c.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: c.chatID,
			UserID: userID,
		},
	})
	if err != nil {
		return false, err
	}
	switch member.Status {
	case "member", "administrator", "creator":
		return true, nil
	default:
		return false, nil
	}
}
