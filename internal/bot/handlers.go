package bot

import (
	"context"
	"fmt"
	"time"

	"nextgen_download_bot/internal/model"
	"nextgen_download_bot/internal/platform"
	"nextgen_download_bot/internal/service"
	"nextgen_download_bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.handleStart(ctx, msg)
	case "help":
		b.safeReply(msg.Chat.ID, b.helpText())
	case "referral":
		b.handleReferral(ctx, msg.Chat.ID, msg.From)
	case "verify":
		b.handleVerify(ctx, msg.Chat.ID, msg.From)
	case "stats":
		b.handleStats(ctx, msg.Chat.ID, msg.From)
	case "admin_stats":
		b.handleAdminStats(ctx, msg)
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	log := logger.Logger()
	from := msg.From

	user, err := b.svc.GetOrCreateUser(ctx, from.ID, from.UserName, from.FirstName)
	if err != nil {
		log.Error("failed to register user", zap.Int64("user_id", from.ID), zap.Error(err))
		b.safeReply(msg.Chat.ID, "Something went wrong, please try again.")
		return
	}

	if token := msg.CommandArguments(); token != "" {
		referrerID, err := b.svc.Register(ctx, token, from.ID)
		if err != nil {
			log.Error("failed to register referral",
				zap.Int64("user_id", from.ID),
				zap.Error(err))
		} else if referrerID != 0 {
			name := from.FirstName
			if name == "" {
				name = from.UserName
			}
			b.safeReply(referrerID, fmt.Sprintf("🎉 New referral! %s joined using your link. They need one download while following @%s to unlock your unlimited access.", name, b.cfg.ChannelUsername))
		}
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, b.welcomeText(b.svc.RemainingDownloads(user)))
	reply.ReplyMarkup = b.mainKeyboard()
	b.safeSend(reply)
}

func (b *Bot) handleReferral(ctx context.Context, chatID int64, from *tgbotapi.User) {
	log := logger.Logger()

	if _, err := b.svc.GetOrCreateUser(ctx, from.ID, from.UserName, from.FirstName); err != nil {
		log.Error("failed to register user", zap.Int64("user_id", from.ID), zap.Error(err))
		b.safeReply(chatID, "Something went wrong, please try again.")
		return
	}

	progress, err := b.svc.Progress(ctx, from.ID)
	if err != nil {
		log.Error("failed to get referral progress", zap.Int64("user_id", from.ID), zap.Error(err))
		b.safeReply(chatID, "Could not load your referral progress, please try again.")
		return
	}

	reply := tgbotapi.NewMessage(chatID, b.progressText(progress, service.ReferralLink(b.api.Self.UserName, from.ID)))
	reply.ReplyMarkup = b.referralKeyboard()
	b.safeSend(reply)
}

func (b *Bot) handleVerify(ctx context.Context, chatID int64, from *tgbotapi.User) {
	log := logger.Logger()

	// The caller may themselves be a referee whose follow state just
	// changed; retry their own verification before reporting progress.
	if granted, err := b.svc.TryVerify(ctx, from.ID); err != nil {
		log.Warn("verification attempt failed", zap.Int64("user_id", from.ID), zap.Error(err))
	} else if granted != 0 {
		b.safeReply(granted, "🎉 Congratulations! Your referral completed all requirements — you now have unlimited downloads!")
	}

	b.handleReferral(ctx, chatID, from)
}

func (b *Bot) handleStats(ctx context.Context, chatID int64, from *tgbotapi.User) {
	log := logger.Logger()

	user, err := b.svc.GetOrCreateUser(ctx, from.ID, from.UserName, from.FirstName)
	if err != nil {
		log.Error("failed to register user", zap.Int64("user_id", from.ID), zap.Error(err))
		b.safeReply(chatID, "Something went wrong, please try again.")
		return
	}

	stats, err := b.svc.UserStats(ctx, from.ID)
	if err != nil {
		log.Error("failed to get user stats", zap.Int64("user_id", from.ID), zap.Error(err))
		b.safeReply(chatID, "Could not load your statistics, please try again.")
		return
	}

	progress, err := b.svc.Progress(ctx, from.ID)
	if err != nil {
		log.Error("failed to get referral progress", zap.Int64("user_id", from.ID), zap.Error(err))
		b.safeReply(chatID, "Could not load your statistics, please try again.")
		return
	}

	reply := tgbotapi.NewMessage(chatID, b.statsText(user, stats, progress))
	reply.ReplyMarkup = unlimitedPromptKeyboard()
	b.safeSend(reply)
}

func (b *Bot) handleAdminStats(ctx context.Context, msg *tgbotapi.Message) {
	if !b.isAdmin(msg.From.ID) {
		b.safeReply(msg.Chat.ID, "❌ You don't have permission to use this command.")
		return
	}

	stats, err := b.svc.AdminStats(ctx)
	if err != nil {
		logger.Logger().Error("failed to get admin stats", zap.Error(err))
		b.safeReply(msg.Chat.ID, "Could not load statistics.")
		return
	}
	b.safeReply(msg.Chat.ID, adminStatsText(stats))
}

func (b *Bot) handleTextMessage(ctx context.Context, msg *tgbotapi.Message) {
	log := logger.Logger()
	from := msg.From

	urls := platform.ExtractURLs(msg.Text)
	if len(urls) == 0 {
		b.safeReply(msg.Chat.ID, guidanceText)
		return
	}

	rawURL := urls[0]
	p := platform.Classify(rawURL)
	if p == platform.Unrecognized {
		b.safeReply(msg.Chat.ID, guidanceText)
		return
	}

	if _, err := b.svc.GetOrCreateUser(ctx, from.ID, from.UserName, from.FirstName); err != nil {
		log.Error("failed to register user", zap.Int64("user_id", from.ID), zap.Error(err))
		b.safeReply(msg.Chat.ID, "Something went wrong, please try again.")
		return
	}

	// Quota is checked strictly before the slow collaborator call and the
	// increment happens strictly after it succeeds; no shared state is
	// held while the download is in flight.
	if err := b.svc.CheckEligibility(ctx, from.ID); err != nil {
		if errors.Is(err, service.ErrQuotaExhausted) {
			reply := tgbotapi.NewMessage(msg.Chat.ID, b.limitExceededText())
			reply.ReplyMarkup = unlimitedPromptKeyboard()
			b.safeSend(reply)
			return
		}
		log.Error("eligibility check failed", zap.Int64("user_id", from.ID), zap.Error(err))
		b.safeReply(msg.Chat.ID, "Something went wrong, please try again.")
		return
	}

	status := tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf("🔄 Processing your %s link...", p.Title()))
	sent, err := b.api.Send(status)
	if err != nil {
		log.Warn("failed to send status message", zap.Error(err))
		return
	}

	go b.runDownload(ctx, msg.Chat.ID, sent.MessageID, from.ID, p, rawURL)
}

func (b *Bot) runDownload(ctx context.Context, chatID int64, statusMsgID int, userID int64, p platform.Platform, rawURL string) {
	log := logger.Logger().With(
		zap.String("request_id", uuid.NewString()),
		zap.Int64("user_id", userID),
		zap.String("platform", string(p)),
	)

	dlCtx, cancel := context.WithTimeout(ctx, b.cfg.DownloadTimeout)
	defer cancel()

	dl := &model.Download{
		ID:        uuid.NewString(),
		UserID:    userID,
		Platform:  string(p),
		URL:       rawURL,
		CreatedAt: time.Now().UTC(),
	}

	media, err := b.chain.Fetch(dlCtx, p, rawURL)
	if err != nil {
		dl.Error = err.Error()
		if _, recErr := b.svc.RecordDownload(ctx, dl); recErr != nil {
			log.Error("failed to record failed download", zap.Error(recErr))
		}
		log.Info("download failed", zap.Error(err))
		b.safeEdit(chatID, statusMsgID, "❌ Download failed. The link may be private, removed or temporarily unavailable. Your quota was not used.", nil)
		return
	}

	dl.Success = true
	dl.Media = media
	grantedReferrer, err := b.svc.RecordDownload(ctx, dl)
	if err != nil {
		log.Error("failed to record download", zap.Error(err))
		b.safeEdit(chatID, statusMsgID, "Something went wrong, please try again.", nil)
		return
	}
	if grantedReferrer != 0 {
		b.safeReply(grantedReferrer, "🎉 Congratulations! Your referral completed all requirements — you now have unlimited downloads!")
	}

	user, err := b.svc.GetUser(ctx, userID)
	if err != nil {
		log.Error("failed to reload user", zap.Error(err))
		b.safeEdit(chatID, statusMsgID, successText(media, p.Title(), -1), nil)
		return
	}

	remaining := b.svc.RemainingDownloads(user)
	var markup *tgbotapi.InlineKeyboardMarkup
	if remaining >= 0 && remaining <= 2 {
		kb := unlimitedPromptKeyboard()
		markup = &kb
	}
	b.safeEdit(chatID, statusMsgID, successText(media, p.Title(), remaining), markup)
	log.Info("download delivered", zap.String("source", media.Source))
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		logger.Logger().Warn("failed to answer callback", zap.Error(err))
	}
	if cq.Message == nil {
		return
	}

	chatID := cq.Message.Chat.ID
	switch cq.Data {
	case "help":
		b.safeReply(chatID, b.helpText())
	case "referral":
		b.handleReferral(ctx, chatID, cq.From)
	case "verify":
		b.handleVerify(ctx, chatID, cq.From)
	case "stats":
		b.handleStats(ctx, chatID, cq.From)
	}
}
