package bot

import (
	"fmt"
	"strings"

	"nextgen_download_bot/internal/model"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const guidanceText = `No supported link found.

Send a video or media link from:
• TikTok
• YouTube
• Instagram
• Twitter/X
• Facebook`

func (b *Bot) welcomeText(remaining int) string {
	left := "Unlimited"
	if remaining >= 0 {
		left = fmt.Sprintf("%d", remaining)
	}
	return fmt.Sprintf(`🎉 Welcome to NextGen Download Bot!

Send me a link from TikTok, YouTube, Instagram, Twitter/X or Facebook and I'll fetch the media for you.

💡 Free downloads remaining: %s

Get unlimited downloads: invite a friend with /referral and follow @%s.`, left, b.cfg.ChannelUsername)
}

func (b *Bot) helpText() string {
	return fmt.Sprintf(`🤖 NextGen Download Bot

How to use:
1. Send any video/media link from a supported platform
2. I'll reply with the download

Supported platforms: TikTok, YouTube, Instagram, Twitter/X, Facebook.

Commands:
/start - Start the bot
/help - This message
/referral - Get unlimited downloads
/verify - Check referral progress
/stats - Your download statistics

Free users get %d downloads. For unlimited access, invite a friend who downloads something while following @%s.`,
		b.svc.FreeLimit(), b.cfg.ChannelUsername)
}

func (b *Bot) limitExceededText() string {
	return fmt.Sprintf(`❌ You've reached your free download limit.

🎁 Get UNLIMITED downloads:
1. Share your referral link (/referral) with a friend
2. They download something while following @%s

Once that happens, your account is unlimited forever.`, b.cfg.ChannelUsername)
}

func (b *Bot) progressText(progress *model.ReferralProgress, link string) string {
	if progress.Unlimited {
		return "🎉 You already have unlimited downloads!"
	}

	follow := "❌"
	if progress.ChannelJoined {
		follow = "✅"
	}
	return fmt.Sprintf(`🎯 Unlock Unlimited Downloads

📊 Current status:
• Verified referrals: %d
• Channel follow: %s

🔗 Your referral link:
%s

1. Share the link with a friend
2. They download something with the bot while following @%s
3. Use /verify to check progress`,
		progress.VerifiedReferrals, follow, link, b.cfg.ChannelUsername)
}

func (b *Bot) statsText(user *model.User, stats *model.UserStats, progress *model.ReferralProgress) string {
	available := "♾ Unlimited"
	if remaining := b.svc.RemainingDownloads(user); remaining >= 0 {
		available = fmt.Sprintf("%d/%d remaining", remaining, b.svc.FreeLimit())
	}
	follow := "❌"
	if progress.ChannelJoined {
		follow = "✅"
	}
	return fmt.Sprintf(`📊 Your Statistics

📥 Downloads:
• Available: %s
• Total attempts: %d
• Successful: %d
• Platforms used: %d

🎁 Referrals:
• Verified referrals: %d
• Channel follow: %s`,
		available,
		stats.TotalDownloads, stats.SuccessfulDownloads, stats.PlatformsUsed,
		progress.VerifiedReferrals, follow)
}

func adminStatsText(stats *model.AdminStats) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `📊 Bot Statistics

👥 Users: %d total, %d unlimited
📥 Downloads: %d total, %d successful
🎁 Verified referrals: %d
`,
		stats.TotalUsers, stats.UnlimitedUsers,
		stats.TotalDownloads, stats.SuccessfulDownloads,
		stats.VerifiedReferrals)
	if len(stats.TopPlatforms) > 0 {
		sb.WriteString("\n📱 Top platforms:\n")
		for _, p := range stats.TopPlatforms {
			fmt.Fprintf(&sb, "• %s: %d\n", p.Platform, p.Count)
		}
	}
	return sb.String()
}

func successText(media *model.Media, platformTitle string, remaining int) string {
	left := "Unlimited"
	if remaining >= 0 {
		left = fmt.Sprintf("%d", remaining)
	}
	return fmt.Sprintf(`✅ Download complete!

📱 Platform: %s
🎬 Title: %s
👤 Uploader: %s
⏱ Duration: %s
📥 Downloads left: %s

🔗 %s`,
		platformTitle,
		truncate(media.Title, 100),
		orUnknown(media.Uploader),
		formatDuration(media.Duration),
		left,
		media.URL)
}

func formatDuration(seconds int) string {
	if seconds <= 0 {
		return "unknown"
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

func truncate(s string, max int) string {
	if s == "" {
		return "Downloaded media"
	}
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func (b *Bot) mainKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 How to Use", "help"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎁 Get Unlimited Access", "referral"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 My Stats", "stats"),
		),
	)
}

func (b *Bot) referralKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Check Progress", "verify"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("📢 Follow Channel", "https://t.me/"+b.cfg.ChannelUsername),
		),
	)
}

func unlimitedPromptKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎁 Get Unlimited", "referral"),
		),
	)
}
