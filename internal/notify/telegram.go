package notify

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// Min interval between two messages to the same chat; Telegram answers 429 above ~30/min.
const DefaultSendInterval = 2 * time.Second

// MessageSender is the part of tgbotapi.BotAPI used for delivery
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier sends recommendations to a Telegram chat
type TelegramNotifier struct {
	sender  MessageSender
	chatID  int64
	limiter *rate.Limiter
	logger  logrus.FieldLogger
}

// NewTelegramNotifier connects to the Bot API with token and verifies the bot
func NewTelegramNotifier(token string, chatID int64, logger logrus.FieldLogger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	bot.Debug = false

	logger.WithFields(logrus.Fields{
		"bot":     bot.Self.UserName,
		"chat_id": chatID,
	}).Info("Telegram notifier initialized")

	return NewTelegramNotifierWithSender(bot, chatID, DefaultSendInterval, logger), nil
}

// NewTelegramNotifierWithSender builds a notifier around any sender
func NewTelegramNotifierWithSender(sender MessageSender, chatID int64, interval time.Duration, logger logrus.FieldLogger) *TelegramNotifier {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}
	return &TelegramNotifier{
		sender:  sender,
		chatID:  chatID,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger.WithField("component", "telegram"),
	}
}

// Channel returns the channel name
func (n *TelegramNotifier) Channel() string { return "telegram" }

// Notify formats rec and sends it, waiting for the send interval if needed
func (n *TelegramNotifier) Notify(ctx context.Context, rec *models.Recommendation) error {
	if rec == nil {
		return nil
	}
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram send cancelled: %w", err)
	}

	msg := tgbotapi.NewMessage(n.chatID, FormatRecommendation(rec))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true

	start := time.Now()
	if _, err := n.sender.Send(msg); err != nil {
		n.logger.WithError(err).WithField("matchup", rec.Matchup).Error("Telegram send failed")
		return fmt.Errorf("telegram send failed: %w", err)
	}

	n.logger.WithFields(logrus.Fields{
		"matchup":       rec.Matchup,
		"send_duration": time.Since(start),
	}).Debug("Telegram send succeeded")
	return nil
}

// FormatRecommendation renders rec as a MarkdownV2 message
func FormatRecommendation(rec *models.Recommendation) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🏈 *%s*\n", escape(rec.Matchup))
	if !rec.CommenceTime.IsZero() {
		fmt.Fprintf(&b, "🕐 Kick\\-off: %s\n", escape(rec.CommenceTime.UTC().Format("2006-01-02 15:04 UTC")))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "📌 %s \\| *%s*\n", escape(string(rec.BetType)), escape(rec.Selection))
	if rec.AmericanOdds != nil {
		fmt.Fprintf(&b, "💵 Price: %s\n", escape(fmt.Sprintf("%+d", *rec.AmericanOdds)))
	}
	fmt.Fprintf(&b, "📈 Edge: *%s%%*\n", escape(rec.EdgePercent().StringFixed(2)))
	fmt.Fprintf(&b, "🎯 Model probability: %s\n", escape(fmt.Sprintf("%.3f", rec.ModelProbability)))
	if rec.ModelTotal != nil && rec.MarketTotal != nil {
		fmt.Fprintf(&b, "🔢 Model total %s vs line %s\n",
			escape(fmt.Sprintf("%.1f", *rec.ModelTotal)), escape(fmt.Sprintf("%.1f", *rec.MarketTotal)))
	}
	fmt.Fprintf(&b, "💰 Stake: *%s* \\(Kelly %s\\)\n",
		escape(rec.StakeAmount().StringFixed(2)), escape(fmt.Sprintf("%.4f", rec.KellyFraction)))
	return b.String()
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}
