package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"

	"github.com/Freeeeeet/jadwal_sync/internal/model"
)

// maxListedFailures keeps summaries well under Telegram's message size limit.
const maxListedFailures = 10

// TelegramNotifier posts a short report of every sync run to one chat.
type TelegramNotifier struct {
	bot    *bot.Bot
	chatID int64
	logger *zap.Logger
}

func NewTelegramNotifier(token string, chatID int64, logger *zap.Logger, opts ...bot.Option) (*TelegramNotifier, error) {
	opts = append([]bot.Option{bot.WithSkipGetMe()}, opts...)

	b, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &TelegramNotifier{
		bot:    b,
		chatID: chatID,
		logger: logger,
	}, nil
}

func (n *TelegramNotifier) NotifySync(ctx context.Context, identity string, result *model.SyncResult) error {
	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: n.chatID,
		Text:   FormatSummary(identity, result),
	})
	if err != nil {
		return fmt.Errorf("send sync summary: %w", err)
	}

	n.logger.Debug("Sync summary sent", zap.Int64("chat_id", n.chatID), zap.String("run_id", result.RunID))
	return nil
}

// FormatSummary renders a plain-text report. The identity is masked to its last four characters.
func FormatSummary(identity string, result *model.SyncResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📅 Sinkronisasi jadwal %s\n", maskIdentity(identity))
	fmt.Fprintf(&b, "✅ Sukses: %d\n", len(result.Succeeded))
	fmt.Fprintf(&b, "❌ Gagal: %d\n", len(result.Failed))

	for i, f := range result.Failed {
		if i == maxListedFailures {
			fmt.Fprintf(&b, "… dan %d lainnya\n", len(result.Failed)-maxListedFailures)
			break
		}
		fmt.Fprintf(&b, "• %s: %s\n", f.CourseName, f.ErrorMessage)
	}

	if result.RunID != "" {
		fmt.Fprintf(&b, "run %s", result.RunID)
	}

	return strings.TrimRight(b.String(), "\n")
}

func maskIdentity(identity string) string {
	r := []rune(identity)
	if len(r) <= 4 {
		return strings.Repeat("*", len(r))
	}
	return strings.Repeat("*", len(r)-4) + string(r[len(r)-4:])
}
