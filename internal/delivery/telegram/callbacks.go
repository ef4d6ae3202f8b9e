package telegram

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/emrekrt/pandabot/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const pendingTTL = 60 * time.Second

// pendingCreate is a watchlist creation waiting for its type to be
// picked on the inline keyboard.
type pendingCreate struct {
	name    string
	symbols []string
	userID  uint
	expires time.Time
}

type pendingCreates struct {
	mu      sync.Mutex
	entries map[int64]pendingCreate
}

func newPendingCreates() *pendingCreates {
	return &pendingCreates{entries: make(map[int64]pendingCreate)}
}

func (p *pendingCreates) put(telegramUserID int64, pending pendingCreate) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pending.expires = time.Now().Add(pendingTTL)
	p.entries[telegramUserID] = pending
}

func (p *pendingCreates) take(telegramUserID int64) (pendingCreate, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pending, ok := p.entries[telegramUserID]
	if !ok {
		return pendingCreate{}, false
	}
	delete(p.entries, telegramUserID)
	if time.Now().After(pending.expires) {
		return pendingCreate{}, false
	}
	return pending, true
}

func (h *Handlers) askListType(api *tgbotapi.BotAPI, chatID int64, name string) {
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("%s listesinin türü ne olsun?", name))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🪙 Kripto", "wltype:crypto"),
			tgbotapi.NewInlineKeyboardButtonData("📈 Hisse", "wltype:stock"),
		),
	)
	if _, err := api.Send(msg); err != nil {
		h.logger.Warn("failed to send type keyboard", zap.Error(err))
	}
}

func (h *Handlers) replyWithNoteButtons(api *tgbotapi.BotAPI, chatID int64, note *domain.Note) {
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("📝 Not #%d\n%s", note.ShortID, note.Content))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Düzenle", fmt.Sprintf("note:edit:%d", note.ShortID)),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Sil", fmt.Sprintf("note:del:%d", note.ShortID)),
		),
	)
	if _, err := api.Send(msg); err != nil {
		h.logger.Warn("failed to send note", zap.Error(err))
	}
}

func (h *Handlers) handleCallback(ctx context.Context, api *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery) {
	if query.From == nil || query.Message == nil {
		return
	}
	chatID := query.Message.Chat.ID
	data := query.Data

	// Always answer so the client stops its spinner.
	defer func() {
		if _, err := api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
			h.logger.Warn("failed to answer callback", zap.Error(err))
		}
	}()

	h.logger.Info(
		"telegram callback received",
		zap.Int64("telegram_user_id", query.From.ID),
		zap.String("data", data),
	)

	switch {
	case strings.HasPrefix(data, "wltype:"):
		h.handleListTypeCallback(ctx, api, chatID, query.From.ID, strings.TrimPrefix(data, "wltype:"))
	case strings.HasPrefix(data, "note:del:"):
		h.handleNoteDeleteCallback(ctx, api, chatID, query.From.ID, strings.TrimPrefix(data, "note:del:"))
	case strings.HasPrefix(data, "note:edit:"):
		shortID := strings.TrimPrefix(data, "note:edit:")
		h.reply(api, chatID, fmt.Sprintf("Düzenlemek için: /note edit %s YENİ METİN", shortID))
	}
}

func (h *Handlers) handleListTypeCallback(ctx context.Context, api *tgbotapi.BotAPI, chatID, telegramUserID int64, typeToken string) {
	pending, ok := h.pending.take(telegramUserID)
	if !ok {
		h.reply(api, chatID, "Bu seçim zaman aşımına uğradı. /watchlist create ile tekrar dene.")
		return
	}
	listType, ok := parseListType(typeToken)
	if !ok {
		return
	}
	list, err := h.watchlistUC.Create(ctx, pending.userID, pending.name, listType, pending.symbols)
	if err != nil {
		h.replyError(api, chatID, err)
		return
	}
	h.reply(api, chatID, fmt.Sprintf("✅ %s listesi oluşturuldu (%s, %d sembol).",
		list.ListName, list.Type, len(list.Tickers)))
}

func (h *Handlers) handleNoteDeleteCallback(ctx context.Context, api *tgbotapi.BotAPI, chatID, telegramUserID int64, idToken string) {
	shortID, err := ParseShortID(idToken)
	if err != nil {
		return
	}
	user, err := h.userUC.Get(ctx, telegramUserID)
	if err != nil {
		h.replyError(api, chatID, err)
		return
	}
	if err := h.noteUC.Delete(ctx, user.ID, shortID); err != nil {
		h.replyError(api, chatID, err)
		return
	}
	h.reply(api, chatID, fmt.Sprintf("🗑 Not #%d silindi.", shortID))
}
