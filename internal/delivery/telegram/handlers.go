package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/emrekrt/pandabot/internal/domain"
	"github.com/emrekrt/pandabot/internal/infra/metrics"
	"github.com/emrekrt/pandabot/internal/usecase"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Canned watchlists creatable by name alone.
var cannedLists = map[string]struct {
	listType domain.WatchlistType
	symbols  []string
}{
	"crypto-all": {domain.WatchlistTypeCrypto, []string{
		"BTC", "ETH", "BNB", "SOL", "XRP", "ADA", "DOGE", "AVAX", "DOT", "TRX", "LINK",
	}},
	"bist-all": {domain.WatchlistTypeStock, []string{
		"THYAO", "ASELS", "GARAN", "AKBNK", "EREGL", "KCHOL", "SISE", "TUPRS", "BIMAS", "SAHOL",
	}},
}

type Handlers struct {
	userUC      *usecase.UserUsecase
	priceUC     *usecase.PriceUsecase
	alertUC     *usecase.AlertUsecase
	reminderUC  *usecase.ReminderUsecase
	noteUC      *usecase.NoteUsecase
	watchlistUC *usecase.WatchlistUsecase
	portfolioUC *usecase.PortfolioUsecase
	aiUC        *usecase.AIUsecase
	adminUC     *usecase.AdminUsecase
	limiter     *RateLimiter
	pending     *pendingCreates
	logger      *zap.Logger
}

func NewHandlers(
	userUC *usecase.UserUsecase,
	priceUC *usecase.PriceUsecase,
	alertUC *usecase.AlertUsecase,
	reminderUC *usecase.ReminderUsecase,
	noteUC *usecase.NoteUsecase,
	watchlistUC *usecase.WatchlistUsecase,
	portfolioUC *usecase.PortfolioUsecase,
	aiUC *usecase.AIUsecase,
	adminUC *usecase.AdminUsecase,
	limiter *RateLimiter,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		userUC:      userUC,
		priceUC:     priceUC,
		alertUC:     alertUC,
		reminderUC:  reminderUC,
		noteUC:      noteUC,
		watchlistUC: watchlistUC,
		portfolioUC: portfolioUC,
		aiUC:        aiUC,
		adminUC:     adminUC,
		limiter:     limiter,
		pending:     newPendingCreates(),
		logger:      logger,
	}
}

func (h *Handlers) HandleUpdate(ctx context.Context, api *tgbotapi.BotAPI, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("update handler panicked", zap.Any("panic", r))
		}
	}()

	if update.CallbackQuery != nil {
		h.handleCallback(ctx, api, update.CallbackQuery)
		return
	}
	if update.Message == nil || update.Message.From == nil {
		return
	}

	from := update.Message.From
	chatID := update.Message.Chat.ID

	if !h.limiter.Allow(ctx, from.ID) {
		h.logger.Warn("rate limited", zap.Int64("telegram_user_id", from.ID))
		h.reply(api, chatID, "⏳ Çok hızlısın. Bir dakika sonra tekrar dene.")
		return
	}

	user := &domain.User{
		TelegramUserID: from.ID,
		Username:       from.UserName,
		FirstName:      from.FirstName,
		LastName:       from.LastName,
		LanguageCode:   from.LanguageCode,
	}
	created, err := h.userUC.Register(ctx, user)
	if err != nil {
		h.logger.Error("user registration failed", zap.Int64("telegram_user_id", from.ID), zap.Error(err))
		h.reply(api, chatID, "Bir şeyler ters gitti. Tekrar dene.")
		return
	}
	if created {
		h.adminUC.NotifyNewUser(ctx, user)
	}

	if update.Message.IsCommand() {
		h.handleCommand(ctx, api, update, user)
		return
	}
	h.handleText(ctx, api, update, user)
}

// handleText resolves a bare message that names one of the user's
// watchlists into that list's prices. Everything else is ignored.
func (h *Handlers) handleText(ctx context.Context, api *tgbotapi.BotAPI, update tgbotapi.Update, user *domain.User) {
	name, err := ParseListName(update.Message.Text)
	if err != nil {
		return
	}
	prices, err := h.watchlistUC.ShowPrices(ctx, user.ID, name)
	if err != nil {
		return
	}
	h.reply(api, update.Message.Chat.ID, formatWatchlistPrices(prices))
}

func (h *Handlers) handleCommand(ctx context.Context, api *tgbotapi.BotAPI, update tgbotapi.Update, user *domain.User) {
	command := update.Message.Command()
	args := update.Message.CommandArguments()
	chatID := update.Message.Chat.ID

	metrics.CommandsTotal.WithLabelValues(command).Inc()
	h.logger.Info(
		"telegram command received",
		zap.Int64("telegram_user_id", user.TelegramUserID),
		zap.String("command", command),
		zap.String("args", args),
	)

	switch command {
	case "start":
		h.reply(api, chatID, "🐼 PandaBot'a hoş geldin!\n\n"+HelpText)
	case "help":
		text := HelpText
		if h.adminUC.IsAdmin(user.TelegramUserID) {
			text += "\n" + AdminHelpText
		}
		h.reply(api, chatID, text)
	case "price":
		h.handlePrice(ctx, api, chatID, args)
	case "stock":
		h.handleStock(ctx, api, chatID, args)
	case "dolar":
		rate, err := h.priceUC.USDTRY(ctx)
		if err != nil {
			h.replyError(api, chatID, err)
			return
		}
		h.reply(api, chatID, fmt.Sprintf("💵 1 USD = %s TRY", rate.StringFixed(2)))
	case "top":
		h.handleTop(ctx, api, chatID, args)
	case "watchlist":
		h.handleWatchlist(ctx, api, chatID, args, user)
	case "watchlists":
		lists, err := h.watchlistUC.ListByUser(ctx, user.ID)
		if err != nil {
			h.replyError(api, chatID, err)
			return
		}
		if len(lists) == 0 {
			h.reply(api, chatID, "Henüz listen yok. /watchlist create ile oluştur.")
			return
		}
		h.reply(api, chatID, formatWatchlists(lists))
	case "portfolio":
		h.handlePortfolio(ctx, api, chatID, args, user)
	case "portfolios":
		portfolios, err := h.portfolioUC.ListByUser(ctx, user.ID)
		if err != nil {
			h.replyError(api, chatID, err)
			return
		}
		if len(portfolios) == 0 {
			h.reply(api, chatID, "Henüz portföyün yok. /portfolio add ile başla.")
			return
		}
		h.reply(api, chatID, formatPortfolios(portfolios))
	case "note":
		h.handleNote(ctx, api, chatID, args, user)
	case "remind":
		h.handleRemind(ctx, api, chatID, args, user)
	case "reminders":
		reminders, err := h.reminderUC.List(ctx, user.ID, 20)
		if err != nil {
			h.replyError(api, chatID, err)
			return
		}
		if len(reminders) == 0 {
			h.reply(api, chatID, "Aktif hatırlatman yok.")
			return
		}
		h.reply(api, chatID, formatReminders(reminders))
	case "alert":
		h.handleAlert(ctx, api, chatID, args, user)
	case "alerts":
		alerts, live, err := h.alertUC.List(ctx, user.ID, 20)
		if err != nil {
			h.replyError(api, chatID, err)
			return
		}
		if len(alerts) == 0 {
			h.reply(api, chatID, "Aktif alarmın yok. /alert SYMBOL ±YÜZDE ile oluştur.")
			return
		}
		h.reply(api, chatID, formatAlerts(alerts, live))
	case "ai":
		h.handleAI(ctx, api, chatID, args)
	case "stats", "users", "apikeys", "broadcast":
		if !h.adminUC.IsAdmin(user.TelegramUserID) {
			h.reply(api, chatID, "Bilinmeyen komut.\n\n"+HelpText)
			return
		}
		h.handleAdmin(ctx, api, chatID, command, args)
	default:
		h.logger.Warn("unknown command", zap.Int64("telegram_user_id", user.TelegramUserID), zap.String("command", command))
		h.reply(api, chatID, "Bilinmeyen komut.\n\n"+HelpText)
	}
}

func (h *Handlers) handlePrice(ctx context.Context, api *tgbotapi.BotAPI, chatID int64, args string) {
	symbol, err := ParseSymbol(args)
	if err != nil {
		h.reply(api, chatID, "Kullanım: /price SYMBOL (örn. /price BTC)")
		return
	}
	info, err := h.priceUC.CryptoPrice(ctx, symbol)
	if err != nil {
		h.replyError(api, chatID, err)
		return
	}
	h.reply(api, chatID, formatPrice(info))
}

func (h *Handlers) handleStock(ctx context.Context, api *tgbotapi.BotAPI, chatID int64, args string) {
	symbols, err := ParseSymbols(args)
	if err != nil {
		h.reply(api, chatID, "Kullanım: /stock SYMBOL... (örn. /stock TSLA THYAO)")
		return
	}
	quotes, failed := h.priceUC.StockPrices(ctx, symbols)
	if len(quotes) == 0 {
		h.reply(api, chatID, "Hiçbir sembol bulunamadı: "+strings.Join(failed, ", "))
		return
	}
	var b strings.Builder
	for _, quote := range quotes {
		b.WriteString(formatStock(quote) + "\n")
	}
	if len(failed) > 0 {
		b.WriteString("Bulunamadı: " + strings.Join(failed, ", "))
	}
	h.reply(api, chatID, strings.TrimRight(b.String(), "\n"))
}

func (h *Handlers) handleTop(ctx context.Context, api *tgbotapi.BotAPI, chatID int64, args string) {
	limit := 10
	if trimmed := strings.TrimSpace(args); trimmed != "" {
		n, err := strconv.Atoi(trimmed)
		if err != nil || n < 1 || n > 50 {
			h.reply(api, chatID, "Kullanım: /top [1-50]")
			return
		}
		limit = n
	}
	quotes, err := h.priceUC.TopCryptos(ctx, limit)
	if err != nil {
		h.replyError(api, chatID, err)
		return
	}
	h.reply(api, chatID, formatTop(quotes))
}

func (h *Handlers) handleWatchlist(ctx context.Context, api *tgbotapi.BotAPI, chatID int64, args string, user *domain.User) {
	const usage = "Kullanım: /watchlist create|add|remove|delete NAME [SYM...]"
	fields := strings.Fields(args)
	if len(fields) < 2 {
		h.reply(api, chatID, usage)
		return
	}
	action := strings.ToLower(fields[0])
	name, err := ParseListName(fields[1])
	if err != nil {
		h.reply(api, chatID, usage)
		return
	}
	rest := fields[2:]

	switch action {
	case "create":
		h.handleWatchlistCreate(ctx, api, chatID, name, rest, user)
	case "add":
		symbols, err := ParseSymbols(strings.Join(rest, " "))
		if err != nil {
			h.reply(api, chatID, "Kullanım: /watchlist add NAME SYM...")
			return
		}
		added, err := h.watchlistUC.AddTickers(ctx, user.ID, name, symbols)
		if err != nil {
			h.replyError(api, chatID, err)
			return
		}
		h.reply(api, chatID, fmt.Sprintf("✅ %s listesine %d sembol eklendi.", name, len(added)))
	case "remove":
		if len(rest) != 1 {
			h.reply(api, chatID, "Kullanım: /watchlist remove NAME SYM")
			return
		}
		symbol, err := ParseSymbol(rest[0])
		if err != nil {
			h.reply(api, chatID, "Kullanım: /watchlist remove NAME SYM")
			return
		}
		if err := h.watchlistUC.RemoveTicker(ctx, user.ID, name, symbol); err != nil {
			h.replyError(api, chatID, err)
			return
		}
		h.reply(api, chatID, fmt.Sprintf("✅ %s, %s listesinden çıkarıldı.", symbol, name))
	case "delete":
		if err := h.watchlistUC.Delete(ctx, user.ID, name); err != nil {
			h.replyError(api, chatID, err)
			return
		}
		h.reply(api, chatID, fmt.Sprintf("🗑 %s listesi silindi.", name))
	case "show":
		prices, err := h.watchlistUC.ShowPrices(ctx, user.ID, name)
		if err != nil {
			h.replyError(api, chatID, err)
			return
		}
		h.reply(api, chatID, formatWatchlistPrices(prices))
	default:
		h.reply(api, chatID, usage)
	}
}

func (h *Handlers) handleWatchlistCreate(ctx context.Context, api *tgbotapi.BotAPI, chatID int64, name string, rest []string, user *domain.User) {
	if canned, ok := cannedLists[name]; ok {
		list, err := h.watchlistUC.Create(ctx, user.ID, name, canned.listType, canned.symbols)
		if err != nil {
			h.replyError(api, chatID, err)
			return
		}
		h.reply(api, chatID, fmt.Sprintf("✅ %s listesi hazır (%d sembol).", list.ListName, len(list.Tickers)))
		return
	}

	// An explicit type skips the keyboard round trip.
	if len(rest) > 0 {
		if listType, ok := parseListType(rest[0]); ok {
			symbols, err := ParseSymbols(strings.Join(rest[1:], " "))
			if err != nil {
				h.reply(api, chatID, "Kullanım: /watchlist create NAME [crypto|stock] SYM...")
				return
			}
			list, err := h.watchlistUC.Create(ctx, user.ID, name, listType, symbols)
			if err != nil {
				h.replyError(api, chatID, err)
				return
			}
			h.reply(api, chatID, fmt.Sprintf("✅ %s listesi oluşturuldu (%d sembol).", list.ListName, len(list.Tickers)))
			return
		}
	}

	symbols, err := ParseSymbols(strings.Join(rest, " "))
	if err != nil {
		h.reply(api, chatID, "Kullanım: /watchlist create NAME [crypto|stock] SYM...")
		return
	}
	h.pending.put(user.TelegramUserID, pendingCreate{name: name, symbols: symbols, userID: user.ID})
	h.askListType(api, chatID, name)
}

func parseListType(token string) (domain.WatchlistType, bool) {
	switch strings.ToLower(token) {
	case "crypto", "kripto":
		return domain.WatchlistTypeCrypto, true
	case "stock", "hisse":
		return domain.WatchlistTypeStock, true
	default:
		return "", false
	}
}

func (h *Handlers) handlePortfolio(ctx context.Context, api *tgbotapi.BotAPI, chatID int64, args string, user *domain.User) {
	const usage = "Kullanım: /portfolio show NAME | add NAME SYM AMOUNT [PRICE] | remove NAME SYM AMOUNT | delete NAME"
	fields := strings.Fields(args)
	if len(fields) < 2 {
		h.reply(api, chatID, usage)
		return
	}
	action := strings.ToLower(fields[0])
	name, err := ParseListName(fields[1])
	if err != nil {
		h.reply(api, chatID, usage)
		return
	}
	rest := fields[2:]

	switch action {
	case "show":
		valuation, err := h.portfolioUC.Value(ctx, user.ID, name)
		if err != nil {
			h.replyError(api, chatID, err)
			return
		}
		h.reply(api, chatID, formatValuation(valuation))
	case "add":
		if len(rest) < 2 || len(rest) > 3 {
			h.reply(api, chatID, usage)
			return
		}
		symbol, err := ParseSymbol(rest[0])
		if err != nil {
			h.reply(api, chatID, usage)
			return
		}
		amount, err := ParseAmount(rest[1])
		if err != nil {
			h.reply(api, chatID, usage)
			return
		}
		price := decimal.Zero
		if len(rest) == 3 {
			if price, err = ParseAmount(rest[2]); err != nil {
				h.reply(api, chatID, usage)
				return
			}
		}
		if err := h.portfolioUC.Add(ctx, user.ID, name, symbol, amount, price); err != nil {
			h.replyError(api, chatID, err)
			return
		}
		h.reply(api, chatID, fmt.Sprintf("✅ %s portföyüne %s %s eklendi.", name, amount.String(), symbol))
	case "remove":
		if len(rest) != 2 {
			h.reply(api, chatID, usage)
			return
		}
		symbol, err := ParseSymbol(rest[0])
		if err != nil {
			h.reply(api, chatID, usage)
			return
		}
		amount, err := ParseAmount(rest[1])
		if err != nil {
			h.reply(api, chatID, usage)
			return
		}
		if err := h.portfolioUC.Reduce(ctx, user.ID, name, symbol, amount); err != nil {
			h.replyError(api, chatID, err)
			return
		}
		h.reply(api, chatID, fmt.Sprintf("✅ %s portföyünden %s %s çıkarıldı.", name, amount.String(), symbol))
	case "delete":
		if err := h.portfolioUC.Delete(ctx, user.ID, name); err != nil {
			h.replyError(api, chatID, err)
			return
		}
		h.reply(api, chatID, fmt.Sprintf("🗑 %s portföyü silindi.", name))
	default:
		h.reply(api, chatID, usage)
	}
}

func (h *Handlers) handleNote(ctx context.Context, api *tgbotapi.BotAPI, chatID int64, args string, user *domain.User) {
	const usage = "Kullanım: /note add TEXT | list | search TERM | view N | edit N TEXT | delete N"
	action, rest, _ := strings.Cut(strings.TrimSpace(args), " ")

	switch strings.ToLower(action) {
	case "add":
		note, err := h.noteUC.Create(ctx, user.ID, rest)
		if err != nil {
			h.replyError(api, chatID, err)
			return
		}
		h.reply(api, chatID, fmt.Sprintf("📝 Not #%d kaydedildi.", note.ShortID))
	case "list", "":
		notes, err := h.noteUC.List(ctx, user.ID, 20)
		if err != nil {
			h.replyError(api, chatID, err)
			return
		}
		if len(notes) == 0 {
			h.reply(api, chatID, "Henüz notun yok. /note add ile ekle.")
			return
		}
		h.reply(api, chatID, formatNotes(notes))
	case "search":
		if strings.TrimSpace(rest) == "" {
			h.reply(api, chatID, usage)
			return
		}
		notes, err := h.noteUC.Search(ctx, user.ID, rest, 20)
		if err != nil {
			h.replyError(api, chatID, err)
			return
		}
		if len(notes) == 0 {
			h.reply(api, chatID, "Eşleşen not yok.")
			return
		}
		h.reply(api, chatID, formatNotes(notes))
	case "view":
		shortID, err := ParseShortID(rest)
		if err != nil {
			h.reply(api, chatID, usage)
			return
		}
		note, err := h.noteUC.Get(ctx, user.ID, shortID)
		if err != nil {
			h.replyError(api, chatID, err)
			return
		}
		h.replyWithNoteButtons(api, chatID, note)
	case "edit":
		idToken, content, _ := strings.Cut(strings.TrimSpace(rest), " ")
		shortID, err := ParseShortID(idToken)
		if err != nil || strings.TrimSpace(content) == "" {
			h.reply(api, chatID, usage)
			return
		}
		if err := h.noteUC.Edit(ctx, user.ID, shortID, content); err != nil {
			h.replyError(api, chatID, err)
			return
		}
		h.reply(api, chatID, fmt.Sprintf("✏️ Not #%d güncellendi.", shortID))
	case "delete":
		shortID, err := ParseShortID(rest)
		if err != nil {
			h.reply(api, chatID, usage)
			return
		}
		if err := h.noteUC.Delete(ctx, user.ID, shortID); err != nil {
			h.replyError(api, chatID, err)
			return
		}
		h.reply(api, chatID, fmt.Sprintf("🗑 Not #%d silindi.", shortID))
	default:
		h.reply(api, chatID, usage)
	}
}

func (h *Handlers) handleRemind(ctx context.Context, api *tgbotapi.BotAPI, chatID int64, args string, user *domain.User) {
	const usage = "Kullanım: /remind ZAMAN MESAJ (örn. /remind 15:30 toplantı) veya /remind cancel ID"
	trimmed := strings.TrimSpace(args)
	if trimmed == "" {
		h.reply(api, chatID, usage)
		return
	}

	if action, rest, _ := strings.Cut(trimmed, " "); strings.EqualFold(action, "cancel") {
		reminderID, err := ParseReminderID(rest)
		if err != nil {
			h.reply(api, chatID, "Kullanım: /remind cancel ID")
			return
		}
		if err := h.reminderUC.Cancel(ctx, user.ID, reminderID); err != nil {
			h.replyError(api, chatID, err)
			return
		}
		h.reply(api, chatID, fmt.Sprintf("🗑 Hatırlatma #%d iptal edildi.", reminderID))
		return
	}

	reminder, err := h.reminderUC.Create(ctx, user.ID, trimmed)
	if err != nil {
		h.replyError(api, chatID, err)
		return
	}
	h.reply(api, chatID, fmt.Sprintf("⏰ Hatırlatma #%d kuruldu: %s — %s",
		reminder.ID, reminder.RemindAt.Format("02.01.2006 15:04"), reminder.Message))
}

func (h *Handlers) handleAlert(ctx context.Context, api *tgbotapi.BotAPI, chatID int64, args string, user *domain.User) {
	const usage = "Kullanım: /alert SYMBOL ±YÜZDE | /alert cancel #N | /alert delete SYMBOL"
	fields := strings.Fields(args)
	if len(fields) != 2 {
		h.reply(api, chatID, usage)
		return
	}

	switch strings.ToLower(fields[0]) {
	case "cancel":
		shortID, err := ParseShortID(fields[1])
		if err != nil {
			h.reply(api, chatID, usage)
			return
		}
		if err := h.alertUC.Cancel(ctx, user.ID, shortID); err != nil {
			h.replyError(api, chatID, err)
			return
		}
		h.reply(api, chatID, fmt.Sprintf("⏸ Alarm #%d duraklatıldı.", shortID))
	case "delete":
		symbol, err := ParseSymbol(fields[1])
		if err != nil {
			h.reply(api, chatID, usage)
			return
		}
		deleted, err := h.alertUC.DeleteBySymbol(ctx, user.ID, symbol)
		if err != nil {
			h.replyError(api, chatID, err)
			return
		}
		if deleted == 0 {
			h.reply(api, chatID, fmt.Sprintf("%s için alarmın yok.", symbol))
			return
		}
		h.reply(api, chatID, fmt.Sprintf("🗑 %s için %d alarm silindi.", symbol, deleted))
	default:
		symbol, err := ParseSymbol(fields[0])
		if err != nil {
			h.reply(api, chatID, usage)
			return
		}
		threshold, err := ParseThreshold(fields[1])
		if err != nil {
			h.reply(api, chatID, usage)
			return
		}
		alert, err := h.alertUC.Create(ctx, user.ID, symbol, threshold)
		if err != nil {
			h.replyError(api, chatID, err)
			return
		}
		h.reply(api, chatID, fmt.Sprintf("🚨 Alarm #%d kuruldu: %s %s%% (baz $%s)",
			alert.ShortID, alert.Symbol, alert.ThresholdPct.String(), alert.BasePrice.StringFixed(4)))
	}
}

func (h *Handlers) handleAI(ctx context.Context, api *tgbotapi.BotAPI, chatID int64, args string) {
	prompt := strings.TrimSpace(args)
	if prompt == "" {
		h.reply(api, chatID, "Kullanım: /ai SORU")
		return
	}
	answer, err := h.aiUC.Ask(ctx, prompt)
	if err != nil {
		h.replyError(api, chatID, err)
		return
	}
	text := fmt.Sprintf("%s\n\n🪙 %d token (~$%.4f)", answer.Text, answer.TotalTokens, answer.CostUSD)
	h.reply(api, chatID, text)
}

func (h *Handlers) handleAdmin(ctx context.Context, api *tgbotapi.BotAPI, chatID int64, command, args string) {
	switch command {
	case "stats":
		stats, err := h.adminUC.Stats(ctx)
		if err != nil {
			h.replyError(api, chatID, err)
			return
		}
		h.reply(api, chatID, formatStats(stats))
	case "users":
		page := 1
		if trimmed := strings.TrimSpace(args); trimmed != "" {
			if n, err := strconv.Atoi(trimmed); err == nil && n > 0 {
				page = n
			}
		}
		users, total, err := h.adminUC.Users(ctx, page, 20)
		if err != nil {
			h.replyError(api, chatID, err)
			return
		}
		h.reply(api, chatID, formatUsers(users, page, total))
	case "apikeys":
		h.reply(api, chatID, formatKeyStats(h.adminUC.APIKeys()))
	case "broadcast":
		text := strings.TrimSpace(args)
		if text == "" {
			h.reply(api, chatID, "Kullanım: /broadcast MESAJ")
			return
		}
		sent, failed := h.adminUC.Broadcast(ctx, "📣 "+text)
		h.reply(api, chatID, fmt.Sprintf("Gönderildi: %d, başarısız: %d", sent, failed))
	}
}

func (h *Handlers) errorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrSymbolNotFound):
		return "Sembol bulunamadı. Yazımı kontrol et."
	case errors.Is(err, domain.ErrNotFound):
		return "Bulunamadı."
	case errors.Is(err, usecase.ErrInvalidThreshold):
		return "Eşik sıfırdan farklı bir yüzde olmalı (örn. 5 veya -3,5)."
	case errors.Is(err, usecase.ErrDuplicateAlert):
		return "Bu sembol ve eşik için zaten aktif bir alarmın var."
	case errors.Is(err, usecase.ErrTimeNotRecognized):
		return "Zaman ifadesini anlayamadım. Örnekler: 15:30, +30m, sabah, 2 saat."
	case errors.Is(err, usecase.ErrEmptyReminder):
		return "Hatırlatma mesajı boş olamaz."
	case errors.Is(err, usecase.ErrEmptyNote):
		return "Not boş olamaz. Örnek: /note add süt almayı unutma"
	case errors.Is(err, domain.ErrInsufficientHoldings):
		return "Elinde o kadar yok. Önce /portfolio show ile miktara bak."
	case errors.Is(err, usecase.ErrMessageTooLong):
		return "Mesaj çok uzun."
	case errors.Is(err, usecase.ErrEmptyWatchlist):
		return "Liste boş. /watchlist add ile sembol ekle."
	}

	h.logger.Warn("unhandled error", zap.Error(err))
	return "Bir şeyler ters gitti. Tekrar dene."
}

func (h *Handlers) replyError(api *tgbotapi.BotAPI, chatID int64, err error) {
	h.reply(api, chatID, h.errorMessage(err))
}

func (h *Handlers) reply(api *tgbotapi.BotAPI, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := api.Send(msg); err != nil {
		h.logger.Warn("failed to send message", zap.Error(err))
	}
}
