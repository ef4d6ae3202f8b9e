package telegram

import (
	"fmt"
	"strings"
	"time"

	"github.com/emrekrt/pandabot/internal/domain"
	"github.com/emrekrt/pandabot/internal/infra/cmc"
	"github.com/emrekrt/pandabot/internal/usecase"
	"github.com/shopspring/decimal"
)

func changeArrow(change decimal.Decimal) string {
	if change.Sign() < 0 {
		return "🔻"
	}
	return "🟢"
}

// humanNumber renders large dollar figures as 1.23B / 45.6M.
func humanNumber(value decimal.Decimal) string {
	f, _ := value.Float64()
	switch {
	case f >= 1e9:
		return fmt.Sprintf("%.2fB", f/1e9)
	case f >= 1e6:
		return fmt.Sprintf("%.2fM", f/1e6)
	case f >= 1e3:
		return fmt.Sprintf("%.1fK", f/1e3)
	default:
		return fmt.Sprintf("%.0f", f)
	}
}

func formatPrice(info *usecase.PriceInfo) string {
	quote := info.Quote
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: $%s (%s%% 24s)\n",
		changeArrow(quote.ChangePct24h), quote.Symbol,
		quote.Price.StringFixed(4), quote.ChangePct24h.StringFixed(2))

	if detail := info.Detail; detail != nil {
		if detail.Name != "" {
			fmt.Fprintf(&b, "%s\n", detail.Name)
		}
		fmt.Fprintf(&b, "Hacim 24s: $%s | Piyasa değeri: $%s\n",
			humanNumber(detail.Volume24h), humanNumber(detail.MarketCap))
		if !detail.Supply.IsZero() {
			fmt.Fprintf(&b, "Dolaşımdaki arz: %s %s\n", humanNumber(detail.Supply), quote.Symbol)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatStock(quote domain.StockQuote) string {
	currency := "$"
	if quote.Currency == "TRY" {
		currency = "₺"
	}
	line := fmt.Sprintf("%s %s (%s): %s%s (%s%%)",
		changeArrow(quote.ChangePct), quote.Symbol, quote.Name,
		currency, quote.Price.StringFixed(2), quote.ChangePct.StringFixed(2))
	if quote.MarketClosed {
		line += " 🔒 piyasa kapalı"
	}
	return line
}

func formatTop(quotes []domain.Quote) string {
	var b strings.Builder
	b.WriteString("🏆 Piyasa değerine göre ilk kriptolar:\n")
	for i, quote := range quotes {
		fmt.Fprintf(&b, "%d) %s $%s (%s%%) MC $%s\n",
			i+1, quote.Symbol, quote.Price.StringFixed(4),
			quote.ChangePct24h.StringFixed(2), humanNumber(quote.MarketCap))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatWatchlistPrices(wp *usecase.WatchlistPrices) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 %s (%s):\n", wp.List.ListName, wp.List.Type)
	for _, quote := range wp.Crypto {
		fmt.Fprintf(&b, "%s %s: $%s (%s%%)\n",
			changeArrow(quote.ChangePct24h), quote.Symbol,
			quote.Price.StringFixed(4), quote.ChangePct24h.StringFixed(2))
	}
	for _, quote := range wp.Stocks {
		b.WriteString(formatStock(quote) + "\n")
	}
	if len(wp.Failed) > 0 {
		fmt.Fprintf(&b, "Fiyat alınamadı: %s\n", strings.Join(wp.Failed, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatWatchlists(lists []domain.Watchlist) string {
	var b strings.Builder
	b.WriteString("📋 Listelerin:\n")
	for _, list := range lists {
		fmt.Fprintf(&b, "%s (%s, %d sembol): %s\n",
			list.ListName, list.Type, len(list.Tickers), strings.Join(list.Symbols(), " "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatValuation(v *usecase.PortfolioValuation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💼 %s:\n", v.Portfolio.Name)
	for _, pos := range v.Positions {
		if pos.CurrentPrice.IsZero() {
			fmt.Fprintf(&b, "%s: %s adet @ $%s (fiyat yok)\n",
				pos.Symbol, pos.Amount.String(), pos.AveragePrice.StringFixed(4))
			continue
		}
		fmt.Fprintf(&b, "%s %s: %s adet @ $%s → $%s | K/Z: $%s (%s%%)\n",
			changeArrow(pos.PnL), pos.Symbol, pos.Amount.String(),
			pos.AveragePrice.StringFixed(4), pos.CurrentPrice.StringFixed(4),
			pos.PnL.StringFixed(2), pos.PnLPct.StringFixed(2))
	}
	fmt.Fprintf(&b, "Toplam: $%s | Maliyet: $%s | K/Z: $%s",
		v.TotalValue.StringFixed(2), v.TotalCost.StringFixed(2), v.TotalPnL.StringFixed(2))
	return b.String()
}

func formatPortfolios(portfolios []domain.Portfolio) string {
	var b strings.Builder
	b.WriteString("💼 Portföylerin:\n")
	for _, p := range portfolios {
		symbols := make([]string, 0, len(p.Items))
		for _, item := range p.Items {
			symbols = append(symbols, item.Symbol)
		}
		fmt.Fprintf(&b, "%s (%d pozisyon): %s\n", p.Name, len(p.Items), strings.Join(symbols, " "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max-3]) + "..."
}

func formatNotes(notes []domain.Note) string {
	var b strings.Builder
	b.WriteString("📝 Notların:\n")
	for _, note := range notes {
		fmt.Fprintf(&b, "#%d %s\n", note.ShortID, truncate(note.Content, 60))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatReminders(reminders []domain.Reminder) string {
	var b strings.Builder
	b.WriteString("⏰ Hatırlatmaların:\n")
	for _, r := range reminders {
		fmt.Fprintf(&b, "#%d %s — %s\n", r.ID, r.RemindAt.Format("02.01 15:04"), truncate(r.Message, 60))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatAlerts(alerts []domain.Alert, live map[string]decimal.Decimal) string {
	var b strings.Builder
	b.WriteString("🚨 Alarmların:\n")
	for _, alert := range alerts {
		line := fmt.Sprintf("#%d %s %s%% (baz $%s",
			alert.ShortID, alert.Symbol, alert.ThresholdPct.String(),
			alert.BasePrice.StringFixed(4))
		if price, ok := live[alert.Symbol]; ok {
			change := alert.ChangePercent(price)
			line += fmt.Sprintf(", şu an $%s, %s%%", price.StringFixed(4), change.StringFixed(2))
		}
		line += ")"
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatStats(stats *usecase.BotStats) string {
	return fmt.Sprintf(
		"📊 Durum\nKullanıcılar: %d (bugün aktif %d, yeni %d, bloklu %d)\n"+
			"Alarmlar: %d aktif, %d duraklatılmış\n"+
			"Hatırlatmalar: %d aktif, bugün %d tamamlandı\n"+
			"Notlar: %d | Listeler: %d | Portföyler: %d\nUptime: %s",
		stats.TotalUsers, stats.ActiveToday, stats.NewToday, stats.BlockedUsers,
		stats.ActiveAlerts, stats.PausedAlerts,
		stats.ActiveReminders, stats.CompletedToday,
		stats.Notes, stats.Watchlists, stats.Portfolios,
		stats.Uptime.Round(time.Minute),
	)
}

func formatUsers(users []domain.User, page int, total int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "👥 Kullanıcılar (sayfa %d, toplam %d):\n", page, total)
	for _, user := range users {
		flags := ""
		if user.IsBlocked {
			flags = " 🚫"
		}
		fmt.Fprintf(&b, "%d @%s %s %s | komut: %d%s\n",
			user.TelegramUserID, user.Username, user.FirstName, user.LastName,
			user.TotalCommands, flags)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatKeyStats(stats []cmc.KeyStats) string {
	var b strings.Builder
	b.WriteString("🔑 API anahtarları:\n")
	for _, stat := range stats {
		state := "aktif"
		if stat.Blocked {
			state = "bloklu"
		}
		fmt.Fprintf(&b, "Anahtar %d: %d/%d (%.1f%%) %s, reset %s\n",
			stat.KeyNumber, stat.RequestsUsed, stat.RequestsLimit,
			stat.UsagePercent, state, stat.ResetTime.Format("02.01 15:04"))
	}
	return strings.TrimRight(b.String(), "\n")
}
