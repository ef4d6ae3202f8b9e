package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emrekrt/pandabot/internal/domain"
	"github.com/emrekrt/pandabot/internal/infra/cmc"
	"go.uber.org/zap"
)

// BotStats is the operational snapshot behind the admin stats command
// and the daily summary.
type BotStats struct {
	TotalUsers      int64
	ActiveToday     int64
	NewToday        int64
	BlockedUsers    int64
	ActiveAlerts    int64
	PausedAlerts    int64
	ActiveReminders int64
	CompletedToday  int64
	Notes           int64
	Watchlists      int64
	Portfolios      int64
	Uptime          time.Duration
}

type AdminUsecase struct {
	users      domain.UserRepository
	alerts     domain.AlertRepository
	reminders  domain.ReminderRepository
	notes      domain.NoteRepository
	watchlists domain.WatchlistRepository
	portfolios domain.PortfolioRepository
	keys       *cmc.KeyManager
	notifier   Notifier
	adminID    int64
	startedAt  time.Time
	logger     *zap.Logger
}

func NewAdminUsecase(
	users domain.UserRepository,
	alerts domain.AlertRepository,
	reminders domain.ReminderRepository,
	notes domain.NoteRepository,
	watchlists domain.WatchlistRepository,
	portfolios domain.PortfolioRepository,
	keys *cmc.KeyManager,
	notifier Notifier,
	adminID int64,
	logger *zap.Logger,
) *AdminUsecase {
	return &AdminUsecase{
		users:      users,
		alerts:     alerts,
		reminders:  reminders,
		notes:      notes,
		watchlists: watchlists,
		portfolios: portfolios,
		keys:       keys,
		notifier:   notifier,
		adminID:    adminID,
		startedAt:  time.Now(),
		logger:     logger,
	}
}

func (a *AdminUsecase) IsAdmin(telegramUserID int64) bool {
	return telegramUserID == a.adminID
}

func (a *AdminUsecase) Stats(ctx context.Context) (*BotStats, error) {
	midnight := time.Now().Truncate(24 * time.Hour)
	stats := &BotStats{Uptime: time.Since(a.startedAt)}

	var err error
	if stats.TotalUsers, err = a.users.Count(ctx); err != nil {
		return nil, err
	}
	if stats.ActiveToday, err = a.users.CountActiveSince(ctx, midnight); err != nil {
		return nil, err
	}
	if stats.NewToday, err = a.users.CountCreatedSince(ctx, midnight); err != nil {
		return nil, err
	}
	if stats.BlockedUsers, err = a.users.CountBlocked(ctx); err != nil {
		return nil, err
	}
	if stats.ActiveAlerts, err = a.alerts.CountByStatus(ctx, domain.AlertStatusActive); err != nil {
		return nil, err
	}
	if stats.PausedAlerts, err = a.alerts.CountByStatus(ctx, domain.AlertStatusPaused); err != nil {
		return nil, err
	}
	if stats.ActiveReminders, err = a.reminders.CountByStatus(ctx, domain.ReminderStatusActive); err != nil {
		return nil, err
	}
	if stats.CompletedToday, err = a.reminders.CountCompletedSince(ctx, midnight); err != nil {
		return nil, err
	}
	if stats.Notes, err = a.notes.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Watchlists, err = a.watchlists.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Portfolios, err = a.portfolios.Count(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}

func (a *AdminUsecase) Users(ctx context.Context, page, pageSize int) ([]domain.User, int64, error) {
	if page < 1 {
		page = 1
	}
	total, err := a.users.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	users, err := a.users.List(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (a *AdminUsecase) APIKeys() []cmc.KeyStats {
	return a.keys.Stats()
}

// Broadcast pushes a message to every known user. Users who blocked the
// bot are flagged so later pushes stop trying them.
func (a *AdminUsecase) Broadcast(ctx context.Context, text string) (sent, failed int) {
	ids, err := a.users.ListTelegramIDs(ctx)
	if err != nil {
		a.logger.Error("broadcast aborted, user listing failed", zap.Error(err))
		return 0, 0
	}

	for _, id := range ids {
		if err := a.notifier.Notify(ctx, id, text); err != nil {
			failed++
			if errors.Is(err, ErrRecipientBlocked) {
				if err := a.users.SetBlocked(ctx, id, true); err != nil {
					a.logger.Warn("blocked flag not persisted", zap.Int64("telegram_user_id", id), zap.Error(err))
				}
			}
			continue
		}
		sent++
	}

	a.logger.Info("broadcast finished", zap.Int("sent", sent), zap.Int("failed", failed))
	return sent, failed
}

// NotifyNewUser tells the admin about a first contact.
func (a *AdminUsecase) NotifyNewUser(ctx context.Context, user *domain.User) {
	text := fmt.Sprintf("👤 Yeni kullanıcı: %s %s (@%s, id %d)",
		user.FirstName, user.LastName, user.Username, user.TelegramUserID)
	if err := a.notifier.Notify(ctx, a.adminID, text); err != nil {
		a.logger.Warn("admin new-user notice failed", zap.Error(err))
	}
}

// DailyReset clears key usage and reports the pre-reset counters to the
// admin. Wired to the midnight cron job.
func (a *AdminUsecase) DailyReset(ctx context.Context) {
	var b strings.Builder
	b.WriteString("🔑 API anahtarları sıfırlandı\n")
	for _, stat := range a.keys.Stats() {
		state := "aktif"
		if stat.Blocked {
			state = "bloklu"
		}
		fmt.Fprintf(&b, "Anahtar %d: %d/%d (%.1f%%) %s\n",
			stat.KeyNumber, stat.RequestsUsed, stat.RequestsLimit, stat.UsagePercent, state)
	}
	a.keys.ResetDaily()

	if err := a.notifier.Notify(ctx, a.adminID, b.String()); err != nil {
		a.logger.Warn("daily reset notice failed", zap.Error(err))
	}
}

// DailySummary sends the end-of-day operational snapshot to the admin.
func (a *AdminUsecase) DailySummary(ctx context.Context) {
	stats, err := a.Stats(ctx)
	if err != nil {
		a.logger.Error("daily summary aborted", zap.Error(err))
		return
	}

	text := fmt.Sprintf(
		"📊 Günlük özet\nKullanıcılar: %d (bugün aktif %d, yeni %d, bloklu %d)\n"+
			"Alarmlar: %d aktif, %d duraklatılmış\n"+
			"Hatırlatmalar: %d aktif, bugün %d tamamlandı\n"+
			"Notlar: %d | Listeler: %d | Portföyler: %d\nUptime: %s",
		stats.TotalUsers, stats.ActiveToday, stats.NewToday, stats.BlockedUsers,
		stats.ActiveAlerts, stats.PausedAlerts,
		stats.ActiveReminders, stats.CompletedToday,
		stats.Notes, stats.Watchlists, stats.Portfolios,
		stats.Uptime.Round(time.Minute),
	)
	if err := a.notifier.Notify(ctx, a.adminID, text); err != nil {
		a.logger.Warn("daily summary notice failed", zap.Error(err))
	}
}
