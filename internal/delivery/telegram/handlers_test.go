package telegram

import (
	"errors"
	"fmt"
	"testing"

	"github.com/emrekrt/pandabot/internal/domain"
	"github.com/emrekrt/pandabot/internal/usecase"
	"go.uber.org/zap"
)

func TestErrorMessageMapsSentinels(t *testing.T) {
	h := &Handlers{logger: zap.NewNop()}

	tests := []struct {
		err  error
		want string
	}{
		{domain.ErrSymbolNotFound, "Sembol bulunamadı. Yazımı kontrol et."},
		{domain.ErrNotFound, "Bulunamadı."},
		{domain.ErrInsufficientHoldings, "Elinde o kadar yok. Önce /portfolio show ile miktara bak."},
		{usecase.ErrEmptyNote, "Not boş olamaz. Örnek: /note add süt almayı unutma"},
		{usecase.ErrEmptyReminder, "Hatırlatma mesajı boş olamaz."},
		{usecase.ErrDuplicateAlert, "Bu sembol ve eşik için zaten aktif bir alarmın var."},
		{fmt.Errorf("reduce: %w", domain.ErrInsufficientHoldings), "Elinde o kadar yok. Önce /portfolio show ile miktara bak."},
	}

	for _, tt := range tests {
		if got := h.errorMessage(tt.err); got != tt.want {
			t.Errorf("errorMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestErrorMessageFallsBackOnUnknownError(t *testing.T) {
	h := &Handlers{logger: zap.NewNop()}

	got := h.errorMessage(errors.New("postgres: connection reset"))
	if got != "Bir şeyler ters gitti. Tekrar dene." {
		t.Errorf("unexpected message %q", got)
	}
}
