package usecase

import (
	"errors"
	"testing"
	"time"
)

func TestParseReminderInput(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		wantAt  time.Time
		wantMsg string
	}{
		{
			name:    "clock time later today",
			input:   "15:30 doctor appointment",
			wantAt:  time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC),
			wantMsg: "doctor appointment",
		},
		{
			name:    "clock time already past rolls to tomorrow",
			input:   "08:00 erken kalk",
			wantAt:  time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC),
			wantMsg: "erken kalk",
		},
		{
			name:    "clock time in the middle of the text",
			input:   "toplantı 14:45 unutma",
			wantAt:  time.Date(2025, 3, 10, 14, 45, 0, 0, time.UTC),
			wantMsg: "toplantı unutma",
		},
		{
			name:    "shorthand minutes",
			input:   "+30m meeting",
			wantAt:  now.Add(30 * time.Minute),
			wantMsg: "meeting",
		},
		{
			name:    "shorthand days",
			input:   "+2d kira öde",
			wantAt:  now.AddDate(0, 0, 2),
			wantMsg: "kira öde",
		},
		{
			name:    "relative minutes turkish",
			input:   "45 dakika çay demle",
			wantAt:  now.Add(45 * time.Minute),
			wantMsg: "çay demle",
		},
		{
			name:    "relative hours english",
			input:   "call mom in 2 hours",
			wantAt:  now.Add(2 * time.Hour),
			wantMsg: "call mom in",
		},
		{
			name:    "daypart morning already past rolls to tomorrow",
			input:   "sabah koşuya çık",
			wantAt:  time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC),
			wantMsg: "koşuya çık",
		},
		{
			name:    "daypart evening later today",
			input:   "akşam maç var",
			wantAt:  time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC),
			wantMsg: "maç var",
		},
		{
			name:    "tomorrow keyword",
			input:   "yarın dişçi randevusu",
			wantAt:  time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC),
			wantMsg: "dişçi randevusu",
		},
		{
			name:    "daypart beats clock time",
			input:   "sabah 15:30 toplantı",
			wantAt:  time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC),
			wantMsg: "15:30 toplantı",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			at, msg, err := ParseReminderInput(tt.input, now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !at.Equal(tt.wantAt) {
				t.Errorf("time: got %v, want %v", at, tt.wantAt)
			}
			if msg != tt.wantMsg {
				t.Errorf("message: got %q, want %q", msg, tt.wantMsg)
			}
		})
	}
}

func TestParseReminderInputClockRollDependsOnReference(t *testing.T) {
	input := "15:30 doctor appointment"

	morning := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	at, msg, err := ParseReminderInput(input, morning)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC); !at.Equal(want) {
		t.Errorf("morning reference: got %v, want %v", at, want)
	}
	if msg != "doctor appointment" {
		t.Errorf("message: got %q", msg)
	}

	late := time.Date(2025, 3, 10, 16, 0, 0, 0, time.UTC)
	at, _, err = ParseReminderInput(input, late)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := time.Date(2025, 3, 11, 15, 30, 0, 0, time.UTC); !at.Equal(want) {
		t.Errorf("late reference: got %v, want %v", at, want)
	}
}

func TestParseReminderInputNoTimeExpression(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	_, _, err := ParseReminderInput("just some text", now)
	if !errors.Is(err, ErrTimeNotRecognized) {
		t.Fatalf("expected ErrTimeNotRecognized, got %v", err)
	}
}

func TestParseReminderInputEmptyMessage(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	_, _, err := ParseReminderInput("15:30", now)
	if !errors.Is(err, ErrEmptyReminder) {
		t.Fatalf("expected ErrEmptyReminder, got %v", err)
	}
}
