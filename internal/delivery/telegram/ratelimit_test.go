package telegram

import (
	"errors"
	"testing"

	"github.com/go-redis/redis_rate/v10"
)

func TestAllowDecision(t *testing.T) {
	tests := []struct {
		name   string
		result *redis_rate.Result
		err    error
		want   bool
	}{
		{
			name:   "within budget",
			result: &redis_rate.Result{Allowed: 1},
			want:   true,
		},
		{
			name:   "last slot of the window",
			result: &redis_rate.Result{Allowed: 1, Remaining: 0},
			want:   true,
		},
		{
			name:   "budget exhausted",
			result: &redis_rate.Result{Allowed: 0},
			want:   false,
		},
		{
			name: "redis down fails open",
			err:  errors.New("dial tcp 127.0.0.1:6379: connect: connection refused"),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := allowDecision(tt.result, tt.err); got != tt.want {
				t.Errorf("allowDecision = %v, want %v", got, tt.want)
			}
		})
	}
}
