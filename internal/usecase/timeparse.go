package usecase

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Reminder inputs mix a time expression with free text, in Turkish or
// English ("sabah toplantı var", "15:30 doctor appointment", "+30m çay").
// Patterns are tried in order and the first match wins; whatever the
// match does not cover becomes the reminder body. Anchoring uses
// whitespace instead of \b because RE2 word boundaries misfire next to
// ö and ü.
type timePattern struct {
	re      *regexp.Regexp
	resolve func(m []string, now time.Time) time.Time
}

var timePatterns = []timePattern{
	{
		re: regexp.MustCompile(`(?i)(?:^|\s)(sabah|morning|öğlen|öğle|noon|akşam|evening|gece|night)(?:\s|$)`),
		resolve: func(m []string, now time.Time) time.Time {
			return nextDaypart(daypartHour(strings.ToLower(m[1])), now)
		},
	},
	{
		re: regexp.MustCompile(`(?i)(?:^|\s)(\d+)\s+(saniye|sn|seconds?|secs?)(?:\s|$)`),
		resolve: func(m []string, now time.Time) time.Time {
			return now.Add(time.Duration(atoi(m[1])) * time.Second)
		},
	},
	{
		re: regexp.MustCompile(`(?i)(?:^|\s)(\d+)\s+(dakika|dk|minutes?|mins?)(?:\s|$)`),
		resolve: func(m []string, now time.Time) time.Time {
			return now.Add(time.Duration(atoi(m[1])) * time.Minute)
		},
	},
	{
		re: regexp.MustCompile(`(?i)(?:^|\s)(\d+)\s+(saat|hours?|hrs?)(?:\s|$)`),
		resolve: func(m []string, now time.Time) time.Time {
			return now.Add(time.Duration(atoi(m[1])) * time.Hour)
		},
	},
	{
		re: regexp.MustCompile(`(?i)(?:^|\s)(\d+)\s+(gün|days?)(?:\s|$)`),
		resolve: func(m []string, now time.Time) time.Time {
			return now.AddDate(0, 0, atoi(m[1]))
		},
	},
	{
		re: regexp.MustCompile(`(?:^|\s)\+(\d+)([mhd])(?:\s|$)`),
		resolve: func(m []string, now time.Time) time.Time {
			n := atoi(m[1])
			switch m[2] {
			case "m":
				return now.Add(time.Duration(n) * time.Minute)
			case "h":
				return now.Add(time.Duration(n) * time.Hour)
			default:
				return now.AddDate(0, 0, n)
			}
		},
	},
	{
		re: regexp.MustCompile(`(?:^|\s)([01]?\d|2[0-3]):([0-5]\d)(?:\s|$)`),
		resolve: func(m []string, now time.Time) time.Time {
			at := time.Date(now.Year(), now.Month(), now.Day(), atoi(m[1]), atoi(m[2]), 0, 0, now.Location())
			if !at.After(now) {
				at = at.AddDate(0, 0, 1)
			}
			return at
		},
	},
	{
		re: regexp.MustCompile(`(?i)(?:^|\s)(yarın|tomorrow)(?:\s|$)`),
		resolve: func(m []string, now time.Time) time.Time {
			next := now.AddDate(0, 0, 1)
			return time.Date(next.Year(), next.Month(), next.Day(), 9, 0, 0, 0, now.Location())
		},
	},
}

func daypartHour(token string) int {
	switch token {
	case "sabah", "morning":
		return 9
	case "öğle", "öğlen", "noon":
		return 12
	case "akşam", "evening":
		return 18
	default:
		return 21
	}
}

func nextDaypart(hour int, now time.Time) time.Time {
	at := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !at.After(now) {
		at = at.AddDate(0, 0, 1)
	}
	return at
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// ParseReminderInput extracts the first recognized time expression and
// returns it with the remaining text as the reminder body.
func ParseReminderInput(input string, now time.Time) (time.Time, string, error) {
	for _, pattern := range timePatterns {
		loc := pattern.re.FindStringSubmatchIndex(input)
		if loc == nil {
			continue
		}

		groups := make([]string, 0, len(loc)/2)
		for i := 0; i < len(loc); i += 2 {
			if loc[i] < 0 {
				groups = append(groups, "")
				continue
			}
			groups = append(groups, input[loc[i]:loc[i+1]])
		}

		at := pattern.resolve(groups, now)
		message := strings.Join(strings.Fields(input[:loc[0]]+" "+input[loc[1]:]), " ")
		if message == "" {
			return time.Time{}, "", ErrEmptyReminder
		}
		return at, message, nil
	}
	return time.Time{}, "", ErrTimeNotRecognized
}
