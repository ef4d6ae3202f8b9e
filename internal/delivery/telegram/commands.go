package telegram

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const HelpText = `Komutlar:
/price SYMBOL - kripto fiyatı (örn. /price BTC)
/stock SYMBOL... - hisse fiyatı (örn. /stock TSLA THYAO)
/dolar - USD/TRY kuru
/top [N] - piyasa değerine göre ilk N kripto

/watchlist create NAME [crypto|stock] SYM... - liste oluştur
/watchlist add NAME SYM... | remove NAME SYM | delete NAME
/watchlists - listelerin
Hazır listeler: crypto-all, bist-all

/portfolio show NAME | add NAME SYM AMOUNT [PRICE] | remove NAME SYM AMOUNT | delete NAME
/portfolios - portföylerin

/note add TEXT | list | search TERM | view N | edit N TEXT | delete N

/remind ZAMAN MESAJ - hatırlatma (örn. /remind 15:30 toplantı, /remind +30m çay)
/remind cancel ID | /reminders

/alert SYMBOL ±YÜZDE - fiyat alarmı (örn. /alert BTC 5 veya /alert ETH -3,5)
/alert cancel #N | /alert delete SYMBOL | /alerts

/ai SORU - yapay zeka
`

const AdminHelpText = `Yönetici komutları:
/stats /users [sayfa] /apikeys /broadcast MESAJ
`

var ErrInvalidArguments = errors.New("invalid arguments")

var symbolPattern = regexp.MustCompile(`^[A-Z0-9.]{1,12}$`)

func ParseSymbol(args string) (string, error) {
	symbol := strings.ToUpper(strings.TrimSpace(args))
	if !symbolPattern.MatchString(symbol) {
		return "", ErrInvalidArguments
	}
	return symbol, nil
}

func ParseSymbols(args string) ([]string, error) {
	fields := strings.Fields(strings.ToUpper(args))
	if len(fields) == 0 {
		return nil, ErrInvalidArguments
	}
	symbols := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, field := range fields {
		if !symbolPattern.MatchString(field) {
			return nil, ErrInvalidArguments
		}
		if seen[field] {
			continue
		}
		seen[field] = true
		symbols = append(symbols, field)
	}
	return symbols, nil
}

// ParseThreshold reads a signed percentage, accepting the Turkish
// decimal comma ("-3,5" means -3.5).
func ParseThreshold(args string) (decimal.Decimal, error) {
	raw := strings.ReplaceAll(strings.TrimSpace(args), ",", ".")
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, ErrInvalidArguments
	}
	return value, nil
}

// ParseShortID reads a short id with or without the leading #.
func ParseShortID(args string) (int, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(args), "#")
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, ErrInvalidArguments
	}
	return value, nil
}

func ParseReminderID(args string) (uint, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(args), "#")
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return 0, ErrInvalidArguments
	}
	return uint(value), nil
}

// ParseAmount reads a positive decimal quantity, comma tolerated.
func ParseAmount(args string) (decimal.Decimal, error) {
	raw := strings.ReplaceAll(strings.TrimSpace(args), ",", ".")
	value, err := decimal.NewFromString(raw)
	if err != nil || value.Sign() <= 0 {
		return decimal.Zero, ErrInvalidArguments
	}
	return value, nil
}

var listNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,32}$`)

func ParseListName(args string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(args))
	if !listNamePattern.MatchString(name) {
		return "", ErrInvalidArguments
	}
	return name, nil
}
