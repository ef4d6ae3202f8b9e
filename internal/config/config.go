package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	TelegramBotToken    string `env:"TELEGRAM_BOT_TOKEN,required"`
	TelegramPollTimeout int    `env:"TELEGRAM_POLL_TIMEOUT,default=60"`
	AdminTelegramID     int64  `env:"ADMIN_ID,required"`

	DBHost            string        `env:"DB_HOST,required"`
	DBPort            int           `env:"DB_PORT,default=5432"`
	DBUser            string        `env:"DB_USER,required"`
	DBPassword        string        `env:"DB_PASSWORD,required"`
	DBName            string        `env:"DB_NAME,required"`
	DBSSLMode         string        `env:"DB_SSLMODE,default=disable"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=10"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=25"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=30m"`

	RedisAddr     string        `env:"REDIS_ADDR,default=localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	QuoteCacheTTL time.Duration `env:"CACHE_TTL,default=5m"`

	// CoinMarketCap key pool. One process-wide rotation manager owns
	// these; usage state is in memory only and resets on restart.
	CMCBaseURL      string   `env:"CMC_BASE_URL,default=https://pro-api.coinmarketcap.com/v1"`
	CMCAPIKeys      []string `env:"CMC_API_KEYS,required"`
	CMCActiveKey    int      `env:"CMC_ACTIVE_KEY,default=1"`
	CMCRequestLimit int      `env:"CMC_REQUEST_LIMIT,default=10000"`

	BinanceBaseURL string        `env:"BINANCE_BASE_URL,default=https://api.binance.com"`
	BinanceWSURL   string        `env:"BINANCE_WS_URL,default=wss://stream.binance.com:9443/ws/!miniTicker@arr"`
	YahooBaseURL   string        `env:"YAHOO_BASE_URL,default=https://query1.finance.yahoo.com"`
	FXBaseURL      string        `env:"FX_BASE_URL,default=https://api.exchangerate-api.com"`
	HTTPTimeout    time.Duration `env:"REQUEST_TIMEOUT,default=10s"`

	AIBaseURL         string        `env:"AI_BASE_URL,default=https://api.minimax.io/v1"`
	AIModelName       string        `env:"AI_MODEL_NAME,default=MiniMax-M2"`
	AIAPIKey          string        `env:"AI_API_KEY,required"`
	AITimeout         time.Duration `env:"AI_TIMEOUT,default=30s"`
	AIInputCostToken  float64       `env:"AI_INPUT_COST_PER_TOKEN,default=0.0000003"`
	AIOutputCostToken float64       `env:"AI_OUTPUT_COST_PER_TOKEN,default=0.0000012"`

	AlertCheckInterval time.Duration `env:"ALERT_CHECK_INTERVAL,default=5m"`
	AlertCooldown      time.Duration `env:"ALERT_COOLDOWN,default=30m"`

	RateLimitPerMinute int `env:"RATE_LIMIT_PER_MINUTE,default=30"`
	MaxNoteLength      int `env:"MAX_NOTE_LENGTH,default=1000"`
	MaxReminderLength  int `env:"MAX_REMINDER_LENGTH,default=500"`

	WebAddr  string `env:"WEB_ADDR,default=:8080"`
	LogLevel string `env:"LOG_LEVEL,default=info"`
}

func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
