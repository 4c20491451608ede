package app

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Sweep interval for codes and sessions (default: 30s)

	DatabaseFile string // Optional: path to SQLite database file (default: ./refdash.db)
	PepperFile   string // Optional: path to file containing pepper for key hashing (default: ./pepper)

	SharedKey     string // Plaintext pre-shared key. One of SharedKey or SharedKeyHash is required.
	SharedKeyHash string // argon2id hash of the pre-shared key, see refdash-admin hash-key
	TOTPSecret    string // Optional: base32 TOTP secret; issue then also requires a one-time code

	CodeTTL          time.Duration // Lifetime of an undecided authorization code (default: 5m)
	DecidedRetention time.Duration // How long rejected codes stay readable (default: 5m)
	SessionTTL       time.Duration // Dashboard session lifetime (default: 24h)

	PendingStore  string // Pending table driver (memory, redis) (default: memory)
	RedisAddr     string // Required when PendingStore is redis
	RedisPassword string
	RedisDB       int

	TelegramBotToken       string // Optional: enables the Telegram approver
	TelegramApproverChatID int64  // Required when TelegramBotToken is set
	ApproverToken          string // Optional: enables POST /api/approvals/{code}/{decision}

	AuditWebhookURL  string // Optional: POST audit records here
	AuditSNSTopicARN string // Optional: publish audit records to this SNS topic

	CORSAllowedOrigins []string
	StaticDir          string // Built dashboard; empty disables SPA hosting (default: dist)
	ReferralLink       string // Invitation link template, {ref} is replaced with the user id
	SettingsWritable   bool   // POST /api/settings answers 503 unless true (default: false)
}

const (
	PendingStoreMemory = "memory"
	PendingStoreRedis  = "redis"
)

var defaultCORSOrigins = []string{"https://ref.toshilabs.io", "http://localhost:5173"}

func LoadConfig() Config {
	return Config{
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 30*time.Second),

		DatabaseFile: getEnvOrDefault("DATABASE_FILE", "refdash.db"),
		PepperFile:   getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),

		SharedKey:     os.Getenv("AUTH_SHARED_KEY"),
		SharedKeyHash: os.Getenv("AUTH_SHARED_KEY_HASH"),
		TOTPSecret:    os.Getenv("AUTH_TOTP_SECRET"),

		CodeTTL:          getEnvDurationOrDefault("AUTH_CODE_TTL", 5*time.Minute),
		DecidedRetention: getEnvDurationOrDefault("DECIDED_RETENTION", 5*time.Minute),
		SessionTTL:       getEnvDurationOrDefault("SESSION_TTL", 24*time.Hour),

		PendingStore:  strings.ToLower(getEnvOrDefault("PENDING_STORE", PendingStoreMemory)),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvIntOrDefault("REDIS_DB", 0),

		TelegramBotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramApproverChatID: getEnvInt64OrDefault("TELEGRAM_APPROVER_CHAT_ID", 0),
		ApproverToken:          os.Getenv("APPROVER_TOKEN"),

		AuditWebhookURL:  os.Getenv("AUDIT_WEBHOOK_URL"),
		AuditSNSTopicARN: os.Getenv("AUDIT_SNS_TOPIC_ARN"),

		CORSAllowedOrigins: getEnvListOrDefault("CORS_ALLOWED_ORIGINS", defaultCORSOrigins),
		StaticDir:          getEnvOrDefault("STATIC_DIR", "dist"),
		ReferralLink:       getEnvOrDefault("REFERRAL_LINK", "https://t.me/toshi_referral_bot?start={ref}"),
		SettingsWritable:   getEnvBoolOrDefault("SETTINGS_WRITABLE", false),
	}
}

// Validate reports configuration that would leave the service unable to
// authorize anyone.
func (c Config) Validate() error {
	var errs []error

	if c.SharedKey == "" && c.SharedKeyHash == "" {
		errs = append(errs, errors.New("AUTH_SHARED_KEY or AUTH_SHARED_KEY_HASH is required"))
	}
	if c.TelegramBotToken == "" && c.ApproverToken == "" {
		errs = append(errs, errors.New("TELEGRAM_BOT_TOKEN or APPROVER_TOKEN is required, nobody could approve a login"))
	}
	if c.TelegramBotToken != "" && c.TelegramApproverChatID == 0 {
		errs = append(errs, errors.New("TELEGRAM_APPROVER_CHAT_ID is required with TELEGRAM_BOT_TOKEN"))
	}
	switch c.PendingStore {
	case PendingStoreMemory:
	case PendingStoreRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required with PENDING_STORE=redis"))
		}
	default:
		errs = append(errs, errors.New("PENDING_STORE must be memory or redis"))
	}
	if c.CodeTTL <= 0 {
		errs = append(errs, errors.New("AUTH_CODE_TTL must be positive"))
	}
	// Rejections must stay readable for at least one poll.
	if c.DecidedRetention <= 0 {
		errs = append(errs, errors.New("DECIDED_RETENTION must be positive"))
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Group chat ids are negative.
	if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

// getEnvListOrDefault splits a comma separated value, dropping blanks.
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
