package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

const defaultJWTSecret = "dev_secret"

// Store drivers understood by pkg/tabular.
const (
	StoreDriverSheets   = "sheets"
	StoreDriverWorkbook = "xlsx"
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Notifier drivers understood by pkg/notify.
const (
	NotifyDriverLog   = "log"
	NotifyDriverSMTP  = "smtp"
	NotifyDriverRedis = "redis"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Notify   NotifyConfig
	Queues   QueuesConfig
	Quote    QuoteConfig
}

// StoreConfig selects and configures the remote tabular store.
type StoreConfig struct {
	Driver string
	// Name is the human readable spreadsheet name, used for logging and title checks.
	Name string

	SpreadsheetID   string
	CredentialsJSON string
	CredentialsFile string

	WorkbookPath string

	// MemoryAdminPassword is the password of the admin row seeded into the memory driver.
	MemoryAdminPassword string
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// NotifyConfig configures best-effort notifications.
type NotifyConfig struct {
	Driver         string
	ManagerAddress string
	From           string
	SMTPHost       string
	SMTPPort       int
	SMTPUsername   string
	SMTPPassword   string
	RedisList      string
	Workers        int
}

// QueuesConfig maps logical tables to sheet names.
type QueuesConfig struct {
	LeaveSheet    string
	AdvanceSheet  string
	PurchaseSheet string
	LeadsSheet    string
	UsersSheet    string
}

// QuoteConfig sets the letterhead of generated quotes.
type QuoteConfig struct {
	Issuer   string
	Currency string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Store = StoreConfig{
		Driver:          strings.ToLower(v.GetString("STORE_DRIVER")),
		Name:            v.GetString("STORE_NAME"),
		SpreadsheetID:   v.GetString("SHEETS_SPREADSHEET_ID"),
		CredentialsJSON: v.GetString("SHEETS_CREDENTIALS_JSON"),
		CredentialsFile: v.GetString("SHEETS_CREDENTIALS_FILE"),
		WorkbookPath:    v.GetString("WORKBOOK_PATH"),

		MemoryAdminPassword: v.GetString("MEMORY_ADMIN_PASSWORD"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Issuer:     v.GetString("JWT_ISSUER"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 12*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Notify = NotifyConfig{
		Driver:         strings.ToLower(v.GetString("NOTIFY_DRIVER")),
		ManagerAddress: v.GetString("NOTIFY_MANAGER_ADDRESS"),
		From:           v.GetString("NOTIFY_FROM"),
		SMTPHost:       v.GetString("SMTP_HOST"),
		SMTPPort:       v.GetInt("SMTP_PORT"),
		SMTPUsername:   v.GetString("SMTP_USERNAME"),
		SMTPPassword:   v.GetString("SMTP_PASSWORD"),
		RedisList:      v.GetString("NOTIFY_REDIS_LIST"),
		Workers:        v.GetInt("NOTIFY_WORKERS"),
	}

	cfg.Queues = QueuesConfig{
		LeaveSheet:    v.GetString("QUEUE_LEAVE_SHEET"),
		AdvanceSheet:  v.GetString("QUEUE_ADVANCE_SHEET"),
		PurchaseSheet: v.GetString("QUEUE_PURCHASE_SHEET"),
		LeadsSheet:    v.GetString("LEADS_SHEET"),
		UsersSheet:    v.GetString("USERS_SHEET"),
	}

	cfg.Quote = QuoteConfig{
		Issuer:   v.GetString("QUOTE_ISSUER"),
		Currency: v.GetString("QUOTE_CURRENCY"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the process cannot run with. Store reachability is not checked here;
// an unreachable store only disables the operations that need it.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverSheets, StoreDriverWorkbook, StoreDriverPostgres, StoreDriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER %q is not one of sheets, xlsx, postgres, memory", c.Store.Driver)
	}
	switch c.Notify.Driver {
	case NotifyDriverLog, NotifyDriverSMTP, NotifyDriverRedis:
	default:
		return fmt.Errorf("NOTIFY_DRIVER %q is not one of log, smtp, redis", c.Notify.Driver)
	}
	if c.Env == EnvProduction && c.Store.Driver == StoreDriverMemory {
		return errors.New("STORE_DRIVER memory keeps no data across restarts and is not allowed in production")
	}
	if c.Env == EnvProduction && (c.JWT.Secret == "" || c.JWT.Secret == defaultJWTSecret) {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.JWT.Expiration <= 0 {
		return errors.New("JWT_EXPIRATION must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("STORE_DRIVER", StoreDriverSheets)
	v.SetDefault("STORE_NAME", "Here Event CRM")
	v.SetDefault("SHEETS_SPREADSHEET_ID", "")
	v.SetDefault("SHEETS_CREDENTIALS_JSON", "")
	v.SetDefault("SHEETS_CREDENTIALS_FILE", "")
	v.SetDefault("WORKBOOK_PATH", "./here-event-crm.xlsx")
	v.SetDefault("MEMORY_ADMIN_PASSWORD", "admin")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "here_event_crm")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ISSUER", "here-event-os")
	v.SetDefault("JWT_EXPIRATION", "12h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("NOTIFY_DRIVER", NotifyDriverLog)
	v.SetDefault("NOTIFY_MANAGER_ADDRESS", "")
	v.SetDefault("NOTIFY_FROM", "no-reply@hereevent.local")
	v.SetDefault("SMTP_HOST", "localhost")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("NOTIFY_REDIS_LIST", "notifications:outbox")
	v.SetDefault("NOTIFY_WORKERS", 1)

	v.SetDefault("QUEUE_LEAVE_SHEET", "Izinler")
	v.SetDefault("QUEUE_ADVANCE_SHEET", "Avanslar")
	v.SetDefault("QUEUE_PURCHASE_SHEET", "Satinalma")
	v.SetDefault("LEADS_SHEET", "Musteriler")
	v.SetDefault("QUOTE_ISSUER", "Here Event")
	v.SetDefault("QUOTE_CURRENCY", "TL")
	v.SetDefault("USERS_SHEET", "Kullanicilar")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
