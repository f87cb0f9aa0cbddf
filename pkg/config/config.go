package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Currency      CurrencyConfig
	Shipping      ShippingConfig
	SMTP          SMTPConfig
	Store         StoreConfig
	Cron          CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MAZRAATY_APP_ENV" required:"true"`
	Port         string `envconfig:"MAZRAATY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MAZRAATY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MAZRAATY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"MAZRAATY_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"MAZRAATY_DB_DSN"`
	Driver string `envconfig:"MAZRAATY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MAZRAATY_DB_HOST"`
	LegacyPort     int    `envconfig:"MAZRAATY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MAZRAATY_DB_USER"`
	LegacyPassword string `envconfig:"MAZRAATY_DB_PASSWORD"`
	LegacyName     string `envconfig:"MAZRAATY_DB_NAME"`
	LegacySSLMode  string `envconfig:"MAZRAATY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MAZRAATY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MAZRAATY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MAZRAATY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MAZRAATY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MAZRAATY_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MAZRAATY_REDIS_ADDR"`
	Password     string        `envconfig:"MAZRAATY_REDIS_PASSWORD"`
	DB           int           `envconfig:"MAZRAATY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MAZRAATY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MAZRAATY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MAZRAATY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MAZRAATY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MAZRAATY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"MAZRAATY_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"MAZRAATY_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"MAZRAATY_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"MAZRAATY_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MAZRAATY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MAZRAATY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MAZRAATY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MAZRAATY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MAZRAATY_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"MAZRAATY_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"MAZRAATY_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"MAZRAATY_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"MAZRAATY_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"MAZRAATY_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"MAZRAATY_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MAZRAATY_AUTO_MIGRATE" default:"false"`
}

// CurrencyConfig controls the display currency and the USD exchange rate applied
// server-side. Base prices are entered in USD by the back office; the storefront
// shows OMR.
type CurrencyConfig struct {
	Display         string `envconfig:"MAZRAATY_CURRENCY_DISPLAY" default:"OMR"`
	USDExchangeRate string `envconfig:"MAZRAATY_CURRENCY_USD_RATE" default:"0.385"`
	DecimalPlaces   int    `envconfig:"MAZRAATY_CURRENCY_DECIMALS" default:"3"`
}

// ShippingConfig holds the flat delivery fee per shipping method.
type ShippingConfig struct {
	StandardFee string `envconfig:"MAZRAATY_SHIPPING_STANDARD_FEE" default:"0.000"`
	ExpressFee  string `envconfig:"MAZRAATY_SHIPPING_EXPRESS_FEE" default:"5.000"`
}

type SMTPConfig struct {
	Host        string        `envconfig:"MAZRAATY_SMTP_HOST"`
	Port        int           `envconfig:"MAZRAATY_SMTP_PORT" default:"587"`
	Username    string        `envconfig:"MAZRAATY_SMTP_USERNAME"`
	Password    string        `envconfig:"MAZRAATY_SMTP_PASSWORD"`
	From        string        `envconfig:"MAZRAATY_SMTP_FROM"`
	SendTimeout time.Duration `envconfig:"MAZRAATY_SMTP_SEND_TIMEOUT" default:"10s"`
	MaxRetries  int           `envconfig:"MAZRAATY_SMTP_MAX_RETRIES" default:"3"`
}

// Enabled reports whether outbound mail is configured at all.
func (s SMTPConfig) Enabled() bool {
	return strings.TrimSpace(s.Host) != "" && strings.TrimSpace(s.From) != ""
}

// StoreConfig carries the seller identity stamped onto invoices and restock emails.
type StoreConfig struct {
	NameEN  string `envconfig:"MAZRAATY_STORE_NAME_EN" default:"Mazraaty Poultry Equipment"`
	NameAR  string `envconfig:"MAZRAATY_STORE_NAME_AR" default:"مزرعتي لمعدات الدواجن"`
	Email   string `envconfig:"MAZRAATY_STORE_EMAIL" default:"orders@mazraaty.om"`
	Phone   string `envconfig:"MAZRAATY_STORE_PHONE" default:""`
	Address string `envconfig:"MAZRAATY_STORE_ADDRESS" default:""`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"MAZRAATY_CRON_INTERVAL" default:"24h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
