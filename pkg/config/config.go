package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	AMQP         AMQPConfig
	Stock        StockConfig
	Images       ImagesConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"NEUTRON_APP_ENV" required:"true"`
	Port         string `envconfig:"NEUTRON_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"NEUTRON_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"NEUTRON_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"NEUTRON_DB_DSN"`
	Driver string `envconfig:"NEUTRON_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"NEUTRON_DB_HOST"`
	Port     int    `envconfig:"NEUTRON_DB_PORT" default:"5432"`
	User     string `envconfig:"NEUTRON_DB_USER"`
	Password string `envconfig:"NEUTRON_DB_PASSWORD"`
	Name     string `envconfig:"NEUTRON_DB_NAME"`
	SSLMode  string `envconfig:"NEUTRON_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"NEUTRON_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"NEUTRON_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"NEUTRON_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"NEUTRON_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either NEUTRON_DB_DSN or NEUTRON_DB_HOST/USER/NAME must be set")
	}
	d.DSN = fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"NEUTRON_REDIS_URL"`
	Address      string        `envconfig:"NEUTRON_REDIS_ADDR"`
	Password     string        `envconfig:"NEUTRON_REDIS_PASSWORD"`
	DB           int           `envconfig:"NEUTRON_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"NEUTRON_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"NEUTRON_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"NEUTRON_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"NEUTRON_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"NEUTRON_REDIS_WRITE_TIMEOUT" default:"5s"`
	ProductTTL   time.Duration `envconfig:"NEUTRON_REDIS_PRODUCT_TTL" default:"5m"`
}

type AMQPConfig struct {
	URL            string        `envconfig:"NEUTRON_AMQP_URL" required:"true"`
	StockExchange  string        `envconfig:"NEUTRON_AMQP_STOCK_EXCHANGE" default:"stock.events"`
	ExchangeType   string        `envconfig:"NEUTRON_AMQP_EXCHANGE_TYPE" default:"topic"`
	PublishTimeout time.Duration `envconfig:"NEUTRON_AMQP_PUBLISH_TIMEOUT" default:"5s"`
}

type StockConfig struct {
	LowThreshold int `envconfig:"NEUTRON_STOCK_LOW_THRESHOLD" default:"10"`
}

type ImagesConfig struct {
	Dir         string `envconfig:"NEUTRON_IMAGES_DIR" default:"/app/images"`
	PublicPath  string `envconfig:"NEUTRON_IMAGES_PUBLIC_PATH" default:"/images"`
	MaxUploadMB int    `envconfig:"NEUTRON_IMAGES_MAX_UPLOAD_MB" default:"10"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"NEUTRON_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"NEUTRON_AUTO_MIGRATE" default:"false"`
}
