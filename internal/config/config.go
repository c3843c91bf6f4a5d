package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StorageConfig struct {
	Endpoint    string
	AccessKey   string
	SecretKey   string
	BucketMedia string
	UseSSL      bool
	Region      string
}

type SecurityConfig struct {
	JWTSecret    string
	JWTAccessTTL time.Duration
	OTPTokenTTL  time.Duration
	OTPCodeTTL   time.Duration
	ResetTTL     time.Duration
	MediaSecret  string
}

// CourseConfig holds the drip-feed policy knobs and the distinguished
// super-admin bootstrap identity.
type CourseConfig struct {
	SuperAdminEmail    string
	SuperAdminPassword string
	SpecialAccessTTL   time.Duration
	RequestLimit       int
	StoreTimeout       time.Duration
}

type MailConfig struct {
	ServerToken string
	FromEmail   string
	BaseURL     string
	Stream      string
	Group       string
}

type PaymentConfig struct {
	SecretKey     string
	WebhookSecret string
	CourseAmount  int64
	IntroAmount   int64
	Currency      string
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Storage          StorageConfig
	Security         SecurityConfig
	Course           CourseConfig
	Mail             MailConfig
	Payment          PaymentConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("LIFECOURSE")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 10)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("storage.bucketmedia", "lifecourse-media")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("security.jwtaccessttl", "168h") // 7 days
	v.SetDefault("security.otptokenttl", "10m")
	v.SetDefault("security.otpcodettl", "10m")
	v.SetDefault("security.resetttl", "1h")

	v.SetDefault("course.specialaccessttl", "2h")
	v.SetDefault("course.requestlimit", 3)
	v.SetDefault("course.storetimeout", "5s")

	v.SetDefault("mail.stream", "mail:outbound")
	v.SetDefault("mail.group", "mailer")

	v.SetDefault("payment.courseamount", 3000000) // 30,000 INR in paise
	v.SetDefault("payment.introamount", 19900)    // 199 INR in paise
	v.SetDefault("payment.currency", "inr")
}
