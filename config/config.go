package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Scheduling.
	MinLeadMinutes              int     `mapstructure:"MIN_LEAD_MINUTES"`
	DefaultEmergencyLeadMinutes int     `mapstructure:"DEFAULT_EMERGENCY_LEAD_MINUTES"`
	EmergencySurchargeRate      float64 `mapstructure:"EMERGENCY_SURCHARGE_RATE"`
	DefaultSlotStepMinutes      int     `mapstructure:"DEFAULT_SLOT_STEP_MINUTES"`
	MaxResolveDays              int     `mapstructure:"MAX_RESOLVE_DAYS"`
	DefaultTimezone             string  `mapstructure:"DEFAULT_TIMEZONE"`

	// Bookings.
	CancellationRequestTTLHours int `mapstructure:"CANCELLATION_REQUEST_TTL_HOURS"`
	BookingLockTTLSeconds       int `mapstructure:"BOOKING_LOCK_TTL_SECONDS"`
}

var AppConfig Config

func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "handyhub")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_QUEUE_DB", 3)

	// Two days of notice for regular bookings.
	v.SetDefault("MIN_LEAD_MINUTES", 2880)
	v.SetDefault("DEFAULT_EMERGENCY_LEAD_MINUTES", 60)
	v.SetDefault("EMERGENCY_SURCHARGE_RATE", 0.5)
	v.SetDefault("DEFAULT_SLOT_STEP_MINUTES", 30)
	v.SetDefault("MAX_RESOLVE_DAYS", 62)
	v.SetDefault("DEFAULT_TIMEZONE", "UTC")

	v.SetDefault("CANCELLATION_REQUEST_TTL_HOURS", 48)
	v.SetDefault("BOOKING_LOCK_TTL_SECONDS", 10)
}

// Defaults returns a Config populated only with default values. Useful in tests and tools.
func Defaults() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("Failed to load default config: %v", err)
	}
	return cfg
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
