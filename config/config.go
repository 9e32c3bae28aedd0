package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	Timezone          string `mapstructure:"TIMEZONE"`

	// MongoDB.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Estimate assistant.
	AIProvider         string  `mapstructure:"AI_PROVIDER"`
	XAIAPIKey          string  `mapstructure:"XAI_API_KEY"`
	XAIBaseURL         string  `mapstructure:"XAI_BASE_URL"`
	XAIModel           string  `mapstructure:"XAI_MODEL"`
	GeminiAPIKey       string  `mapstructure:"GEMINI_API_KEY"`
	GeminiModel        string  `mapstructure:"GEMINI_MODEL"`
	AIMaxTurns         int     `mapstructure:"AI_MAX_TURNS"`
	EstimateTTLMinutes int     `mapstructure:"ESTIMATE_TTL_MINUTES"`
	GuidedPrice        float64 `mapstructure:"GUIDED_PRICE"`

	// Booking submission.
	WorkizEnabled       bool     `mapstructure:"WORKIZ_ENABLED"`
	WorkizAPIKey        string   `mapstructure:"WORKIZ_API_KEY"`
	WorkizAPIURL        string   `mapstructure:"WORKIZ_API_URL"`
	ServiceAreaPrefixes []string `mapstructure:"SERVICE_AREA_PREFIXES"`

	// Cloudinary photo uploads.
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`

	// S3-compatible photo bucket, used when Cloudinary is not configured.
	MinioEndpoint  string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `mapstructure:"MINIO_SECRET_KEY"`
	MinioBucket    string `mapstructure:"MINIO_BUCKET"`
	MinioUseSSL    bool   `mapstructure:"MINIO_USE_SSL"`
	MinioPublicURL string `mapstructure:"MINIO_PUBLIC_URL"`

	// Booking confirmation email.
	SMTPHost      string `mapstructure:"SMTP_HOST"`
	SMTPPort      int    `mapstructure:"SMTP_PORT"`
	SMTPUsername  string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword  string `mapstructure:"SMTP_PASSWORD"`
	SMTPFromEmail string `mapstructure:"SMTP_FROM_EMAIL"`
	SMTPFromName  string `mapstructure:"SMTP_FROM_NAME"`

	// Admin dashboard.
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	AdminEmail        string `mapstructure:"ADMIN_EMAIL"`
	AdminPasswordHash string `mapstructure:"ADMIN_PASSWORD_HASH"`
}

var AppConfig Config

func LoadConfig() {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// setDefaults registers every key so AutomaticEnv can resolve it during Unmarshal.
func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 120)
	viper.SetDefault("TIMEZONE", "Local")

	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "junkbutler")

	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)

	viper.SetDefault("AI_PROVIDER", "xai")
	viper.SetDefault("XAI_API_KEY", "")
	viper.SetDefault("XAI_BASE_URL", "https://api.x.ai/v1")
	viper.SetDefault("XAI_MODEL", "grok-3-mini")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	viper.SetDefault("AI_MAX_TURNS", 40)
	viper.SetDefault("ESTIMATE_TTL_MINUTES", 60)
	viper.SetDefault("GUIDED_PRICE", 75)

	viper.SetDefault("WORKIZ_ENABLED", false)
	viper.SetDefault("WORKIZ_API_KEY", "")
	viper.SetDefault("WORKIZ_API_URL", "https://api.workiz.com/api/v1")
	viper.SetDefault("SERVICE_AREA_PREFIXES", []string{"900", "901", "902", "940", "941", "945", "946", "950", "951"})

	viper.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	viper.SetDefault("CLOUDINARY_API_KEY", "")
	viper.SetDefault("CLOUDINARY_API_SECRET", "")

	viper.SetDefault("MINIO_ENDPOINT", "")
	viper.SetDefault("MINIO_ACCESS_KEY", "")
	viper.SetDefault("MINIO_SECRET_KEY", "")
	viper.SetDefault("MINIO_BUCKET", "junkbutler-photos")
	viper.SetDefault("MINIO_USE_SSL", false)
	viper.SetDefault("MINIO_PUBLIC_URL", "")

	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USERNAME", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("SMTP_FROM_EMAIL", "bookings@junkbutler.com")
	viper.SetDefault("SMTP_FROM_NAME", "Junk Butler")

	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("ADMIN_EMAIL", "")
	viper.SetDefault("ADMIN_PASSWORD_HASH", "")
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// Location resolves TIMEZONE, falling back to the host zone.
func Location() *time.Location {
	if AppConfig.Timezone == "" || AppConfig.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(AppConfig.Timezone)
	if err != nil {
		log.Printf("Unknown TIMEZONE %q, using local time", AppConfig.Timezone)
		return time.Local
	}
	return loc
}

// EstimateTTL is how long an idle estimate dialogue survives in Redis.
func EstimateTTL() time.Duration {
	if AppConfig.EstimateTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(AppConfig.EstimateTTLMinutes) * time.Minute
}
