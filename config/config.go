package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB         int    `mapstructure:"REDIS_CACHE_DB"`
	RedisAuthDB          int    `mapstructure:"REDIS_AUTH_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Negotiation planner tuning.
	PlannerTimeoutMS   int `mapstructure:"PLANNER_TIMEOUT_MS"`
	PlannerHorizonDays int `mapstructure:"PLANNER_HORIZON_DAYS"`
	PlannerCandidates  int `mapstructure:"PLANNER_CANDIDATES"`

	// Booking policy. The auto-accept/auto-select behaviour is deliberately
	// explicit configuration rather than inferred from urgency alone.
	AutoConfirmHighUrgency           bool `mapstructure:"AUTO_CONFIRM_HIGH_URGENCY"`
	AutoSelectHighUrgencyAlternative bool `mapstructure:"AUTO_SELECT_HIGH_URGENCY_ALTERNATIVE"`
	BookingRetryAttempts             int  `mapstructure:"BOOKING_RETRY_ATTEMPTS"`
	BookingRetryBackoffMS            int  `mapstructure:"BOOKING_RETRY_BACKOFF_MS"`

	// Reminder sweep.
	ReminderWindowHours int    `mapstructure:"REMINDER_WINDOW_HOURS"`
	ReminderSweepCron   string `mapstructure:"REMINDER_SWEEP_CRON"`

	// Notification transports.
	SMTPHost      string `mapstructure:"SMTP_HOST"`
	SMTPPort      string `mapstructure:"SMTP_PORT"`
	SMTPFrom      string `mapstructure:"SMTP_FROM"`
	SMSWebhookURL string `mapstructure:"SMS_WEBHOOK_URL"`
	SMSToken      string `mapstructure:"SMS_TOKEN"`

	// Firebase Cloud Messaging service account (push channel). Optional;
	// push delivery is disabled when empty.
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`

	// Gemini API key for the intent extraction adapter. Optional; the
	// keyword fallback is used when empty.
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 120)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_AUTH_DB", 1)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 2)
	viper.SetDefault("PLANNER_TIMEOUT_MS", 2000)
	viper.SetDefault("PLANNER_HORIZON_DAYS", 7)
	viper.SetDefault("PLANNER_CANDIDATES", 3)
	viper.SetDefault("AUTO_CONFIRM_HIGH_URGENCY", true)
	viper.SetDefault("AUTO_SELECT_HIGH_URGENCY_ALTERNATIVE", false)
	viper.SetDefault("BOOKING_RETRY_ATTEMPTS", 3)
	viper.SetDefault("BOOKING_RETRY_BACKOFF_MS", 50)
	viper.SetDefault("REMINDER_WINDOW_HOURS", 24)
	viper.SetDefault("REMINDER_SWEEP_CRON", "0 8 * * *")
	viper.SetDefault("SMTP_PORT", "587")
	viper.SetDefault("SMTP_FROM", "no-reply@nexusschedule.local")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("config: no config file found, relying on environment: %v", err)
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("config: unable to decode configuration: %v", err)
	}
}
