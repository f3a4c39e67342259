package cmd

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

type Config struct {
	ServiceName  string
	LogLevel     string
	Development  bool
	HTTPPort     string
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBSslMode    string
	KafkaBrokers string
	KafkaTopic   string

	OTPTTL            time.Duration
	BcryptCost        int
	DeliveryFee       int64
	EstimatedDelivery time.Duration
	ListPageSize      int

	EarningsResetSchedule       string
	AgentReconciliationSchedule string
	ShutdownTimeout             time.Duration
}

// LoadConfig reads the environment, optionally seeded from a .env file in the working directory.
func LoadConfig() Config {
	_ = godotenv.Load(".env")

	return Config{
		ServiceName:  cast.ToString(getOrReturnDefault("SERVICE_NAME", "fulfillment")),
		LogLevel:     cast.ToString(getOrReturnDefault("LOG_LEVEL", "info")),
		Development:  cast.ToBool(getOrReturnDefault("DEVELOPMENT", false)),
		HTTPPort:     cast.ToString(getOrReturnDefault("HTTP_PORT", "8080")),
		DBHost:       cast.ToString(getOrReturnDefault("DB_HOST", "localhost")),
		DBPort:       cast.ToString(getOrReturnDefault("DB_PORT", "5432")),
		DBUser:       cast.ToString(getOrReturnDefault("DB_USER", "postgres")),
		DBPassword:   cast.ToString(getOrReturnDefault("DB_PASSWORD", "postgres")),
		DBName:       cast.ToString(getOrReturnDefault("DB_NAME", "fulfillment")),
		DBSslMode:    cast.ToString(getOrReturnDefault("DB_SSLMODE", "disable")),
		KafkaBrokers: cast.ToString(getOrReturnDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   cast.ToString(getOrReturnDefault("KAFKA_ORDER_EVENTS_TOPIC", "order.events")),

		OTPTTL:            cast.ToDuration(getOrReturnDefault("OTP_TTL", "10m")),
		BcryptCost:        cast.ToInt(getOrReturnDefault("BCRYPT_COST", 10)),
		DeliveryFee:       cast.ToInt64(getOrReturnDefault("DELIVERY_FEE", 5000)),
		EstimatedDelivery: cast.ToDuration(getOrReturnDefault("ESTIMATED_DELIVERY", "45m")),
		ListPageSize:      cast.ToInt(getOrReturnDefault("LIST_PAGE_SIZE", 50)),

		EarningsResetSchedule:       cast.ToString(getOrReturnDefault("EARNINGS_RESET_SCHEDULE", "")),
		AgentReconciliationSchedule: cast.ToString(getOrReturnDefault("AGENT_RECONCILIATION_SCHEDULE", "")),
		ShutdownTimeout:             cast.ToDuration(getOrReturnDefault("SHUTDOWN_TIMEOUT", "15s")),
	}
}

// DSN is the PostgreSQL connection URL for both GORM and the migrator.
func (c Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     fmt.Sprintf("%s:%s", c.DBHost, c.DBPort),
		Path:     c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.DBSslMode}}.Encode(),
	}
	return u.String()
}

func getOrReturnDefault(key string, defaultValue any) any {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}
