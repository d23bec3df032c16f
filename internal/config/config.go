package config

import (
	"os"

	"github.com/shopspring/decimal"
)

// PayRates are the deployment-wide pricing coefficients. They are loaded once
// at startup and treated as immutable afterwards; nothing in the claim or
// payroll flow is allowed to mutate them per request.
type PayRates struct {
	MonthlyBaseRate    decimal.Decimal
	RemoteHourlyRate   decimal.Decimal
	CommissionBonus    decimal.Decimal
	DefaultUnitPrice   decimal.Decimal
	DefaultTravelBonus decimal.Decimal
}

type Config struct {
	Port             string
	JWTSecret        string
	ApproverPassHash string
	KafkaBroker      string
	RedisAddr        string
	Rates            PayRates
}

func Load() Config {
	return Config{
		Port:             getEnv("PORT", "3000"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		ApproverPassHash: os.Getenv("APPROVER_PASSPHRASE_HASH"),
		KafkaBroker:      os.Getenv("KAFKA_BROKER"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		Rates: PayRates{
			MonthlyBaseRate:    getDecimal("PAY_MONTHLY_BASE_RATE", "6000"),
			RemoteHourlyRate:   getDecimal("PAY_REMOTE_HOURLY_RATE", "30"),
			CommissionBonus:    getDecimal("PAY_COMMISSION_BONUS", "500"),
			DefaultUnitPrice:   getDecimal("PAY_DEFAULT_UNIT_PRICE", "0"),
			DefaultTravelBonus: getDecimal("PAY_DEFAULT_TRAVEL_BONUS", "0"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDecimal(key, fallback string) decimal.Decimal {
	raw := getEnv(key, fallback)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		d, _ = decimal.NewFromString(fallback)
	}
	return d
}
