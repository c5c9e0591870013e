package config

import (
	"time"
)

type CheckoutConfig struct {
	GatewayTimeout      time.Duration `yaml:"gateway_timeout"`
	VerifyTimeout       time.Duration `yaml:"verify_timeout"`
	CommitTimeout       time.Duration `yaml:"commit_timeout"`
	EventTimeout        time.Duration `yaml:"event_timeout"`
	EvaluateRatePerSec  float64       `yaml:"evaluate_rate_per_sec"`
	EvaluateBurst       int           `yaml:"evaluate_burst"`
	DefaultPerUserLimit int           `yaml:"default_per_user_limit"`
}

func loadCheckoutConfig() *CheckoutConfig {
	return &CheckoutConfig{
		GatewayTimeout:      getEnvAsDuration("CHECKOUT_GATEWAY_TIMEOUT", 10*time.Second),
		VerifyTimeout:       getEnvAsDuration("CHECKOUT_VERIFY_TIMEOUT", 10*time.Second),
		CommitTimeout:       getEnvAsDuration("CHECKOUT_COMMIT_TIMEOUT", 15*time.Second),
		EventTimeout:        getEnvAsDuration("CHECKOUT_EVENT_TIMEOUT", 5*time.Second),
		EvaluateRatePerSec:  getEnvAsFloat64("COUPON_EVALUATE_RATE_PER_SEC", 2),
		EvaluateBurst:       getEnvAsInt("COUPON_EVALUATE_BURST", 10),
		DefaultPerUserLimit: getEnvAsInt("COUPON_DEFAULT_PER_USER_LIMIT", 1),
	}
}
