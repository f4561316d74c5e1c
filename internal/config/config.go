package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"creator-marketplace/internal/models"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Auth     AuthConfig
	Stripe   StripeConfig
	AWS      AWSConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Jobs     JobsConfig
	Plans    PlanTable
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	AppURL         string
}

// AuthConfig holds identity-provider token settings
type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

// StripeConfig holds payment provider settings
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
}

// AWSConfig holds email and object storage settings
type AWSConfig struct {
	Region        string
	SESFromEmail  string
	SESReplyTo    string
	UploadsBucket string
}

// RedisConfig holds cache settings
type RedisConfig struct {
	URL      string
	TradeTTL time.Duration
}

// KafkaConfig holds event publishing settings
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// JobsConfig holds background job settings
type JobsConfig struct {
	MatchNotifyInterval time.Duration
}

// Plan is one purchasable subscription tier
type Plan struct {
	Credits      int             `yaml:"credits"`
	PriceID      string          `yaml:"price_id"`
	MonthlyPrice decimal.Decimal `yaml:"-"`
	Price        string          `yaml:"monthly_price"`
}

// PlanTable maps tiers to their credit allotment and provider price id
type PlanTable map[models.Tier]Plan

// Credits returns the fixed credit allotment of tier t
func (p PlanTable) Credits(t models.Tier) int {
	return p[t].Credits
}

// TierForPrice maps a provider price id back to a tier
func (p PlanTable) TierForPrice(priceID string) (models.Tier, bool) {
	for tier, plan := range p {
		if plan.PriceID != "" && plan.PriceID == priceID {
			return tier, true
		}
	}
	return "", false
}

// DefaultPlans is the built-in tier table, overridable by PLANS_FILE
func DefaultPlans() PlanTable {
	return PlanTable{
		models.Tier1: {Credits: 1, MonthlyPrice: decimal.NewFromInt(99)},
		models.Tier2: {Credits: 3, MonthlyPrice: decimal.NewFromInt(249)},
		models.Tier3: {Credits: 10, MonthlyPrice: decimal.NewFromInt(699)},
	}
}

type plansFile struct {
	Tiers map[string]Plan `yaml:"tiers"`
}

// LoadPlans overlays the YAML plan file at path onto the defaults.
// A missing file is not an error.
func LoadPlans(path string) (PlanTable, error) {
	plans := DefaultPlans()

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return plans, nil
		}
		return nil, fmt.Errorf("read plans file: %w", err)
	}

	var f plansFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse plans file: %w", err)
	}

	for name, override := range f.Tiers {
		tier := models.Tier(name)
		if !tier.Valid() {
			return nil, fmt.Errorf("plans file: unknown tier %q", name)
		}
		plan := plans[tier]
		if override.Credits > 0 {
			plan.Credits = override.Credits
		}
		if override.PriceID != "" {
			plan.PriceID = override.PriceID
		}
		if override.Price != "" {
			price, err := decimal.NewFromString(override.Price)
			if err != nil {
				return nil, fmt.Errorf("plans file: tier %s price: %w", name, err)
			}
			plan.MonthlyPrice = price
		}
		plans[tier] = plan
	}
	return plans, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	plans, err := LoadPlans(getEnv("PLANS_FILE", "plans.yaml"))
	if err != nil {
		return nil, err
	}
	for tier, key := range map[models.Tier]string{
		models.Tier1: "STRIPE_PRICE_TIER1",
		models.Tier2: "STRIPE_PRICE_TIER2",
		models.Tier3: "STRIPE_PRICE_TIER3",
	} {
		if v := os.Getenv(key); v != "" {
			plan := plans[tier]
			plan.PriceID = v
			plans[tier] = plan
		}
	}

	appURL := getEnv("APP_URL", "http://localhost:3000")

	config := &Config{
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "creator_marketplace"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", appURL)),
			AppURL:         appURL,
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", ""),
			Issuer:    getEnv("AUTH_ISSUER", ""),
		},
		Stripe: StripeConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
			SuccessURL:    getEnv("STRIPE_SUCCESS_URL", appURL+"/brand/billing?status=success"),
			CancelURL:     getEnv("STRIPE_CANCEL_URL", appURL+"/brand/billing?status=cancelled"),
		},
		AWS: AWSConfig{
			Region:        getEnv("AWS_REGION", "eu-west-2"),
			SESFromEmail:  getEnv("SES_FROM_EMAIL", ""),
			SESReplyTo:    getEnv("SES_REPLY_TO", ""),
			UploadsBucket: getEnv("UPLOADS_BUCKET", ""),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			TradeTTL: getDuration("TRADE_CACHE_TTL", 10*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_TOPIC", "marketplace.events"),
		},
		Jobs: JobsConfig{
			MatchNotifyInterval: getDuration("MATCH_NOTIFY_INTERVAL", 15*time.Minute),
		},
		Plans: plans,
	}

	// Validate required fields
	if config.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("AUTH_JWT_SECRET is required")
	}
	if config.Redis.TradeTTL <= 0 {
		return nil, fmt.Errorf("TRADE_CACHE_TTL must be positive, got %s", config.Redis.TradeTTL)
	}
	if config.Jobs.MatchNotifyInterval <= 0 {
		return nil, fmt.Errorf("MATCH_NOTIFY_INTERVAL must be positive, got %s", config.Jobs.MatchNotifyInterval)
	}

	return config, nil
}

// GetDSN returns the PostgreSQL connection string
func (c *Config) GetDSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
