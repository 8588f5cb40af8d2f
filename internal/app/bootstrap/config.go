package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServiceID string

	HTTPPort int

	DatabaseURL string
	MaxDBConns  int32

	RedisURL string
	CacheTTL time.Duration

	KafkaBrokers          []string
	KafkaConsumerGroup    string
	KafkaTopicApplication string
	ConsumerPollInterval  time.Duration

	LoanMinAmount         float64
	LoanMaxAmount         float64
	LoanMinTermMonths     int
	LoanMaxTermMonths     int
	LoanApprovalThreshold float64
}

type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL           string   `yaml:"postgres_url"`
		RedisURL              string   `yaml:"redis_url"`
		KafkaBrokers          []string `yaml:"kafka_brokers"`
		KafkaConsumerGroup    string   `yaml:"kafka_consumer_group"`
		KafkaTopicApplication string   `yaml:"kafka_topic_applications"`
	} `yaml:"dependencies"`
	Loan struct {
		MinAmount         *float64 `yaml:"min_amount"`
		MaxAmount         *float64 `yaml:"max_amount"`
		MinTermMonths     *int     `yaml:"min_term_months"`
		MaxTermMonths     *int     `yaml:"max_term_months"`
		ApprovalThreshold *float64 `yaml:"approval_threshold"`
	} `yaml:"loan"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:             "loan-application-service",
		HTTPPort:              8080,
		MaxDBConns:            20,
		CacheTTL:              time.Hour,
		KafkaConsumerGroup:    "loan-processor",
		KafkaTopicApplication: "loan-applications",
		ConsumerPollInterval:  2 * time.Second,
		LoanMinAmount:         0,
		LoanMaxAmount:         1_000_000,
		LoanMinTermMonths:     1,
		LoanMaxTermMonths:     60,
		LoanApprovalThreshold: 50_000,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if len(f.Dependencies.KafkaBrokers) > 0 {
			cfg.KafkaBrokers = trimNonEmpty(f.Dependencies.KafkaBrokers)
		}
		if f.Dependencies.KafkaConsumerGroup != "" {
			cfg.KafkaConsumerGroup = f.Dependencies.KafkaConsumerGroup
		}
		if f.Dependencies.KafkaTopicApplication != "" {
			cfg.KafkaTopicApplication = f.Dependencies.KafkaTopicApplication
		}
		if f.Loan.MinAmount != nil {
			cfg.LoanMinAmount = *f.Loan.MinAmount
		}
		if f.Loan.MaxAmount != nil {
			cfg.LoanMaxAmount = *f.Loan.MaxAmount
		}
		if f.Loan.MinTermMonths != nil {
			cfg.LoanMinTermMonths = *f.Loan.MinTermMonths
		}
		if f.Loan.MaxTermMonths != nil {
			cfg.LoanMaxTermMonths = *f.Loan.MaxTermMonths
		}
		if f.Loan.ApprovalThreshold != nil {
			cfg.LoanApprovalThreshold = *f.Loan.ApprovalThreshold
		}
	}

	cfg.DatabaseURL = envOrDefault("DATABASE_URL", envOrDefault("DB_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.KafkaConsumerGroup = envOrDefault("KAFKA_CONSUMER_GROUP", cfg.KafkaConsumerGroup)
	cfg.KafkaTopicApplication = envOrDefault("KAFKA_TOPIC_APPLICATIONS", cfg.KafkaTopicApplication)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))
	cfg.CacheTTL = time.Duration(envInt("CACHE_TTL_SECONDS", int(cfg.CacheTTL.Seconds()))) * time.Second
	cfg.ConsumerPollInterval = time.Duration(envInt("CONSUMER_POLL_SECONDS", int(cfg.ConsumerPollInterval.Seconds()))) * time.Second
	cfg.LoanMinAmount = envFloat("LOAN_MIN_AMOUNT", cfg.LoanMinAmount)
	cfg.LoanMaxAmount = envFloat("LOAN_MAX_AMOUNT", cfg.LoanMaxAmount)
	cfg.LoanMinTermMonths = envInt("LOAN_MIN_TERM_MONTHS", cfg.LoanMinTermMonths)
	cfg.LoanMaxTermMonths = envInt("LOAN_MAX_TERM_MONTHS", cfg.LoanMaxTermMonths)
	cfg.LoanApprovalThreshold = envFloat("LOAN_APPROVAL_THRESHOLD", cfg.LoanApprovalThreshold)

	if cfg.LoanMinAmount >= cfg.LoanMaxAmount {
		return Config{}, fmt.Errorf("loan min amount %v must be below max amount %v", cfg.LoanMinAmount, cfg.LoanMaxAmount)
	}
	if cfg.LoanMinTermMonths > cfg.LoanMaxTermMonths {
		return Config{}, fmt.Errorf("loan min term %d must not exceed max term %d", cfg.LoanMinTermMonths, cfg.LoanMaxTermMonths)
	}
	return cfg, nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envFloat(name string, fallback float64) float64 {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func envCSV(name string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	return trimNonEmpty(strings.Split(raw, ","))
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
