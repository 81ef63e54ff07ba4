// Package config loads service configuration from environment variables,
// optionally seeded from a .env file.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/tradeforge/matching-engine/pkg/errors"
)

// Config holds the matching engine service configuration.
type Config struct {
	// Instrument is the single traded instrument this engine serves.
	Instrument string `env:"INSTRUMENT" envDefault:"ACME"`

	// ListenAddr is the TCP order intake listen address.
	ListenAddr string `env:"LISTEN_ADDR" envDefault:"0.0.0.0:54000"`

	// TradeLogPath is the CSV trade log destination. Empty disables the log.
	TradeLogPath string `env:"TRADE_LOG_PATH" envDefault:"trade_log.csv"`

	// TradePollInterval is the dispatcher backoff when the trade queue is empty.
	TradePollInterval time.Duration `env:"TRADE_POLL_INTERVAL" envDefault:"10ms"`

	// KafkaBrokers enables the Kafka adapters when non-empty.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	// KafkaTradeTopic receives published trades.
	KafkaTradeTopic string `env:"KAFKA_TRADE_TOPIC" envDefault:"trades"`

	// KafkaOrderTopic is the optional inbound order stream. Empty disables
	// the Kafka order reader even when brokers are configured.
	KafkaOrderTopic string `env:"KAFKA_ORDER_TOPIC"`

	// LogLevel is the minimum log severity: debug, info, warn or error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads the configuration from the environment. A missing .env file is
// not an error; a malformed environment is.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, errors.NewTracerWithCode(errors.ConfigError).Wrap(err)
	}
	return &cfg, nil
}

// KafkaEnabled reports whether the Kafka trade publisher should run.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// KafkaOrderReaderEnabled reports whether the Kafka order reader should run.
func (c *Config) KafkaOrderReaderEnabled() bool {
	return c.KafkaEnabled() && c.KafkaOrderTopic != ""
}
