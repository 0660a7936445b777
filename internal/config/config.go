package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Checkout CheckoutConfig `mapstructure:"checkout"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type StorageConfig struct {
	// Driver selects the key-value medium: "memory" or "redis".
	Driver    string `mapstructure:"driver"`
	RedisAddr string `mapstructure:"redis_addr"`
	Prefix    string `mapstructure:"prefix"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type TracingConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	JaegerURL string `mapstructure:"jaeger_url"`
}

type CheckoutConfig struct {
	CountdownSeconds   int     `mapstructure:"countdown_seconds"`
	VerifyDelaySeconds int     `mapstructure:"verify_delay_seconds"`
	SuccessRate        float64 `mapstructure:"success_rate"`
}

// Load reads config.yaml plus STOREFRONT_-prefixed environment overrides.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./")
	v.AddConfigPath("/etc/storefront/")

	v.SetEnvPrefix("STOREFRONT")
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.redis_addr", "localhost:6379")
	v.SetDefault("storage.prefix", "storefront")
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "storefront.events")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.jaeger_url", "http://localhost:14268/api/traces")
	v.SetDefault("checkout.countdown_seconds", 900)
	v.SetDefault("checkout.verify_delay_seconds", 5)
	v.SetDefault("checkout.success_rate", 0.8)

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional; defaults plus env cover the demo run.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
