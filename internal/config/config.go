package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Auth     AuthConfig     `yaml:"auth"`
	Cache    CacheConfig    `yaml:"cache"`
	Tables   TablesConfig   `yaml:"tables"`
	Billing  BillingConfig  `yaml:"billing"`
}

type HTTPConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Database   string `yaml:"database"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type AuthConfig struct {
	JWTSecret   string `yaml:"jwt_secret"`
	TokenTTLMin int    `yaml:"token_ttl_min"`
}

type CacheConfig struct {
	MenuTTLSec int `yaml:"menu_ttl_sec"`
}

type TablesConfig struct {
	Count int `yaml:"count"`
}

type BillingConfig struct {
	TaxRate float64 `yaml:"tax_rate"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 5000
	}
	if c.Database.TimeoutSec == 0 {
		c.Database.TimeoutSec = 5
	}
	if c.Auth.TokenTTLMin == 0 {
		c.Auth.TokenTTLMin = 8 * 60
	}
	if c.Cache.MenuTTLSec == 0 {
		c.Cache.MenuTTLSec = 30
	}
	if c.Tables.Count == 0 {
		c.Tables.Count = 15
	}
	if c.Billing.TaxRate == 0 {
		c.Billing.TaxRate = 0.10
	}
}

func (c *Config) StoreTimeout() time.Duration {
	return time.Duration(c.Database.TimeoutSec) * time.Second
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLMin) * time.Minute
}

func (c *Config) MenuTTL() time.Duration {
	return time.Duration(c.Cache.MenuTTLSec) * time.Second
}
