package config

import (
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"yardcore/registry"
)

type Config struct {
	mu sync.RWMutex `yaml:"-"`

	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Sensors   SensorsConfig   `yaml:"sensors"`
	Messaging MessagingConfig `yaml:"messaging"`
	Web       WebConfig       `yaml:"web"`
	Rollup    RollupConfig    `yaml:"rollup"`
	Policy    registry.Policy `yaml:"policy"`
}

type DatabaseConfig struct {
	Driver   string         `yaml:"driver"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// SensorsConfig covers the MQTT broker the wheel sensors publish to.
type SensorsConfig struct {
	Broker      string `yaml:"broker"`
	Port        int    `yaml:"port"`
	ClientID    string `yaml:"client_id"`
	TopicPrefix string `yaml:"topic_prefix"`
}

// MessagingConfig covers outbound Kafka event publication.
type MessagingConfig struct {
	Kafka       KafkaConfig `yaml:"kafka"`
	EventsTopic string      `yaml:"events_topic"`
	YardID      string      `yaml:"yard_id"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	GroupID string   `yaml:"group_id"`
}

type WebConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type RollupConfig struct {
	RecomputeInterval  time.Duration `yaml:"recompute_interval"`
	CheckpointInterval time.Duration `yaml:"checkpoint_interval"`
}

func Defaults() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: "sqlite",
			SQLite: SQLiteConfig{Path: "yardcore.db"},
			Postgres: PostgresConfig{
				Host:     "localhost",
				Port:     5432,
				Database: "yardcore",
				User:     "yardcore",
				Password: "",
				SSLMode:  "disable",
			},
		},
		Redis: RedisConfig{
			Address:  "localhost:6379",
			Password: "",
			DB:       0,
		},
		Sensors: SensorsConfig{
			Broker:      "localhost",
			Port:        1883,
			ClientID:    "yardcore",
			TopicPrefix: "yard",
		},
		Messaging: MessagingConfig{
			Kafka: KafkaConfig{
				Brokers: []string{"localhost:9092"},
				GroupID: "yardcore",
			},
			EventsTopic: "yard.events",
			YardID:      "yard-1",
		},
		Web: WebConfig{
			Host: "0.0.0.0",
			Port: 8084,
		},
		Rollup: RollupConfig{
			RecomputeInterval:  30 * time.Second,
			CheckpointInterval: 5 * time.Minute,
		},
		Policy: registry.DefaultPolicy(),
	}
}

func Load(path string) (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Policy.DesignLifeHours == nil {
		cfg.Policy.DesignLifeHours = registry.DefaultPolicy().DesignLifeHours
	} else {
		// Fill types the file leaves out.
		for t, h := range registry.DefaultPolicy().DesignLifeHours {
			if _, ok := cfg.Policy.DesignLifeHours[t]; !ok {
				cfg.Policy.DesignLifeHours[t] = h
			}
		}
	}
	return cfg, nil
}

func (c *Config) Save(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Lock()   { c.mu.Lock() }
func (c *Config) Unlock() { c.mu.Unlock() }
