package config

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "etc/farmer.yaml"

type Config struct {
	DefaultUser string        `yaml:"default_user"`
	DefaultPass string        `yaml:"default_pass"`
	SecretKey   string        `yaml:"secret_key"`
	JWTIssuer   string        `yaml:"jwt_issuer"`
	TokenTTL    time.Duration `yaml:"token_ttl"`
	DatabaseURL string        `yaml:"database_url"`
	ListenAddr  string        `yaml:"listen_addr"`
	PublicURL   string        `yaml:"public_url"`
	Redis       RedisConfig   `yaml:"redis"`
	Kafka       KafkaConfig   `yaml:"kafka"`
	Mail        MailConfig    `yaml:"mail"`
	LoginRate   RateConfig    `yaml:"login_rate"`
	Log         LogConfig     `yaml:"log"`
}

type RedisConfig struct {
	Addr string        `yaml:"addr"`
	TTL  time.Duration `yaml:"ttl"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"group_id"`
}

type MailConfig struct {
	Addr    string        `yaml:"addr"`
	From    string        `yaml:"from"`
	To      string        `yaml:"to"`
	Timeout time.Duration `yaml:"timeout"`
}

type RateConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() *Config {
	return &Config{
		JWTIssuer:  "farmer",
		TokenTTL:   24 * time.Hour,
		ListenAddr: ":8080",
		PublicURL:  "http://localhost:8080",
		Redis:      RedisConfig{TTL: 5 * time.Minute},
		Kafka:      KafkaConfig{Topic: "farmer-orders", GroupID: "farmer-notify"},
		Mail: MailConfig{
			Addr:    "localhost:25",
			From:    "farmer@localhost",
			To:      "farmer@localhost",
			Timeout: 10 * time.Second,
		},
		LoginRate: RateConfig{RPS: 1, Burst: 5},
		Log:       LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads the YAML file at path, applies FARMER_* environment overrides
// (a .env file in the working directory is honoured) and validates the result.
// A missing file is not an error when the environment supplies everything.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	_ = godotenv.Load()
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DefaultUser == "" || c.DefaultPass == "" {
		return fmt.Errorf("config: default_user and default_pass are required")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("config: secret_key is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("config: database_url is required")
	}
	return nil
}

func applyEnv(c *Config) error {
	setString(&c.DefaultUser, "FARMER_DEFAULT_USER")
	setString(&c.DefaultPass, "FARMER_DEFAULT_PASS")
	setString(&c.SecretKey, "FARMER_SECRET_KEY")
	setString(&c.JWTIssuer, "FARMER_JWT_ISSUER")
	setString(&c.DatabaseURL, "FARMER_DATABASE_URL")
	setString(&c.ListenAddr, "FARMER_LISTEN_ADDR")
	setString(&c.PublicURL, "FARMER_PUBLIC_URL")
	setString(&c.Redis.Addr, "FARMER_REDIS_ADDR")
	setString(&c.Kafka.Topic, "FARMER_KAFKA_TOPIC")
	setString(&c.Mail.Addr, "FARMER_MAIL_ADDR")
	setString(&c.Mail.From, "FARMER_MAIL_FROM")
	setString(&c.Mail.To, "FARMER_MAIL_TO")
	setString(&c.Log.Level, "FARMER_LOG_LEVEL")
	setString(&c.Log.Format, "FARMER_LOG_FORMAT")

	if v := os.Getenv("FARMER_KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("FARMER_TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("FARMER_TOKEN_TTL: %w", err)
		}
		c.TokenTTL = ttl
	}
	if v := os.Getenv("FARMER_LOGIN_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("FARMER_LOGIN_RPS: %w", err)
		}
		c.LoginRate.RPS = rps
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func OpenRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func NewKafkaReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
	})
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}
