package config

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"gopkg.in/yaml.v3"
)

const (
	TransportKafka = "kafka"
	TransportHTTP  = "http"
	TransportNone  = "none"
)

// Config is shared by webapp-svc, the gateway and the CLI. Values come from
// defaults, then the YAML file at CONFIG_PATH, then the environment.
type Config struct {
	HTTPAddr         string        `yaml:"http_addr"`
	PublicURL        string        `yaml:"public_url"`
	CatalogPath      string        `yaml:"catalog_path"`
	RatingSvcURL     string        `yaml:"rating_svc_url"`
	RatingTimeout    time.Duration `yaml:"rating_timeout"`
	RatingRetries    int           `yaml:"rating_retries"`
	RatingRetryDelay time.Duration `yaml:"rating_retry_delay"`
	RedisAddr        string        `yaml:"redis_addr"`
	SessionSecret    string        `yaml:"session_secret"`
	SessionTTL       time.Duration `yaml:"session_ttl"`
	SecureCookies    bool          `yaml:"secure_cookies"`
	BridgeTransport  string        `yaml:"bridge_transport"`
	KafkaBroker      string        `yaml:"kafka_broker"`
	BridgeTopic      string        `yaml:"bridge_topic"`
	BridgeEndpoint   string        `yaml:"bridge_endpoint"`
	RelayGroupID     string        `yaml:"relay_group_id"`
	BotToken         string        `yaml:"bot_token"`
	InitDataMaxAge   time.Duration `yaml:"init_data_max_age"`
	AllowedOrigins   []string      `yaml:"allowed_origins"`
	MaxUploadBytes   int64         `yaml:"max_upload_bytes"`

	GatewayAddr  string `yaml:"gateway_addr"`
	WebappSvcURL string `yaml:"webapp_svc_url"`
}

func Defaults() Config {
	return Config{
		HTTPAddr:         ":8084",
		PublicURL:        "http://localhost:8084",
		CatalogPath:      "./data/beer_db.json",
		RatingSvcURL:     "https://tgbotbeerchek.onrender.com",
		RatingTimeout:    5 * time.Second,
		RatingRetries:    2,
		RatingRetryDelay: 200 * time.Millisecond,
		SessionTTL:       24 * time.Hour,
		BridgeTransport:  TransportNone,
		BridgeTopic:      "webapp-data",
		RelayGroupID:     "webapp-relay",
		InitDataMaxAge:   24 * time.Hour,
		AllowedOrigins:   []string{"https://frontend-telegram-webapp.vercel.app", "http://localhost:3000"},
		MaxUploadBytes:   10 << 20,
		GatewayAddr:      ":8080",
		WebappSvcURL:     "http://localhost:8084",
	}
}

// Load builds the configuration. A missing YAML file is not an error.
func Load() (Config, error) {
	cfg := Defaults()

	path := getEnv("CONFIG_PATH", "config.yaml")
	if err := loadFile(path, &cfg); err != nil {
		return Config{}, err
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	cfg.BridgeTransport = strings.ToLower(strings.TrimSpace(cfg.BridgeTransport))
	switch cfg.BridgeTransport {
	case TransportKafka, TransportHTTP, TransportNone:
	case "":
		cfg.BridgeTransport = TransportNone
	default:
		return Config{}, fmt.Errorf("unknown BRIDGE_TRANSPORT %q", cfg.BridgeTransport)
	}
	if cfg.SessionSecret == "" {
		log.Printf("Warning: SESSION_SECRET is not set, sessions will not survive a restart")
		cfg.SessionSecret = strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file at '%s': %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.HTTPAddr, "HTTP_ADDR")
	setString(&cfg.PublicURL, "PUBLIC_URL")
	setString(&cfg.CatalogPath, "CATALOG_PATH")
	setString(&cfg.RatingSvcURL, "RATING_SVC_URL")
	setString(&cfg.RedisAddr, "REDIS_ADDR")
	setString(&cfg.SessionSecret, "SESSION_SECRET")
	setString(&cfg.BridgeTransport, "BRIDGE_TRANSPORT")
	setString(&cfg.KafkaBroker, "KAFKA_BROKER")
	setString(&cfg.BridgeTopic, "BRIDGE_TOPIC")
	setString(&cfg.BridgeEndpoint, "BRIDGE_ENDPOINT")
	setString(&cfg.RelayGroupID, "RELAY_GROUP_ID")
	setString(&cfg.BotToken, "BOT_TOKEN")
	setString(&cfg.GatewayAddr, "GATEWAY_ADDR")
	setString(&cfg.WebappSvcURL, "WEBAPP_SVC_URL")

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = parseList(v)
	}

	for key, target := range map[string]*time.Duration{
		"RATING_TIMEOUT":     &cfg.RatingTimeout,
		"RATING_RETRY_DELAY": &cfg.RatingRetryDelay,
		"SESSION_TTL":        &cfg.SessionTTL,
		"INIT_DATA_MAX_AGE":  &cfg.InitDataMaxAge,
	} {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*target = d
		}
	}

	if v := os.Getenv("RATING_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid RATING_RETRIES %q", v)
		}
		cfg.RatingRetries = n
	}
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid MAX_UPLOAD_BYTES %q", v)
		}
		cfg.MaxUploadBytes = n
	}
	if v := os.Getenv("SECURE_COOKIES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SECURE_COOKIES %q", v)
		}
		cfg.SecureCookies = b
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func setString(target *string, key string) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		*target = value
	}
}

func parseList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func MustInitRedis(addr string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	return client
}

func NewKafkaReader(broker, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{broker},
		Topic:   topic,
		GroupID: groupID,
	})
}

func NewKafkaWriter(broker, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}
