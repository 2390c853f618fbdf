package shared

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ErrInvalidConfig reports a loaded configuration that cannot run.
var ErrInvalidConfig = errors.New("invalid config")

const (
	envPrefix  = "REVIEWS_"
	envCfgFile = "REVIEWS_CONFIG"
)

type Config struct {
	AppEnv      string `koanf:"app_env"`
	LogLevel    string `koanf:"log_level"`
	HTTPAddr    string `koanf:"http_addr"`
	MetricsAddr string `koanf:"metrics_addr"` // empty serves /metrics on the API router
	DataFile    string `koanf:"data_file"`    // empty starts with no reviews

	RedisAddr       string `koanf:"redis_addr"` // empty disables the response cache
	RedisPass       string `koanf:"redis_password"`
	RedisDB         int    `koanf:"redis_db"`
	CacheTTLSeconds int    `koanf:"cache_ttl_seconds"`

	KafkaBrokers string `koanf:"kafka_brokers"` // comma separated; empty disables events
	KafkaTopic   string `koanf:"kafka_topic"`

	ScoreWorkers    int    `koanf:"score_workers"`
	SentimentURL    string `koanf:"sentiment_url"` // empty scores in-process
	SentimentAPIKey string `koanf:"sentiment_api_key"`
	SentimentRPS    int    `koanf:"sentiment_rps"`

	WriteRPS   float64 `koanf:"write_rps"` // 0 disables write limiting
	WriteBurst int     `koanf:"write_burst"`

	CORSOrigins           string `koanf:"cors_origins"`
	RequestTimeoutSeconds int    `koanf:"request_timeout_seconds"`
}

func Defaults() Config {
	return Config{
		AppEnv:                "prod",
		LogLevel:              "info",
		HTTPAddr:              ":8000",
		DataFile:              "data/reviews.csv",
		CacheTTLSeconds:       60,
		KafkaTopic:            "reviews",
		ScoreWorkers:          8,
		SentimentRPS:          20,
		WriteBurst:            10,
		RequestTimeoutSeconds: 15,
	}
}

// Load layers defaults, the optional YAML file named by REVIEWS_CONFIG and
// REVIEWS_* environment variables, lowest precedence first.
func Load() (Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(envCfgFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	// REVIEWS_HTTP_ADDR -> http_addr; underscores stay to match the flat koanf tags.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	cfg := Defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return fmt.Errorf("%w: http_addr must not be empty", ErrInvalidConfig)
	}
	if c.ScoreWorkers <= 0 {
		return fmt.Errorf("%w: score_workers must be positive, got %d", ErrInvalidConfig, c.ScoreWorkers)
	}
	if c.WriteRPS < 0 {
		return fmt.Errorf("%w: write_rps must not be negative", ErrInvalidConfig)
	}
	if c.RedisAddr != "" && c.CacheTTLSeconds <= 0 {
		return fmt.Errorf("%w: cache_ttl_seconds must be positive when redis_addr is set", ErrInvalidConfig)
	}
	return nil
}

func (c Config) CacheTTL() time.Duration { return time.Duration(c.CacheTTLSeconds) * time.Second }

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func (c Config) Brokers() []string { return splitList(c.KafkaBrokers) }

func (c Config) Origins() []string { return splitList(c.CORSOrigins) }

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
