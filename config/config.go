package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	Environment EnvironmentConfig
	HTTPServer  HTTPServerConfig
	Logger      LoggerConfig

	// Intent detection specifics
	Rules     RulesConfig
	Detection DetectionConfig
	Qdrant    QdrantConfig
	Voyage    VoyageConfig
	Cache     CacheConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// RulesConfig locates the rule/example payload.
type RulesConfig struct {
	Path string
}

// DetectionConfig carries every tunable of the decision policy. The
// defaults are the empirically tuned values from production; they are
// exposed here rather than hardcoded so deployments can retune them.
type DetectionConfig struct {
	HighConfidence       float64 // rule result at or above this returns immediately
	MediumConfidence     float64 // rule result below this is treated as no signal
	IrrelevantFloor      float64
	KeywordWeight        float64 // score added per keyword hit, times rule weight
	PatternWeight        float64 // score added per pattern hit, times rule weight
	OffsetGap            int     // position gap (chars) before offset order wins
	OffsetMinScore       float64 // offset winner must score at least this
	BlendRuleCoeff       float64
	BlendVectorCoeff     float64
	BlendAgreementBonus  float64
	VectorTopK           int
	VectorTimeout        time.Duration
	FallbackIntentID     string  // overrides the payload's fallback when set
	CacheMinConfidence   float64 // only results at or above this are cached
	IrrelevantConfidence float64 // confidence of the irrelevant-query fallback
	NoMatchConfidence    float64 // confidence of the generic no-match fallback
	EmptyIndexConfidence float64 // confidence when the vector index has no data
	PanicConfidence      float64 // confidence of the top-level catch-all fallback
}

type QdrantConfig struct {
	URL            string
	CollectionName string
	VectorSize     int
}

type VoyageConfig struct {
	APIKey string
	Model  string
}

// CacheConfig selects the detection result cache backend.
type CacheConfig struct {
	Enabled bool
	Backend string // "memory" or "redis"
	Size    int    // memory backend: max entries
	TTL     time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	RequestsPerMin int
}

// Load loads configuration using Viper.
// Config file name: config.yaml — searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	cfg.Rules.Path = viper.GetString("rules.path")

	cfg.Detection.HighConfidence = viper.GetFloat64("detection.high_confidence")
	cfg.Detection.MediumConfidence = viper.GetFloat64("detection.medium_confidence")
	cfg.Detection.IrrelevantFloor = viper.GetFloat64("detection.irrelevant_floor")
	cfg.Detection.KeywordWeight = viper.GetFloat64("detection.keyword_weight")
	cfg.Detection.PatternWeight = viper.GetFloat64("detection.pattern_weight")
	cfg.Detection.OffsetGap = viper.GetInt("detection.offset_gap")
	cfg.Detection.OffsetMinScore = viper.GetFloat64("detection.offset_min_score")
	cfg.Detection.BlendRuleCoeff = viper.GetFloat64("detection.blend_rule_coeff")
	cfg.Detection.BlendVectorCoeff = viper.GetFloat64("detection.blend_vector_coeff")
	cfg.Detection.BlendAgreementBonus = viper.GetFloat64("detection.blend_agreement_bonus")
	cfg.Detection.VectorTopK = viper.GetInt("detection.vector_top_k")
	cfg.Detection.VectorTimeout = viper.GetDuration("detection.vector_timeout")
	cfg.Detection.FallbackIntentID = viper.GetString("detection.fallback_intent_id")
	cfg.Detection.CacheMinConfidence = viper.GetFloat64("detection.cache_min_confidence")
	cfg.Detection.IrrelevantConfidence = viper.GetFloat64("detection.irrelevant_confidence")
	cfg.Detection.NoMatchConfidence = viper.GetFloat64("detection.no_match_confidence")
	cfg.Detection.EmptyIndexConfidence = viper.GetFloat64("detection.empty_index_confidence")
	cfg.Detection.PanicConfidence = viper.GetFloat64("detection.panic_confidence")

	cfg.Qdrant.URL = viper.GetString("qdrant.url")
	cfg.Qdrant.CollectionName = viper.GetString("qdrant.collection_name")
	cfg.Qdrant.VectorSize = viper.GetInt("qdrant.vector_size")
	if qdrantURL := viper.GetString("qdrant_url"); qdrantURL != "" {
		cfg.Qdrant.URL = qdrantURL
	}

	cfg.Voyage.APIKey = expandEnvVar(viper.GetString("voyage.api_key"))
	cfg.Voyage.Model = viper.GetString("voyage.model")
	if voyageKey := viper.GetString("voyage_api_key"); voyageKey != "" {
		cfg.Voyage.APIKey = voyageKey
	}

	cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	cfg.Cache.Backend = viper.GetString("cache.backend")
	cfg.Cache.Size = viper.GetInt("cache.size")
	cfg.Cache.TTL = viper.GetDuration("cache.ttl")

	cfg.Redis.Addr = viper.GetString("redis.addr")
	cfg.Redis.Password = expandEnvVar(viper.GetString("redis.password"))
	cfg.Redis.DB = viper.GetInt("redis.db")

	cfg.RateLimit.RequestsPerMin = viper.GetInt("rate_limit.requests_per_min")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) validate() error {
	d := cfg.Detection
	if d.MediumConfidence >= d.HighConfidence {
		return fmt.Errorf("detection.medium_confidence (%v) must be below detection.high_confidence (%v)",
			d.MediumConfidence, d.HighConfidence)
	}
	if d.VectorTopK <= 0 {
		return fmt.Errorf("detection.vector_top_k must be positive")
	}
	if cfg.Cache.Enabled && cfg.Cache.Backend == "redis" && cfg.Redis.Addr == "" {
		return fmt.Errorf("cache.backend is redis but redis.addr is not set")
	}
	return nil
}

// expandEnvVar expands values in the format ${VAR_NAME}.
func expandEnvVar(value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value
	}

	envVar := value[2 : len(value)-1]
	if envValue := viper.GetString(envVar); envValue != "" {
		return envValue
	}
	if envValue := viper.GetString(strings.ToLower(envVar)); envValue != "" {
		return envValue
	}
	if envValue := os.Getenv(envVar); envValue != "" {
		return envValue
	}

	return ""
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	viper.SetDefault("rules.path", "data/intent_rules.json")

	viper.SetDefault("detection.high_confidence", 0.8)
	viper.SetDefault("detection.medium_confidence", 0.4)
	viper.SetDefault("detection.irrelevant_floor", 0.1)
	viper.SetDefault("detection.keyword_weight", 0.4)
	viper.SetDefault("detection.pattern_weight", 0.6)
	viper.SetDefault("detection.offset_gap", 20)
	viper.SetDefault("detection.offset_min_score", 0.6)
	viper.SetDefault("detection.blend_rule_coeff", 0.7)
	viper.SetDefault("detection.blend_vector_coeff", 0.3)
	viper.SetDefault("detection.blend_agreement_bonus", 0.1)
	viper.SetDefault("detection.vector_top_k", 3)
	viper.SetDefault("detection.vector_timeout", "3s")
	viper.SetDefault("detection.cache_min_confidence", 0.8)
	viper.SetDefault("detection.irrelevant_confidence", 0.05)
	viper.SetDefault("detection.no_match_confidence", 0.3)
	viper.SetDefault("detection.empty_index_confidence", 0.2)
	viper.SetDefault("detection.panic_confidence", 0.1)

	viper.SetDefault("qdrant.url", "http://localhost:6333")
	viper.SetDefault("qdrant.collection_name", "intent_examples")
	viper.SetDefault("qdrant.vector_size", 1024)

	viper.SetDefault("voyage.model", "voyage-3")

	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.backend", "memory")
	viper.SetDefault("cache.size", 1000)
	viper.SetDefault("cache.ttl", "1h")

	viper.SetDefault("redis.addr", "")
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("rate_limit.requests_per_min", 120)
}
