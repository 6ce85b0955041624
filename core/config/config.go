package config

import (
	"fmt"
	"strings"
	"sync"

	"realite-api/core/constants"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	BaseURL  string `mapstructure:"base_url"`
	LogLevel string `mapstructure:"log_level"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type GoogleAPIConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

type AWSConfig struct {
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

type AuthConfig struct {
	JWTSecret     string `mapstructure:"jwt_secret"`
	TokenTTLHours int    `mapstructure:"token_ttl_hours"`
}

// ScoringConfig carries the suggestion tuning values. Defaults preserve the
// upstream literals; they are configuration, not values to re-derive.
type ScoringConfig struct {
	ExplorationBonus    float64 `mapstructure:"exploration_bonus"`
	EveryoneBonus       float64 `mapstructure:"everyone_bonus"`
	MinRelevance        float64 `mapstructure:"min_relevance"`
	AutoInsertThreshold float64 `mapstructure:"auto_insert_threshold"`
	LearningRate        float64 `mapstructure:"learning_rate"`
}

type MeetingConfig struct {
	ResponseWindowHours int `mapstructure:"response_window_hours"`
	SlotIntervalMinutes int `mapstructure:"slot_interval_minutes"`
	MaxAttempts         int `mapstructure:"max_attempts"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	GoogleAPI GoogleAPIConfig `mapstructure:"google_api"`
	AWS       AWSConfig       `mapstructure:"aws"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Scoring   ScoringConfig   `mapstructure:"scoring"`
	Meeting   MeetingConfig   `mapstructure:"meeting"`
}

var (
	instance *Config
	mu       sync.RWMutex
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 7070)
	v.SetDefault("server.base_url", "http://localhost:7070")
	v.SetDefault("server.log_level", "info")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "realite")
	v.SetDefault("database.sslmode", constants.DatabaseSSLMode)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.token_ttl_hours", 72)

	v.SetDefault("scoring.exploration_bonus", constants.ScoreExplorationBonus)
	v.SetDefault("scoring.everyone_bonus", constants.ScoreEveryoneBonus)
	v.SetDefault("scoring.min_relevance", constants.ScoreMinRelevance)
	v.SetDefault("scoring.auto_insert_threshold", constants.ScoreAutoInsertThreshold)
	v.SetDefault("scoring.learning_rate", constants.ScoreLearningRate)

	v.SetDefault("meeting.response_window_hours", constants.PlanDefaultResponseWindowHours)
	v.SetDefault("meeting.slot_interval_minutes", constants.PlanDefaultSlotIntervalMinutes)
	v.SetDefault("meeting.max_attempts", constants.PlanDefaultMaxAttempts)
}

// Load reads .env, config.yaml (optional) and the environment, in that
// precedence order, and installs the global config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	mu.Lock()
	instance = &cfg
	mu.Unlock()

	return &cfg, nil
}

// Get returns the global config. Panics when Load was never called.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		panic("config: Get called before Load")
	}
	return instance
}

// GetSafe returns the global config and whether it has been initialized.
func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return instance, instance != nil
}
