// Package config loads and exposes application configuration.
// Configuration lives in a TOML file with multi-path lookup; provider
// credentials can additionally be supplied or overridden via environment
// variables so deployments never have to write secrets to disk.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// MainConfig holds basic server settings.
type MainConfig struct {
	AppName    string `toml:"appName"`    // application name, used in logs
	Host       string `toml:"host"`       // listen address, e.g. "0.0.0.0"
	Port       int    `toml:"port"`       // listen port, e.g. 8000
	CorsOrigin string `toml:"corsOrigin"` // allowed CORS origin, "*" for any
}

// MysqlConfig holds the MySQL connection settings.
type MysqlConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	DatabaseName string `toml:"databaseName"`
}

// RedisConfig holds the Redis connection settings.
type RedisConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Password string `toml:"password"`
	Db       int    `toml:"db"`
}

// LogConfig configures zap with lumberjack rotation.
type LogConfig struct {
	LogPath    string `toml:"logPath"`    // log directory
	FileName   string `toml:"fileName"`   // log file name
	MaxSize    int    `toml:"maxSize"`    // max size per file (MB)
	MaxBackups int    `toml:"maxBackups"` // max rotated files kept
	MaxAge     int    `toml:"maxAge"`     // max age of rotated files (days)
	Level      string `toml:"level"`      // debug, info, warn, error
}

// KafkaConfig configures the realtime fan-out broker.
// messageMode selects between the in-process channel broker ("channel")
// and kafka ("kafka") for multi-instance deployments.
type KafkaConfig struct {
	MessageMode string        `toml:"messageMode"`
	HostPort    string        `toml:"hostPort"`
	EventTopic  string        `toml:"eventTopic"`
	Partition   int           `toml:"partition"`
	Timeout     time.Duration `toml:"timeout"`
}

// JWTConfig holds the token signing settings.
type JWTConfig struct {
	Secret             string `toml:"secret"`             // HS256 secret, 32+ chars recommended
	AccessTokenExpiry  int    `toml:"accessTokenExpiry"`  // minutes
	RefreshTokenExpiry int    `toml:"refreshTokenExpiry"` // hours
}

// SnowflakeConfig holds the snowflake node id.
type SnowflakeConfig struct {
	MachineID int64 `toml:"machineId"` // 0-1023, unique per instance
}

// OpenAIConfig configures the text-generation and transcription client.
// A missing apiKey degrades text generation to the canned-reply tier and
// disables transcription; it never fails startup.
type OpenAIConfig struct {
	APIKey  string `toml:"apiKey"`
	BaseURL string `toml:"baseURL"` // default https://api.openai.com
	Model   string `toml:"model"`   // default gpt-4o-mini
}

// ElevenLabsConfig configures the text-to-speech client.
type ElevenLabsConfig struct {
	APIKey  string `toml:"apiKey"`
	VoiceID string `toml:"voiceId"` // default voice when a request names none
}

// DIDConfig configures the D-ID avatar video client.
type DIDConfig struct {
	APIKey    string `toml:"apiKey"`
	SourceURL string `toml:"sourceUrl"` // presenter image for generated talks
}

// HeyGenConfig configures the HeyGen avatar video/streaming client.
type HeyGenConfig struct {
	APIKey   string `toml:"apiKey"`
	AvatarID string `toml:"avatarId"`
}

// ProviderConfig aggregates all third-party provider settings.
type ProviderConfig struct {
	OpenAI     OpenAIConfig     `toml:"openai"`
	ElevenLabs ElevenLabsConfig `toml:"elevenlabs"`
	DID        DIDConfig        `toml:"did"`
	HeyGen     HeyGenConfig     `toml:"heygen"`
}

// Config aggregates all sub-configs.
type Config struct {
	MainConfig      `toml:"mainConfig"`
	MysqlConfig     `toml:"mysqlConfig"`
	RedisConfig     `toml:"redisConfig"`
	LogConfig       `toml:"logConfig"`
	KafkaConfig     `toml:"kafkaConfig"`
	JWTConfig       `toml:"jwtConfig"`
	SnowflakeConfig `toml:"snowflakeConfig"`
	ProviderConfig  `toml:"providerConfig"`
}

// config is the lazily loaded global singleton.
var config *Config

// LoadConfig tries the candidate paths in order and stops at the first
// file that parses.
func LoadConfig() error {
	if config == nil {
		config = new(Config)
	}
	paths := []string{
		"configs/config_local.toml", // local dev config (preferred)
		"configs/config.toml",
		"../../configs/config_local.toml", // when run from a subdirectory
		"../../configs/config.toml",
	}

	for _, path := range paths {
		if _, err := toml.DecodeFile(path, config); err == nil {
			applyEnvOverrides(config)
			return nil
		}
	}

	return fmt.Errorf("could not find configuration file in any of the search paths")
}

// applyEnvOverrides fills secrets from the environment. Environment values
// win over file values so a key checked into a sample config can never mask
// the deployed one.
func applyEnvOverrides(c *Config) {
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWTConfig.Secret = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.ProviderConfig.OpenAI.APIKey = v
	}
	if v := os.Getenv("ELEVENLABS_API_KEY"); v != "" {
		c.ProviderConfig.ElevenLabs.APIKey = v
	}
	if v := os.Getenv("DID_API_KEY"); v != "" {
		c.ProviderConfig.DID.APIKey = v
	}
	if v := os.Getenv("HEYGEN_API_KEY"); v != "" {
		c.ProviderConfig.HeyGen.APIKey = v
	}
	if v := os.Getenv("HEYGEN_AVATAR_ID"); v != "" {
		c.ProviderConfig.HeyGen.AvatarID = v
	}
	if v := os.Getenv("CORS_ORIGIN"); v != "" {
		c.MainConfig.CorsOrigin = v
	}
}

// GetConfig returns the global config instance, loading it on first use.
func GetConfig() *Config {
	if config == nil {
		config = new(Config)
		_ = LoadConfig() // fall back to zero values when no file is found
	}
	return config
}
