// Package config loads the client configuration from a yaml file with
// environment-variable overrides. A .env file is honoured when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type apiConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

type credentialsConfig struct {
	Backend string `yaml:"backend"`
	File    string `yaml:"file"`
	Key     string `yaml:"key"`
}

type redisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTL      string `yaml:"ttl"`
}

type stubConfig struct {
	Port      int    `yaml:"port"`
	JWTSecret string `yaml:"jwt_secret"`
	JWTIssuer string `yaml:"jwt_issuer"`
	TokenTTL  string `yaml:"token_ttl"`
	OTPTTL    string `yaml:"otp_ttl"`
}

type logConfig struct {
	Level string `yaml:"level"`
}

// ConfigFile is the on-disk shape of the configuration.
type ConfigFile struct {
	API         apiConfig         `yaml:"api"`
	Credentials credentialsConfig `yaml:"credentials"`
	Redis       redisConfig       `yaml:"redis"`
	Stub        stubConfig        `yaml:"stub"`
	Log         logConfig         `yaml:"log"`
}

// Config is the resolved runtime configuration.
type Config struct {
	APIBaseURL  string
	APITimeout  time.Duration
	CredBackend string
	CredFile    string
	CredKey     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration

	StubPort      int
	StubJWTSecret string
	StubJWTIssuer string
	StubTokenTTL  time.Duration
	StubOTPTTL    time.Duration

	LogLevel string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads the config file at path, falling back to defaults and
// applying environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	// Best effort; a missing .env is fine.
	_ = godotenv.Load()

	file := ConfigFile{
		API:         apiConfig{BaseURL: "http://localhost:8080", Timeout: "15s"},
		Credentials: credentialsConfig{Backend: "file", File: defaultCredFile()},
		Redis:       redisConfig{Addr: "localhost:6379", TTL: "0s"},
		Stub:        stubConfig{Port: 8080, JWTSecret: "dev-secret", JWTIssuer: "pustakghar-stub", TokenTTL: "24h", OTPTTL: "5m"},
		Log:         logConfig{Level: "info"},
	}

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	apiTimeout, err := time.ParseDuration(file.API.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid api timeout: %w", err)
	}
	redisTTL, err := time.ParseDuration(file.Redis.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis ttl: %w", err)
	}
	tokenTTL, err := time.ParseDuration(file.Stub.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid stub token ttl: %w", err)
	}
	otpTTL, err := time.ParseDuration(file.Stub.OTPTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid stub otp ttl: %w", err)
	}

	stubPort := file.Stub.Port
	if v := os.Getenv("STUB_PORT"); v != "" {
		stubPort, err = strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid STUB_PORT: %w", err)
		}
	}

	return &Config{
		APIBaseURL:  env("API_BASE_URL", file.API.BaseURL),
		APITimeout:  apiTimeout,
		CredBackend: env("CRED_BACKEND", file.Credentials.Backend),
		CredFile:    env("CRED_FILE", file.Credentials.File),
		CredKey:     env("CRED_KEY", file.Credentials.Key),

		RedisAddr:     env("REDIS_ADDR", file.Redis.Addr),
		RedisPassword: env("REDIS_PASSWORD", file.Redis.Password),
		RedisDB:       file.Redis.DB,
		RedisTTL:      redisTTL,

		StubPort:      stubPort,
		StubJWTSecret: env("STUB_JWT_SECRET", file.Stub.JWTSecret),
		StubJWTIssuer: file.Stub.JWTIssuer,
		StubTokenTTL:  tokenTTL,
		StubOTPTTL:    otpTTL,

		LogLevel: env("LOG_LEVEL", file.Log.Level),
	}, nil
}

func defaultCredFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pustakghar/token"
	}
	return home + "/.pustakghar/token"
}
