package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret       string `yaml:"secret"`
	Issuer       string `yaml:"issuer"`
	AccessTTL    string `yaml:"access_ttl"`
	ChallengeTTL string `yaml:"challenge_ttl"`
}

type TOTPConfig struct {
	Issuer            string `yaml:"issuer"`
	Digits            int    `yaml:"digits"`
	PeriodSeconds     int    `yaml:"period_seconds"`
	SkewSteps         int    `yaml:"skew_steps"`
	SecretSize        int    `yaml:"secret_size"`
	ReactivationGrace string `yaml:"reactivation_grace"`
}

type SessionConfig struct {
	IdleTimeout   string `yaml:"idle_timeout"`
	SweepInterval string `yaml:"sweep_interval"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
	AlertTo    string `yaml:"alert_to"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	TOTP     TOTPConfig     `yaml:"totp"`
	Session  SessionConfig  `yaml:"session"`
	Casbin   CasbinConfig   `yaml:"casbin"`
	Twilio   TwilioConfig   `yaml:"twilio"`
}

type Config struct {
	Port    string
	GinMode string

	DSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret    string
	JWTIssuer    string
	AccessTTL    time.Duration
	ChallengeTTL time.Duration

	TOTPIssuer        string
	TOTPDigits        int
	TOTPPeriod        int
	TOTPSkew          int
	TOTPSecretSize    int
	ReactivationGrace time.Duration

	SessionIdleTimeout   time.Duration
	SessionSweepInterval time.Duration

	CasbinModelPath string

	TwilioSID     string
	TwilioToken   string
	TwilioFrom    string
	TwilioAlertTo string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() (*Config, error) {
	return LoadFrom(env("CONFIG_PATH", "config/config.yml"))
}

func LoadFrom(path string) (*Config, error) {
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	accTTL, err := time.ParseDuration(configFile.JWT.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT access TTL: %w", err)
	}

	chalTTL, err := time.ParseDuration(configFile.JWT.ChallengeTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT challenge TTL: %w", err)
	}

	grace, err := time.ParseDuration(configFile.TOTP.ReactivationGrace)
	if err != nil {
		return nil, fmt.Errorf("invalid TOTP reactivation grace: %w", err)
	}

	idle, err := time.ParseDuration(configFile.Session.IdleTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid session idle timeout: %w", err)
	}

	sweep, err := time.ParseDuration(configFile.Session.SweepInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid session sweep interval: %w", err)
	}

	return &Config{
		Port:    fmt.Sprintf("%d", configFile.App.Port),
		GinMode: configFile.App.GinMode,

		DSN: env("DATABASE_DSN", configFile.Database.DSN),

		RedisAddr:     env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword: env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:       configFile.Redis.DB,

		JWTSecret:    env("JWT_SECRET", configFile.JWT.Secret),
		JWTIssuer:    configFile.JWT.Issuer,
		AccessTTL:    accTTL,
		ChallengeTTL: chalTTL,

		TOTPIssuer:        configFile.TOTP.Issuer,
		TOTPDigits:        configFile.TOTP.Digits,
		TOTPPeriod:        configFile.TOTP.PeriodSeconds,
		TOTPSkew:          configFile.TOTP.SkewSteps,
		TOTPSecretSize:    configFile.TOTP.SecretSize,
		ReactivationGrace: grace,

		SessionIdleTimeout:   idle,
		SessionSweepInterval: sweep,

		CasbinModelPath: configFile.Casbin.ModelPath,

		TwilioSID:     env("TWILIO_SID", configFile.Twilio.AccountSID),
		TwilioToken:   env("TWILIO_TOKEN", configFile.Twilio.AuthToken),
		TwilioFrom:    configFile.Twilio.FromNumber,
		TwilioAlertTo: configFile.Twilio.AlertTo,
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
