package config

import (
	"flag"
	"github.com/ilyakaznacheev/cleanenv"
	"os"
	"time"
)

type Config struct {
	Env         string      `yaml:"env" env:"ENV" env-default:"local"`
	StoragePath string      `yaml:"storage_path" env:"STORAGE_PATH" env-required:"true"`
	HTTP        HTTPConfig  `yaml:"http"`
	GRPC        GRPCConfig  `yaml:"grpc"`
	Redis       RedisConfig `yaml:"redis"`
	OAuth       OAuthConfig `yaml:"oauth"`
}

type HTTPConfig struct {
	Address      string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"5s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"10s"`
}

type GRPCConfig struct {
	Port    int           `yaml:"port" env:"GRPC_PORT" env-default:"44044"`
	Timeout time.Duration `yaml:"timeout" env-default:"5s"`
}

type RedisConfig struct {
	Host      string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port      int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password  string `yaml:"password" env:"REDIS_PASSWORD"`
	DB        int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
	KeyPrefix string `yaml:"key_prefix" env-default:"oauth"`
}

// OAuthConfig tunes the grant engine
type OAuthConfig struct {
	StateTTL             time.Duration   `yaml:"state_ttl" env-default:"600s"`
	CodeTTL              time.Duration   `yaml:"code_ttl" env-default:"600s"`
	AccessTokenTTL       time.Duration   `yaml:"access_token_ttl" env-default:"3600s"`
	RequireRedirectURI   bool            `yaml:"require_redirect_uri_on_token" env:"OAUTH_REQUIRE_REDIRECT_URI"`
	SkipConsentIfGranted bool            `yaml:"skip_consent_when_granted" env:"OAUTH_SKIP_CONSENT"`
	RequestedPermissions []string        `yaml:"requested_permissions" env-default:"Read your profile information,Access your email address"`
	TokenRateLimit       RateLimitConfig `yaml:"token_rate_limit"`
}

// RateLimitConfig is a token bucket per client address, zero RPS disables it
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps" env-default:"10"`
	Burst int     `yaml:"burst" env-default:"20"`
}

func MustLoad() *Config {
	return MustLoadPath(fetchConfigPath())
}

func MustLoadPath(path string) *Config {
	cfg, err := LoadPath(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadPath reads yaml config and applies env overrides
func LoadPath(path string) (*Config, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &NotExistError{Path: path}
	}

	var cfg Config

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Priority: flag > env > default
func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}
	return res
}
