// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// RequiredKeys lists the environment variables the chat UI needs to talk to
// its LLM provider. They are not required by this server to start.
var RequiredKeys = []string{"OPENAI_API_KEY"}

type Config struct {
	AppMode string
	Port    string

	MongoURI      string
	MongoDatabase string

	JWTSecret    string
	JWTKeys      map[string]string // kid -> secret
	JWTActiveKid string
	JWTTTL       time.Duration

	RateLimitRPM int
	MetricsAddr  string

	TLSCert    string
	TLSKey     string
	RequireTLS bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Load reads a .env file if one exists and then builds Config from the
// process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup builds Config using lookup to resolve variables.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return fallback
	}
	getInt := func(key string, fallback int) int {
		if n, err := strconv.Atoi(get(key, "")); err == nil && n > 0 {
			return n
		}
		return fallback
	}

	cfg := &Config{
		AppMode:       get("APP_MODE", "development"),
		Port:          get("PORT", "50051"),
		MongoURI:      get("MONGODB_URI", ""),
		MongoDatabase: get("MONGODB_DATABASE", "chat_db"),
		JWTSecret:     get("JWT_SECRET", ""),
		JWTActiveKid:  get("JWT_ACTIVE_KID", ""),
		JWTTTL:        time.Duration(getInt("JWT_TTL_HOURS", 24)) * time.Hour,
		RateLimitRPM:  getInt("RATE_LIMIT_RPM", 10),
		MetricsAddr:   get("METRICS_ADDR", ":9090"),
		TLSCert:       get("TLS_CERT", ""),
		TLSKey:        get("TLS_KEY", ""),
		RequireTLS:    get("REQUIRE_TLS", "") == "true",
		RedisAddr:     get("REDIS_ADDR", ""),
		RedisPassword: get("REDIS_PASSWORD", ""),
	}
	if n, err := strconv.Atoi(get("REDIS_DB", "0")); err == nil {
		cfg.RedisDB = n
	}
	// METRICS_ADDR="" must be able to switch metrics off.
	if v, ok := lookup("METRICS_ADDR"); ok && v == "" {
		cfg.MetricsAddr = ""
	}

	if raw := get("JWT_KEYS", ""); raw != "" {
		keys, err := ParseKeys(raw)
		if err != nil {
			return nil, err
		}
		cfg.JWTKeys = keys
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports configuration the server cannot start with.
func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return errors.New("MONGODB_URI must be set")
	}
	if c.JWTSecret == "" && len(c.JWTKeys) == 0 {
		return errors.New("either JWT_SECRET or JWT_KEYS must be set")
	}
	if len(c.JWTKeys) > 0 {
		if _, ok := c.JWTKeys[c.JWTActiveKid]; !ok {
			return fmt.Errorf("JWT_ACTIVE_KID %q not found in JWT_KEYS", c.JWTActiveKid)
		}
	}
	if c.RequireTLS && (c.TLSCert == "" || c.TLSKey == "") {
		return errors.New("REQUIRE_TLS is true but TLS_CERT/TLS_KEY are not configured")
	}
	return nil
}

// ParseKeys parses "kid:secret,kid2:secret2" into a map.
func ParseKeys(raw string) (map[string]string, error) {
	keys := map[string]string{}
	for _, p := range strings.Split(raw, ",") {
		if p == "" {
			continue
		}
		parts := strings.SplitN(p, ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("invalid JWT_KEYS entry: %s", p)
		}
		keys[parts[0]] = parts[1]
	}
	return keys, nil
}

// MissingKeys returns the names in RequiredKeys that are unset or empty,
// in declaration order.
func MissingKeys(lookup func(string) (string, bool)) []string {
	missing := []string{}
	for _, key := range RequiredKeys {
		if v, ok := lookup(key); !ok || v == "" {
			missing = append(missing, key)
		}
	}
	return missing
}
