package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"

	"github.com/lugatuic/ldapuser/ldapattr"
	"github.com/lugatuic/ldapuser/rolemap"
)

type Config struct {
	BindAddr      string        `default:":8080"` // HTTP bind address, e.g. :8080
	Schema        string        `default:"ad"`    // directory schema: ad or openldap
	DefaultRole   string        `default:"ROLE_USER"`
	RoleMap       []rolemap.Rule
	SessionTTL    time.Duration `default:"30m"`
	SweepInterval time.Duration `default:"1m"`
	LogFormat     string        `default:"json"` // json, logfmt or console
	Development   bool
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	cfg.BindAddr = getenv("BIND_ADDR", cfg.BindAddr)
	cfg.Schema = getenv("DIRECTORY_SCHEMA", cfg.Schema)
	cfg.DefaultRole = getenv("DEFAULT_ROLE", cfg.DefaultRole)
	cfg.LogFormat = strings.ToLower(getenv("LOG_FORMAT", cfg.LogFormat))
	cfg.Development = boolFromEnv("LOG_DEVELOPMENT", false)

	var err error
	if cfg.SessionTTL, err = durationFromEnv("SESSION_TTL", cfg.SessionTTL); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = durationFromEnv("SWEEP_INTERVAL", cfg.SweepInterval); err != nil {
		return nil, err
	}
	if cfg.RoleMap, err = ParseRoleMap(os.Getenv("ROLE_MAP")); err != nil {
		return nil, fmt.Errorf("ROLE_MAP: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be caught while parsing.
func (c *Config) Validate() error {
	if _, err := ldapattr.SchemaByName(c.Schema); err != nil {
		return fmt.Errorf("DIRECTORY_SCHEMA: %w", err)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be positive")
	}
	switch c.LogFormat {
	case "json", "logfmt", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json, logfmt or console, got %q", c.LogFormat)
	}
	return nil
}

// ParseRoleMap parses ROLE_A=group1|CN=g2,DC=x;ROLE_B=group3. Rules keep
// their declared order.
func ParseRoleMap(s string) ([]rolemap.Rule, error) {
	var rules []rolemap.Rule
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		role, groups, ok := strings.Cut(part, "=")
		role = strings.TrimSpace(role)
		if !ok || role == "" {
			return nil, fmt.Errorf("rule %q: expected ROLE=group[|group...]", part)
		}
		rule := rolemap.Rule{Role: role}
		for _, g := range strings.Split(groups, "|") {
			if g = strings.TrimSpace(g); g != "" {
				rule.Groups = append(rule.Groups, g)
			}
		}
		if len(rule.Groups) == 0 {
			return nil, fmt.Errorf("rule %q: no groups", part)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func durationFromEnv(key string, def time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return def, nil
	}
	d, err := time.ParseDuration(strings.Trim(val, "\"'"))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func boolFromEnv(key string, def bool) bool {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return def
	}
	trimmed := strings.Trim(val, "\"'")
	b, err := strconv.ParseBool(trimmed)
	if err != nil {
		return def
	}
	return b
}

func getenv(k, def string) string {
	var v string = os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
