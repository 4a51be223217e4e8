package config_test

import (
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/lugatuic/ldapuser/config"
	"github.com/lugatuic/ldapuser/rolemap"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	is := is.New(t)
	for _, k := range []string{"BIND_ADDR", "DIRECTORY_SCHEMA", "DEFAULT_ROLE", "ROLE_MAP", "SESSION_TTL", "SWEEP_INTERVAL", "LOG_FORMAT", "LOG_DEVELOPMENT"} {
		t.Setenv(k, "")
	}

	cfg, err := config.LoadFromEnv()
	is.NoErr(err)
	is.Equal(cfg.BindAddr, ":8080")
	is.Equal(cfg.Schema, "ad")
	is.Equal(cfg.DefaultRole, "ROLE_USER")
	is.Equal(cfg.SessionTTL, 30*time.Minute)
	is.Equal(cfg.SweepInterval, time.Minute)
	is.Equal(cfg.LogFormat, "json")
	is.Equal(len(cfg.RoleMap), 0)
	is.True(!cfg.Development)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	is := is.New(t)
	t.Setenv("BIND_ADDR", ":9090")
	t.Setenv("DIRECTORY_SCHEMA", "openldap")
	t.Setenv("DEFAULT_ROLE", "ROLE_MEMBER")
	t.Setenv("ROLE_MAP", "ROLE_ADMIN=Admins|CN=Wheel,DC=example,DC=com; ROLE_DEV=devs")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("SWEEP_INTERVAL", "'30s'")
	t.Setenv("LOG_FORMAT", "LOGFMT")
	t.Setenv("LOG_DEVELOPMENT", "true")

	cfg, err := config.LoadFromEnv()
	is.NoErr(err)
	is.Equal(cfg.BindAddr, ":9090")
	is.Equal(cfg.Schema, "openldap")
	is.Equal(cfg.DefaultRole, "ROLE_MEMBER")
	is.Equal(cfg.SessionTTL, 2*time.Hour)
	is.Equal(cfg.SweepInterval, 30*time.Second)
	is.Equal(cfg.LogFormat, "logfmt")
	is.True(cfg.Development)
	is.Equal(cfg.RoleMap, []rolemap.Rule{
		{Role: "ROLE_ADMIN", Groups: []string{"Admins", "CN=Wheel,DC=example,DC=com"}},
		{Role: "ROLE_DEV", Groups: []string{"devs"}},
	})
}

func TestLoadFromEnvRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"DIRECTORY_SCHEMA": "novell",
		"SESSION_TTL":      "forever",
		"SWEEP_INTERVAL":   "-1s",
		"LOG_FORMAT":       "xml",
		"ROLE_MAP":         "ROLE_ADMIN",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			is := is.New(t)
			t.Setenv(key, val)
			_, err := config.LoadFromEnv()
			is.True(err != nil)
		})
	}
}

func TestParseRoleMap(t *testing.T) {
	is := is.New(t)

	rules, err := config.ParseRoleMap("")
	is.NoErr(err)
	is.Equal(len(rules), 0)

	rules, err = config.ParseRoleMap(";;ROLE_A = a | b ;")
	is.NoErr(err)
	is.Equal(rules, []rolemap.Rule{{Role: "ROLE_A", Groups: []string{"a", "b"}}})

	_, err = config.ParseRoleMap("=a")
	is.True(err != nil)

	_, err = config.ParseRoleMap("ROLE_A=|")
	is.True(err != nil)
}
