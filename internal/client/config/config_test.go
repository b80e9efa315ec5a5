package config

import (
	"os"
	"testing"
	"time"

	"github.com/dmitrijs2005/orderdesk/internal/filex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Empty(t, c.APIBaseURL)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
	assert.Equal(t, filex.DefaultDataDir(AppName), c.DataDir)
	assert.True(t, c.RevalidateOnStart)
	assert.Equal(t, "warn", c.LogLevel)
	assert.Equal(t, "text", c.LogFormat)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"api_base_url":    "http://from-json",
		"request_timeout": "5s",
		"log_level":       "info",
	})

	t.Setenv(EnvAPIURL, "http://from-env")
	os.Args = []string{"testbin", "-c", path, "-l", "debug"}

	cfg := LoadConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, "http://from-env", cfg.APIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)

	os.Args = []string{"testbin", "-c", path, "-a", "http://from-flag"}
	cfg = LoadConfig()
	assert.Equal(t, "http://from-flag", cfg.APIBaseURL)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var c Config
		c.LoadDefaults()
		c.APIBaseURL = "https://api.example.com/v1"
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "ok", mutate: func(*Config) {}},
		{name: "plain http", mutate: func(c *Config) { c.APIBaseURL = "http://localhost:8080" }},
		{name: "missing url", mutate: func(c *Config) { c.APIBaseURL = "" }, wantErr: true},
		{name: "no scheme", mutate: func(c *Config) { c.APIBaseURL = "api.example.com" }, wantErr: true},
		{name: "ftp", mutate: func(c *Config) { c.APIBaseURL = "ftp://api.example.com" }, wantErr: true},
		{name: "no host", mutate: func(c *Config) { c.APIBaseURL = "http://" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.RequestTimeout = 0 }, wantErr: true},
		{name: "no data dir", mutate: func(c *Config) { c.DataDir = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
