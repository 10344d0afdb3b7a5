package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		Port:         "3000",
		StoreBackend: BackendJSON,
		DataFile:     "data/posts.json",
		DBFile:       "data/blog.db",
		UploadDir:    "public/uploads",
		MaxUploadMB:  5,
	}

	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"valid json backend", func(c *Config) {}, false},
		{"valid sqlite backend", func(c *Config) { c.StoreBackend = BackendSQLite }, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"unknown backend", func(c *Config) { c.StoreBackend = "postgres" }, true},
		{"json backend without data file", func(c *Config) { c.DataFile = "" }, true},
		{"sqlite backend without db file", func(c *Config) {
			c.StoreBackend = BackendSQLite
			c.DBFile = ""
		}, true},
		{"json backend tolerates missing db file", func(c *Config) { c.DBFile = "" }, false},
		{"missing upload dir", func(c *Config) { c.UploadDir = "" }, true},
		{"zero upload limit", func(c *Config) { c.MaxUploadMB = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer viper.Reset()

	c, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "3000", c.Port)
	assert.Equal(t, BackendJSON, c.StoreBackend)
	assert.Equal(t, "data/posts.json", c.DataFile)
	assert.Equal(t, 5, c.MaxUploadMB)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	defer os.Unsetenv("STORE_BACKEND")
	defer os.Unsetenv("DB_FILE")
	defer viper.Reset()

	os.Setenv("STORE_BACKEND", "sqlite")
	os.Setenv("DB_FILE", "/tmp/override.db")

	c, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, BackendSQLite, c.StoreBackend)
	assert.Equal(t, "/tmp/override.db", c.DBFile)
}
