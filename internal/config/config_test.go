package config

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	clearEnvVars(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// Server defaults
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)

	// Database defaults
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "rnai", cfg.Database.User)
	assert.Equal(t, "rnai_project", cfg.Database.Name)
	assert.Equal(t, SSLModeRequire, cfg.Database.SSLMode)
	assert.Equal(t, int32(25), cfg.Database.MaxConns)
	assert.Equal(t, int32(5), cfg.Database.MinConns)

	// Logging defaults
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	// Metrics defaults
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "rnai", cfg.Metrics.Namespace)

	// Entrez defaults
	assert.Equal(t, "https://eutils.ncbi.nlm.nih.gov/entrez/eutils", cfg.Entrez.BaseURL)
	assert.Equal(t, 3.0, cfg.Entrez.RateLimit)
	assert.Equal(t, 3, cfg.Entrez.BurstSize)
	assert.Empty(t, cfg.Entrez.APIKey)

	// Ingest defaults
	assert.Equal(t, []string{"RNAi", "siRNA", "ASO", "mRNA"}, cfg.Ingest.Topics)
	assert.Empty(t, cfg.Ingest.Authors)
	assert.Equal(t, 15, cfg.Ingest.MaxPapers)
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	clearEnvVars(t)

	t.Setenv("RNAI_SERVER_HTTP_PORT", "8888")
	t.Setenv("RNAI_DATABASE_HOST", "db.example.com")
	t.Setenv("RNAI_DATABASE_PORT", "5433")
	t.Setenv("RNAI_DATABASE_USER", "testuser")
	t.Setenv("RNAI_DATABASE_PASSWORD", "testpass")
	t.Setenv("RNAI_DATABASE_NAME", "testdb")
	t.Setenv("RNAI_DATABASE_SSL_MODE", "disable")
	t.Setenv("RNAI_LOGGING_LEVEL", "debug")
	t.Setenv("RNAI_INGEST_MAX_PAPERS", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8888, cfg.Server.HTTPPort)
	assert.Equal(t, "db.example.com", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "testuser", cfg.Database.User)
	assert.Equal(t, "testpass", cfg.Database.Password)
	assert.Equal(t, "testdb", cfg.Database.Name)
	assert.Equal(t, SSLModeDisable, cfg.Database.SSLMode)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 30, cfg.Ingest.MaxPapers)
}

func TestLoad_APIKeyFromEnvOnly(t *testing.T) {
	clearEnvVars(t)

	t.Setenv("RNAI_ENTREZ_API_KEY", "ncbi-secret-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ncbi-secret-key", cfg.Entrez.APIKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		modifyFunc  func(*Config)
		expectedErr string
	}{
		{
			name: "HTTP port zero",
			modifyFunc: func(c *Config) {
				c.Server.HTTPPort = 0
			},
			expectedErr: "invalid HTTP port: 0",
		},
		{
			name: "HTTP port too high",
			modifyFunc: func(c *Config) {
				c.Server.HTTPPort = 70000
			},
			expectedErr: "invalid HTTP port: 70000",
		},
		{
			name: "empty database host",
			modifyFunc: func(c *Config) {
				c.Database.Host = ""
			},
			expectedErr: "database host is required",
		},
		{
			name: "empty database name",
			modifyFunc: func(c *Config) {
				c.Database.Name = ""
			},
			expectedErr: "database name is required",
		},
		{
			name: "max_conns less than min_conns",
			modifyFunc: func(c *Config) {
				c.Database.MaxConns = 2
				c.Database.MinConns = 5
			},
			expectedErr: "max_conns (2) must be >= min_conns (5)",
		},
		{
			name: "invalid log level",
			modifyFunc: func(c *Config) {
				c.Logging.Level = "verbose"
			},
			expectedErr: "invalid log level: verbose",
		},
		{
			name: "empty entrez base URL",
			modifyFunc: func(c *Config) {
				c.Entrez.BaseURL = ""
			},
			expectedErr: "entrez base URL is required",
		},
		{
			name: "non-positive entrez rate limit",
			modifyFunc: func(c *Config) {
				c.Entrez.RateLimit = 0
			},
			expectedErr: "entrez rate limit must be positive",
		},
		{
			name: "non-positive max papers",
			modifyFunc: func(c *Config) {
				c.Ingest.MaxPapers = 0
			},
			expectedErr: "ingest max_papers must be positive",
		},
		{
			name: "no search terms",
			modifyFunc: func(c *Config) {
				c.Ingest.Authors = nil
				c.Ingest.Topics = nil
			},
			expectedErr: "at least one ingest author or topic is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modifyFunc(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:    "localhost",
		Port:    5432,
		User:    "rnai",
		Name:    "rnai_project",
		SSLMode: SSLModeDisable,
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "postgres://rnai:@localhost:5432/rnai_project")
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestDatabaseConfig_DSN_EscapesCredentials(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "user@corp",
		Password: "p@ss:word",
		Name:     "rnai_project",
		SSLMode:  SSLModeRequire,
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "user%40corp")
	assert.Contains(t, dsn, "p%40ss%3Aword")
}

func TestServerConfig_HTTPAddress(t *testing.T) {
	cfg := ServerConfig{Host: "127.0.0.1", HTTPPort: 9000}
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddress())
}

// clearEnvVars removes all RNAI_ prefixed environment variables.
func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "RNAI_") {
			key := strings.SplitN(env, "=", 2)[0]
			os.Unsetenv(key)
		}
	}
}

// validConfig returns a valid configuration for testing.
func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:     "0.0.0.0",
			HTTPPort: 8080,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "rnai",
			Name:     "rnai_project",
			SSLMode:  SSLModeRequire,
			MaxConns: 25,
			MinConns: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Entrez: EntrezConfig{
			BaseURL:   "https://eutils.ncbi.nlm.nih.gov/entrez/eutils",
			RateLimit: 3.0,
			BurstSize: 3,
		},
		Ingest: IngestConfig{
			Topics:    []string{"RNAi"},
			MaxPapers: 15,
		},
	}
}
