package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "farmer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
default_user: farmer
default_pass: potato
secret_key: s3cret
database_url: postgres://localhost/farmer
token_ttl: 2h
redis:
  addr: localhost:6379
  ttl: 30s
kafka:
  brokers: [kafka-1:9092, kafka-2:9092]
login_rate:
  rps: 0.5
  burst: 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "farmer", cfg.DefaultUser)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 0.5, cfg.LoginRate.RPS)
	assert.Equal(t, 3, cfg.LoginRate.Burst)

	// untouched keys keep their defaults
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "farmer-orders", cfg.Kafka.Topic)
	assert.Equal(t, 10*time.Second, cfg.Mail.Timeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
default_user: farmer
default_pass: potato
secret_key: from-file
database_url: postgres://localhost/farmer
`)
	t.Setenv("FARMER_SECRET_KEY", "from-env")
	t.Setenv("FARMER_KAFKA_BROKERS", "a:9092,b:9092")
	t.Setenv("FARMER_TOKEN_TTL", "15m")
	t.Setenv("FARMER_LOGIN_RPS", "2")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.SecretKey)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 2.0, cfg.LoginRate.RPS)
}

func TestLoad_Errors(t *testing.T) {

	tests := []struct {
		name          string
		content       string
		env           map[string]string
		expectedError string
	}{
		{
			name:          "missing_credentials",
			content:       "secret_key: s\ndatabase_url: postgres://localhost/farmer\n",
			expectedError: "default_user and default_pass are required",
		},
		{
			name:          "missing_secret",
			content:       "default_user: u\ndefault_pass: p\ndatabase_url: postgres://localhost/farmer\n",
			expectedError: "secret_key is required",
		},
		{
			name:          "missing_database",
			content:       "default_user: u\ndefault_pass: p\nsecret_key: s\n",
			expectedError: "database_url is required",
		},
		{
			name:          "bad_yaml",
			content:       "default_user: [",
			expectedError: "failed to parse config",
		},
		{
			name:          "bad_ttl",
			content:       "default_user: u\ndefault_pass: p\nsecret_key: s\ndatabase_url: x\n",
			env:           map[string]string{"FARMER_TOKEN_TTL": "forever"},
			expectedError: "FARMER_TOKEN_TTL",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			for k, v := range testCase.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, testCase.content))
			assert.ErrorContains(t, err, testCase.expectedError)
		})
	}
}

func TestLoad_MissingFileUsesEnvironment(t *testing.T) {
	t.Setenv("FARMER_DEFAULT_USER", "farmer")
	t.Setenv("FARMER_DEFAULT_PASS", "potato")
	t.Setenv("FARMER_SECRET_KEY", "s3cret")
	t.Setenv("FARMER_DATABASE_URL", "postgres://localhost/farmer")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "farmer", cfg.DefaultUser)
}
