package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("ANSWERLY_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ANSWERLY_JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "Answerly API", cfg.AppName)
	require.Equal(t, "8000", cfg.AppPort)
	require.Equal(t, "ap-south-1", cfg.AWSRegion)
	require.Equal(t, "EduEvalUsers", cfg.AccountsTable)
	require.Equal(t, "openai", cfg.EmbeddingProvider)
	require.Equal(t, 24*time.Hour, cfg.JWTTokenTTL)
	require.Equal(t, 10, cfg.UploadMaxMB)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ANSWERLY_JWT_SECRET", "test-secret")
	t.Setenv("ANSWERLY_APP_PORT", "9090")
	t.Setenv("ANSWERLY_EMBEDDING_PROVIDER", "Gemini")
	t.Setenv("ANSWERLY_JWT_TOKEN_TTL", "1h")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.AppPort)
	require.Equal(t, "gemini", cfg.EmbeddingProvider)
	require.Equal(t, time.Hour, cfg.JWTTokenTTL)
}

func TestHTTPAddress(t *testing.T) {
	require.Equal(t, ":8000", Config{AppPort: "8000"}.HTTPAddress())
	require.Equal(t, ":9090", Config{AppPort: ":9090"}.HTTPAddress())
}
