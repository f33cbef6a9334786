package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setEnv sets an env var for the duration of the test
func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	require.NoError(t, os.Setenv(key, value))
	t.Cleanup(func() {
		if had {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "newsbrief-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8000", cfg.App.Port)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "news.db", cfg.Database.Path)

	assert.Equal(t, "https://newsapi.org/v2", cfg.News.BaseURL)
	assert.Equal(t, "us", cfg.News.Country)
	assert.Equal(t, "en", cfg.News.Language)
	assert.Equal(t, 10, cfg.News.PageSize)

	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.Groq.BaseURL)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.Groq.SummaryModel)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.Groq.TranslationModel)
	assert.Equal(t, 0.3, cfg.Groq.Temperature)
	assert.Equal(t, 1000, cfg.Groq.MaxTokens)
	assert.Equal(t, 30*time.Second, cfg.Groq.Timeout)

	assert.Equal(t, 5*time.Second, cfg.Enrichment.PollInterval)
	assert.Equal(t, 10, cfg.Enrichment.BatchSize)
	assert.Equal(t, 3, cfg.Enrichment.MaxAttempts)
	assert.Equal(t, 5*time.Minute, cfg.Enrichment.ClaimTimeout)
}

func TestLoadEnvOverrides(t *testing.T) {
	setEnv(t, "NEWS_APP_PORT", "9090")
	setEnv(t, "NEWS_DATABASE_DRIVER", "postgres")
	setEnv(t, "NEWS_DATABASE_HOST", "db.internal")
	setEnv(t, "NEWS_NEWSAPI_KEY", "test-news-key")
	setEnv(t, "NEWS_GROQ_API_KEY", "test-groq-key")
	setEnv(t, "NEWS_ENRICHMENT_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "test-news-key", cfg.News.APIKey)
	assert.Equal(t, "test-groq-key", cfg.Groq.APIKey)
	assert.True(t, cfg.Enrichment.Enabled)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	setEnv(t, "NEWS_DATABASE_DRIVER", "mysql")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.driver")
}

func TestLoadProductionRequiresSecrets(t *testing.T) {
	setEnv(t, "NEWS_APP_ENV", "production")
	setEnv(t, "NEWS_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret")
}

func TestLoadProductionShortSecret(t *testing.T) {
	setEnv(t, "NEWS_APP_ENV", "production")
	setEnv(t, "NEWS_JWT_SECRET", "too-short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "32 characters")
}

func TestHasNewsKey(t *testing.T) {
	n := NewsConfig{}
	assert.False(t, n.HasNewsKey())

	n.APIKey = "your_news_api_key_here"
	assert.False(t, n.HasNewsKey())

	n.APIKey = "real-key"
	assert.True(t, n.HasNewsKey())
}

func TestDSNEscapesCredentials(t *testing.T) {
	d := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "user",
		Password: "p@ss:word/1",
		DBName:   "news",
		SSLMode:  "disable",
	}
	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "p%40ss%3Aword%2F1")
	assert.Contains(t, dsn, "sslmode=disable")
}
