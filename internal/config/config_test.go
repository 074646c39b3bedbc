package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.OpenRouterBaseURL)
	assert.Equal(t, "google/gemini-2.5-flash-preview-05-20", cfg.OpenRouterModel)
	assert.Equal(t, "whisper-1", cfg.TranscribeModel)
	assert.Equal(t, 30*time.Minute, cfg.SnoozeDuration)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SNOOZE_DURATION", "45m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 45*time.Minute, cfg.SnoozeDuration)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
}

func TestLoad_BadDurationFallsBack(t *testing.T) {
	t.Setenv("SNOOZE_DURATION", "soon")

	cfg := Load()

	assert.Equal(t, 30*time.Minute, cfg.SnoozeDuration)
}
