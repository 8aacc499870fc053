package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	assert.Equal(t, "emprego_mz_jobs.json", cfg.JobsDBFile)
	assert.Equal(t, "categories.json", cfg.CategoriesFile)
	assert.Equal(t, "locations.json", cfg.LocationsFile)
	assert.Equal(t, 1000, cfg.MinDelayMs)
	assert.Equal(t, 3000, cfg.MaxDelayMs)
	assert.NotEmpty(t, cfg.UserAgent)
	assert.Equal(t, "golang:1.25-bookworm", cfg.Runner.BaseImage)
	assert.Equal(t, "/app", cfg.Runner.Workdir)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		GeminiModel: "gemini-1.5-flash",
		JobsDBFile:  "custom.json",
		MinDelayMs:  50,
	}
	cfg.ApplyDefaults()

	assert.Equal(t, "gemini-1.5-flash", cfg.GeminiModel)
	assert.Equal(t, "custom.json", cfg.JobsDBFile)
	assert.Equal(t, 50, cfg.MinDelayMs)
}
