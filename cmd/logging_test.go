package main

import (
	"testing"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/config"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordPackageLevels swaps the package loggers for a recorder until the test ends
func recordPackageLevels(t *testing.T) *[]log.Level {
	t.Helper()
	var seen []log.Level
	original, originalLevel := packageLoggers, log.GetLevel()
	packageLoggers = []func(log.Level){func(l log.Level) { seen = append(seen, l) }}
	t.Cleanup(func() {
		packageLoggers = original
		log.SetLevel(originalLevel)
	})
	return &seen
}

func TestLogLevelFollowsEnvironment(t *testing.T) {
	testCases := []struct {
		env      string
		expected log.Level
	}{
		{"development", log.DebugLevel},
		{"production", log.ErrorLevel},
		{"staging", log.InfoLevel},
	}

	for _, tt := range testCases {
		t.Run(tt.env, func(t *testing.T) {
			seen := recordPackageLevels(t)
			t.Setenv("APP_ENV", tt.env)
			t.Setenv("JWT_SECRET", "test-jwt-secret-key-32-characters-long")
			t.Setenv("LOG_LEVEL", "")

			setUpLogger()
			_, err := loadConfig()
			require.NoError(t, err)

			assert.Equal(t, tt.expected, log.GetLevel())
			require.NotEmpty(t, *seen)
			assert.Equal(t, tt.expected, (*seen)[len(*seen)-1])
		})
	}
}

func TestLogLevelOverride(t *testing.T) {
	seen := recordPackageLevels(t)
	t.Setenv("APP_ENV", "production")

	setUpLogger()
	applyLogLevel(&config.Config{LogLevel: "warn"})

	assert.Equal(t, log.WarnLevel, log.GetLevel())
	assert.Equal(t, []log.Level{log.ErrorLevel, log.WarnLevel}, *seen)
}

func TestLogLevelOverrideIgnoresUnknownLevel(t *testing.T) {
	recordPackageLevels(t)
	t.Setenv("APP_ENV", "development")

	setUpLogger()
	applyLogLevel(&config.Config{LogLevel: "loud"})

	assert.Equal(t, log.DebugLevel, log.GetLevel())
}
