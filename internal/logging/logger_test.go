package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/BruksfildServices01/booking-saas/internal/config"
)

func TestNew_DevelopmentLevel(t *testing.T) {
	logger, err := New(&config.Config{Env: "development", LogLevel: "warn"})
	require.NoError(t, err)
	require.NotNil(t, logger)

	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	logger, err := New(&config.Config{Env: "production", LogLevel: "loud"})
	require.NoError(t, err)

	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}
