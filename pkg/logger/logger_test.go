package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func enabled(l Logger, lvl zapcore.Level) bool {
	return l.(*ZapLogger).logger.Desugar().Core().Enabled(lvl)
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		level   string
		debug   bool
		info    bool
		warning bool
	}{
		{"development default", "development", "", true, true, true},
		{"production default", "production", "", false, true, true},
		{"override", "production", "warn", false, false, true},
		{"debug in production", "production", "debug", true, true, true},
		{"unknown level keeps default", "production", "loud", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLogger(tt.env, tt.level)
			assert.Equal(t, tt.debug, enabled(l, zapcore.DebugLevel))
			assert.Equal(t, tt.info, enabled(l, zapcore.InfoLevel))
			assert.Equal(t, tt.warning, enabled(l, zapcore.WarnLevel))
		})
	}
}
