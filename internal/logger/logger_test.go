package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	got := sanitizeKVs([]interface{}{"bot_token", "123:abc", "question_id", 7, "dangling"})

	assert.Equal(t, []interface{}{"bot_token", "[REDACTED]", "question_id", 7, "dangling"}, got)
}

func TestLoggerWritesStructuredFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("component", "board_service").Info("question submitted", "question_id", 3, "invitation_code", "abc")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "board_service", fields["component"])
		assert.EqualValues(t, 3, fields["question_id"])
		assert.Equal(t, "[REDACTED]", fields["invitation_code"])
	}
}

func TestNewFallsBackToDevelopment(t *testing.T) {
	for _, mode := range []string{"", "dev", "prod", "PRODUCTION"} {
		l, err := New(mode)
		assert.NoError(t, err)
		assert.NotNil(t, l)
	}
}
