package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWrap_WithCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := Wrap(zap.New(core)).With(zap.String("component", "store"))

	log.Info("fetch committed", zap.Int("records", 3))
	log.Debug("skipped")

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "fetch committed", entries[0].Message)
		ctx := entries[0].ContextMap()
		assert.Equal(t, "store", ctx["component"])
		assert.EqualValues(t, 3, ctx["records"])
	}
}

func TestNewZapLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	log := NewZapLogger(&ZapLoggerConfig{Level: "verbose", Encoding: "console", DisableStacktrace: true})
	assert.NotNil(t, log)
	log.Debug("not emitted")
	_ = log.Sync()
}
