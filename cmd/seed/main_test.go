package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestPrintTokenFailureGoesThroughZap(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	zl := zap.New(core, zap.WithFatalHook(zapcore.WriteThenPanic))

	gen := func(int64) (string, error) { return "", errors.New("signing key missing") }

	assert.Panics(t, func() { printToken(zl, gen, "owner", "Alice", 7) })

	entries := logs.FilterMessage("token generation failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.FatalLevel, entries[0].Level)
	assert.Equal(t, int64(7), entries[0].ContextMap()["user_id"])
	assert.Equal(t, "signing key missing", entries[0].ContextMap()["error"])
}
