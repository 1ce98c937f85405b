package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   Debug,
		" WARN ":  Warn,
		"warning": Warn,
		"error":   Error,
		"":        Info,
		"verbose": Info,
	}
	for in, want := range cases {
		require.Equal(t, want, ParseLevel(in), "input %q", in)
	}
}

func TestParseFormat(t *testing.T) {
	require.Equal(t, FormatJSON, ParseFormat("JSON"))
	require.Equal(t, FormatText, ParseFormat("pretty"))
}

func TestWith_CarriesFieldsAndErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core)).With(map[string]any{"view": "patients"})

	log.Error("view load failed", map[string]any{"error": errors.New("boom"), "seq": 3, " ": "skipped"})

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "view load failed", entries[0].Message)

	ctx := entries[0].ContextMap()
	require.Equal(t, "patients", ctx["view"])
	require.Equal(t, "boom", ctx["error"])
	require.EqualValues(t, 3, ctx["seq"])
	require.NotContains(t, ctx, " ")
}

func TestNop_DoesNotPanic(t *testing.T) {
	log := NewNop().With(nil)
	log.Info("ok", nil)
	log.Debug("ok", map[string]any{"k": 1})
}
