package log_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birchlabs/folio/pkg/log"
)

func TestGetLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input    string
		expected slog.Level
		wantErr  bool
	}{
		"error":              {input: "error", expected: slog.LevelError},
		"warn":               {input: "warn", expected: slog.LevelWarn},
		"warning alias":      {input: "warning", expected: slog.LevelWarn},
		"info":               {input: "info", expected: slog.LevelInfo},
		"debug":              {input: "debug", expected: slog.LevelDebug},
		"mixed case":         {input: "DeBuG", expected: slog.LevelDebug},
		"unknown level":      {input: "trace", wantErr: true},
		"empty string fails": {input: "", wantErr: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			lvl, err := log.GetLevel(tc.input)
			if tc.wantErr {
				require.ErrorIs(t, err, log.ErrUnknownLogLevel)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, lvl)
		})
	}
}

func TestGetFormat(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input    string
		expected log.Format
		wantErr  bool
	}{
		"json":           {input: "json", expected: log.FormatJSON},
		"logfmt":         {input: "logfmt", expected: log.FormatLogfmt},
		"text":           {input: "text", expected: log.FormatText},
		"mixed case":     {input: "JSON", expected: log.FormatJSON},
		"unknown format": {input: "xml", wantErr: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f, err := log.GetFormat(tc.input)
			if tc.wantErr {
				require.ErrorIs(t, err, log.ErrUnknownLogFormat)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, f)
		})
	}
}

func TestCreateHandlerWithStrings(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	h, err := log.CreateHandlerWithStrings(&buf, "info", "json")
	require.NoError(t, err)
	require.NotNil(t, h)

	logger := slog.New(h)
	logger.Info("hello", slog.String("k", "v"))

	assert.Contains(t, buf.String(), `"msg":"hello"`)

	_, err = log.CreateHandlerWithStrings(&buf, "nope", "json")
	require.ErrorIs(t, err, log.ErrInvalidArgument)

	_, err = log.CreateHandlerWithStrings(&buf, "info", "nope")
	require.ErrorIs(t, err, log.ErrInvalidArgument)
}
