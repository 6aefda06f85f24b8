package logger_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahappyphrog/harmonic-take-home/internal/platform/logger"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{name: "debug level", level: "debug"},
		{name: "info level", level: "info"},
		{name: "warn level", level: "warn"},
		{name: "error level", level: "error"},
		{name: "invalid level falls back to info", level: "verbose"},
		{name: "mixed case", level: "DeBuG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := logger.Setup(logger.Config{Level: tt.level})
			require.NoError(t, err)
			require.NotNil(t, log)
		})
	}
}

func TestFromContext(t *testing.T) {
	t.Run("returns attached logger", func(t *testing.T) {
		custom := slog.New(slog.NewTextHandler(os.Stderr, nil))
		ctx := logger.WithLogger(context.Background(), custom)

		assert.Same(t, custom, logger.FromContext(ctx))
	})

	t.Run("falls back to default", func(t *testing.T) {
		assert.Same(t, slog.Default(), logger.FromContext(context.Background()))
	})
}

func TestFromContextOrDefault(t *testing.T) {
	custom := slog.New(slog.NewTextHandler(os.Stderr, nil))
	def := slog.New(slog.NewTextHandler(os.Stderr, nil))

	t.Run("prefers context logger", func(t *testing.T) {
		ctx := logger.WithLogger(context.Background(), custom)
		assert.Same(t, custom, logger.FromContextOrDefault(ctx, def))
	})

	t.Run("falls back to provided default", func(t *testing.T) {
		assert.Same(t, def, logger.FromContextOrDefault(context.Background(), def))
	})

	t.Run("falls back to global default when nil", func(t *testing.T) {
		assert.Same(t, slog.Default(), logger.FromContextOrDefault(context.Background(), nil))
	})
}
