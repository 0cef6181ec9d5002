package logging

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestFromContext_FallsBackToGlobal(t *testing.T) {
	t.Parallel()

	assert.Same(t, zap.S(), FromContext(context.Background()))
}

func TestIntoContext_RoundTrip(t *testing.T) {
	t.Parallel()

	l := zap.NewNop().Sugar().With("service", "test")
	ctx := IntoContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}

func TestNew_WithRotatedFile(t *testing.T) {
	t.Parallel()

	l, err := New(Options{Level: "info", Mode: "development", File: filepath.Join(t.TempDir(), "app.log")})
	require.NoError(t, err)
	require.NotNil(t, l)
	l.Infow("hello", "k", "v")
}
