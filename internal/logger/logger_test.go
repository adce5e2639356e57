package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/environment"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("environment default level", func(t *testing.T) {
		t.Parallel()

		l, err := New("v1", environment.Production, "")
		require.NoError(t, err)
		require.False(t, l.Core().Enabled(zapcore.DebugLevel), "production must not log debug")
	})
	t.Run("explicit level overrides", func(t *testing.T) {
		t.Parallel()

		l, err := New("v1", environment.Local, "warn")
		require.NoError(t, err)
		require.False(t, l.Core().Enabled(zapcore.InfoLevel))
	})
	t.Run("bad level", func(t *testing.T) {
		t.Parallel()

		_, err := New("v1", environment.Local, "loud")
		require.Error(t, err)
	})
}
