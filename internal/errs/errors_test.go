package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("failed to build rule: %w", Validation(MissingTarget, "locations[0].upstreams[1].target", ""))

	require.True(t, IsValidation(err, MissingTarget))
	require.False(t, IsValidation(err, NoUpstreams))
	require.Equal(t, "failed to build rule: MissingTarget (locations[0].upstreams[1].target)", err.Error())
}

func TestMessage(t *testing.T) {
	t.Parallel()

	t.Run("transport errors are generic", func(t *testing.T) {
		t.Parallel()

		err := &TransportError{Op: "list rules", Err: errors.New("dial tcp: connection refused")}
		require.Equal(t, "request failed, please retry", Message(err))
	})
	t.Run("service errors carry the service message", func(t *testing.T) {
		t.Parallel()

		err := fmt.Errorf("renew: %w", &ServiceError{Op: "renew", Status: 409, Message: "already renewing"})
		require.Equal(t, "already renewing", Message(err))
	})
	t.Run("parse errors unwrap", func(t *testing.T) {
		t.Parallel()

		inner := errors.New("bad month")
		err := &ParseError{Input: "2024-13-01", Err: inner}
		require.ErrorIs(t, err, inner)
	})
}
