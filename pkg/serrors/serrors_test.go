package serrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"riskblock/pkg/serrors"
	"testing"

	"github.com/stretchr/testify/require"
)

type customError struct{ msg string }

func (e customError) Error() string { return e.msg }

func TestKindsDistinct(t *testing.T) {
	kinds := []serrors.Kind{
		serrors.ErrNotFound,
		serrors.ErrUnauthorized,
		serrors.ErrForbidden,
		serrors.ErrBadRequest,
		serrors.ErrConflict,
		serrors.ErrInternal,
		serrors.ErrTimeout,
		serrors.ErrUnavailable,
		serrors.ErrRateLimited,
		serrors.ErrRejected,
	}
	seen := map[serrors.Kind]bool{}
	for i, k := range kinds {
		require.NotNil(t, k, "kind at index %d is nil", i)
		require.False(t, seen[k], "kind at index %d is duplicate: %v", i, k)
		seen[k] = true
	}
}

func TestErrorFormatting(t *testing.T) {
	base := errors.New("connection reset")

	e1 := serrors.With(serrors.ErrNotFound, "destination list %d not found", 42)
	require.Equal(t, "destination list 42 not found", e1.Error())

	e2 := serrors.Wrap(serrors.ErrUnavailable, base, "adding destinations")
	require.Equal(t, "adding destinations: connection reset", e2.Error())

	e3 := serrors.KindOnly(serrors.ErrRejected)
	require.Equal(t, "REJECTED", e3.Error())

	var e4 *serrors.Error
	require.Equal(t, "<nil>", e4.Error())
}

func TestIsMatchesKindAndWrapped(t *testing.T) {
	base := customError{"root cause"}
	e := serrors.Wrap(serrors.ErrNotFound, base, "reading output_high.json")

	require.ErrorIs(t, e, serrors.ErrNotFound)
	require.ErrorIs(t, e, base)
	require.NotErrorIs(t, e, serrors.ErrUnauthorized)

	wrapped := fmt.Errorf("could not load: %w", e)
	require.ErrorIs(t, wrapped, serrors.ErrNotFound)
}

func TestAsMatchesKindAndWrapped(t *testing.T) {
	base := &customError{"root cause"}
	e := serrors.Wrap(serrors.ErrBadRequest, base, "decoding")

	var k serrors.Kind
	require.ErrorAs(t, e, &k)
	require.Equal(t, serrors.ErrBadRequest, k)

	var ce *customError
	require.ErrorAs(t, e, &ce)
	require.Equal(t, base, ce)
}

func TestAccessors(t *testing.T) {
	base := errors.New("boom")
	e := serrors.Wrap(serrors.ErrUnauthorized, base, "no token")
	require.Equal(t, serrors.ErrUnauthorized, e.Kind())
	require.Equal(t, "no token", e.Message())
	require.Equal(t, base, e.Cause())
}

func TestFromStatus(t *testing.T) {
	cases := map[int]serrors.Kind{
		http.StatusOK:                  nil,
		http.StatusNoContent:           nil,
		http.StatusBadRequest:          serrors.ErrBadRequest,
		http.StatusUnprocessableEntity: serrors.ErrBadRequest,
		http.StatusRequestTimeout:      serrors.ErrTimeout,
		http.StatusUnauthorized:        serrors.ErrUnauthorized,
		http.StatusForbidden:           serrors.ErrForbidden,
		http.StatusNotFound:            serrors.ErrNotFound,
		http.StatusConflict:            serrors.ErrConflict,
		http.StatusTooManyRequests:     serrors.ErrRateLimited,
		http.StatusGatewayTimeout:      serrors.ErrTimeout,
		http.StatusBadGateway:          serrors.ErrUnavailable,
		http.StatusServiceUnavailable:  serrors.ErrUnavailable,
		http.StatusInternalServerError: serrors.ErrInternal,
		http.StatusTeapot:              serrors.ErrInternal,
	}
	for code, want := range cases {
		require.Equal(t, want, serrors.FromStatus(code), "status %d", code)
	}
}

func TestKindOf(t *testing.T) {
	require.Nil(t, serrors.KindOf(errors.New("plain")))
	require.Equal(t, serrors.ErrRateLimited,
		serrors.KindOf(fmt.Errorf("outer: %w", serrors.With(serrors.ErrRateLimited, "slow down"))))
}
