package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStringPtr(t *testing.T) {
	p := StringPtr("x")
	require.NotNil(t, p)
	require.Equal(t, "x", *p)
}

func TestTimePtr(t *testing.T) {
	now := time.Now()
	p := TimePtr(now)
	require.NotNil(t, p)
	require.True(t, now.Equal(*p))
}

func TestErrorWrapOrNil(t *testing.T) {
	require.NoError(t, ErrorWrapOrNil(nil, "context"))

	base := errors.New("boom")
	wrapped := ErrorWrapOrNil(base, "badger set lostItems")
	require.ErrorIs(t, wrapped, base)
	require.Equal(t, "badger set lostItems: boom", wrapped.Error())

	require.Same(t, base, ErrorWrapOrNil(base, ""))
}
