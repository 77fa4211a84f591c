package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	svcErr "github.com/hey-granth/profile-guard/internal/errors"
)

func TestCursorRoundTrip(t *testing.T) {
	ts := time.Date(2025, 3, 1, 12, 30, 0, 123_000_000, time.UTC)
	token, err := Encode(Cursor{UserID: 42, UpdatedUnix: ts.UnixMilli()})
	require.NoError(t, err)

	c, err := Decode(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), c.UserID)
	assert.True(t, ts.Equal(c.UpdatedAt()))
	assert.False(t, c.IsZero())
}

func TestDecode_EmptyIsFirstPage(t *testing.T) {
	c, err := Decode("")
	require.NoError(t, err)
	assert.True(t, c.IsZero())
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode("%%%")
	assert.ErrorIs(t, err, svcErr.ErrValidation)

	_, err = Decode("bm90LWpzb24=") // "not-json"
	assert.ErrorIs(t, err, svcErr.ErrValidation)
}
