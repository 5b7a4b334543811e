package attendancecode

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_RoundTrip(t *testing.T) {
	g, err := New("office-display-secret", 30)
	require.NoError(t, err)

	now := time.Date(2026, 3, 2, 9, 0, 10, 0, time.UTC)
	code, err := g.Current(now)
	require.NoError(t, err)

	assert.Len(t, code.Value, 6)
	assert.Equal(t, "HRATT:"+code.Value, code.Payload)
	assert.Equal(t, 20, code.ExpiresIn)

	assert.NoError(t, g.Verify(code.Value, now))
	assert.NoError(t, g.Verify(code.Payload, now))
	// one period of skew is accepted
	assert.NoError(t, g.Verify(code.Value, now.Add(30*time.Second)))
}

func TestGenerator_RejectsStaleCode(t *testing.T) {
	g, err := New("office-display-secret", 30)
	require.NoError(t, err)

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	code, err := g.Current(now)
	require.NoError(t, err)

	assert.ErrorIs(t, g.Verify(code.Value, now.Add(5*time.Minute)), ErrInvalidCode)
	assert.ErrorIs(t, g.Verify("", now), ErrInvalidCode)
	assert.ErrorIs(t, g.Verify("abcdef", now), ErrInvalidCode)
}

func TestGenerator_RandomSecret(t *testing.T) {
	a, err := New("", 30)
	require.NoError(t, err)
	b, err := New("", 30)
	require.NoError(t, err)

	assert.NotEqual(t, a.secret, b.secret)
}
