package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("Should parse minimal payload with trailing whitespace", func(t *testing.T) {
		raw := "Active connections: 5 \n5 120 120 \nReading: 0 Writing: 1 Waiting: 4 \n"
		snap, err := Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, Snapshot{
			Active:   5,
			Accepted: 5,
			Handled:  120,
			Requests: 120,
			Reading:  0,
			Writing:  1,
			Waiting:  4,
		}, snap)
	})

	t.Run("Should parse full stub_status payload", func(t *testing.T) {
		raw := "Active connections: 291 \n" +
			"server accepts handled requests\n" +
			" 16630948 16630948 31070465 \n" +
			"Reading: 6 Writing: 179 Waiting: 106 \n"
		snap, err := Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, Snapshot{
			Active:   291,
			Accepted: 16630948,
			Handled:  16630948,
			Requests: 31070465,
			Reading:  6,
			Writing:  179,
			Waiting:  106,
		}, snap)
	})

	t.Run("Should tolerate CRLF line endings", func(t *testing.T) {
		raw := "Active connections: 1\r\nserver accepts handled requests\r\n 2 2 3\r\nReading: 0 Writing: 1 Waiting: 0\r\n"
		snap, err := Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), snap.Active)
		assert.Equal(t, uint64(3), snap.Requests)
	})

	t.Run("Should reject empty payload", func(t *testing.T) {
		_, err := Parse("")
		require.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("Should reject truncated payload", func(t *testing.T) {
		_, err := Parse("Active connections: 5\n5 120 120\n")
		require.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("Should reject reordered payload", func(t *testing.T) {
		_, err := Parse("Reading: 0 Writing: 1 Waiting: 4\nActive connections: 5\n5 120 120\n")
		require.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("Should reject non-numeric tokens", func(t *testing.T) {
		_, err := Parse("Active connections: five\n5 120 120\nReading: 0 Writing: 1 Waiting: 4\n")
		require.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("Should reject negative counters", func(t *testing.T) {
		_, err := Parse("Active connections: 5\n-5 120 120\nReading: 0 Writing: 1 Waiting: 4\n")
		require.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("Should reject counters overflowing uint64", func(t *testing.T) {
		_, err := Parse("Active connections: 5\n18446744073709551616 120 120\nReading: 0 Writing: 1 Waiting: 4\n")
		require.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("Should reject wrong counter arity", func(t *testing.T) {
		_, err := Parse("Active connections: 5\n5 120\nReading: 0 Writing: 1 Waiting: 4\n")
		require.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("Should reject trailing garbage", func(t *testing.T) {
		_, err := Parse("Active connections: 5\n5 120 120\nReading: 0 Writing: 1 Waiting: 4\nextra line\n")
		require.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("Should reject structurally different payload", func(t *testing.T) {
		_, err := Parse("<html><body>It works!</body></html>")
		require.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("Should accept maximum uint64 counters", func(t *testing.T) {
		snap, err := Parse("Active connections: 1\n18446744073709551615 1 1\nReading: 0 Writing: 0 Waiting: 1\n")
		require.NoError(t, err)
		assert.Equal(t, uint64(18446744073709551615), snap.Accepted)
	})
}
