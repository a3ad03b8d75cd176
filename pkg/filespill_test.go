package pkg

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileSpill(t *testing.T) {
	t.Run("NewFileSpill", func(t *testing.T) {
		spill, err := NewFileSpill[int]()
		require.NoError(t, err)
		require.NotNil(t, spill)
		require.Contains(t, spill.Path(), "gomu-spill")
		defer spill.Close()
	})

	t.Run("Len returns correct count", func(t *testing.T) {
		spill, err := NewFileSpill[int]()
		require.NoError(t, err)
		defer spill.Close()

		require.Equal(t, uint64(0), spill.Len())

		require.NoError(t, spill.Append(10))
		require.NoError(t, spill.Append(20))

		require.Equal(t, uint64(2), spill.Len())
	})

	t.Run("Range iterates in append order", func(t *testing.T) {
		spill, err := NewFileSpill[string]()
		require.NoError(t, err)
		defer spill.Close()

		items := []string{"first", "second", "third"}
		for _, item := range items {
			require.NoError(t, spill.Append(item))
		}

		var collected []string

		err = spill.Range(func(index uint64, item string) error {
			require.Equal(t, uint64(len(collected)), index)
			collected = append(collected, item)

			return nil
		})
		require.NoError(t, err)
		require.Equal(t, items, collected)
	})

	t.Run("Range stops at callback error", func(t *testing.T) {
		spill, err := NewFileSpill[int]()
		require.NoError(t, err)
		defer spill.Close()

		require.NoError(t, spill.Append(1))
		require.NoError(t, spill.Append(2))

		boom := errors.New("boom")
		calls := 0

		err = spill.Range(func(_ uint64, _ int) error {
			calls++
			return boom
		})
		require.ErrorIs(t, err, boom)
		require.Equal(t, 1, calls)
	})

	t.Run("Range on empty spill", func(t *testing.T) {
		spill, err := NewFileSpill[int]()
		require.NoError(t, err)
		defer spill.Close()

		err = spill.Range(func(_ uint64, _ int) error {
			t.Fatal("callback should not run")
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("Close removes the backing file", func(t *testing.T) {
		spill, err := NewFileSpill[int]()
		require.NoError(t, err)

		path := spill.Path()
		require.NoError(t, spill.Append(1))
		require.NoError(t, spill.Close())

		_, statErr := os.Stat(path)
		require.True(t, os.IsNotExist(statErr))

		// Closing twice is a no-op.
		require.NoError(t, spill.Close())
	})

	t.Run("Struct payloads round-trip", func(t *testing.T) {
		type payload struct {
			ID   uint32
			Note string
		}

		spill, err := NewFileSpill[payload]()
		require.NoError(t, err)
		defer spill.Close()

		want := payload{ID: 7, Note: "survived"}
		require.NoError(t, spill.Append(want))

		var got payload

		err = spill.Range(func(_ uint64, item payload) error {
			got = item
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, want, got)
	})
}
