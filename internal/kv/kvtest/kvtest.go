// Package kvtest checks that a types.KVStore implementation honors the
// port contract. Backend packages call Run from their tests.
package kvtest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/trailmap/pkg/types"
)

// Factory prepares fresh backing state for one subtest and returns a
// function that opens a handle on it. Persistent backends may be opened
// again after the previous handle is closed.
type Factory func(t *testing.T) (open func() types.KVStore)

// Run exercises the store contract. Persistence across reopen is checked
// only when persistent is true.
func Run(t *testing.T, factory Factory, persistent bool) {
	ctx := context.Background()
	fresh := func(t *testing.T) types.KVStore {
		return factory(t)()
	}

	t.Run("missing key", func(t *testing.T) {
		s := fresh(t)
		defer s.Close()
		_, err := s.Get(ctx, "absent")
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("empty key", func(t *testing.T) {
		s := fresh(t)
		defer s.Close()
		_, err := s.Get(ctx, "")
		assert.ErrorIs(t, err, types.ErrInvalidKey)
		assert.ErrorIs(t, s.Set(ctx, "", []byte("x")), types.ErrInvalidKey)
	})

	t.Run("set then get", func(t *testing.T) {
		s := fresh(t)
		defer s.Close()
		require.NoError(t, s.Set(ctx, "trail-favorites", []byte("[1,2]")))
		require.NoError(t, s.Set(ctx, "trail-favorites", []byte("[3]")))
		got, err := s.Get(ctx, "trail-favorites")
		require.NoError(t, err)
		assert.Equal(t, []byte("[3]"), got)
	})

	t.Run("values are copied", func(t *testing.T) {
		s := fresh(t)
		defer s.Close()
		v := []byte("abc")
		require.NoError(t, s.Set(ctx, "k", v))
		v[0] = 'z'
		got, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), got)
		got[0] = 'y'
		again, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), again)
	})

	t.Run("binary values", func(t *testing.T) {
		s := fresh(t)
		defer s.Close()
		v := []byte{0x00, 0xff, 0xfe, '\n'}
		require.NoError(t, s.Set(ctx, "bin", v))
		got, err := s.Get(ctx, "bin")
		require.NoError(t, err)
		assert.Equal(t, v, got)
	})

	t.Run("closed store", func(t *testing.T) {
		s := fresh(t)
		require.NoError(t, s.Close())
		require.NoError(t, s.Close(), "close is idempotent")
		_, err := s.Get(ctx, "k")
		assert.ErrorIs(t, err, types.ErrStoreClosed)
		assert.ErrorIs(t, s.Set(ctx, "k", nil), types.ErrStoreClosed)
	})

	t.Run("concurrent writers", func(t *testing.T) {
		s := fresh(t)
		defer s.Close()
		var wg sync.WaitGroup
		for i := range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, s.Set(ctx, fmt.Sprintf("key-%d", i), []byte{byte(i)}))
			}()
		}
		wg.Wait()
		for i := range 8 {
			got, err := s.Get(ctx, fmt.Sprintf("key-%d", i))
			require.NoError(t, err)
			assert.Equal(t, []byte{byte(i)}, got)
		}
	})

	if !persistent {
		return
	}
	t.Run("persists across reopen", func(t *testing.T) {
		open := factory(t)
		s := open()
		require.NoError(t, s.Set(ctx, "trail-favorites", []byte("[5,8]")))
		require.NoError(t, s.Close())

		r := open()
		defer r.Close()
		got, err := r.Get(ctx, "trail-favorites")
		require.NoError(t, err)
		assert.Equal(t, []byte("[5,8]"), got)
	})
}
