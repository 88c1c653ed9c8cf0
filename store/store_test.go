// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

// backends returns a fresh instance of every backend that can run
// without external services. PostgreSQL joins when
// TALLY_TEST_POSTGRES_URL is set.
func backends(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := Open(DriverSQLite, ":memory:")
	require.NoError(t, err)

	bolt, err := OpenBoltStore(filepath.Join(t.TempDir(), "tally.db"))
	require.NoError(t, err)

	level, err := NewMemLevelStore()
	require.NoError(t, err)

	out := map[string]Store{
		"sqlite":  sqlite,
		"bolt":    bolt,
		"leveldb": level,
	}

	if url := os.Getenv("TALLY_TEST_POSTGRES_URL"); url != "" {
		pg, err := Open(DriverPostgres, url)
		require.NoError(t, err)
		require.NoError(t, pg.Update(context.Background(), func(Txn) error { return nil }))
		_, err = pg.(*SQLStore).db.Exec(`DELETE FROM kv_entry`)
		require.NoError(t, err)
		out["postgres"] = pg
	}

	t.Cleanup(func() {
		for _, s := range out {
			s.Close()
		}
	})
	return out
}

func TestBackendCompatibility(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("put and get", func(t *testing.T) { testPutGet(t, s) })
			t.Run("rollback on error", func(t *testing.T) { testRollback(t, s) })
			t.Run("read your writes", func(t *testing.T) { testReadYourWrites(t, s) })
			t.Run("prefix iteration", func(t *testing.T) { testIterate(t, s) })
			t.Run("read only view", func(t *testing.T) { testReadOnly(t, s) })
		})
	}
}

func testPutGet(t *testing.T, s Store) {
	require := require.New(t)
	ctx := context.Background()

	err := s.Update(ctx, func(txn Txn) error {
		return txn.Put([]byte("pg/persons"), []byte("Nikitin"))
	})
	require.NoError(err)

	err = s.View(ctx, func(txn Txn) error {
		v, err := txn.Get([]byte("pg/persons"))
		require.NoError(err)
		require.Equal("Nikitin", string(v))

		ok, err := txn.Has([]byte("pg/persons"))
		require.NoError(err)
		require.True(ok)

		ok, err = txn.Has([]byte("pg/missing"))
		require.NoError(err)
		require.False(ok)

		_, err = txn.Get([]byte("pg/missing"))
		require.ErrorIs(err, ErrNotFound)
		return nil
	})
	require.NoError(err)

	// upsert overwrites
	err = s.Update(ctx, func(txn Txn) error {
		return txn.Put([]byte("pg/persons"), []byte("Molchanovsky"))
	})
	require.NoError(err)

	err = s.View(ctx, func(txn Txn) error {
		v, err := txn.Get([]byte("pg/persons"))
		require.NoError(err)
		require.Equal("Molchanovsky", string(v))
		return nil
	})
	require.NoError(err)
}

func testRollback(t *testing.T, s Store) {
	require := require.New(t)
	ctx := context.Background()

	require.NoError(s.Update(ctx, func(txn Txn) error {
		return txn.Put([]byte("rb/a"), []byte("1"))
	}))

	err := s.Update(ctx, func(txn Txn) error {
		if err := txn.Put([]byte("rb/a"), []byte("2")); err != nil {
			return err
		}
		if err := txn.Put([]byte("rb/b"), []byte("2")); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(err, errBoom)

	require.NoError(s.View(ctx, func(txn Txn) error {
		v, err := txn.Get([]byte("rb/a"))
		require.NoError(err)
		require.Equal("1", string(v))

		ok, err := txn.Has([]byte("rb/b"))
		require.NoError(err)
		require.False(ok)
		return nil
	}))
}

func testReadYourWrites(t *testing.T, s Store) {
	require := require.New(t)

	require.NoError(s.Update(context.Background(), func(txn Txn) error {
		require.NoError(txn.Put([]byte("ryw/x"), []byte("v")))

		v, err := txn.Get([]byte("ryw/x"))
		require.NoError(err)
		require.Equal("v", string(v))

		n := 0
		require.NoError(txn.Iterate([]byte("ryw/"), func(_, _ []byte) error {
			n++
			return nil
		}))
		require.Equal(1, n)
		return nil
	}))
}

func testIterate(t *testing.T, s Store) {
	require := require.New(t)
	ctx := context.Background()

	require.NoError(s.Update(ctx, func(txn Txn) error {
		for _, k := range []string{"it/b", "it/a", "it/c", "iu/z", "is/z"} {
			if err := txn.Put([]byte(k), []byte(k)); err != nil {
				return err
			}
		}
		// prefix ending in 0xff has no upper bound
		return txn.Put([]byte{'i', 't', 0xff, 1}, []byte("ff"))
	}))

	require.NoError(s.View(ctx, func(txn Txn) error {
		var keys []string
		require.NoError(txn.Iterate([]byte("it/"), func(k, v []byte) error {
			require.Equal(string(k), string(v))
			keys = append(keys, string(k))
			return nil
		}))
		require.Equal([]string{"it/a", "it/b", "it/c"}, keys)

		var ff [][]byte
		require.NoError(txn.Iterate([]byte{'i', 't', 0xff}, func(k, _ []byte) error {
			ff = append(ff, append([]byte(nil), k...))
			return nil
		}))
		require.Equal([][]byte{{'i', 't', 0xff, 1}}, ff)

		err := txn.Iterate([]byte("it/"), func(_, _ []byte) error { return errBoom })
		require.ErrorIs(err, errBoom)
		return nil
	}))
}

func testReadOnly(t *testing.T, s Store) {
	err := s.View(context.Background(), func(txn Txn) error {
		return txn.Put([]byte("ro/x"), []byte("1"))
	})
	require.ErrorIs(t, err, ErrReadOnly)
}

func TestPrefixed(t *testing.T) {
	require := require.New(t)
	s, err := NewMemLevelStore()
	require.NoError(err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(s.Update(ctx, func(txn Txn) error {
		a := Prefixed(txn, []byte("e/1/"))
		b := Prefixed(txn, []byte("e/2/"))
		require.NoError(a.Put([]byte("k"), []byte("a")))
		require.NoError(b.Put([]byte("k"), []byte("b")))

		nested := Prefixed(a, []byte("sub/"))
		return nested.Put([]byte("k"), []byte("nested"))
	}))

	require.NoError(s.View(ctx, func(txn Txn) error {
		v, err := Prefixed(txn, []byte("e/1/")).Get([]byte("k"))
		require.NoError(err)
		require.Equal("a", string(v))

		v, err = txn.Get([]byte("e/1/sub/k"))
		require.NoError(err)
		require.Equal("nested", string(v))

		var keys []string
		require.NoError(Prefixed(txn, []byte("e/2/")).Iterate(nil, func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		}))
		require.Equal([]string{"k"}, keys)
		return nil
	}))
}

func TestPrefixEnd(t *testing.T) {
	tests := []struct {
		in   []byte
		want []byte
	}{
		{[]byte("abc"), []byte("abd")},
		{[]byte{'a', 0xff}, []byte{'b'}},
		{[]byte{0xff, 0xff}, nil},
		{nil, nil},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, prefixEnd(tt.in))
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("cassandra", "")
	require.Error(t, err)
}
