package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/treescape/pkg/starfield"
	"github.com/matzehuels/treescape/pkg/tree"
)

func sampleTree(t *testing.T, root string) tree.Snapshot {
	t.Helper()
	f, err := starfield.New(root, v3.Vec{X: 1}, nil)
	require.NoError(t, err)
	_, err = f.Add(root, root+"-a", tree.KindAggregate)
	require.NoError(t, err)
	_, err = f.Add(root+"-a", root+"-b", tree.KindRegular)
	require.NoError(t, err)
	_, err = f.Insert(tree.Insert{Parent: root, ID: root + "-c", Text: "note", Sibling: tree.AutoSibling})
	require.NoError(t, err)
	return f.Snapshot()
}

// normalize drops the root's sibling index, which documents do not carry.
func normalize(s tree.Snapshot) tree.Snapshot {
	s = s.Clone()
	e := s.Entries[s.RootID]
	e.Sibling = tree.AutoSibling
	s.Entries[s.RootID] = e
	return s
}

// testStore runs the behavior every backend must share.
func testStore(t *testing.T, s Store) {
	ctx := context.Background()
	hub := sampleTree(t, "hub")

	t.Run("get missing", func(t *testing.T) {
		_, err := s.Get(ctx, "hub")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("create and get", func(t *testing.T) {
		require.NoError(t, s.Create(ctx, hub))
		got, err := s.Get(ctx, "hub")
		require.NoError(t, err)
		assert.Equal(t, normalize(hub), got)
	})

	t.Run("create duplicate", func(t *testing.T) {
		assert.ErrorIs(t, s.Create(ctx, hub), ErrExists)
	})

	t.Run("put replaces", func(t *testing.T) {
		f, err := starfield.Open(hub, nil)
		require.NoError(t, err)
		_, err = f.Add("hub", "late", tree.KindRegular)
		require.NoError(t, err)
		require.NoError(t, s.Put(ctx, f.Snapshot()))

		got, err := s.Get(ctx, "hub")
		require.NoError(t, err)
		assert.True(t, got.Has("late"))
		assert.Equal(t, f.Snapshot().Entries["late"].Position, got.Entries["late"].Position)
	})

	t.Run("put creates", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, sampleTree(t, "alpha")))
		roots, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "hub"}, roots)
	})

	t.Run("reject empty", func(t *testing.T) {
		assert.Error(t, s.Put(ctx, tree.Snapshot{}))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "alpha"))
		assert.ErrorIs(t, s.Delete(ctx, "alpha"), ErrNotFound)
		roots, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"hub"}, roots)
	})

	t.Run("concurrent puts", func(t *testing.T) {
		trees := make([]tree.Snapshot, 8)
		for i := range trees {
			trees[i] = sampleTree(t, fmt.Sprintf("t%d", i))
		}
		var wg sync.WaitGroup
		for _, tr := range trees {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, s.Put(ctx, tr))
			}()
		}
		wg.Wait()
		roots, err := s.List(ctx)
		require.NoError(t, err)
		assert.Len(t, roots, 9)
	})
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestSQLiteStoreInMemory(t *testing.T) {
	s, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	defer s.Close()
	testStore(t, s)
}

func TestSQLiteStorePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "trees.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	hub := sampleTree(t, "hub")
	require.NoError(t, s.Create(ctx, hub))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(ctx, "hub")
	require.NoError(t, err)
	assert.Equal(t, normalize(hub), got)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("TREESCAPE_MONGO_URI")
	if uri == "" {
		t.Skip("TREESCAPE_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := fmt.Sprintf("treescape_test_%d", time.Now().UnixNano())
	s, err := OpenMongo(ctx, uri, db)
	require.NoError(t, err)
	defer func() {
		_ = s.client.Database(db).Drop(context.Background())
		s.Close()
	}()
	testStore(t, s)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, Options{Backend: BackendSQLite, Path: ":memory:"})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	s.Close()

	_, err = Open(ctx, Options{Backend: "etcd"})
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
