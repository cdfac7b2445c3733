package properties

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_LoadsOnce(t *testing.T) {
	var loads int32
	store := NewStoreWithLoader(func() ([]Row, error) {
		atomic.AddInt32(&loads, 1)
		return []Row{{SerialNumber: "SN1", PropertyName: "Location", Value: "Warehouse A"}}, nil
	}, nil)

	ctx := context.Background()
	first := store.Rows(ctx)
	second := store.Rows(ctx)

	assert.Equal(t, int32(1), atomic.LoadInt32(&loads), "loader should run exactly once")
	assert.Len(t, first, 1)
	assert.Len(t, second, 1)
	assert.True(t, store.Ready())
}

func TestStore_ConcurrentFirstLoadDeduplicates(t *testing.T) {
	var loads int32
	release := make(chan struct{})
	store := NewStoreWithLoader(func() ([]Row, error) {
		atomic.AddInt32(&loads, 1)
		<-release
		return []Row{{SerialNumber: "SN1", PropertyName: "Location", Value: "Warehouse A"}}, nil
	}, nil)

	const callers = 16
	results := make([][]Row, callers)

	var started, done sync.WaitGroup
	started.Add(callers)
	done.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer done.Done()
			started.Done()
			results[i] = store.Rows(context.Background())
		}(i)
	}

	started.Wait()
	close(release)
	done.Wait()

	require.Equal(t, int32(1), atomic.LoadInt32(&loads), "concurrent first loads must share one read")
	for i := 1; i < callers; i++ {
		require.Len(t, results[i], 1)
		assert.Equal(t, results[0][0], results[i][0], "all callers must observe the same dataset")
	}
}

func TestStore_LoadFailureResolvesEmpty(t *testing.T) {
	var loads int32
	store := NewStoreWithLoader(func() ([]Row, error) {
		atomic.AddInt32(&loads, 1)
		return nil, errors.New("disk on fire")
	}, nil)

	ctx := context.Background()
	rows := store.Rows(ctx)

	assert.Empty(t, rows, "failed load must resolve to an empty dataset")
	assert.True(t, store.Ready(), "store is ready even after a failed load")

	// No retry on subsequent calls.
	store.Rows(ctx)
	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
}

func TestStore_FileBacked(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "customproperties.csv")
	content := "SerialNumber,Propertyname,Value\nSN1,Location,Warehouse A\nSN1,Owner,Logistics\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	store := NewStore(path, nil)
	rows := store.Rows(context.Background())

	assert.Len(t, rows, 2)
	assert.Equal(t, 2, store.Len())
}

func TestStore_FileBackedMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope.csv"), nil)

	rows := store.Rows(context.Background())

	assert.Empty(t, rows)
	assert.True(t, store.Ready())
}
