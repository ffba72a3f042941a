package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONStore_WatchReportsExternalWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garden.json")
	st, err := OpenJSON(path, quietLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- st.Watch(ctx, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// Give the watcher a moment to register the directory.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`{"version":1,"gardenPlants":[]}`), 0o644))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("expected a change notification")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestJSONStore_RejectsNewerDocumentVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garden.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":99,"gardenPlants":[]}`), 0o644))
	st, err := OpenJSON(path, quietLogger())
	require.NoError(t, err)
	_, err = st.GetAll(context.Background())
	assert.ErrorContains(t, err, "unsupported document version")
}

func TestSQLiteStore_SeasonalInfoStoredAsJSONBlob(t *testing.T) {
	ctx := context.Background()
	st, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "garden.sqlite"))
	require.NoError(t, err)
	defer st.Close()

	p := testPlant("plant-a", "Oak")
	require.NoError(t, st.Insert(ctx, p))

	var blob string
	var lat, lng float64
	require.NoError(t, st.db.QueryRowContext(ctx, `SELECT seasonal_info, latitude, longitude FROM plants WHERE id = ?`, p.ID).Scan(&blob, &lat, &lng))
	assert.JSONEq(t, `{"bloomingSeason":["spring"],"dormantSeason":["winter"]}`, blob)
	assert.Equal(t, 1.0, lat)
	assert.Equal(t, 1.0, lng)
}
