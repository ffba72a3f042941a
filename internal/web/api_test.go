package web

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"gardenmap/internal/catalog"
	"gardenmap/internal/model"
	"gardenmap/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRemoteStore_AgainstAPI drives a RemoteStore against this server's REST endpoints.
func TestRemoteStore_AgainstAPI(t *testing.T) {
	srv, sess, backing := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx := context.Background()
	remote, err := store.NewRemote(ts.URL, ts.Client())
	require.NoError(t, err)
	defer remote.Close()

	all, err := remote.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 8)

	p := model.NewDraft("plant-remote", model.LatLng{Lat: 3, Lng: 3}, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	p.Name = "Fig"
	p.Type = model.PlantTypeFruit
	require.NoError(t, remote.Insert(ctx, p))
	_, ok := sess.Catalog.Find("plant-remote")
	assert.True(t, ok)

	p.Notes = "moved to the wall"
	require.NoError(t, remote.Update(ctx, p))
	stored, err := backing.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "moved to the wall", stored[len(stored)-1].Notes)

	bad := p
	bad.Name = ""
	var ve model.ValidationError
	require.True(t, errors.As(remote.Update(ctx, bad), &ve))
	assert.Equal(t, "name", ve.Field)

	require.NoError(t, remote.Delete(ctx, "plant-remote"))
	var nf model.NotFoundError
	assert.True(t, errors.As(remote.Delete(ctx, "plant-remote"), &nf))
	assert.True(t, errors.As(remote.Update(ctx, p), &nf))
}

// TestCatalogOverRemote checks that a catalog backed by a remote gardenmap keeps delete idempotent.
func TestCatalogOverRemote(t *testing.T) {
	srv, _, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	remote, err := store.NewRemote(ts.URL, ts.Client())
	require.NoError(t, err)
	c := catalog.New(remote)
	ctx := context.Background()
	_, err = c.Load(ctx)
	require.NoError(t, err)

	_, err = c.Remove(ctx, "plant-1")
	require.NoError(t, err)
	_, err = c.Remove(ctx, "plant-1")
	require.NoError(t, err)
	assert.Equal(t, 7, c.Len())
}
