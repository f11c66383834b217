package server

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/topokeeper/internal/client/api"
	"github.com/iudanet/topokeeper/internal/crypto"
	"github.com/iudanet/topokeeper/internal/models"
)

const (
	testMap     = "ABC123"
	testAccount = "field-team"
)

var testKey = base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeAccounts(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "accounts.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func startServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()

	srv, err := New(context.Background(), cfg, testLogger())
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		assert.NoError(t, srv.Close())
	})
	return ts
}

func signedConfig(t *testing.T) Config {
	t.Helper()

	cfg := DefaultConfig()
	cfg.DBPath = filepath.Join(t.TempDir(), "map.db")
	cfg.AccountsFile = writeAccounts(t, "[team]\nid = "+testAccount+"\nkey = "+testKey+"\n")
	cfg.Version = "test"
	return cfg
}

func newSignedClient(t *testing.T, url, key string) *api.Client {
	t.Helper()

	signer, err := crypto.NewSigner(testAccount, key)
	require.NoError(t, err)
	return api.NewClient(url, testMap, testLogger(), api.WithSigner(signer))
}

func TestServer_ClientRoundTrip(t *testing.T) {
	ctx := context.Background()
	ts := startServer(t, signedConfig(t))
	client := newSignedClient(t, ts.URL, testKey)

	delta, err := client.FetchSince(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, delta.Features)
	assert.NotNil(t, delta.IDs, "initial fetch carries the index")

	marker := &models.Feature{
		Class:      models.ClassMarker,
		Properties: models.Properties{models.PropTitle: "Camp"},
		Geometry:   models.Point{Coord: models.Coord{-120.1, 39.2}},
	}
	echo, err := client.SubmitEdit(ctx, models.ClassMarker, "", marker)
	require.NoError(t, err)
	require.NotNil(t, echo)
	assert.Len(t, echo.ID, models.IDLength)
	assert.Equal(t, models.ClassMarker, echo.Class)
	assert.Equal(t, "Camp", echo.Title())

	delta, err = client.FetchSince(ctx, 0)
	require.NoError(t, err)
	require.Len(t, delta.Features, 1)
	assert.Equal(t, echo.ID, delta.Features[0].ID)
	assert.Equal(t, map[models.Class][]string{models.ClassMarker: {echo.ID}}, delta.IDs)

	updated, err := client.SubmitEdit(ctx, models.ClassMarker, echo.ID,
		&models.Feature{Class: models.ClassMarker, Properties: models.Properties{models.PropTitle: "Base"}})
	require.NoError(t, err)
	assert.Equal(t, "Base", updated.Title())
	assert.Equal(t, models.Point{Coord: models.Coord{-120.1, 39.2}}, updated.Geometry)

	require.NoError(t, client.SubmitDelete(ctx, models.ClassMarker, echo.ID))

	delta, err = client.FetchSince(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, delta.Features)
	assert.Empty(t, delta.IDs[models.ClassMarker])

	err = client.SubmitDelete(ctx, models.ClassMarker, echo.ID)
	var serr *api.ServerError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusNotFound, serr.StatusCode)
}

func TestServer_RejectsBadSignature(t *testing.T) {
	ts := startServer(t, signedConfig(t))
	other := base64.StdEncoding.EncodeToString([]byte("not the account key"))
	client := newSignedClient(t, ts.URL, other)

	_, err := client.FetchSince(context.Background(), 0)
	var serr *api.ServerError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusUnauthorized, serr.StatusCode)

	t.Run("unsigned client", func(t *testing.T) {
		_, err := api.NewClient(ts.URL, testMap, testLogger()).FetchSince(context.Background(), 0)
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, http.StatusUnauthorized, serr.StatusCode)
	})
}

func TestServer_HealthIsPublic(t *testing.T) {
	ts := startServer(t, signedConfig(t))

	resp, err := http.Get(ts.URL + healthPath)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, resp.Body.Close())
	}()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_WithoutAccounts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DBPath = filepath.Join(t.TempDir(), "map.db")
	ts := startServer(t, cfg)

	_, err := api.NewClient(ts.URL, testMap, testLogger()).FetchSince(context.Background(), 0)
	assert.NoError(t, err)
}

func TestServer_RateLimitsEdits(t *testing.T) {
	ctx := context.Background()
	cfg := signedConfig(t)
	cfg.RateLimit = 2
	ts := startServer(t, cfg)
	client := newSignedClient(t, ts.URL, testKey)

	folder := &models.Feature{Class: models.ClassFolder, Properties: models.Properties{models.PropTitle: "F"}}
	for i := 0; i < 2; i++ {
		_, err := client.SubmitEdit(ctx, models.ClassFolder, "", folder)
		require.NoError(t, err)
	}

	_, err := client.SubmitEdit(ctx, models.ClassFolder, "", folder)
	var serr *api.ServerError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusTooManyRequests, serr.StatusCode)

	// чтение не ограничивается
	_, err = client.FetchSince(ctx, 0)
	assert.NoError(t, err)
}

func TestServer_TimestampsSurviveRestart(t *testing.T) {
	ctx := context.Background()
	cfg := signedConfig(t)

	srv, err := New(ctx, cfg, testLogger())
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	client := newSignedClient(t, ts.URL, testKey)
	first, err := client.FetchSince(ctx, 0)
	require.NoError(t, err)
	_, err = client.SubmitEdit(ctx, models.ClassFolder, "",
		&models.Feature{Class: models.ClassFolder, Properties: models.Properties{models.PropTitle: "F"}})
	require.NoError(t, err)
	ts.Close()
	require.NoError(t, srv.Close())

	restarted := startServer(t, cfg)
	delta, err := newSignedClient(t, restarted.URL, testKey).FetchSince(ctx, first.Timestamp-1)
	require.NoError(t, err)
	require.Len(t, delta.Features, 1)
	assert.GreaterOrEqual(t, delta.Timestamp, first.Timestamp)
}

func TestLoadAccounts(t *testing.T) {
	t.Run("several accounts", func(t *testing.T) {
		other := base64.StdEncoding.EncodeToString([]byte("k2"))
		path := writeAccounts(t, "[a]\nid = acc-1\nkey = "+testKey+"\n\n[b]\nid = acc-2\nkey = "+other+"\n")

		accounts, err := LoadAccounts(path)
		require.NoError(t, err)
		assert.Len(t, accounts, 2)

		key, ok := accounts.Key("acc-2")
		assert.True(t, ok)
		assert.Equal(t, []byte("k2"), key)

		_, ok = accounts.Key("acc-3")
		assert.False(t, ok)
	})

	tests := []struct {
		name    string
		content string
	}{
		{name: "missing id", content: "[a]\nkey = " + testKey + "\n"},
		{name: "bad key", content: "[a]\nid = acc-1\nkey = %%%\n"},
		{name: "duplicate id", content: "[a]\nid = acc-1\nkey = " + testKey + "\n[b]\nid = acc-1\nkey = " + testKey + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadAccounts(writeAccounts(t, tt.content))
			assert.Error(t, err)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadAccounts(filepath.Join(t.TempDir(), "nope.ini"))
		assert.Error(t, err)
	})
}
