package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mmynk/gymlog/internal/auth"
	"github.com/mmynk/gymlog/internal/fileservice"
	"github.com/mmynk/gymlog/internal/middleware"
	"github.com/mmynk/gymlog/internal/models"
	"github.com/mmynk/gymlog/internal/storage"
	"github.com/mmynk/gymlog/internal/storage/storagetest"
)

// newFileService starts the real file service on a temp directory.
func newFileService(t *testing.T) (*fileservice.Server, *httptest.Server) {
	t.Helper()
	fs := fileservice.New(filepath.Join(t.TempDir(), "data"))
	srv := httptest.NewServer(fs.Routes())
	t.Cleanup(srv.Close)
	return fs, srv
}

func TestRemoteStoreContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		_, srv := newFileService(t)
		return New(NewClient(srv.URL + "/api"))
	})
}

func TestInitCreatesDataDirectory(t *testing.T) {
	fs, srv := newFileService(t)
	store := New(NewClient(srv.URL + "/api"))

	_, err := os.Stat(fs.DataDir())
	require.True(t, os.IsNotExist(err))

	require.NoError(t, store.Init(context.Background()))

	info, err := os.Stat(fs.DataDir())
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestWritesLandInNamedFiles(t *testing.T) {
	fs, srv := newFileService(t)
	store := New(NewClient(srv.URL + "/api"))
	ctx := context.Background()

	gym, err := store.AddGym(ctx, models.GymInput{Name: "Iron Works", Address: "1 Main St"})
	require.NoError(t, err)
	_, err = store.AddEquipment(ctx, models.EquipmentInput{GymID: gym.ID, Name: "Bench", Category: models.CategoryBench})
	require.NoError(t, err)

	for _, name := range []string{GymsFile, EquipmentFile} {
		data, err := os.ReadFile(filepath.Join(fs.DataDir(), name))
		require.NoError(t, err, name)
		require.Contains(t, string(data), gym.ID)
	}
}

func TestMissingFilesReadAsEmpty(t *testing.T) {
	_, srv := newFileService(t)
	store := New(NewClient(srv.URL + "/api"))

	gyms, err := store.GetGyms(context.Background())
	require.NoError(t, err)
	require.Empty(t, gyms)
	require.NotNil(t, gyms)
}

func TestServerErrorsPropagate(t *testing.T) {
	var writes atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/write-file" {
			writes.Add(1)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Could not write file"}`))
	}))
	t.Cleanup(srv.Close)

	store := New(NewClient(srv.URL + "/api"))
	ctx := context.Background()

	t.Run("read", func(t *testing.T) {
		_, err := store.GetGyms(ctx)
		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr), "got %v", err)
		require.Equal(t, http.StatusInternalServerError, statusErr.Code)
	})

	t.Run("write is not retried", func(t *testing.T) {
		err := store.SaveGyms(ctx, []models.Gym{{ID: "g1", Name: "Iron Works"}})
		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr), "got %v", err)
		require.Equal(t, "Could not write file", statusErr.Message)
		require.Equal(t, int32(1), writes.Load())
	})

	t.Run("init", func(t *testing.T) {
		require.Error(t, store.Init(ctx))
	})
}

func TestUnreachableServiceIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	store := New(NewClient(url+"/api", WithTimeout(time.Second)))
	_, err := store.GetEquipment(context.Background())
	require.Error(t, err)
}

func TestClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	client := NewClient(srv.URL+"/api", WithTimeout(50*time.Millisecond))
	_, err := client.ReadFile(context.Background(), GymsFile)
	require.Error(t, err)
}

func TestTokenProtectedService(t *testing.T) {
	manager := auth.NewTokenManager("s3cret", time.Minute)
	fs := fileservice.New(filepath.Join(t.TempDir(), "data"))
	srv := httptest.NewServer(middleware.RequireToken(manager, fs.Routes()))
	t.Cleanup(srv.Close)
	ctx := context.Background()

	anonymous := New(NewClient(srv.URL + "/api"))
	_, err := anonymous.GetGyms(ctx)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusUnauthorized, statusErr.Code)

	signed := New(NewClient(srv.URL+"/api", WithTokenManager(manager)))
	require.NoError(t, signed.Init(ctx))
	_, err = signed.AddGym(ctx, models.GymInput{Name: "Iron Works", Address: "1 Main St"})
	require.NoError(t, err)

	gyms, err := signed.GetGyms(ctx)
	require.NoError(t, err)
	require.Len(t, gyms, 1)
}
