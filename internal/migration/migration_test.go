package migration

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/gymlog/internal/config"
	"github.com/mmynk/gymlog/internal/fileservice"
	"github.com/mmynk/gymlog/internal/models"
	"github.com/mmynk/gymlog/internal/storage/local"
	"github.com/mmynk/gymlog/internal/storage/remote"
)

type fixture struct {
	source  *local.Store
	dest    *remote.Store
	dataDir string
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	source, err := local.New(filepath.Join(t.TempDir(), "local.db"))
	require.NoError(t, err)
	t.Cleanup(func() { source.Close() })

	files := fileservice.New(filepath.Join(t.TempDir(), "data"))
	srv := httptest.NewServer(files.Routes())
	t.Cleanup(srv.Close)

	return fixture{
		source:  source,
		dest:    remote.New(remote.NewClient(srv.URL + "/api")),
		dataDir: files.DataDir(),
	}
}

func TestMigrateCopiesEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	gym, err := f.source.AddGym(ctx, models.GymInput{Name: "Iron Works", Address: "1 Main St", Notes: "24/7"})
	require.NoError(t, err)
	_, err = f.source.AddEquipment(ctx, models.EquipmentInput{GymID: gym.ID, Name: "Bench", Category: models.CategoryBench})
	require.NoError(t, err)
	_, err = f.source.AddEquipment(ctx, models.EquipmentInput{GymID: gym.ID, Name: "Squat Rack", Category: models.CategorySquatRack})
	require.NoError(t, err)

	m := &Migrator{Mode: config.ModeLocal, Source: f.source, Destination: f.dest}
	report, err := m.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, Report{Gyms: 1, Equipment: 2}, report)

	wantGyms, err := f.source.GetGyms(ctx)
	require.NoError(t, err)
	gotGyms, err := f.dest.GetGyms(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(wantGyms, gotGyms); diff != "" {
		t.Errorf("gyms mismatch (-want +got):\n%s", diff)
	}

	wantEquipment, err := f.source.GetEquipment(ctx)
	require.NoError(t, err)
	gotEquipment, err := f.dest.GetEquipment(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(wantEquipment, gotEquipment); diff != "" {
		t.Errorf("equipment mismatch (-want +got):\n%s", diff)
	}
}

func TestMigrateSkipsWhenAlreadyOnFileStorage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.source.AddGym(ctx, models.GymInput{Name: "Iron Works", Address: "1 Main St"})
	require.NoError(t, err)

	m := &Migrator{Mode: config.ModeFile, Source: f.source, Destination: f.dest}
	report, err := m.Run(ctx)
	require.NoError(t, err)
	require.True(t, report.Skipped)

	_, err = os.Stat(f.dataDir)
	require.True(t, os.IsNotExist(err), "destination must not be touched")
}

func TestMigrateLeavesEmptyCollectionsAlone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.source.AddGym(ctx, models.GymInput{Name: "Iron Works", Address: "1 Main St"})
	require.NoError(t, err)

	m := &Migrator{Mode: config.ModeLocal, Source: f.source, Destination: f.dest}
	report, err := m.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, Report{Gyms: 1}, report)

	require.FileExists(t, filepath.Join(f.dataDir, remote.GymsFile))
	require.NoFileExists(t, filepath.Join(f.dataDir, remote.EquipmentFile))
}

func TestMigrateTwiceOverwrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.source.AddGym(ctx, models.GymInput{Name: "Iron Works", Address: "1 Main St"})
	require.NoError(t, err)

	m := &Migrator{Mode: config.ModeLocal, Source: f.source, Destination: f.dest}
	_, err = m.Run(ctx)
	require.NoError(t, err)
	_, err = m.Run(ctx)
	require.NoError(t, err)

	gyms, err := f.dest.GetGyms(ctx)
	require.NoError(t, err)
	require.Len(t, gyms, 1)
}
