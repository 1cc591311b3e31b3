package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/ether/uiflex-go/lib/models/change"
	"github.com/ether/uiflex-go/lib/models/variant"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storeFactory func(t *testing.T) DataStore

func stores(t *testing.T) map[string]storeFactory {
	t.Helper()
	factories := map[string]storeFactory{
		"memory": func(t *testing.T) DataStore {
			return NewMemoryDataStore()
		},
		"sqlite": func(t *testing.T) DataStore {
			ds, err := NewSQLiteDB(filepath.Join(t.TempDir(), "flex.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = ds.Close() })
			return ds
		},
	}
	if host := os.Getenv("UIFLEX_TEST_POSTGRES_HOST"); host != "" {
		factories["postgres"] = func(t *testing.T) DataStore {
			port, err := strconv.Atoi(os.Getenv("UIFLEX_TEST_POSTGRES_PORT"))
			require.NoError(t, err)
			ds, err := NewPostgresDB(PostgresOptions{
				Username: os.Getenv("UIFLEX_TEST_POSTGRES_USER"),
				Password: os.Getenv("UIFLEX_TEST_POSTGRES_PASSWORD"),
				Host:     host,
				Port:     port,
				Database: os.Getenv("UIFLEX_TEST_POSTGRES_DB"),
			})
			require.NoError(t, err)
			t.Cleanup(func() { _ = ds.Close() })
			return ds
		}
	}
	return factories
}

func forEachStore(t *testing.T, fn func(t *testing.T, ds DataStore)) {
	for name, factory := range stores(t) {
		t.Run(name, func(t *testing.T) {
			fn(t, factory(t))
		})
	}
}

func TestDataStore_SaveAndGetChange(t *testing.T) {
	forEachStore(t, func(t *testing.T, ds DataStore) {
		ctx := context.Background()
		def := CreateRandomChange("app.one")
		require.NoError(t, ds.SaveChange(ctx, def))

		got, err := ds.GetChange(ctx, def.FileName)
		require.NoError(t, err)
		if diff := cmp.Diff(def, *got); diff != "" {
			t.Fatalf("stored change differs (-want +got):\n%s", diff)
		}
	})
}

func TestDataStore_GetChangesFiltersByReference(t *testing.T) {
	forEachStore(t, func(t *testing.T, ds DataStore) {
		ctx := context.Background()
		var want []string
		for i := 0; i < 5; i++ {
			def := CreateRandomChange("app.one")
			want = append(want, def.FileName)
			require.NoError(t, ds.SaveChange(ctx, def))
		}
		require.NoError(t, ds.SaveChange(ctx, CreateRandomChange("app.two")))

		got, err := ds.GetChanges(ctx, "app.one")
		require.NoError(t, err)
		ids := make([]string, 0, len(got))
		for _, def := range got {
			ids = append(ids, def.FileName)
		}
		assert.ElementsMatch(t, want, ids)

		empty, err := ds.GetChanges(ctx, "app.unknown")
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}

func TestDataStore_SaveChangeUpserts(t *testing.T) {
	forEachStore(t, func(t *testing.T, ds DataStore) {
		ctx := context.Background()
		def := CreateRandomChange("app.one")
		require.NoError(t, ds.SaveChange(ctx, def))

		def.Texts["newText"] = change.Text{Value: "updated", Type: "XFLD"}
		require.NoError(t, ds.SaveChange(ctx, def))

		all, err := ds.GetChanges(ctx, "app.one")
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "updated", all[0].Texts["newText"].Value)
	})
}

func TestDataStore_RemoveChange(t *testing.T) {
	forEachStore(t, func(t *testing.T, ds DataStore) {
		ctx := context.Background()
		def := CreateRandomChange("app.one")
		require.NoError(t, ds.SaveChange(ctx, def))

		require.NoError(t, ds.RemoveChange(ctx, def.FileName))
		_, err := ds.GetChange(ctx, def.FileName)
		assert.ErrorIs(t, err, ErrChangeNotFound)
		assert.ErrorIs(t, ds.RemoveChange(ctx, def.FileName), ErrChangeNotFound)
	})
}

func TestDataStore_RejectsIncompleteChange(t *testing.T) {
	forEachStore(t, func(t *testing.T, ds DataStore) {
		ctx := context.Background()
		def := CreateRandomChange("app.one")
		def.FileName = ""
		assert.ErrorIs(t, ds.SaveChange(ctx, def), ErrChangeIDMissing)

		def = CreateRandomChange("")
		assert.ErrorIs(t, ds.SaveChange(ctx, def), ErrReferenceMissing)

		def = CreateRandomChange("app.one")
		def.FileName = "a,b"
		assert.ErrorIs(t, ds.SaveChange(ctx, def), change.ErrInvalidID)
	})
}

func TestDataStore_Variants(t *testing.T) {
	forEachStore(t, func(t *testing.T, ds DataStore) {
		ctx := context.Background()
		set := variant.SelectionSet{
			"vm1": {
				DefaultVariant:         "vm1",
				OriginalDefaultVariant: "vm1",
				CurrentVariant:         "v2",
				Variants: []variant.Variant{
					{Key: "vm1", Title: "Standard", Layer: change.VENDOR, Visible: true},
					{Key: "v2", Title: "Mine", Author: "me", Layer: change.USER, Favorite: true, Visible: true},
				},
			},
		}
		require.NoError(t, ds.SaveVariants(ctx, "app.one", set))

		got, err := ds.GetVariants(ctx, "app.one")
		require.NoError(t, err)
		if diff := cmp.Diff(set, got); diff != "" {
			t.Fatalf("variants differ (-want +got):\n%s", diff)
		}

		require.NoError(t, ds.SaveVariants(ctx, "app.one", variant.SelectionSet{}))
		got, err = ds.GetVariants(ctx, "app.one")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestMemoryDataStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	ds := NewMemoryDataStore()
	def := CreateRandomChange("app.one")
	require.NoError(t, ds.SaveChange(ctx, def))

	got, err := ds.GetChange(ctx, def.FileName)
	require.NoError(t, err)
	got.Content["mutated"] = true

	again, err := ds.GetChange(ctx, def.FileName)
	require.NoError(t, err)
	_, mutated := again.Content["mutated"]
	assert.False(t, mutated, fmt.Sprintf("stored change %s was modified through a returned copy", def.FileName))
}

func TestDataStore_Ping(t *testing.T) {
	forEachStore(t, func(t *testing.T, ds DataStore) {
		assert.NoError(t, ds.Ping(context.Background()))
	})
}
