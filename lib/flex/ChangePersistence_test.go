package flex

import (
	"context"
	"testing"

	"github.com/ether/uiflex-go/lib/db"
	"github.com/ether/uiflex-go/lib/models/change"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func ids(changes []*change.Change) []string {
	result := make([]string, 0, len(changes))
	for _, c := range changes {
		result = append(result, c.ID())
	}
	return result
}

func TestLoadChangesForTree_SortsAndFiltersByView(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryDataStore()
	require.NoError(t, store.SaveChange(ctx, renameDef("late", "label", "x", change.CUSTOMER, 9)))
	require.NoError(t, store.SaveChange(ctx, renameDef("early", "label", "x", change.CUSTOMER, 1)))
	require.NoError(t, store.SaveChange(ctx, renameDef("vendor", "button", "x", change.VENDOR, 20)))
	foreign := renameDef("foreign", "label", "x", change.CUSTOMER, 2)
	foreign.Selector = change.Selector{ID: "other---view--label"}
	require.NoError(t, store.SaveChange(ctx, foreign))

	p := NewChangePersistence(testReference, store, change.USER, zap.NewNop().Sugar())
	changes, err := p.LoadChangesForTree(ctx, testViewID, testComponent)
	require.NoError(t, err)
	assert.Equal(t, []string{"vendor", "early", "late"}, ids(changes))

	all, err := p.LoadChangesForTree(ctx, "", testComponent)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestLoadChangesForTree_MaxLayer(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryDataStore()
	require.NoError(t, store.SaveChange(ctx, renameDef("customer", "label", "x", change.CUSTOMER, 1)))
	require.NoError(t, store.SaveChange(ctx, renameDef("user", "label", "x", change.USER, 2)))

	p := NewChangePersistence(testReference, store, change.CUSTOMER, zap.NewNop().Sugar())
	changes, err := p.LoadChangesForTree(ctx, testViewID, testComponent)
	require.NoError(t, err)
	assert.Equal(t, []string{"customer"}, ids(changes))
}

func TestChangePersistence_DirtyLifecycle(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryDataStore()
	p := NewChangePersistence(testReference, store, change.USER, zap.NewNop().Sugar())

	added := change.NewChange(renameDef("added", "label", "x", change.USER, 1))
	p.AddChange(added)
	assert.Equal(t, change.PendingNew, added.PendingAction())

	changes, err := p.LoadChangesForTree(ctx, testViewID, testComponent)
	require.NoError(t, err)
	assert.Equal(t, []string{"added"}, ids(changes), "unsaved changes are visible")

	require.NoError(t, p.SaveDirtyChanges(ctx))
	assert.Empty(t, p.DirtyChanges())
	assert.Equal(t, change.PendingNone, added.PendingAction())
	_, err = store.GetChange(ctx, "added")
	require.NoError(t, err)

	p.DeleteChange(added)
	assert.Equal(t, change.PendingDelete, added.PendingAction())
	changes, err = p.LoadChangesForTree(ctx, testViewID, testComponent)
	require.NoError(t, err)
	assert.Empty(t, changes)

	require.NoError(t, p.SaveDirtyChanges(ctx))
	_, err = store.GetChange(ctx, "added")
	assert.ErrorIs(t, err, db.ErrChangeNotFound)
}

func TestChangePersistence_DeleteUnsavedChange(t *testing.T) {
	store := db.NewMemoryDataStore()
	p := NewChangePersistence(testReference, store, change.USER, zap.NewNop().Sugar())
	c := change.NewChange(renameDef("new", "label", "x", change.USER, 1))

	p.AddChange(c)
	p.DeleteChange(c)
	assert.Empty(t, p.DirtyChanges())
	require.NoError(t, p.SaveDirtyChanges(context.Background()))

	all, err := store.GetChanges(context.Background(), testReference)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestChangePersistence_UpdateChange(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryDataStore()
	require.NoError(t, store.SaveChange(ctx, renameDef("a", "label", "old", change.USER, 1)))
	p := NewChangePersistence(testReference, store, change.USER, zap.NewNop().Sugar())

	changes, err := p.LoadChangesForTree(ctx, "", "")
	require.NoError(t, err)
	changes[0].SetText("newText", "new", "XFLD")
	p.UpdateChange(changes[0])
	p.UpdateChange(changes[0])
	assert.Len(t, p.DirtyChanges(), 1)

	require.NoError(t, p.SaveDirtyChanges(ctx))
	stored, err := store.GetChange(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "new", stored.Texts["newText"].Value)
}

func TestChangePersistence_MergedChanges(t *testing.T) {
	p := NewChangePersistence(testReference, db.NewMemoryDataStore(), change.USER, zap.NewNop().Sugar())
	merged := []*change.Change{renameChange("m1", "label", "x", 1)}
	p.SetMergedChanges(merged)
	assert.Equal(t, []string{"m1"}, ids(p.MergedChanges()))

	p.CleanMergedChanges()
	assert.Empty(t, p.MergedChanges())
}
