package flex

import (
	"context"
	"testing"

	"github.com/ether/uiflex-go/lib/db"
	"github.com/ether/uiflex-go/lib/hooks"
	"github.com/ether/uiflex-go/lib/models/change"
	"github.com/ether/uiflex-go/lib/models/variant"
	"github.com/ether/uiflex-go/lib/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T) (*Manager, *db.MemoryDataStore) {
	t.Helper()
	store := db.NewMemoryDataStore()
	require.NoError(t, store.SaveVariants(context.Background(), testReference, variant.SelectionSet{
		"vm1": {DefaultVariant: "vm1", Variants: []variant.Variant{{Key: "vm1"}, {Key: "v1"}, {Key: "v2"}}},
	}))
	manager := NewManager(store, registry.Default(), hooks.NewHook(), nil,
		ManagerOptions{MaxLayer: change.USER}, zap.NewNop().Sugar())
	return manager, store
}

func TestManager_ControllerIsCachedPerReference(t *testing.T) {
	manager, _ := newTestManager(t)

	first, err := manager.Controller(testReference)
	require.NoError(t, err)
	second, err := manager.Controller(testReference)
	require.NoError(t, err)
	other, err := manager.Controller("other.app")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
	assert.Equal(t, "other.app", other.Persistence().Reference())
}

func TestManager_InvalidReference(t *testing.T) {
	manager, _ := newTestManager(t)

	for _, reference := range []string{"", "../etc", "with space", "-leading"} {
		_, err := manager.Controller(reference)
		assert.ErrorIs(t, err, ErrInvalidReference, reference)
	}
	_, err := manager.VariantModel(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestManager_VariantModelIsRegisteredOnce(t *testing.T) {
	manager, _ := newTestManager(t)

	model, err := manager.VariantModel(context.Background(), testReference)
	require.NoError(t, err)
	again, err := manager.VariantModel(context.Background(), testReference)
	require.NoError(t, err)

	assert.Same(t, model, again)
	component, ok := manager.Runtime().Component(testReference)
	require.True(t, ok)
	assert.Same(t, model, component.Model)
}

func TestManager_SetDefaultVariant(t *testing.T) {
	manager, store := newTestManager(t)
	ctx := context.Background()
	_, err := manager.VariantModel(ctx, testReference)
	require.NoError(t, err)

	require.NoError(t, manager.SetDefaultVariant(ctx, testReference, "vm1", "v1", change.USER))

	_, loaded := manager.Runtime().Component(testReference)
	assert.False(t, loaded)
	stored, err := store.GetChanges(ctx, testReference)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, DefaultVariantChangeType, stored[0].ChangeType)

	model, err := manager.VariantModel(ctx, testReference)
	require.NoError(t, err)
	current, ok := model.Current("vm1")
	require.True(t, ok)
	assert.Equal(t, "v1", current)
	assert.Equal(t, "vm1", model.SelectionSet()["vm1"].OriginalDefaultVariant)
}

func TestManager_SetDefaultVariantTwiceKeepsNewest(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, manager.SetDefaultVariant(ctx, testReference, "vm1", "v1", change.USER))
	require.NoError(t, manager.SetDefaultVariant(ctx, testReference, "vm1", "v2", change.USER))

	model, err := manager.VariantModel(ctx, testReference)
	require.NoError(t, err)
	current, _ := model.Current("vm1")
	assert.Equal(t, "v2", current)
}

func TestManager_Forget(t *testing.T) {
	manager, _ := newTestManager(t)
	first, err := manager.Controller(testReference)
	require.NoError(t, err)
	_, err = manager.VariantModel(context.Background(), testReference)
	require.NoError(t, err)

	manager.Forget(testReference)

	_, ok := manager.Runtime().Component(testReference)
	assert.False(t, ok)
	second, err := manager.Controller(testReference)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}
