package registry

import (
	"errors"
	"testing"

	"github.com/ether/uiflex-go/lib/changehandler"
	"github.com/ether/uiflex-go/lib/exception"
	"github.com/ether/uiflex-go/lib/models/change"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_ExactTypeWinsOverWildcard(t *testing.T) {
	r := NewChangeRegistry()
	exact := changehandler.NewRenameHandler(changehandler.RenameSettings{PropertyName: "text"})
	r.RegisterForAllTypes("rename", Item{Handler: changehandler.PropertyChange{}})
	r.Register(Key{ChangeType: "rename", ElementType: "sap.m.Label"}, Item{Handler: exact})

	h, err := r.Lookup("rename", "sap.m.Label", change.USER)
	require.NoError(t, err)
	assert.Same(t, exact, h)

	h, err = r.Lookup("rename", "sap.m.Input", change.USER)
	require.NoError(t, err)
	assert.Equal(t, changehandler.PropertyChange{}, h)
}

func TestLookup_UnknownChangeType(t *testing.T) {
	_, err := Default().Lookup("moveControls", "sap.m.Label", change.CUSTOMER)
	var notFound *exception.HandlerNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "moveControls", notFound.ChangeType)
	assert.Equal(t, "sap.m.Label", notFound.ElementType)
}

func TestLookup_LayerRestriction(t *testing.T) {
	r := Default()
	_, err := r.Lookup("propertyChange", "sap.m.Label", change.CUSTOMER)
	assert.NoError(t, err)

	_, err = r.Lookup("propertyChange", "sap.m.Label", change.USER)
	var notFound *exception.HandlerNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "USER", notFound.Layer)
}

func TestResolver_CachesPerKey(t *testing.T) {
	r := NewChangeRegistry()
	r.RegisterForAllTypes("hideControl", Item{Handler: changehandler.HideControl})
	resolver := r.NewResolver()

	h, err := resolver.Lookup("hideControl", "sap.m.Label", change.VENDOR)
	require.NoError(t, err)
	assert.Equal(t, changehandler.HideControl, h)

	// later registrations are not seen by a running batch
	r.Register(Key{ChangeType: "hideControl", ElementType: "sap.m.Label"}, Item{Handler: changehandler.UnhideControl})
	h, err = resolver.Lookup("hideControl", "sap.m.Label", change.VENDOR)
	require.NoError(t, err)
	assert.Equal(t, changehandler.HideControl, h)

	_, err = resolver.Lookup("rename", "sap.m.Label", change.VENDOR)
	assert.Error(t, err)
}
