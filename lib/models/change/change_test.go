package change

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLayer(t *testing.T) {
	tests := []struct {
		in      string
		want    Layer
		wantErr bool
	}{
		{in: "VENDOR", want: VENDOR},
		{in: "partner", want: PARTNER},
		{in: " Customer_Base ", want: CUSTOMER_BASE},
		{in: "CUSTOMER", want: CUSTOMER},
		{in: "user", want: USER},
		{in: "BASE", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLayer(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLayer_OrderAndText(t *testing.T) {
	assert.Equal(t, -1, VENDOR.Compare(USER))
	assert.Equal(t, 1, CUSTOMER.Compare(PARTNER))
	assert.Equal(t, 0, USER.Compare(USER))
	assert.Equal(t, "Layer(9)", Layer(9).String())

	var decoded struct {
		Layer Layer `json:"layer"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"layer":"customer"}`), &decoded))
	assert.Equal(t, CUSTOMER, decoded.Layer)
	assert.Error(t, json.Unmarshal([]byte(`{"layer":"nope"}`), &decoded))

	encoded, err := json.Marshal(decoded)
	require.NoError(t, err)
	assert.JSONEq(t, `{"layer":"CUSTOMER"}`, string(encoded))
}

func TestAppliedSet(t *testing.T) {
	set := ParseAppliedSet(" a, b,,a ,c")
	assert.Equal(t, []string{"a", "b", "c"}, set.IDs())
	assert.Equal(t, "a,b,c", set.String())

	assert.False(t, set.Add("b"))
	assert.False(t, set.Add(""))
	assert.True(t, set.Add("d"))
	assert.True(t, set.Remove("a"))
	assert.False(t, set.Remove("a"))
	assert.Equal(t, "b,c,d", set.String())
	assert.Equal(t, 3, set.Len())

	empty := ParseAppliedSet("")
	assert.Zero(t, empty.Len())
	assert.Equal(t, "", empty.String())
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, ValidateID("id_1234"))
	for _, id := range []string{"", "a,b", " a", "a\t"} {
		assert.ErrorIs(t, ValidateID(id), ErrInvalidID, id)
	}
}

func TestChange_Clone(t *testing.T) {
	original := NewChange(Definition{
		FileName: "a",
		Content:  map[string]any{"k": "v"},
		Texts:    map[string]Text{"newText": {Value: "x", Type: "XFLD"}},
	})
	clone := original.Clone()
	clone.SetRevertData("before")
	clone.Content()["k"] = "changed"
	clone.SetText("newText", "y", "XFLD")

	assert.Equal(t, "a", clone.ID())
	assert.False(t, original.HasRevertData())
	assert.Equal(t, "v", original.Content()["k"])
	text, _ := original.Text("newText")
	assert.Equal(t, "x", text.Value)
	assert.Len(t, CloneAll([]*Change{original, clone}), 2)
}

func TestNewChange_Defaults(t *testing.T) {
	c := NewChange(Definition{ChangeType: "rename"})

	assert.True(t, strings.HasPrefix(c.ID(), "id_"))
	assert.Equal(t, "change", c.Definition().FileType)
	assert.NotNil(t, c.Content())
	c.SetText("newText", "Hello", "XFLD")
	text, ok := c.Text("newText")
	require.True(t, ok)
	assert.Equal(t, Text{Value: "Hello", Type: "XFLD"}, text)
}

func TestChange_RevertData(t *testing.T) {
	c := NewChange(Definition{})
	_, ok := c.RevertData()
	assert.False(t, ok)

	c.SetRevertData("")
	data, ok := c.RevertData()
	assert.True(t, ok)
	assert.Equal(t, "", data)

	c.ResetRevertData()
	assert.False(t, c.HasRevertData())
}

func TestSortChanges(t *testing.T) {
	mk := func(id string, layer Layer, creation string) *Change {
		return NewChange(Definition{FileName: id, Layer: layer, Creation: creation})
	}
	changes := []*Change{
		mk("unsaved", CUSTOMER, ""),
		mk("user", USER, "2024-01-01T00:00:00Z"),
		mk("late", CUSTOMER, "2024-03-01T00:00:00Z"),
		mk("early", CUSTOMER, "2024-02-01T00:00:00Z"),
		mk("vendor", VENDOR, "2024-05-01T00:00:00Z"),
	}

	SortChanges(changes)

	ids := make([]string, len(changes))
	for i, c := range changes {
		ids[i] = c.ID()
	}
	assert.Equal(t, []string{"vendor", "early", "late", "unsaved", "user"}, ids)
}

func TestChange_MarkForDeletion(t *testing.T) {
	c := NewChange(Definition{})
	c.SetPendingAction(PendingNew)
	c.MarkForDeletion()
	assert.Equal(t, PendingDelete, c.PendingAction())
}
