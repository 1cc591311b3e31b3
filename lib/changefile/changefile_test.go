package changefile

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ether/uiflex-go/lib/models/change"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const renameYAML = `
- fileName: id_rename
  reference: app
  layer: CUSTOMER
  changeType: rename
  selector:
    id: label1
    idIsLocal: true
  content:
    originalControlType: sap.m.Label
  texts:
    newText:
      value: Customer Name
      type: XFLD
  creation: "2026-01-02T10:00:00Z"
`

func TestParse_List(t *testing.T) {
	definitions, err := Parse([]byte(renameYAML))
	require.NoError(t, err)
	require.Len(t, definitions, 1)

	def := definitions[0]
	assert.Equal(t, "id_rename", def.FileName)
	assert.Equal(t, "change", def.FileType)
	assert.Equal(t, change.CUSTOMER, def.Layer)
	assert.Equal(t, change.Selector{ID: "label1", IDIsLocal: true}, def.Selector)
	assert.Equal(t, "sap.m.Label", def.Content["originalControlType"])
	assert.Equal(t, change.Text{Value: "Customer Name", Type: "XFLD"}, def.Texts["newText"])
}

func TestParse_MultipleDocuments(t *testing.T) {
	data := `changeType: hideControl
layer: VENDOR
selector:
  id: button1
---
- changeType: propertyChange
  layer: USER
  selector:
    id: button1
  content:
    property: enabled
    newValue: false
- changeType: unhideControl
  selector:
    id: button1
`
	definitions, err := Parse([]byte(data))
	require.NoError(t, err)
	require.Len(t, definitions, 3)
	assert.Equal(t, "hideControl", definitions[0].ChangeType)
	assert.Equal(t, change.USER, definitions[1].Layer)
	assert.Equal(t, false, definitions[1].Content["newValue"])
	assert.Equal(t, change.VENDOR, definitions[2].Layer)
	assert.NotEmpty(t, definitions[2].FileName, "missing file names are generated")
	assert.NotEqual(t, definitions[0].FileName, definitions[2].FileName)
}

func TestParse_JSON(t *testing.T) {
	data := `[{"fileName":"id_json","changeType":"rename","layer":"PARTNER","selector":{"id":"title"},"texts":{"newText":{"value":"Hi","type":"XTIT"}}}]`
	definitions, err := Parse([]byte(data))
	require.NoError(t, err)
	require.Len(t, definitions, 1)
	assert.Equal(t, change.PARTNER, definitions[0].Layer)
	assert.Equal(t, "Hi", definitions[0].Texts["newText"].Value)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("- selector:\n    id: a\n"))
	assert.True(t, errors.Is(err, ErrEmptyChangeType))

	_, err = Parse([]byte("- changeType: rename\n  layer: NOBODY\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("- changeType: [unclosed\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("- fileName: a,b\n  changeType: rename\n"))
	assert.ErrorIs(t, err, change.ErrInvalidID)
}

func TestParse_Empty(t *testing.T) {
	definitions, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, definitions)
}

func TestWriteAndReadFile(t *testing.T) {
	definitions, err := Parse([]byte(renameYAML))
	require.NoError(t, err)

	for _, name := range []string{"changes.yaml", "changes.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, WriteFile(path, definitions))

			read, err := ReadFile(path)
			require.NoError(t, err)
			require.Len(t, read, 1)
			assert.Equal(t, definitions[0].Selector, read[0].Selector)
			assert.Equal(t, definitions[0].Layer, read[0].Layer)
			assert.Equal(t, definitions[0].Texts, read[0].Texts)
		})
	}
}

func TestWrite_JSONUsesLayerNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []change.Definition{{ChangeType: "rename", Layer: change.CUSTOMER_BASE}}, FormatJSON))
	assert.True(t, strings.Contains(buf.String(), `"layer": "CUSTOMER_BASE"`))
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromPath("a/b.JSON"))
	assert.Equal(t, FormatYAML, FormatFromPath("a/b.yml"))
	assert.Equal(t, FormatYAML, FormatFromPath("noext"))
}

func TestChanges(t *testing.T) {
	changes := Changes([]change.Definition{{FileName: "a", ChangeType: "rename"}})
	require.Len(t, changes, 1)
	assert.Equal(t, "a", changes[0].ID())
}
