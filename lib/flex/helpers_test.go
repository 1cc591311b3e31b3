package flex

import (
	"testing"
	"time"

	"github.com/ether/uiflex-go/lib/changehandler"
	"github.com/ether/uiflex-go/lib/control"
	"github.com/ether/uiflex-go/lib/db"
	"github.com/ether/uiflex-go/lib/hooks"
	"github.com/ether/uiflex-go/lib/models/change"
	"github.com/ether/uiflex-go/lib/modifier"
	"github.com/ether/uiflex-go/lib/registry"
	"github.com/ether/uiflex-go/lib/xmlview"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	testReference = "my.app"
	testComponent = "comp"
	testViewID    = "comp---view"
)

const testXMLView = `<mvc:View id="comp---view" xmlns:mvc="sap.ui.core.mvc" xmlns="sap.m">
	<Label id="label" text="initial"/>
	<Button id="button" text="Press"/>
</mvc:View>`

type fixture struct {
	store      *db.MemoryDataStore
	controller *FlexController
	logs       *observer.ObservedLogs
	hooks      *hooks.Hook
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core).Sugar()
	store := db.NewMemoryDataStore()
	hook := hooks.NewHook()
	persistence := NewChangePersistence(testReference, store, change.USER, logger)
	return &fixture{
		store:      store,
		controller: NewFlexController(persistence, registry.Default(), hook, logger),
		logs:       logs,
		hooks:      hook,
	}
}

func liveView(t *testing.T) *control.Control {
	t.Helper()
	view := control.NewControl(testViewID, "sap.ui.core.mvc.View")
	label := control.NewControl(testViewID+"--label", "sap.m.Label")
	label.SetProperty("text", "initial")
	button := control.NewControl(testViewID+"--button", "sap.m.Button")
	button.SetProperty("text", "Press")
	require.NoError(t, view.AddAggregation("content", label))
	require.NoError(t, view.AddAggregation("content", button))
	return view
}

func xmlView(t *testing.T) *xmlview.Node {
	t.Helper()
	doc, err := xmlview.ParseString(testXMLView)
	require.NoError(t, err)
	return doc
}

func liveBag(view *control.Control) changehandler.PropertyBag {
	return changehandler.PropertyBag{Modifier: modifier.NewJSControlTreeModifier(nil), View: view, AppComponentID: testComponent}
}

func xmlBag(view *xmlview.Node) changehandler.PropertyBag {
	return changehandler.PropertyBag{Modifier: modifier.NewXMLTreeModifier(), View: view, AppComponentID: testComponent}
}

var baseTime = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func renameDef(id, target, text string, layer change.Layer, minute int) change.Definition {
	return change.Definition{
		FileName:   id,
		FileType:   ChangeFileType,
		Reference:  testReference,
		Layer:      layer,
		ChangeType: "rename",
		Selector:   change.Selector{ID: "view--" + target, IDIsLocal: true},
		Texts:      map[string]change.Text{"newText": {Value: text, Type: "XFLD"}},
		Creation:   baseTime.Add(time.Duration(minute) * time.Minute).Format(time.RFC3339Nano),
	}
}

func renameChange(id, target, text string, minute int) *change.Change {
	return change.NewChange(renameDef(id, target, text, change.CUSTOMER, minute))
}

type panicHandler struct{}

func (panicHandler) ApplyChange(*change.Change, modifier.Element, changehandler.PropertyBag) error {
	panic("boom")
}

func (panicHandler) RevertChange(*change.Change, modifier.Element, changehandler.PropertyBag) error {
	panic("boom")
}

func (panicHandler) CompleteChangeContent(*change.Change, changehandler.SpecificInfo, changehandler.PropertyBag) error {
	return nil
}
