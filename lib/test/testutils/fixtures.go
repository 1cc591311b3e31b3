package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/ether/uiflex-go/lib/models/change"
	"github.com/ether/uiflex-go/lib/models/variant"
)

const (
	Reference   = "my.app"
	ComponentID = "comp"
	ViewID      = "comp---view"
)

const XMLView = `<mvc:View id="comp---view" xmlns:mvc="sap.ui.core.mvc" xmlns="sap.m">
	<Label id="label" text="initial"/>
	<Button id="button" text="Press"/>
</mvc:View>`

// GenerateRenameChange returns a stored rename of a control of XMLView.
func GenerateRenameChange(localID, text string, layer change.Layer) change.Definition {
	return change.Definition{
		FileName:   "id_" + gofakeit.UUID(),
		FileType:   "change",
		Namespace:  "apps/" + Reference + "/changes/",
		Reference:  Reference,
		Layer:      layer,
		ChangeType: "rename",
		Selector:   change.Selector{ID: "view--" + localID, IDIsLocal: true},
		Texts:      map[string]change.Text{"newText": {Value: text, Type: "XFLD"}},
		Support:    change.Support{Generator: "test", User: gofakeit.Username()},
		Creation:   gofakeit.DateRange(time.Now().AddDate(-1, 0, 0), time.Now()).UTC().Format(time.RFC3339Nano),
	}
}

func VariantSet() variant.SelectionSet {
	return variant.SelectionSet{
		"vm1": {DefaultVariant: "vm1", Variants: []variant.Variant{
			{Key: "vm1", Title: "Standard", Visible: true},
			{Key: "v1", Title: gofakeit.Word(), Author: gofakeit.Name(), Layer: change.USER, Visible: true},
		}},
		"vm2": {DefaultVariant: "vm2", Variants: []variant.Variant{
			{Key: "vm2", Title: "Standard", Visible: true},
			{Key: "v2", Title: gofakeit.Word(), Author: gofakeit.Name(), Layer: change.CUSTOMER, Visible: true},
		}},
	}
}
