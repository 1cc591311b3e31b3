package changehandler

import (
	"github.com/ether/uiflex-go/lib/exception"
	"github.com/ether/uiflex-go/lib/models/change"
	"github.com/ether/uiflex-go/lib/modifier"
)

// PropertyChange sets an arbitrary property to content.newValue. Binding
// strings are installed as bindings by the modifier.
type PropertyChange struct{}

func (PropertyChange) ApplyChange(c *change.Change, element modifier.Element, bag PropertyBag) error {
	property, _ := c.Content()["property"].(string)
	value, ok := c.Content()["newValue"]
	if property == "" || !ok {
		return insufficientContent(c)
	}
	return setPropertySnapshot(c, element, bag, property, value)
}

func (PropertyChange) RevertChange(c *change.Change, element modifier.Element, bag PropertyBag) error {
	property, _ := c.Content()["property"].(string)
	if property == "" {
		return insufficientContent(c)
	}
	return restoreProperty(c, element, bag, property)
}

func (PropertyChange) CompleteChangeContent(c *change.Change, info SpecificInfo, _ PropertyBag) error {
	if info.Property == "" {
		return exception.NewContentError("specificInfo.property attribute required")
	}
	if info.Value == nil {
		return exception.NewContentError("specificInfo.value attribute required")
	}
	c.Content()["property"] = info.Property
	c.Content()["newValue"] = info.Value
	return nil
}
