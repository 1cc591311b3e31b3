package changehandler

import (
	"github.com/ether/uiflex-go/lib/models/change"
	"github.com/ether/uiflex-go/lib/modifier"
)

// PropertyBag carries what a handler needs besides the change and element.
type PropertyBag struct {
	Modifier       modifier.Modifier
	View           modifier.Element
	AppComponentID string
}

// SpecificInfo is the authoring-time input of a new change.
type SpecificInfo struct {
	ChangeType string         `json:"changeType" validate:"required"`
	Value      any            `json:"value,omitempty"`
	Property   string         `json:"property,omitempty"`
	Content    map[string]any `json:"content,omitempty"`
}

// Handler implements one change type. ApplyChange and RevertChange report a
// failure for this change only; callers keep processing other changes.
type Handler interface {
	ApplyChange(c *change.Change, element modifier.Element, bag PropertyBag) error
	RevertChange(c *change.Change, element modifier.Element, bag PropertyBag) error
	CompleteChangeContent(c *change.Change, info SpecificInfo, bag PropertyBag) error
}

// setPropertySnapshot stores the current value as revert data and writes the
// new one. The snapshot is dropped again when the write fails so a change
// without a successful apply never carries revert data.
func setPropertySnapshot(c *change.Change, element modifier.Element, bag PropertyBag, property string, value any) error {
	current, err := bag.Modifier.GetProperty(element, property)
	if err != nil {
		return err
	}
	c.SetRevertData(current)
	if err := bag.Modifier.SetProperty(element, property, value); err != nil {
		c.ResetRevertData()
		return err
	}
	return nil
}

func restoreProperty(c *change.Change, element modifier.Element, bag PropertyBag, property string) error {
	previous, ok := c.RevertData()
	if !ok {
		return revertDataMissing(c)
	}
	if err := bag.Modifier.SetProperty(element, property, previous); err != nil {
		return err
	}
	c.ResetRevertData()
	return nil
}
