package changehandler

import (
	"github.com/ether/uiflex-go/lib/models/change"
	"github.com/ether/uiflex-go/lib/modifier"
)

const visibleProperty = "visible"

// Visibility toggles the visible property; HideControl and UnhideControl are
// its two instances.
type Visibility struct {
	Visible bool
}

var (
	HideControl   = Visibility{Visible: false}
	UnhideControl = Visibility{Visible: true}
)

func (v Visibility) ApplyChange(c *change.Change, element modifier.Element, bag PropertyBag) error {
	return setPropertySnapshot(c, element, bag, visibleProperty, v.Visible)
}

func (v Visibility) RevertChange(c *change.Change, element modifier.Element, bag PropertyBag) error {
	return restoreProperty(c, element, bag, visibleProperty)
}

func (v Visibility) CompleteChangeContent(*change.Change, SpecificInfo, PropertyBag) error {
	return nil
}
