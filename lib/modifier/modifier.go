// Package modifier gives change handlers one way to read and write element
// trees, whether the tree is a live control tree or a parsed markup view.
package modifier

import (
	"errors"
	"strings"

	"github.com/ether/uiflex-go/lib/control"
	"github.com/ether/uiflex-go/lib/models/change"
)

// AppliedChangesKey is the custom data key of the applied-changes marker.
const AppliedChangesKey = "sap.ui.fl.appliedChanges"

// ComponentSeparator joins an app component id and a local control id.
const ComponentSeparator = "---"

var (
	ErrWrongElement        = errors.New("element does not belong to this modifier")
	ErrAppComponentMissing = errors.New("an app component id is required to resolve a local selector")
)

// Element is a node of whichever tree a Modifier works on.
type Element any

type Modifier interface {
	// BySelector resolves selector within view. It returns a
	// *exception.ResolutionError when nothing matches.
	BySelector(selector change.Selector, appComponentID string, view Element) (Element, error)
	GetID(element Element) (string, error)
	GetControlType(element Element) (string, error)
	GetProperty(element Element, name string) (any, error)
	// SetProperty installs value as a binding when it uses binding syntax.
	// A nil value removes the property.
	SetProperty(element Element, name string, value any) error
	GetMarker(element Element) (string, error)
	// SetMarker writes the marker; an empty value detaches it.
	SetMarker(element Element, value string) error
	Name() string
}

func IsBinding(value any) bool {
	s, ok := value.(string)
	return ok && control.IsBinding(s)
}

// ControlIDBySelector returns the full id a selector points to.
func ControlIDBySelector(selector change.Selector, appComponentID string) (string, error) {
	if !selector.IDIsLocal {
		return selector.ID, nil
	}
	if appComponentID == "" {
		return "", ErrAppComponentMissing
	}
	return appComponentID + ComponentSeparator + selector.ID, nil
}

// SelectorForID builds the selector stored in a new change. Ids that carry the
// app component prefix are stored local to it.
func SelectorForID(id, appComponentID string) change.Selector {
	prefix := appComponentID + ComponentSeparator
	if appComponentID != "" && strings.HasPrefix(id, prefix) {
		return change.Selector{ID: strings.TrimPrefix(id, prefix), IDIsLocal: true}
	}
	return change.Selector{ID: id}
}
