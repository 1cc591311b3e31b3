package modifier

import (
	"fmt"

	"github.com/ether/uiflex-go/lib/control"
	"github.com/ether/uiflex-go/lib/exception"
	"github.com/ether/uiflex-go/lib/models/change"
)

// JSControlTreeModifier works on instantiated controls.
type JSControlTreeModifier struct {
	Registry *control.Registry
}

func NewJSControlTreeModifier(registry *control.Registry) *JSControlTreeModifier {
	return &JSControlTreeModifier{Registry: registry}
}

func (m *JSControlTreeModifier) Name() string {
	return "js"
}

func asControl(element Element) (*control.Control, error) {
	c, ok := element.(*control.Control)
	if !ok || c == nil {
		return nil, fmt.Errorf("%w: expected *control.Control, got %T", ErrWrongElement, element)
	}
	return c, nil
}

func (m *JSControlTreeModifier) BySelector(selector change.Selector, appComponentID string, view Element) (Element, error) {
	id, err := ControlIDBySelector(selector, appComponentID)
	if err != nil {
		return nil, exception.NewResolutionError(selector.ID, err)
	}
	if m.Registry != nil {
		if c, ok := m.Registry.ByID(id); ok {
			return c, nil
		}
	}
	if root, ok := view.(*control.Control); ok && root != nil {
		if c := root.FindByID(id); c != nil {
			return c, nil
		}
	}
	return nil, exception.NewResolutionError(id, nil)
}

func (m *JSControlTreeModifier) GetID(element Element) (string, error) {
	c, err := asControl(element)
	if err != nil {
		return "", err
	}
	return c.ID(), nil
}

func (m *JSControlTreeModifier) GetControlType(element Element) (string, error) {
	c, err := asControl(element)
	if err != nil {
		return "", err
	}
	return c.Type(), nil
}

func (m *JSControlTreeModifier) GetProperty(element Element, name string) (any, error) {
	c, err := asControl(element)
	if err != nil {
		return nil, err
	}
	return c.Property(name), nil
}

func (m *JSControlTreeModifier) SetProperty(element Element, name string, value any) error {
	c, err := asControl(element)
	if err != nil {
		return err
	}
	if IsBinding(value) {
		binding, err := control.CompileBinding(value.(string))
		if err != nil {
			return err
		}
		c.Bind(name, binding)
		return nil
	}
	c.SetProperty(name, value)
	return nil
}

func (m *JSControlTreeModifier) GetMarker(element Element) (string, error) {
	c, err := asControl(element)
	if err != nil {
		return "", err
	}
	value, _ := c.CustomData(AppliedChangesKey)
	return value, nil
}

func (m *JSControlTreeModifier) SetMarker(element Element, value string) error {
	c, err := asControl(element)
	if err != nil {
		return err
	}
	if value == "" {
		c.RemoveCustomData(AppliedChangesKey)
		return nil
	}
	c.SetCustomData(AppliedChangesKey, value)
	return nil
}

var _ Modifier = (*JSControlTreeModifier)(nil)
