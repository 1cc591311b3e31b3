package changehandler

import (
	"github.com/ether/uiflex-go/lib/exception"
	"github.com/ether/uiflex-go/lib/models/change"
	"github.com/ether/uiflex-go/lib/modifier"
)

const DefaultRenamePropertyName = "newText"

type RenameSettings struct {
	// PropertyName is the element property that gets renamed, e.g. "text".
	PropertyName string
	// ChangePropertyName is the key of the text in the change. Defaults to "newText".
	ChangePropertyName  string
	TranslationTextType string
}

type renameHandler struct {
	settings RenameSettings
}

func NewRenameHandler(settings RenameSettings) Handler {
	if settings.ChangePropertyName == "" {
		settings.ChangePropertyName = DefaultRenamePropertyName
	}
	return &renameHandler{settings: settings}
}

func (h *renameHandler) ApplyChange(c *change.Change, element modifier.Element, bag PropertyBag) error {
	text, ok := c.Text(h.settings.ChangePropertyName)
	if !ok {
		return insufficientContent(c)
	}
	return setPropertySnapshot(c, element, bag, h.settings.PropertyName, text.Value)
}

func (h *renameHandler) RevertChange(c *change.Change, element modifier.Element, bag PropertyBag) error {
	return restoreProperty(c, element, bag, h.settings.PropertyName)
}

func (h *renameHandler) CompleteChangeContent(c *change.Change, info SpecificInfo, bag PropertyBag) error {
	value, ok := info.Value.(string)
	if !ok {
		return exception.NewContentError("specificInfo.value attribute required")
	}
	if bag.Modifier != nil {
		target, err := bag.Modifier.BySelector(c.Selector(), bag.AppComponentID, bag.View)
		if err != nil {
			return err
		}
		controlType, err := bag.Modifier.GetControlType(target)
		if err != nil {
			return err
		}
		c.Content()["originalControlType"] = controlType
	}
	c.SetText(h.settings.ChangePropertyName, value, h.settings.TranslationTextType)
	return nil
}
