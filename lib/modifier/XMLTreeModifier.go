package modifier

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/ether/uiflex-go/lib/exception"
	"github.com/ether/uiflex-go/lib/models/change"
	"github.com/ether/uiflex-go/lib/xmlview"
)

const (
	CoreNamespace       = "sap.ui.core"
	customDataAggregate = "customData"
	customDataElement   = "CustomData"
	viewIDSeparator     = "--"
)

// XMLTreeModifier works on markup views before they are instantiated. Values
// are stored as attribute strings; binding strings are kept verbatim since
// the markup already is the binding's serialized form.
type XMLTreeModifier struct{}

func NewXMLTreeModifier() *XMLTreeModifier {
	return &XMLTreeModifier{}
}

func (m *XMLTreeModifier) Name() string {
	return "xml"
}

func asNode(element Element) (*xmlview.Node, error) {
	n, ok := element.(*xmlview.Node)
	if !ok || n == nil || n.Kind != xmlview.ElementNode {
		return nil, fmt.Errorf("%w: expected element *xmlview.Node, got %T", ErrWrongElement, element)
	}
	return n, nil
}

func (m *XMLTreeModifier) BySelector(selector change.Selector, appComponentID string, view Element) (Element, error) {
	id, err := ControlIDBySelector(selector, appComponentID)
	if err != nil {
		return nil, exception.NewResolutionError(selector.ID, err)
	}
	scope, ok := view.(*xmlview.Node)
	if !ok || scope == nil {
		return nil, exception.NewResolutionError(id, ErrWrongElement)
	}
	root := scope.Root()
	if root == nil {
		return nil, exception.NewResolutionError(id, xmlview.ErrNoRootElement)
	}
	viewID := root.ID()
	found := root.Find(func(n *xmlview.Node) bool {
		nodeID := n.ID()
		if nodeID == "" {
			return false
		}
		return nodeID == id || (viewID != "" && n != root && viewID+viewIDSeparator+nodeID == id)
	})
	if found == nil {
		return nil, exception.NewResolutionError(id, nil)
	}
	return found, nil
}

// GetID returns the id as the instantiated control would carry it.
func (m *XMLTreeModifier) GetID(element Element) (string, error) {
	n, err := asNode(element)
	if err != nil {
		return "", err
	}
	root := n.Root()
	if root == nil || root == n || root.ID() == "" {
		return n.ID(), nil
	}
	return root.ID() + viewIDSeparator + n.ID(), nil
}

func (m *XMLTreeModifier) GetControlType(element Element) (string, error) {
	n, err := asNode(element)
	if err != nil {
		return "", err
	}
	return n.QualifiedType(), nil
}

func (m *XMLTreeModifier) GetProperty(element Element, name string) (any, error) {
	n, err := asNode(element)
	if err != nil {
		return nil, err
	}
	value, ok := n.Attr(name)
	if !ok {
		return nil, nil
	}
	return value, nil
}

func (m *XMLTreeModifier) SetProperty(element Element, name string, value any) error {
	n, err := asNode(element)
	if err != nil {
		return err
	}
	if value == nil {
		n.RemoveAttr(name)
		return nil
	}
	n.SetAttr(name, stringify(value))
	return nil
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func (m *XMLTreeModifier) markerNode(n *xmlview.Node) (aggregation, data *xmlview.Node) {
	aggregation = n.ChildElement(n.Space, customDataAggregate)
	if aggregation == nil {
		return nil, nil
	}
	for _, child := range aggregation.ElementChildren() {
		if child.Space != CoreNamespace || child.Local != customDataElement {
			continue
		}
		if key, _ := child.Attr("key"); key == AppliedChangesKey {
			return aggregation, child
		}
	}
	return aggregation, nil
}

func (m *XMLTreeModifier) GetMarker(element Element) (string, error) {
	n, err := asNode(element)
	if err != nil {
		return "", err
	}
	_, data := m.markerNode(n)
	if data == nil {
		return "", nil
	}
	value, _ := data.Attr("value")
	return value, nil
}

func (m *XMLTreeModifier) SetMarker(element Element, value string) error {
	n, err := asNode(element)
	if err != nil {
		return err
	}
	aggregation, data := m.markerNode(n)
	if value == "" {
		if data != nil {
			aggregation.RemoveChild(data)
			if len(aggregation.ElementChildren()) == 0 {
				n.RemoveChild(aggregation)
			}
		}
		return nil
	}
	if data != nil {
		data.SetAttr("value", value)
		return nil
	}
	if aggregation == nil {
		aggregation = xmlview.NewElement(n.Prefix, customDataAggregate, n.Space)
		n.AppendChild(aggregation)
	}
	data = xmlview.NewElement("", customDataElement, CoreNamespace)
	aggregation.AppendChild(data)
	prefix, ok := aggregation.LookupPrefix(CoreNamespace)
	if ok {
		if bound, _ := data.LookupNamespace(prefix); bound != CoreNamespace {
			ok = false
		}
	}
	if !ok {
		prefix = "core"
		data.Attrs = append(data.Attrs, xml.Attr{Name: xml.Name{Space: "xmlns", Local: prefix}, Value: CoreNamespace})
	}
	data.Prefix = prefix
	data.SetAttr("key", AppliedChangesKey)
	data.SetAttr("value", value)
	return nil
}

var _ Modifier = (*XMLTreeModifier)(nil)
