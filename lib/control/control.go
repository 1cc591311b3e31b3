package control

import (
	"fmt"
	"sort"
)

type CustomData struct {
	Key   string
	Value string
}

// Control is a node of an instantiated element tree.
type Control struct {
	id          string
	controlType string
	properties  map[string]any
	bindings    map[string]*Binding
	customData  []CustomData

	aggregations     map[string][]*Control
	aggregationOrder []string
	parent           *Control
}

func NewControl(id, controlType string) *Control {
	return &Control{
		id:           id,
		controlType:  controlType,
		properties:   make(map[string]any),
		bindings:     make(map[string]*Binding),
		aggregations: make(map[string][]*Control),
	}
}

func (c *Control) ID() string {
	return c.id
}

func (c *Control) Type() string {
	return c.controlType
}

func (c *Control) Parent() *Control {
	return c.parent
}

// Property returns the static value, or the binding source when the property
// is bound. A property that was never set yields nil.
func (c *Control) Property(name string) any {
	if binding, ok := c.bindings[name]; ok {
		return binding.Source
	}
	return c.properties[name]
}

// SetProperty sets a static value and drops any binding on the property. A
// nil value clears the property.
func (c *Control) SetProperty(name string, value any) {
	delete(c.bindings, name)
	if value == nil {
		delete(c.properties, name)
		return
	}
	c.properties[name] = value
}

func (c *Control) Bind(name string, binding *Binding) {
	delete(c.properties, name)
	c.bindings[name] = binding
}

func (c *Control) Binding(name string) (*Binding, bool) {
	binding, ok := c.bindings[name]
	return binding, ok
}

// Resolved returns the effective value of a property: the evaluated binding
// when bound, the static value otherwise.
func (c *Control) Resolved(name string, models Models) (any, error) {
	if binding, ok := c.bindings[name]; ok {
		return binding.Evaluate(models)
	}
	return c.properties[name], nil
}

// PropertyNames lists set and bound properties in lexical order.
func (c *Control) PropertyNames() []string {
	names := make([]string, 0, len(c.properties)+len(c.bindings))
	for name := range c.properties {
		names = append(names, name)
	}
	for name := range c.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Control) CustomData(key string) (string, bool) {
	for _, data := range c.customData {
		if data.Key == key {
			return data.Value, true
		}
	}
	return "", false
}

func (c *Control) SetCustomData(key, value string) {
	for i, data := range c.customData {
		if data.Key == key {
			c.customData[i].Value = value
			return
		}
	}
	c.customData = append(c.customData, CustomData{Key: key, Value: value})
}

func (c *Control) RemoveCustomData(key string) {
	for i, data := range c.customData {
		if data.Key == key {
			c.customData = append(c.customData[:i], c.customData[i+1:]...)
			return
		}
	}
}

func (c *Control) AllCustomData() []CustomData {
	out := make([]CustomData, len(c.customData))
	copy(out, c.customData)
	return out
}

func (c *Control) AddAggregation(name string, child *Control) error {
	if child.parent != nil {
		return fmt.Errorf("control %s already has a parent %s", child.id, child.parent.id)
	}
	if _, ok := c.aggregations[name]; !ok {
		c.aggregationOrder = append(c.aggregationOrder, name)
	}
	c.aggregations[name] = append(c.aggregations[name], child)
	child.parent = c
	return nil
}

func (c *Control) Aggregation(name string) []*Control {
	return c.aggregations[name]
}

// Walk visits c and its descendants depth first until fn returns false.
func (c *Control) Walk(fn func(*Control) bool) bool {
	if !fn(c) {
		return false
	}
	for _, name := range c.aggregationOrder {
		for _, child := range c.aggregations[name] {
			if !child.Walk(fn) {
				return false
			}
		}
	}
	return true
}

func (c *Control) FindByID(id string) *Control {
	var found *Control
	c.Walk(func(candidate *Control) bool {
		if candidate.id == id {
			found = candidate
			return false
		}
		return true
	})
	return found
}
